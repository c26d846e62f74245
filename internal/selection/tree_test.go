package selection

import (
	"os"
	"path/filepath"
	"testing"
)

var testExts = []string{"py", "go", "md"}

// writeTree creates files under root; keys are relative paths, directories
// are created as needed.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte("content\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func scanTest(t *testing.T, root string) *Tree {
	t.Helper()
	tree, err := Scan(root, testExts)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return tree
}

// findNode locates a node by root-relative path.
func findNode(t *testing.T, tree *Tree, rel string) int {
	t.Helper()
	for i := 0; i < tree.Len(); i++ {
		if tree.Node(i).Rel == rel {
			return i
		}
	}
	t.Fatalf("node not found: %s", rel)
	return -1
}

func selectedRels(tree *Tree) []string {
	var rels []string
	for _, i := range tree.SelectedLeaves() {
		rels = append(rels, tree.RelPath(i))
	}
	return rels
}

func TestScanRejectsFile(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "a.py")
	if _, err := Scan(filepath.Join(tmp, "a.py"), testExts); err == nil {
		t.Fatal("expected error scanning a file as root")
	}
}

func TestLeavesFilterByExtension(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "a.py", "b.PY", "image.png", "binary", "sub/c.go")

	tree := scanTest(t, tmp)

	got := make(map[string]bool)
	for _, i := range tree.Leaves() {
		got[tree.RelPath(i)] = true
	}

	for _, want := range []string{"a.py", "b.PY", filepath.Join("sub", "c.go")} {
		if !got[want] {
			t.Errorf("expected leaf %s", want)
		}
	}
	if got["image.png"] || got["binary"] {
		t.Error("ineligible files must never be yielded as leaves")
	}

	// Ineligible files still appear in the tree itself.
	png := findNode(t, tree, "image.png")
	if tree.Node(png).Eligible {
		t.Error("png should not be eligible")
	}
}

func TestSetCheckedIgnoresIneligibleLeaf(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "a.py", "image.png")

	tree := scanTest(t, tmp)
	tree.SetChecked(findNode(t, tree, "image.png"), true)

	if tree.SelectedCount() != 0 {
		t.Fatalf("expected empty selection, got %d", tree.SelectedCount())
	}
}

func TestDirectoryToggleEqualsLeafwiseToggle(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "proj/a.py", "proj/b.py", "proj/sub/c.py")

	tmp2 := t.TempDir()
	writeTree(t, tmp2, "proj/a.py", "proj/b.py", "proj/sub/c.py")

	byDir := scanTest(t, tmp)
	byDir.SetChecked(findNode(t, byDir, "proj"), true)

	byLeaf := scanTest(t, tmp2)
	for _, i := range byLeaf.Leaves() {
		byLeaf.SetChecked(i, true)
	}

	if got := byDir.State(findNode(t, byDir, "proj")); got != Checked {
		t.Fatalf("directory toggle: proj state = %v, want checked", got)
	}
	if got := byLeaf.State(findNode(t, byLeaf, "proj")); got != Checked {
		t.Fatalf("leafwise toggle: proj state = %v, want checked", got)
	}
	if len(byDir.SelectedLeaves()) != len(byLeaf.SelectedLeaves()) {
		t.Fatal("directory and leafwise toggles must select the same leaves")
	}
}

func TestUncheckingOneLeafFlipsAncestors(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "proj/a.py", "proj/sub/b.py", "proj/sub/c.py")

	tree := scanTest(t, tmp)
	tree.SelectAll()

	proj := findNode(t, tree, "proj")
	sub := findNode(t, tree, filepath.Join("proj", "sub"))
	if tree.State(proj) != Checked || tree.State(sub) != Checked {
		t.Fatal("expected everything checked after SelectAll")
	}

	tree.SetChecked(findNode(t, tree, filepath.Join("proj", "sub", "b.py")), false)

	if got := tree.State(sub); got != Mixed {
		t.Errorf("sub state = %v, want mixed", got)
	}
	if got := tree.State(proj); got != Mixed {
		t.Errorf("proj state = %v, want mixed", got)
	}
	if tree.State(0) != Mixed {
		t.Errorf("root state = %v, want mixed", tree.State(0))
	}
}

func TestBulkOperationsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "a.py", "b.go", "sub/c.md", "sub/skip.png")

	tree := scanTest(t, tmp)
	tree.SelectAll()
	want := selectedRels(tree)

	tree.DeselectAll()
	if tree.SelectedCount() != 0 {
		t.Fatalf("expected empty selection after DeselectAll, got %d", tree.SelectedCount())
	}

	tree.SelectAll()
	got := selectedRels(tree)

	if len(got) != len(want) {
		t.Fatalf("selection changed across deselect/select cycle: %v vs %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("selection changed across deselect/select cycle: %v vs %v", got, want)
		}
	}
}

func TestDirectoryWithoutEligibleLeaves(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "docs/image.png", "nested/deeper/another.bin", "a.py")

	tree := scanTest(t, tmp)
	docs := findNode(t, tree, "docs")
	nested := findNode(t, tree, "nested")

	// 0/0 guard: no eligible leaves means unchecked, and toggling is a no-op.
	if got := tree.State(docs); got != Unchecked {
		t.Errorf("docs state = %v, want unchecked", got)
	}
	tree.SetChecked(docs, true)
	tree.SetChecked(nested, true)
	if tree.SelectedCount() != 0 {
		t.Fatal("toggling leafless directories must not change the selection")
	}
	if tree.State(0) != Unchecked {
		t.Fatalf("root state = %v, want unchecked", tree.State(0))
	}
}

func TestRescanClearsSelection(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "a.py", "b.py")

	tree := scanTest(t, tmp)
	tree.SelectAll()
	if tree.SelectedCount() == 0 {
		t.Fatal("expected selection")
	}

	other := t.TempDir()
	writeTree(t, other, "c.py")

	// Changing the base directory means building a fresh tree; the old
	// selection cannot carry over.
	tree = scanTest(t, other)
	if tree.SelectedCount() != 0 {
		t.Fatalf("fresh tree must start unselected, got %d", tree.SelectedCount())
	}
}

func TestMixedExample(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "proj/a.py", "proj/b.py", "proj/sub/c.py")

	tree := scanTest(t, tmp)
	tree.SetChecked(findNode(t, tree, filepath.Join("proj", "a.py")), true)
	tree.SetChecked(findNode(t, tree, filepath.Join("proj", "sub", "c.py")), true)

	if got := tree.State(findNode(t, tree, "proj")); got != Mixed {
		t.Errorf("proj state = %v, want mixed", got)
	}
	if got := tree.State(findNode(t, tree, filepath.Join("proj", "sub"))); got != Checked {
		t.Errorf("proj/sub state = %v, want checked", got)
	}

	got := make(map[string]bool)
	for _, rel := range selectedRels(tree) {
		got[rel] = true
	}
	want := []string{filepath.Join("proj", "a.py"), filepath.Join("proj", "sub", "c.py")}
	if len(got) != len(want) {
		t.Fatalf("selected = %v, want %v", got, want)
	}
	for _, rel := range want {
		if !got[rel] {
			t.Fatalf("selected set missing %s", rel)
		}
	}
}

func TestIgnoredDirsPruned(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, "node_modules/pkg/index.js", ".git/config", "a.py")

	tree := scanTest(t, tmp)
	for i := 0; i < tree.Len(); i++ {
		name := tree.Node(i).Name
		if name == "node_modules" || name == ".git" {
			t.Fatalf("%s should be pruned from the tree", name)
		}
	}
}
