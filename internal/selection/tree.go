package selection

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CheckState is the tri-state check status of a tree node.
type CheckState int

const (
	Unchecked CheckState = iota
	Checked
	Mixed
)

func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Mixed:
		return "mixed"
	default:
		return "unchecked"
	}
}

// Directories that are never worth offering for prompt inclusion.
var ignoredDirs = map[string]bool{
	"node_modules":  true,
	"vendor":        true,
	"__pycache__":   true,
	".git":          true,
	".hg":           true,
	".svn":          true,
	".idea":         true,
	".vscode":       true,
	"dist":          true,
	"build":         true,
	"target":        true,
	".venv":         true,
	"venv":          true,
	".pytest_cache": true,
	".mypy_cache":   true,
}

// Node is a single filesystem entry in the arena. Parent is a non-owning
// back-index (-1 for the root); Children holds owning indices into the
// same arena.
type Node struct {
	Path     string // absolute path
	Rel      string // path relative to the tree root ("." for the root)
	Name     string
	IsDir    bool
	Depth    int
	Parent   int
	Children []int
	Eligible bool // file with an allow-listed extension
}

// Tree is a snapshot of a filesystem subtree with a tri-state selection
// over its eligible leaves. Directory state is never stored; it is derived
// from descendant leaves on demand.
type Tree struct {
	Root    string
	nodes   []Node
	checked map[int]struct{}
	exts    map[string]bool
}

// Scan builds a tree rooted at dir. Every regular file appears as a leaf;
// only files whose extension is in the allow-list (case-insensitive,
// without the dot) are eligible for selection.
func Scan(dir string, extensions []string) (*Tree, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", abs)
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	t := &Tree{
		Root:    abs,
		checked: make(map[int]struct{}),
		exts:    exts,
	}
	t.nodes = append(t.nodes, Node{
		Path:   abs,
		Rel:    ".",
		Name:   filepath.Base(abs),
		IsDir:  true,
		Parent: -1,
	})
	t.scanDir(0)
	return t, nil
}

// scanDir loads the children of the directory node at index parent.
// Unreadable directories simply end up empty; selection must stay usable
// on partially readable trees.
func (t *Tree) scanDir(parent int) {
	entries, err := os.ReadDir(t.nodes[parent].Path)
	if err != nil {
		return
	}

	// Directories first, then files, each alphabetical.
	sort.Slice(entries, func(i, j int) bool {
		iDir := entries[i].IsDir()
		jDir := entries[j].IsDir()
		if iDir != jDir {
			return iDir
		}
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != ".env" && name != ".gitignore" {
			continue
		}
		isSymlink := entry.Type()&os.ModeSymlink != 0
		isDir := entry.IsDir() && !isSymlink
		if isDir && ignoredDirs[name] {
			continue
		}
		if !isDir && !entry.Type().IsRegular() {
			continue
		}

		rel := name
		if t.nodes[parent].Rel != "." {
			rel = filepath.Join(t.nodes[parent].Rel, name)
		}

		idx := len(t.nodes)
		t.nodes = append(t.nodes, Node{
			Path:     filepath.Join(t.nodes[parent].Path, name),
			Rel:      rel,
			Name:     name,
			IsDir:    isDir,
			Depth:    t.nodes[parent].Depth + 1,
			Parent:   parent,
			Eligible: !isDir && t.eligible(name),
		})
		t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
		if isDir {
			t.scanDir(idx)
		}
	}
}

func (t *Tree) eligible(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	return t.exts[ext]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node at index i.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// RelPath returns the root-relative path of node i, used to label output
// sections.
func (t *Tree) RelPath(i int) string { return t.nodes[i].Rel }

// SetChecked sets the selection state of node i. For an eligible leaf it
// toggles membership directly; for a directory it applies the same value to
// every descendant eligible leaf. Ineligible leaves are ignored.
func (t *Tree) SetChecked(i int, checked bool) {
	n := t.nodes[i]
	if !n.IsDir {
		if !n.Eligible {
			return
		}
		if checked {
			t.checked[i] = struct{}{}
		} else {
			delete(t.checked, i)
		}
		return
	}
	for _, child := range n.Children {
		t.SetChecked(child, checked)
	}
}

// IsChecked reports whether node i is fully checked.
func (t *Tree) IsChecked(i int) bool { return t.State(i) == Checked }

// State returns the tri-state status of node i. A directory's state is an
// aggregate over its descendant eligible leaves: all checked means Checked,
// none means Unchecked, anything in between means Mixed. A directory with
// no eligible descendant leaves is Unchecked.
func (t *Tree) State(i int) CheckState {
	n := t.nodes[i]
	if !n.IsDir {
		if _, ok := t.checked[i]; ok {
			return Checked
		}
		return Unchecked
	}

	total, checked := t.countLeaves(i)
	if total == 0 {
		return Unchecked
	}
	switch checked {
	case total:
		return Checked
	case 0:
		return Unchecked
	default:
		return Mixed
	}
}

func (t *Tree) countLeaves(i int) (total, checked int) {
	for _, child := range t.nodes[i].Children {
		n := t.nodes[child]
		if n.IsDir {
			ct, cc := t.countLeaves(child)
			total += ct
			checked += cc
			continue
		}
		if !n.Eligible {
			continue
		}
		total++
		if _, ok := t.checked[child]; ok {
			checked++
		}
	}
	return total, checked
}

// Leaves returns the indices of every eligible leaf in depth-first order.
func (t *Tree) Leaves() []int {
	var leaves []int
	t.walkLeaves(0, &leaves)
	return leaves
}

func (t *Tree) walkLeaves(i int, out *[]int) {
	for _, child := range t.nodes[i].Children {
		n := t.nodes[child]
		if n.IsDir {
			t.walkLeaves(child, out)
		} else if n.Eligible {
			*out = append(*out, child)
		}
	}
}

// SelectedLeaves returns the checked eligible leaves in tree order.
func (t *Tree) SelectedLeaves() []int {
	var selected []int
	for _, i := range t.Leaves() {
		if _, ok := t.checked[i]; ok {
			selected = append(selected, i)
		}
	}
	return selected
}

// SelectedPaths returns the absolute paths of the checked leaves, for
// assembly and file watching.
func (t *Tree) SelectedPaths() []string {
	leaves := t.SelectedLeaves()
	paths := make([]string, 0, len(leaves))
	for _, i := range leaves {
		paths = append(paths, t.nodes[i].Path)
	}
	return paths
}

// SelectAll checks every eligible leaf.
func (t *Tree) SelectAll() {
	for _, i := range t.Leaves() {
		t.SetChecked(i, true)
	}
}

// DeselectAll clears the selection set.
func (t *Tree) DeselectAll() {
	for _, i := range t.Leaves() {
		t.SetChecked(i, false)
	}
}

// SelectedCount returns the number of checked leaves.
func (t *Tree) SelectedCount() int { return len(t.checked) }
