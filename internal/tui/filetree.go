package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tormodhaugland/pb/internal/selection"
)

var (
	treeCursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("212")).
			Bold(true)
	treeCheckedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	treeMixedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	treeDirStyle     = lipgloss.NewStyle().Bold(true)
	treeDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// fileTree is the left-pane view over a selection.Tree: cursor movement,
// expand/collapse, and rendering. Check state lives in the model; expansion
// is purely a display concern and lives here.
type fileTree struct {
	tree     *selection.Tree
	expanded map[int]bool
	visible  []int // node indices currently shown, in display order
	cursor   int   // index into visible
	scroll   int
}

func newFileTree(tree *selection.Tree) *fileTree {
	ft := &fileTree{
		tree:     tree,
		expanded: map[int]bool{0: true},
	}
	ft.flatten()
	return ft
}

// flatten rebuilds the visible list from the expansion state.
func (ft *fileTree) flatten() {
	ft.visible = ft.visible[:0]
	ft.appendVisible(0)
	if ft.cursor >= len(ft.visible) {
		ft.cursor = len(ft.visible) - 1
	}
	if ft.cursor < 0 {
		ft.cursor = 0
	}
}

func (ft *fileTree) appendVisible(i int) {
	ft.visible = append(ft.visible, i)
	n := ft.tree.Node(i)
	if n.IsDir && ft.expanded[i] {
		for _, child := range n.Children {
			ft.appendVisible(child)
		}
	}
}

// current returns the node index under the cursor.
func (ft *fileTree) current() int {
	if len(ft.visible) == 0 {
		return -1
	}
	return ft.visible[ft.cursor]
}

func (ft *fileTree) moveDown() {
	if ft.cursor < len(ft.visible)-1 {
		ft.cursor++
	}
}

func (ft *fileTree) moveUp() {
	if ft.cursor > 0 {
		ft.cursor--
	}
}

func (ft *fileTree) moveTop() {
	ft.cursor = 0
	ft.scroll = 0
}

func (ft *fileTree) moveBottom() {
	if len(ft.visible) > 0 {
		ft.cursor = len(ft.visible) - 1
	}
}

// setExpanded expands or collapses the directory under the cursor.
func (ft *fileTree) setExpanded(expand bool) {
	i := ft.current()
	if i < 0 || !ft.tree.Node(i).IsDir {
		return
	}
	ft.expanded[i] = expand
	ft.flatten()
}

// ensureVisible adjusts the scroll offset so the cursor stays inside a
// window of the given height.
func (ft *fileTree) ensureVisible(height int) {
	if height < 1 {
		height = 1
	}
	if ft.cursor < ft.scroll {
		ft.scroll = ft.cursor
	} else if ft.cursor >= ft.scroll+height {
		ft.scroll = ft.cursor - height + 1
	}
}

// render draws the visible window of the tree.
func (ft *fileTree) render(height int) string {
	ft.ensureVisible(height)

	var sb strings.Builder
	end := ft.scroll + height
	if end > len(ft.visible) {
		end = len(ft.visible)
	}
	for vi := ft.scroll; vi < end; vi++ {
		sb.WriteString(ft.renderLine(ft.visible[vi], vi == ft.cursor))
		sb.WriteString("\n")
	}
	if len(ft.visible) > height {
		sb.WriteString(treeDimStyle.Render(fmt.Sprintf("(%d/%d)", ft.cursor+1, len(ft.visible))))
	}
	return sb.String()
}

func (ft *fileTree) renderLine(i int, underCursor bool) string {
	n := ft.tree.Node(i)
	indent := strings.Repeat("  ", n.Depth)

	var icon string
	switch {
	case n.IsDir && ft.expanded[i]:
		icon = "▼ "
	case n.IsDir:
		icon = "▶ "
	default:
		icon = "  "
	}

	state := ft.tree.State(i)
	var marker string
	switch {
	case !n.IsDir && !n.Eligible:
		marker = "    "
	case state == selection.Checked:
		marker = "[x] "
	case state == selection.Mixed:
		marker = "[~] "
	default:
		marker = "[ ] "
	}

	name := n.Name
	if n.IsDir {
		name = treeDirStyle.Render(name + "/")
	}

	line := indent + marker + icon + name
	switch {
	case underCursor:
		return treeCursorStyle.Render(line)
	case !n.IsDir && !n.Eligible:
		return treeDimStyle.Render(line)
	case state == selection.Checked:
		return treeCheckedStyle.Render(line)
	case state == selection.Mixed:
		return treeMixedStyle.Render(line)
	default:
		return line
	}
}
