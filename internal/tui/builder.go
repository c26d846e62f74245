package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/tormodhaugland/pb/internal/blocks"
	"github.com/tormodhaugland/pb/internal/config"
	"github.com/tormodhaugland/pb/internal/prompt"
	"github.com/tormodhaugland/pb/internal/selection"
	"github.com/tormodhaugland/pb/internal/watch"
	"go.uber.org/zap"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	offStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	easyStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	moderateStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	hardStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	paneStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	activePaneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("212")).Padding(0, 1)
)

type focusArea int

const (
	focusTree focusArea = iota
	focusInstruction
	focusPreview
)

// fileChangedMsg is an advisory notification that a selected file changed
// on disk; the document is recomputed, nothing else.
type fileChangedMsg struct{}

type builderModel struct {
	cfg    *config.Config
	logger *zap.Logger

	tree    *selection.Tree
	ft      *fileTree
	watcher *watch.Watcher

	presets   *blocks.Library
	tasktypes *blocks.Library

	presetIdx       int
	tasktypeIdx     int
	includePreset   bool
	includeTasktype bool

	instruction textarea.Model
	preview     viewport.Model
	focus       focusArea

	picking  bool // directory prompt active
	dirInput textinput.Model
	dirErr   string

	accepted bool // quit via enter: caller may emit the document

	doc     prompt.Document
	tokens  int
	message string

	width  int
	height int
}

func newBuilderModel(cfg *config.Config, logger *zap.Logger, tree *selection.Tree, presets, tasktypes *blocks.Library, watcher *watch.Watcher) builderModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Task instruction (raw prompt)"
	ta.CharLimit = 0

	di := textinput.New()
	di.Placeholder = "/path/to/project"
	di.CharLimit = 0
	di.Width = 50

	m := builderModel{
		cfg:             cfg,
		logger:          logger,
		tree:            tree,
		watcher:         watcher,
		presets:         presets,
		tasktypes:       tasktypes,
		includePreset:   true,
		includeTasktype: true,
		instruction:     ta,
		preview:         viewport.New(60, 10),
		dirInput:        di,
	}
	if tree != nil {
		m.ft = newFileTree(tree)
	} else {
		m.picking = true
		m.dirInput.Focus()
	}
	m.reassemble()
	return m
}

func (m builderModel) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange turns the watcher channel into a tea message. Re-armed
// after each delivery.
func (m builderModel) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Changes
	return func() tea.Msg {
		if _, ok := <-ch; ok {
			return fileChangedMsg{}
		}
		return nil
	}
}

// reassemble recomputes the document from the current selection and
// settings, refreshes the preview, and re-points the watcher at the
// selected files.
func (m *builderModel) reassemble() {
	req := prompt.Request{
		Instruction:     m.instruction.Value(),
		IncludeTaskType: m.includeTasktype,
		IncludePreset:   m.includePreset,
	}
	if b, ok := m.currentBlock(m.tasktypes, m.tasktypeIdx); ok {
		req.TaskTypeName = b.Name
		req.TaskTypeBody = b.Body
	}
	if b, ok := m.currentBlock(m.presets, m.presetIdx); ok {
		req.PresetName = b.Name
		req.PresetBody = b.Body
	}
	if m.tree != nil {
		req.Root = m.tree.Root
		for _, i := range m.tree.SelectedLeaves() {
			req.Files = append(req.Files, m.tree.RelPath(i))
		}
	}

	m.doc = prompt.Assemble(req, m.logger)
	m.tokens = prompt.EstimateTokens(m.doc.Text, m.cfg.TokensPerWord)
	m.preview.SetContent(m.doc.Text)

	if m.watcher != nil && m.tree != nil {
		m.watcher.SetPaths(m.tree.SelectedPaths())
	}
}

func (m *builderModel) currentBlock(lib *blocks.Library, idx int) (blocks.Block, bool) {
	names := lib.Names()
	if len(names) == 0 || idx >= len(names) {
		return blocks.Block{}, false
	}
	return lib.Get(names[idx])
}

// setRoot switches the base directory: fresh tree, empty selection,
// persisted last directory.
func (m *builderModel) setRoot(dir string) error {
	tree, err := selection.Scan(dir, m.cfg.Extensions)
	if err != nil {
		return err
	}
	m.tree = tree
	m.ft = newFileTree(tree)
	if err := config.SaveLastDir(tree.Root); err != nil {
		m.logger.Warn("cannot save last directory", zap.Error(err))
	}
	m.reassemble()
	return nil
}

func (m builderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.instruction.SetWidth(m.rightWidth() - 4)
		m.instruction.SetHeight(m.instructionHeight())
		m.preview.Width = m.rightWidth() - 4
		m.preview.Height = m.previewHeight()
		return m, nil

	case fileChangedMsg:
		m.reassemble()
		return m, m.waitForChange()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.picking {
			return m.updateDirPrompt(msg)
		}
		switch m.focus {
		case focusInstruction:
			return m.updateInstruction(msg)
		case focusPreview:
			return m.updatePreview(msg)
		default:
			return m.updateTree(msg)
		}
	}
	return m, nil
}

func (m builderModel) updateDirPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.tree == nil {
			return m, tea.Quit
		}
		m.picking = false
		m.dirErr = ""
		m.dirInput.Blur()
		return m, nil

	case "enter":
		dir := strings.TrimSpace(m.dirInput.Value())
		if dir == "" {
			m.dirErr = "directory is required"
			return m, nil
		}
		if err := m.setRoot(dir); err != nil {
			m.dirErr = err.Error()
			return m, nil
		}
		m.picking = false
		m.dirErr = ""
		m.dirInput.Blur()
		m.message = fmt.Sprintf("Base directory: %s", m.tree.Root)
		return m, nil
	}

	var cmd tea.Cmd
	m.dirInput, cmd = m.dirInput.Update(msg)
	return m, cmd
}

func (m builderModel) updateInstruction(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab":
		m.focus = focusPreview
		m.instruction.Blur()
		return m, nil
	}

	before := m.instruction.Value()
	var cmd tea.Cmd
	m.instruction, cmd = m.instruction.Update(msg)
	if m.instruction.Value() != before {
		m.reassemble()
	}
	return m, cmd
}

func (m builderModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		m.accepted = true
		return m, tea.Quit
	case "tab":
		m.focus = focusTree
		return m, nil
	case "y":
		return m.copyOutput()
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m builderModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "enter":
		m.accepted = true
		return m, tea.Quit

	case "tab", "i":
		m.focus = focusInstruction
		return m, m.instruction.Focus()

	case "d":
		m.picking = true
		m.dirInput.SetValue("")
		return m, m.dirInput.Focus()

	case "y":
		return m.copyOutput()

	case "t":
		if m.tasktypes.Len() > 0 {
			m.tasktypeIdx = (m.tasktypeIdx + 1) % m.tasktypes.Len()
			m.reassemble()
		}
		return m, nil

	case "T":
		m.includeTasktype = !m.includeTasktype
		m.reassemble()
		return m, nil

	case "p":
		if m.presets.Len() > 0 {
			m.presetIdx = (m.presetIdx + 1) % m.presets.Len()
			m.reassemble()
		}
		return m, nil

	case "P":
		m.includePreset = !m.includePreset
		m.reassemble()
		return m, nil
	}

	if m.ft == nil {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		m.ft.moveDown()
	case "k", "up":
		m.ft.moveUp()
	case "g":
		m.ft.moveTop()
	case "G":
		m.ft.moveBottom()
	case "l", "right":
		m.ft.setExpanded(true)
	case "h", "left":
		m.ft.setExpanded(false)
	case " ":
		if i := m.ft.current(); i >= 0 {
			m.tree.SetChecked(i, m.tree.State(i) != selection.Checked)
			m.reassemble()
		}
	case "a":
		m.tree.SelectAll()
		m.reassemble()
	case "A":
		m.tree.DeselectAll()
		m.reassemble()
	}
	return m, nil
}

func (m builderModel) copyOutput() (tea.Model, tea.Cmd) {
	if err := clipboard.WriteAll(m.doc.Text); err != nil {
		m.logger.Warn("clipboard copy failed", zap.Error(err))
		m.message = errorStyle.Render("Copy failed: " + err.Error())
		return m, nil
	}
	m.message = fmt.Sprintf("Copied %d file(s), ~%d tokens", m.doc.FileCount, m.tokens)
	return m, nil
}

func (m builderModel) rightWidth() int {
	return m.width - m.width/2
}

func (m builderModel) instructionHeight() int {
	h := (m.height - 10) / 3
	if h < 3 {
		h = 3
	}
	return h
}

func (m builderModel) previewHeight() int {
	h := m.height - 10 - m.instructionHeight()
	if h < 3 {
		h = 3
	}
	return h
}

func (m builderModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.picking {
		return m.dirPromptView()
	}

	left := m.treeView()
	right := m.builderView()
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	help := helpStyle.Render("space: toggle • a/A: select/deselect all • t/T p/P: blocks • d: directory • y: copy • tab: focus • q: quit")
	if m.message != "" {
		help = m.message
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

func (m builderModel) dirPromptView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Select base directory") + "\n\n")
	sb.WriteString(m.dirInput.View() + "\n")
	if m.dirErr != "" {
		sb.WriteString("\n" + errorStyle.Render("Error: "+m.dirErr) + "\n")
	}
	sb.WriteString("\n" + helpStyle.Render("enter: confirm • esc: cancel"))
	return sb.String()
}

func (m builderModel) treeView() string {
	style := paneStyle
	if m.focus == focusTree {
		style = activePaneStyle
	}

	var body string
	if m.ft == nil {
		body = helpStyle.Render("No base directory selected (press d)")
	} else {
		body = titleStyle.Render(m.tree.Root) + "\n" + m.ft.render(m.height-8)
	}
	return style.Width(m.width/2 - 2).Height(m.height - 4).Render(body)
}

func (m builderModel) builderView() string {
	var sb strings.Builder

	sb.WriteString(m.blockLine("Tasktype", m.tasktypes, m.tasktypeIdx, m.includeTasktype) + "\n")
	sb.WriteString(m.blockLine("Preset", m.presets, m.presetIdx, m.includePreset) + "\n\n")

	sb.WriteString(labelStyle.Render("Task Instruction") + "\n")
	sb.WriteString(m.instruction.View() + "\n\n")

	sb.WriteString(m.statusLine() + "\n")
	sb.WriteString(labelStyle.Render("Final Prompt") + "\n")
	sb.WriteString(m.preview.View())

	style := paneStyle
	if m.focus != focusTree {
		style = activePaneStyle
	}
	return style.Width(m.rightWidth() - 2).Height(m.height - 4).Render(sb.String())
}

func (m builderModel) blockLine(label string, lib *blocks.Library, idx int, included bool) string {
	name := "(none)"
	if b, ok := m.currentBlock(lib, idx); ok {
		name = b.Name
	}
	line := fmt.Sprintf("%s %s", labelStyle.Render(label+":"), name)
	if !included {
		line = offStyle.Render(label + ": off")
	}
	return line
}

func (m builderModel) statusLine() string {
	pct := prompt.BudgetPercent(m.tokens, m.cfg.MaxTokens)
	tokens := fmt.Sprintf("Estimated Tokens: %d / %d (%.2f%%)", m.tokens, m.cfg.MaxTokens, pct)

	diff := prompt.DifficultyFor(m.doc.FileCount)
	var diffStyle lipgloss.Style
	switch diff {
	case prompt.Hard:
		diffStyle = hardStyle
	case prompt.Moderate:
		diffStyle = moderateStyle
	default:
		diffStyle = easyStyle
	}
	return tokens + "  Difficulty: " + diffStyle.Render(diff.String())
}

func runBuilder(cfg *config.Config, logger *zap.Logger, dir string, opts ...tea.ProgramOption) (builderModel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	presets := blocks.LoadLibrary(cfg.PresetsDir, logger)
	tasktypes := blocks.LoadLibrary(cfg.TasktypesDir, logger)

	watcher, err := watch.New(logger)
	if err != nil {
		// Live reload is a convenience; the builder works without it.
		logger.Warn("file watching unavailable", zap.Error(err))
		watcher = nil
	} else {
		defer watcher.Close()
	}

	if dir == "" {
		dir = config.LoadLastDir()
	}
	var tree *selection.Tree
	if dir != "" {
		tree, err = selection.Scan(dir, cfg.Extensions)
		if err != nil {
			return builderModel{}, fmt.Errorf("scan %s: %w", dir, err)
		}
	}

	m := newBuilderModel(cfg, logger, tree, presets, tasktypes, watcher)
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	finalModel, err := p.Run()
	if err != nil {
		return builderModel{}, err
	}
	return finalModel.(builderModel), nil
}

// Run launches the interactive builder. dir overrides the persisted last
// directory; with neither, the directory prompt opens first.
func Run(cfg *config.Config, logger *zap.Logger, dir string) error {
	_, err := runBuilder(cfg, logger, dir)
	return err
}

// RunPick launches the builder rendered on stderr and returns the document
// accepted with enter, so stdout stays clean for piping. An empty string
// means the user quit without accepting.
func RunPick(cfg *config.Config, logger *zap.Logger, dir string) (string, error) {
	// Render to stderr and detect colors there so stdout carries nothing
	// but the document.
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(os.Stderr, termenv.WithColorCache(true)))

	m, err := runBuilder(cfg, logger, dir, tea.WithOutput(os.Stderr))
	if err != nil {
		return "", err
	}
	if !m.accepted {
		return "", nil
	}
	return m.doc.Text, nil
}
