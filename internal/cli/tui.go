package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/threadtree/pkg/tree"
)

// =============================================================================
// TraversalModel - Paced traversal presentation
// =============================================================================

// treeRow is one line of the drawn binary tree.
type treeRow struct {
	prefix  string
	id      string
	threads []tree.Thread
}

// tickMsg advances the animation. Ticks from an earlier generation are
// dropped so that pausing and resuming never runs two tick loops.
type tickMsg struct{ gen int }

// TraversalModel is the bubbletea model for the animate command. It replays
// a precomputed node sequence one node per interval; timing never feeds back
// into the traversal itself.
type TraversalModel struct {
	Title    string
	Sequence []string
	Interval time.Duration
	// ExitAtEnd quits once the last node is shown.
	ExitAtEnd bool

	rows     []treeRow
	position map[string]int
	pos      int
	paused   bool
	gen      int
}

// NewTraversalModel lays out t and prepares to replay seq. threads are the
// thread references of the walk that produced seq.
func NewTraversalModel(t *tree.Tree, title string, seq []string, threads []tree.Thread, interval time.Duration) TraversalModel {
	byNode := make(map[string][]tree.Thread)
	for _, th := range threads {
		byNode[th.From] = append(byNode[th.From], th)
	}
	position := make(map[string]int, len(seq))
	for i, id := range seq {
		position[id] = i
	}
	return TraversalModel{
		Title:    title,
		Sequence: seq,
		Interval: interval,
		rows:     layoutRows(t, byNode),
		position: position,
		pos:      -1,
	}
}

// layoutRows draws the real edges of t top-down, left child first.
func layoutRows(t *tree.Tree, threads map[string][]tree.Thread) []treeRow {
	var rows []treeRow
	var walk func(id, indent, branch string)
	walk = func(id, indent, branch string) {
		rows = append(rows, treeRow{prefix: indent + branch, id: id, threads: threads[id]})

		info := t.Info(id)
		var children, sides []string
		if info.HasLeftChild() {
			children, sides = append(children, info.Left), append(sides, "L ")
		}
		if info.HasRightChild() {
			children, sides = append(children, info.Right), append(sides, "R ")
		}

		next := indent
		switch {
		case branch == "":
		case strings.HasPrefix(branch, "└─"):
			next += "   "
		default:
			next += "│  "
		}
		for i, child := range children {
			b := "├─"
			if i == len(children)-1 {
				b = "└─"
			}
			walk(child, next, b+sides[i])
		}
	}
	if t.Len() > 0 {
		walk(t.Root(), "", "")
	}
	return rows
}

// Position returns the index of the highlighted node, or -1 before the start.
func (m TraversalModel) Position() int { return m.pos }

// Paused reports whether automatic stepping is paused.
func (m TraversalModel) Paused() bool { return m.paused }

// Done reports whether the last node is highlighted.
func (m TraversalModel) Done() bool { return m.pos >= len(m.Sequence)-1 }

func (m TraversalModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.Interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m TraversalModel) Init() tea.Cmd {
	return m.tick()
}

func (m TraversalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != m.gen || m.paused || m.Done() {
			return m, nil
		}
		m.pos++
		if m.Done() {
			if m.ExitAtEnd {
				return m, tea.Quit
			}
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
			m.gen++
			if !m.paused && !m.Done() {
				return m, m.tick()
			}
		case "n", "right", "l":
			m.paused = true
			m.gen++
			if !m.Done() {
				m.pos++
			}
		case "b", "left", "h":
			m.paused = true
			m.gen++
			if m.pos >= 0 {
				m.pos--
			}
		case "r":
			m.pos = -1
			m.paused = false
			m.gen++
			return m, m.tick()
		}
	}
	return m, nil
}

func (m TraversalModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n")

	for _, row := range m.rows {
		b.WriteString(StyleDim.Render(row.prefix))
		b.WriteString(m.renderNode(row.id))
		for _, th := range row.threads {
			b.WriteString(styleThread.Render(fmt.Sprintf("  ⇢%s %s", th.Side.String()[:1], th.To)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	visited := make([]string, 0, m.pos+1)
	for i := 0; i <= m.pos && i < len(m.Sequence); i++ {
		visited = append(visited, m.Sequence[i])
	}
	b.WriteString(StyleValue.Render(strings.Join(visited, " "+iconArrow+" ")))
	b.WriteString("\n\n")

	status := fmt.Sprintf("[%d/%d]", m.pos+1, len(m.Sequence))
	switch {
	case m.Done():
		status += " done"
	case m.paused:
		status += " paused"
	}
	b.WriteString(StyleDim.Render(status + "  space pause  n/b step  r restart  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m TraversalModel) renderNode(id string) string {
	i, ok := m.position[id]
	switch {
	case !ok || i > m.pos:
		return styleNode.Render(id)
	case i == m.pos:
		return styleCurrent.Render(id)
	default:
		return styleVisited.Render(id)
	}
}
