package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/folio/pkg/doctree"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// DocumentListModel - Interactive target selection
// =============================================================================

// DocumentItem is one row of the document picker.
type DocumentItem struct {
	ID         int64
	Title      string
	Labels     string
	References int
	ReferredBy int
	IsRoot     bool
}

// documentItems lists trees in the order given, marking the root.
func documentItems(trees []*doctree.Tree, rootID int64) []DocumentItem {
	items := make([]DocumentItem, 0, len(trees))
	for _, t := range trees {
		items = append(items, DocumentItem{
			ID:         t.ID(),
			Title:      t.Title(),
			Labels:     t.Labels(),
			References: len(t.References()),
			ReferredBy: len(t.ReverseReferences()),
			IsRoot:     t.ID() == rootID,
		})
	}
	return items
}

// DocumentListModel is the bubbletea model for picking the document a
// table of contents is bounded to.
type DocumentListModel struct {
	Items    []DocumentItem
	Cursor   int
	Selected *DocumentItem
	Height   int
	Offset   int
}

// NewDocumentListModel creates a new document list model.
func NewDocumentListModel(items []DocumentItem) DocumentListModel {
	return DocumentListModel{Items: items, Height: 15}
}

func (m DocumentListModel) Init() tea.Cmd {
	return nil
}

func (m DocumentListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Items) == 0 {
				return m, tea.Quit
			}
			item := m.Items[m.Cursor]
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m DocumentListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Target Document"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	var rows [][]string
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		title := it.Title
		if it.IsRoot {
			title += " (root)"
		}
		labels := it.Labels
		if labels == "" {
			labels = "—"
		}
		rows = append(rows, []string{
			cursor,
			strconv.FormatInt(it.ID, 10),
			title,
			labels,
			strconv.Itoa(it.References),
			strconv.Itoa(it.ReferredBy),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Title", "Labels", "Refs", "Referred by").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if m.Items[idx].IsRoot {
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	return b.String()
}
