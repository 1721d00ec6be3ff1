package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Way/highcharts-utils/pkg/series"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// SeriesListModel is the bubbletea model for interactive series selection
// in the preview command.
type SeriesListModel struct {
	Series   []*series.Series
	Cursor   int
	Selected *series.Series
	Height   int
	Offset   int
}

// NewSeriesListModel creates a new series list model.
func NewSeriesListModel(list []*series.Series) SeriesListModel {
	return SeriesListModel{
		Series: list,
		Height: 15,
	}
}

func (m SeriesListModel) Init() tea.Cmd {
	return nil
}

func (m SeriesListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Series)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Series[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SeriesListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Series"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Series) {
		end = len(m.Series)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Series[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		fixes := 0
		for _, p := range s.Points {
			if p.Kind == series.KindBoundaryFix {
				fixes++
			}
		}

		rows = append(rows, []string{
			cursor,
			s.ID,
			fmt.Sprintf("%d", s.Len()),
			fmt.Sprintf("%d", s.GapCount()),
			fmt.Sprintf("%d", fixes),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Series", "Points", "Gaps", "Fixes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Series))))

	return b.String()
}
