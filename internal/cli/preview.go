package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Way/highcharts-utils/pkg/pipeline"
	"github.com/Way/highcharts-utils/pkg/series"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	policy      string
	delta       float64
	limit       int
	noCache     bool
	interactive bool
}

// previewCommand creates the preview command. It expands a series file and
// renders the result as a terminal table, marking gaps and fix points, so
// the effect of an expansion can be inspected without a browser.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{limit: 20}

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Show an expanded series set as a terminal table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts.delta, opts.policy = c.expandDefaults(opts.delta, opts.policy)
			logger := loggerFromContext(ctx)
			popts := pipeline.Options{
				Input:  args[0],
				Delta:  opts.delta,
				Policy: opts.policy,
				Logger: logger,
			}
			prog := newProgress(logger)
			list, raw, err := runner.Load(ctx, popts)
			if err != nil {
				return err
			}
			list, err = runner.Expand(ctx, raw, list, popts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Expanded %d series", len(list)))

			if opts.interactive && len(list) > 1 {
				selected, err := pickSeries(list)
				if err != nil {
					return err
				}
				if selected == nil {
					return nil // user quit the picker
				}
				list = []*series.Series{selected}
			}

			fmt.Println(renderSeriesTable(list, opts.limit))

			shown := opts.limit
			if total := len(list[0].Points); total <= shown {
				shown = total
			} else {
				printDetail("showing %d of %d points, use --limit to see more", shown, total)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.delta, "delta", 0, "x offset for fix points (default from config)")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "boundary policy: nearest (default), immediate")
	cmd.Flags().IntVar(&opts.limit, "limit", opts.limit, "maximum number of rows to show")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a single series interactively")

	return cmd
}

// pickSeries runs the interactive series picker and returns the selection,
// or nil when the user quit without choosing.
func pickSeries(list []*series.Series) (*series.Series, error) {
	model, err := tea.NewProgram(NewSeriesListModel(list)).Run()
	if err != nil {
		return nil, err
	}
	final, ok := model.(SeriesListModel)
	if !ok || final.Selected == nil {
		return nil, nil
	}
	return final.Selected, nil
}

// renderSeriesTable formats an expanded series set as a bordered table.
// Gaps render as "null", fix points carry a "+" suffix.
func renderSeriesTable(list []*series.Series, limit int) string {
	headers := make([]string, 0, len(list)+1)
	headers = append(headers, "x")
	for _, s := range list {
		headers = append(headers, s.ID)
	}

	rows := [][]string{}
	fixRows := map[int]bool{}
	for i, p := range list[0].Points {
		if limit > 0 && i >= limit {
			break
		}
		row := []string{strconv.FormatFloat(p.X, 'g', -1, 64)}
		for _, s := range list {
			row = append(row, formatCell(s.Points[i]))
			if s.Points[i].Kind == series.KindBoundaryFix {
				fixRows[i] = true
			}
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if fixRows[row] {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// formatCell renders one point value for the preview table.
func formatCell(p series.Point) string {
	switch {
	case p.Kind == series.KindBoundaryFix && p.Y == nil:
		return "null+"
	case p.Kind == series.KindBoundaryFix:
		return strconv.FormatFloat(*p.Y, 'g', -1, 64) + "+"
	case p.Y == nil:
		return "null"
	default:
		return strconv.FormatFloat(*p.Y, 'g', -1, 64)
	}
}
