package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/Way/highcharts-utils/pkg/io"
	"github.com/Way/highcharts-utils/pkg/series"
)

// validateCommand creates the validate command. It checks that an input
// file parses and that its series are aligned, without writing anything.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a series file is aligned and expandable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := pkgio.Import(args[0])
			if err != nil {
				printError("%s", err)
				return err
			}

			if err := series.ValidateAligned(list); err != nil {
				printError("%s", err)
				return err
			}

			points, gaps := 0, 0
			for _, s := range list {
				points += s.Len()
				gaps += s.GapCount()
			}

			printSuccess("%s is valid", args[0])
			printKeyValue("series", fmt.Sprintf("%d", len(list)))
			printKeyValue("points", fmt.Sprintf("%d", points))
			printKeyValue("gaps", fmt.Sprintf("%d", gaps))
			if len(list) > 0 && list[0].Len() > 1 {
				printKeyValue("spacing", fmt.Sprintf("%g", series.MinSpacing(list[0])))
			}
			if gaps > 0 {
				printNextStep("Expand the gaps", fmt.Sprintf("%s fix %s", appName, args[0]))
			}
			return nil
		},
	}
}
