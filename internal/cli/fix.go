package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Way/highcharts-utils/pkg/errors"
	pkgio "github.com/Way/highcharts-utils/pkg/io"
	"github.com/Way/highcharts-utils/pkg/pipeline"
	"github.com/Way/highcharts-utils/pkg/store"
)

// fixOpts holds the command-line flags for the fix command.
type fixOpts struct {
	output  string  // output file path (or base path for multiple formats)
	dataset string  // named dataset to load from the store instead of a file
	policy  string  // boundary policy: "nearest" or "immediate"
	title   string  // chart title
	delta   float64 // fix point offset on the x axis
	noCache bool    // disable the result cache
	refresh bool    // recompute even when cached
}

// fixCommand creates the fix command, the main entry point of the tool.
// It loads a series file or a stored dataset, inserts boundary fix points
// around every gap and writes the requested artifacts.
func (c *CLI) fixCommand() *cobra.Command {
	var formatsStr string
	var opts fixOpts

	cmd := &cobra.Command{
		Use:   "fix [file]",
		Short: "Insert boundary fix points and emit chart options",
		Long: `Fix loads aligned time series from a JSON or CSV file, inserts boundary
fix points around every null gap and emits the resulting artifacts. With
--dataset the input comes from the configured dataset store instead of a file.

The highcharts format is the renderer-facing chart options JSON. The dataset
format is the expanded series set itself, re-importable by fix and preview.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (opts.dataset == "") {
				return fmt.Errorf("requires a file argument or --dataset, not both")
			}
			formats := parseFormats(formatsStr)
			if len(formats) > 1 && opts.output == "" {
				return fmt.Errorf("--output is required with multiple formats")
			}

			ctx := cmd.Context()
			opts.delta, opts.policy = c.expandDefaults(opts.delta, opts.policy)

			popts := pipeline.Options{
				Delta:   opts.delta,
				Policy:  opts.policy,
				Formats: formats,
				Title:   opts.title,
				Refresh: opts.refresh,
				Logger:  loggerFromContext(ctx),
			}
			if opts.dataset != "" {
				data, err := c.loadStoredDataset(ctx, opts.dataset)
				if err != nil {
					return err
				}
				popts.Data = data
			} else {
				popts.Input = args[0]
			}

			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinnerWithContext(ctx, "Expanding gaps...")
			spin.Start()
			result, err := runner.Execute(ctx, popts)
			if err != nil {
				spin.StopWithError(err.Error())
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Inserted %d fix points", result.Stats.FixCount))

			printStats(result.Stats.SeriesCount, result.Stats.PointCount,
				result.Stats.GapCount, result.Stats.FixCount, result.CacheInfo.ExpandHit)

			return writeArtifacts(result.Artifacts, formats, opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): highcharts (default), dataset (comma-separated)")
	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "load a named dataset from the store instead of a file")
	cmd.Flags().Float64Var(&opts.delta, "delta", 0, "x offset for fix points (default from config)")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "boundary policy: nearest (default), immediate")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// datasetLoader is the slice of the dataset store the fix command needs.
type datasetLoader interface {
	Load(ctx context.Context, name string) (pkgio.Dataset, error)
}

// loadStoredDataset connects to the configured store and serializes the
// named dataset for the pipeline.
func (c *CLI) loadStoredDataset(ctx context.Context, name string) ([]byte, error) {
	if c.Config.Mongo.URI == "" {
		return nil, errors.New(errors.ErrCodeUnavailable, "dataset persistence is not configured")
	}
	st, err := store.Connect(ctx, c.Config.Mongo.URI, c.Config.Mongo.Database)
	if err != nil {
		return nil, err
	}
	defer st.Close(ctx)
	return datasetBytes(ctx, st, name)
}

// datasetBytes loads a stored dataset and marshals it into pipeline input.
func datasetBytes(ctx context.Context, st datasetLoader, name string) ([]byte, error) {
	ds, err := st.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ds)
}

// writeArtifacts writes rendered artifacts to files, or to stdout when a
// single format was requested without --output.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) error {
	if output == "" {
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return err
	}

	if len(formats) == 1 {
		if err := os.WriteFile(output, artifacts[formats[0]], 0644); err != nil {
			return err
		}
		printFile(output)
		return nil
	}

	base := strings.TrimSuffix(output, filepath.Ext(output))
	for _, format := range formats {
		path := base + "." + format + ".json"
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}
