package cli

import (
	"context"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/helmlens/internal/diff"
	"github.com/hupe1980/helmlens/internal/k8s"
	"github.com/hupe1980/helmlens/internal/logging"
	"github.com/hupe1980/helmlens/internal/watch"
)

type watchOptions struct {
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Watch a release output file and re-ingest on change",
		Long: `Watch monitors a release output file and re-runs the ingestion
pipeline whenever it changes.

File changes are debounced to avoid rapid re-runs. Each run reports the
release name, resource count, and the per-resource changes against the
previous run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchCmd(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")

	return cmd
}

func runWatchCmd(ctx context.Context, cmd *cobra.Command, path string, opts *watchOptions) error {
	logger := logging.FromContext(ctx)

	watchOpts := watch.DefaultOptions()
	watchOpts.Files = []string{path}
	watchOpts.Debounce = opts.debounce
	watchOpts.Logger = logger
	watchOpts.Out = cmd.ErrOrStderr()

	var mu sync.Mutex

	var previous []*k8s.Resource

	firstRun := true

	runFn := func(runCtx context.Context) (*watch.RunResult, error) {
		raw, err := readInput(path, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}

		res, err := runPipeline(runCtx, raw)
		if err != nil {
			return nil, err
		}

		// The initial run has no baseline to report changes against.
		mu.Lock()

		var changes []diff.ResourceChange
		if !firstRun {
			changes = diff.CompareResources(previous, res.Resources)
		}

		firstRun = false
		previous = res.Resources
		mu.Unlock()

		result := &watch.RunResult{
			ResourceCount: len(res.Resources),
			Changes:       changes,
		}

		if res.Release != nil {
			result.ReleaseName = res.Release.Name
		}

		return result, nil
	}

	if err := watch.Run(ctx, watchOpts, runFn); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	return nil
}
