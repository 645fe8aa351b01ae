package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/helmlens/internal/diff"
)

type diffOptions struct {
	format  string
	noColor bool
	context int
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <old-file> <new-file>",
		Short: "Compare two release outputs",
		Long: `Diff ingests two release outputs, renders both as canonical
manifests, and compares them: a unified YAML diff plus a per-resource
change summary (added, removed, modified).

Exit codes:
  0  No differences
  1  Error
  2  Invalid arguments
  3  Differences found`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", "unified", "output format: unified, json")
	f.BoolVar(&opts.noColor, "no-color", false, "disable ANSI color output")
	f.IntVar(&opts.context, "context", 3, "unified diff context lines")

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, oldPath, newPath string, opts *diffOptions) error {
	oldRaw, err := readInput(oldPath, cmd.InOrStdin())
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	newRaw, err := readInput(newPath, cmd.InOrStdin())
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	oldRes, err := runPipeline(ctx, oldRaw)
	if err != nil {
		return err
	}

	newRes, err := runPipeline(ctx, newRaw)
	if err != nil {
		return err
	}

	diffOpts := diff.DefaultOptions()
	diffOpts.OldLabel = oldPath
	diffOpts.NewLabel = newPath
	diffOpts.Context = opts.context

	result, err := diff.Compute(oldRes.Manifest, newRes.Manifest, diffOpts)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("computing diff: %w", err)}
	}

	changes := diff.CompareResources(oldRes.Resources, newRes.Resources)

	w := cmd.OutOrStdout()

	switch opts.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		payload := struct {
			Unified string                `json:"unified"`
			Changes []diff.ResourceChange `json:"changes"`
		}{Unified: result.Unified, Changes: changes}

		if err := enc.Encode(payload); err != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("encoding JSON: %w", err)}
		}
	case "unified":
		diff.Write(w, result, !opts.noColor)

		if len(changes) > 0 {
			_, _ = fmt.Fprintln(w)
			diff.WriteChanges(w, changes)
		}
	default:
		return &ExitError{Code: 2, Err: fmt.Errorf("unknown format %q: expected unified, json", opts.format)}
	}

	if result.HasDifferences {
		return &ExitError{Code: 3, Err: fmt.Errorf("differences found between %s and %s", oldPath, newPath)}
	}

	return nil
}
