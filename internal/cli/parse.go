package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/helmlens/internal/logging"
	"github.com/hupe1980/helmlens/internal/output"
	"github.com/hupe1980/helmlens/internal/transcript"
)

type parseOptions struct {
	output      string
	showRelease bool
}

func newParseCommand() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse release output into a canonical manifest",
		Long: `Parse helm release output — a dry-run transcript or a structured
JSON payload — and write the canonical multi-document manifest.

Use "-" as the file argument to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file path (default: stdout)")
	f.BoolVar(&opts.showRelease, "show-release", false, "print release context to stderr")

	return cmd
}

func runParse(ctx context.Context, cmd *cobra.Command, path string, opts *parseOptions) error {
	logger := logging.FromContext(ctx)

	raw, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	res, err := runPipeline(ctx, raw)
	if err != nil {
		return err
	}

	if opts.showRelease && res.Release != nil {
		printReleaseContext(cmd.ErrOrStderr(), res.Release)
	}

	if opts.output != "" {
		w := output.NewFileWriter(opts.output, output.WithLogger(logger))
		if err := w.Write([]byte(res.Manifest)); err != nil {
			return &ExitError{Code: 6, Err: fmt.Errorf("writing output: %w", err)}
		}

		logger.Info("manifest written",
			slog.String("path", opts.output),
			slog.Int("resources", len(res.Resources)))

		return nil
	}

	if _, err := io.WriteString(cmd.OutOrStdout(), res.Manifest); err != nil {
		return &ExitError{Code: 6, Err: fmt.Errorf("writing output: %w", err)}
	}

	return nil
}

// printReleaseContext prints the transcript header fields to stderr.
func printReleaseContext(w io.Writer, rel *transcript.Release) {
	_, _ = fmt.Fprintf(w, "--- Release ---\n")

	if rel.Name != "" {
		_, _ = fmt.Fprintf(w, "Name:          %s\n", rel.Name)
	}

	if rel.Namespace != "" {
		_, _ = fmt.Fprintf(w, "Namespace:     %s\n", rel.Namespace)
	}

	if rel.LastDeployed != "" {
		_, _ = fmt.Fprintf(w, "Last deployed: %s\n", rel.LastDeployed)
	}

	if rel.Status != "" {
		_, _ = fmt.Fprintf(w, "Status:        %s\n", rel.Status)
	}

	if rel.Revision != "" {
		_, _ = fmt.Fprintf(w, "Revision:      %s\n", rel.Revision)
	}

	_, _ = fmt.Fprintf(w, "---------------\n")
}
