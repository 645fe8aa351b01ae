package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hupe1980/helmlens/internal/k8s"
	"github.com/hupe1980/helmlens/internal/k8s/parser"
	"github.com/hupe1980/helmlens/internal/logging"
	"github.com/hupe1980/helmlens/internal/metadata"
	"github.com/hupe1980/helmlens/internal/output"
	"github.com/hupe1980/helmlens/internal/transcript"
)

// pipelineResult is the output of one ingestion run shared by the
// subcommands.
type pipelineResult struct {
	Release   *transcript.Release
	Resources []*k8s.Resource
	Manifest  string
	Metadata  *metadata.Record
}

// runPipeline runs detection, parsing, serialization, and metadata
// resolution on raw input.
func runPipeline(ctx context.Context, raw string) (*pipelineResult, error) {
	logger := logging.FromContext(ctx)

	in, err := transcript.Detect(raw)
	if err != nil {
		return nil, &ExitError{Code: 1, Err: err}
	}

	p := parser.NewParser()

	var resources []*k8s.Resource

	var userValues string

	switch in.Format {
	case transcript.FormatStructured:
		logger.Debug("structured payload detected")

		resources, err = p.ParseStructured(ctx, in.Payload)
	case transcript.FormatManifest:
		logger.Debug("bare manifest detected")

		resources, err = p.ParseManifest(ctx, in.Payload)
	default:
		logger.Debug("release transcript detected",
			slog.String("release", in.Release.Name),
			slog.String("namespace", in.Release.Namespace))

		userValues = in.Release.UserSuppliedValues
		resources, err = p.ParseManifest(ctx, []byte(in.Release.ManifestBody))
	}

	if err != nil {
		return nil, &ExitError{Code: 1, Err: err}
	}

	manifest, err := output.Serialize(resources, output.DefaultSerializeOptions())
	if err != nil {
		return nil, &ExitError{Code: 1, Err: fmt.Errorf("serializing manifest: %w", err)}
	}

	return &pipelineResult{
		Release:   in.Release,
		Resources: resources,
		Manifest:  manifest,
		Metadata:  metadata.Resolve(ctx, resources, userValues),
	}, nil
}
