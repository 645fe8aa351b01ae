// Package helmlens provides a public Go API for ingesting helm release
// output and producing a canonical manifest plus resolved release metadata.
//
// This package exposes the helmlens ingestion pipeline as a library,
// allowing programmatic use without the CLI.
//
// Basic usage:
//
//	result, err := helmlens.Parse(ctx, rawInput)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.ManifestYAML)
package helmlens

import (
	"context"
	"io"
	"log/slog"

	"github.com/hupe1980/helmlens/internal/k8s"
	"github.com/hupe1980/helmlens/internal/k8s/parser"
	"github.com/hupe1980/helmlens/internal/logging"
	"github.com/hupe1980/helmlens/internal/metadata"
	"github.com/hupe1980/helmlens/internal/output"
	"github.com/hupe1980/helmlens/internal/transcript"
)

// Sentinel errors returned by Parse. Match with errors.Is.
var (
	// ErrEmptyInput is returned for empty or all-whitespace input.
	ErrEmptyInput = transcript.ErrEmptyInput

	// ErrInvalidFormat is returned when the input is not a decodable JSON
	// payload, a release transcript, or a bare YAML manifest.
	ErrInvalidFormat = transcript.ErrInvalidFormat

	// ErrUnsupportedShape is returned when a JSON payload decodes to
	// something other than an object or an array.
	ErrUnsupportedShape = transcript.ErrUnsupportedShape

	// ErrManifestSectionMissing is returned when a transcript carries no
	// MANIFEST: section.
	ErrManifestSectionMissing = transcript.ErrManifestSectionMissing

	// ErrNoValidResources is returned when no document in the input
	// carries both apiVersion and kind.
	ErrNoValidResources = parser.ErrNoValidResources
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Option configures the ingestion pipeline.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	skipMetadata bool
	indent       int
}

// WithLogger sets the logger used by the pipeline. By default all logging
// is discarded.
func WithLogger(logger *slog.Logger) Option { return func(o *options) { o.logger = logger } }

// WithoutMetadata skips metadata resolution; Result.Metadata stays nil.
func WithoutMetadata() Option { return func(o *options) { o.skipMetadata = true } }

// WithIndent sets the YAML indentation width (default: 2).
func WithIndent(n int) Option { return func(o *options) { o.indent = n } }

// ResourceSummary describes one validated resource in declaration order.
type ResourceSummary struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`
	Name       string `json:"name,omitempty"`
	Namespace  string `json:"namespace,omitempty"`
}

// Metadata is the resolved release metadata. Identity fields stay empty
// when no source can answer them.
type Metadata struct {
	Region         string         `json:"region,omitempty"`
	Cluster        string         `json:"cluster,omitempty"`
	AccountID      string         `json:"accountId,omitempty"`
	Images         []string       `json:"images,omitempty"`
	ConfigRefs     []string       `json:"configRefs,omitempty"`
	SecretRefs     []string       `json:"secretRefs,omitempty"`
	VolumeClaims   []string       `json:"volumeClaims,omitempty"`
	Services       []Service      `json:"services,omitempty"`
	StorageClasses []string       `json:"storageClasses,omitempty"`
	ReplicaCounts  []ReplicaCount `json:"replicaCounts,omitempty"`
	ARNs           []string       `json:"arns,omitempty"`
}

// Service captures the type and load-balancer fields of one Service.
type Service struct {
	Name                  string `json:"name"`
	Type                  string `json:"type"`
	LoadBalancerClass     string `json:"loadBalancerClass,omitempty"`
	LoadBalancerIP        string `json:"loadBalancerIP,omitempty"`
	ExternalTrafficPolicy string `json:"externalTrafficPolicy,omitempty"`
}

// ReplicaCount is the declared replica count of one workload.
type ReplicaCount struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Replicas int64  `json:"replicas"`
}

// Result holds the output of a successful ingestion.
type Result struct {
	// ManifestYAML is the canonical multi-document YAML rendition of all
	// validated resources, in declaration order.
	ManifestYAML string

	// ReleaseName and Namespace come from the transcript header when the
	// input was a transcript; empty for structured payloads.
	ReleaseName string
	Namespace   string

	// LastDeployed, Status, and Revision mirror the transcript header
	// fields when present.
	LastDeployed string
	Status       string
	Revision     string

	// UserSuppliedValues is the verbatim USER-SUPPLIED VALUES: body.
	UserSuppliedValues string

	// ResourceCount is the number of validated resources.
	ResourceCount int

	// Resources summarizes the validated resources in declaration order.
	Resources []ResourceSummary

	// Metadata is the resolved release metadata, nil with WithoutMetadata.
	Metadata *Metadata
}

// Parse ingests raw helm release output, given as a dry-run transcript, a
// structured JSON payload, or a bare YAML manifest, and returns the
// canonical manifest plus resolved metadata.
func Parse(ctx context.Context, raw string, opts ...Option) (*Result, error) {
	o := &options{indent: 2}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = discardLogger()
	}

	ctx = logging.NewContext(ctx, o.logger)

	in, err := transcript.Detect(raw)
	if err != nil {
		return nil, err
	}

	p := parser.NewParser()

	switch in.Format {
	case transcript.FormatStructured:
		parsed, parseErr := p.ParseStructured(ctx, in.Payload)
		if parseErr != nil {
			return nil, parseErr
		}

		return buildResult(ctx, parsed, "", o)
	case transcript.FormatManifest:
		parsed, parseErr := p.ParseManifest(ctx, in.Payload)
		if parseErr != nil {
			return nil, parseErr
		}

		return buildResult(ctx, parsed, "", o)
	}

	parsed, parseErr := p.ParseManifest(ctx, []byte(in.Release.ManifestBody))
	if parseErr != nil {
		return nil, parseErr
	}

	res, err := buildResult(ctx, parsed, in.Release.UserSuppliedValues, o)
	if err != nil {
		return nil, err
	}

	res.ReleaseName = in.Release.Name
	res.Namespace = in.Release.Namespace
	res.LastDeployed = in.Release.LastDeployed
	res.Status = in.Release.Status
	res.Revision = in.Release.Revision
	res.UserSuppliedValues = in.Release.UserSuppliedValues

	return res, nil
}

// buildResult serializes the resources and resolves metadata.
func buildResult(ctx context.Context, resources []*k8s.Resource, userValues string, o *options) (*Result, error) {
	manifest, err := output.Serialize(resources, output.SerializeOptions{Indent: o.indent})
	if err != nil {
		return nil, err
	}

	res := &Result{
		ManifestYAML:  manifest,
		ResourceCount: len(resources),
	}

	for _, r := range resources {
		res.Resources = append(res.Resources, ResourceSummary{
			APIVersion: r.APIVersion(),
			Kind:       r.Kind(),
			Name:       r.Name,
			Namespace:  r.Namespace,
		})
	}

	if !o.skipMetadata {
		res.Metadata = convertMetadata(metadata.Resolve(ctx, resources, userValues))
	}

	return res, nil
}

// convertMetadata maps the internal record onto the public type.
func convertMetadata(rec *metadata.Record) *Metadata {
	m := &Metadata{
		Region:         rec.Region,
		Cluster:        rec.Cluster,
		AccountID:      rec.AccountID,
		Images:         rec.Images,
		ConfigRefs:     rec.ConfigRefs,
		SecretRefs:     rec.SecretRefs,
		VolumeClaims:   rec.VolumeClaims,
		StorageClasses: rec.StorageClasses,
		ARNs:           rec.ARNs,
	}

	for _, s := range rec.Services {
		m.Services = append(m.Services, Service{
			Name:                  s.Name,
			Type:                  s.Type,
			LoadBalancerClass:     s.LoadBalancerClass,
			LoadBalancerIP:        s.LoadBalancerIP,
			ExternalTrafficPolicy: s.ExternalTrafficPolicy,
		})
	}

	for _, rc := range rec.ReplicaCounts {
		m.ReplicaCounts = append(m.ReplicaCounts, ReplicaCount{
			Kind:     rc.Kind,
			Name:     rc.Name,
			Replicas: rc.Replicas,
		})
	}

	return m
}
