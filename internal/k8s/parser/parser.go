// Package parser normalizes manifest bodies and structured payloads into
// validated k8s.Resource values.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	yaml "gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/hupe1980/helmlens/internal/k8s"
	"github.com/hupe1980/helmlens/internal/logging"
	"github.com/hupe1980/helmlens/internal/yamlutil"
)

// ErrNoValidResources is returned when no candidate carries both a non-empty
// apiVersion and kind. Zero resources is never a successful outcome.
var ErrNoValidResources = errors.New("no valid resources found")

// Parser turns raw manifest input into validated k8s Resources.
type Parser interface {
	// ParseManifest decodes a multi-document manifest body. Segments that
	// fail to decode are dropped silently.
	ParseManifest(ctx context.Context, body []byte) ([]*k8s.Resource, error)

	// ParseStructured decodes a whole JSON payload: one object or an
	// array of objects. Non-object array elements are dropped.
	ParseStructured(ctx context.Context, payload []byte) ([]*k8s.Resource, error)
}

// compile-time interface conformance check.
var _ Parser = (*DefaultParser)(nil)

// DefaultParser is the default implementation of the Parser interface.
type DefaultParser struct{}

// NewParser creates a new DefaultParser.
func NewParser() *DefaultParser {
	return &DefaultParser{}
}

// ParseManifest splits body on document separators and decodes each segment
// independently. Candidate order follows input order exactly.
func (p *DefaultParser) ParseManifest(ctx context.Context, body []byte) ([]*k8s.Resource, error) {
	logger := logging.FromContext(ctx)

	var resources []*k8s.Resource

	for _, doc := range yamlutil.SplitDocuments(body) {
		var node yaml.Node
		if err := yaml.Unmarshal(doc, &node); err != nil {
			// Tolerate stray comments and non-YAML trailing text.
			logger.Debug("dropping undecodable manifest segment", slog.String("error", err.Error()))
			continue
		}

		if r := buildResource(documentRoot(&node)); r != nil {
			resources = append(resources, r)
		}
	}

	return validated(ctx, resources)
}

// ParseStructured decodes payload as a single document. The payload has
// already passed JSON grammar detection; yaml.v3 handles JSON input and
// keeps the declaration order of object fields.
func (p *DefaultParser) ParseStructured(ctx context.Context, payload []byte) ([]*k8s.Resource, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(payload, &node); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	root := documentRoot(&node)
	if root == nil {
		return nil, ErrNoValidResources
	}

	var candidates []*yaml.Node

	switch root.Kind {
	case yaml.MappingNode:
		candidates = []*yaml.Node{root}
	case yaml.SequenceNode:
		candidates = root.Content
	}

	var resources []*k8s.Resource

	for _, c := range candidates {
		if r := buildResource(c); r != nil {
			resources = append(resources, r)
		}
	}

	return validated(ctx, resources)
}

// validated applies the zero-resource rule and emits the advisory count.
func validated(ctx context.Context, resources []*k8s.Resource) ([]*k8s.Resource, error) {
	if len(resources) == 0 {
		return nil, ErrNoValidResources
	}

	logging.FromContext(ctx).Info("resources parsed", slog.Int("count", len(resources)))

	return resources, nil
}

// documentRoot unwraps a document node to its content root.
func documentRoot(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}

		return node.Content[0]
	}

	if node.Kind == 0 {
		return nil
	}

	return node
}

// buildResource validates one candidate node into a Resource.
// Returns nil for non-mapping candidates and for documents lacking a
// non-empty apiVersion or kind.
func buildResource(root *yaml.Node) *k8s.Resource {
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}

	var obj map[string]interface{}
	if err := root.Decode(&obj); err != nil {
		return nil
	}

	apiVersion, _ := obj["apiVersion"].(string)
	kind, _ := obj["kind"].(string)

	if apiVersion == "" || kind == "" {
		return nil
	}

	gvk := schema.FromAPIVersionAndKind(apiVersion, kind)

	u := &unstructured.Unstructured{Object: obj}

	return &k8s.Resource{
		GVK:         gvk,
		Name:        u.GetName(),
		Namespace:   u.GetNamespace(),
		Labels:      u.GetLabels(),
		Annotations: u.GetAnnotations(),
		Node:        root,
		Object:      u,
	}
}
