package output

import (
	"bytes"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hupe1980/helmlens/internal/k8s"
)

// documentSeparator joins serialized documents in the canonical manifest.
const documentSeparator = "---\n"

// SerializeOptions configures the canonical manifest serializer.
type SerializeOptions struct {
	// Indent is the number of spaces per indentation level (default: 2).
	Indent int
}

// DefaultSerializeOptions returns sensible defaults.
func DefaultSerializeOptions() SerializeOptions {
	return SerializeOptions{Indent: 2}
}

// Serialize renders validated resources into a single multi-document YAML
// manifest. Each resource is encoded from its original document node, so
// field order matches the author's declaration order rather than being
// alphabetized, and document order matches resource order. The output
// re-parses into the same resource set.
func Serialize(resources []*k8s.Resource, opts SerializeOptions) (string, error) {
	if opts.Indent == 0 {
		opts.Indent = 2
	}

	var sb strings.Builder

	for i, r := range resources {
		if i > 0 {
			sb.WriteString(documentSeparator)
		}

		doc, err := encodeNode(r, opts.Indent)
		if err != nil {
			return "", err
		}

		sb.Write(doc)
	}

	return sb.String(), nil
}

// encodeNode renders one resource document with a trailing newline.
func encodeNode(r *k8s.Resource, indent int) ([]byte, error) {
	if r.Node == nil {
		return nil, fmt.Errorf("resource %s has no document node", r.QualifiedName())
	}

	clearStyle(r.Node)

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)

	if err := enc.Encode(r.Node); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", r.QualifiedName(), err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing encoder for %s: %w", r.QualifiedName(), err)
	}

	b := buf.Bytes()
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}

	return b, nil
}

// clearStyle resets node styles recursively so the encoder always emits
// block YAML. A node decoded from JSON input keeps its flow style and
// would otherwise be re-emitted as JSON.
func clearStyle(n *yaml.Node) {
	n.Style = 0

	for _, c := range n.Content {
		clearStyle(c)
	}
}
