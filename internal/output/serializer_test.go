package output

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/helmlens/internal/k8s"
	"github.com/hupe1980/helmlens/internal/k8s/parser"
)

func mustParse(t *testing.T, body string) []*k8s.Resource {
	t.Helper()

	resources, err := parser.NewParser().ParseManifest(context.Background(), []byte(body))
	require.NoError(t, err)

	return resources
}

func TestSerialize_MultiDocument(t *testing.T) {
	resources := mustParse(t, `apiVersion: v1
kind: Pod
metadata:
  name: p
---
apiVersion: v1
kind: Service
metadata:
  name: s
`)

	out, err := Serialize(resources, DefaultSerializeOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "kind: Pod")
	assert.Contains(t, out, "kind: Service")
	assert.Equal(t, 1, strings.Count(out, "---"))
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestSerialize_PreservesFieldOrder(t *testing.T) {
	// kind declared before apiVersion must stay that way.
	resources := mustParse(t, "kind: ConfigMap\napiVersion: v1\nmetadata:\n  name: cm\ndata:\n  b: \"2\"\n  a: \"1\"\n")

	out, err := Serialize(resources, DefaultSerializeOptions())
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "kind:"), strings.Index(out, "apiVersion:"))
	assert.Less(t, strings.Index(out, "\n  b:"), strings.Index(out, "\n  a:"))
}

func TestSerialize_StructuredInputEmitsBlockYAML(t *testing.T) {
	payload := `[{"apiVersion":"v1","kind":"Pod","metadata":{"name":"p","labels":{"app":"p"}}},{"apiVersion":"v1","kind":"Service","metadata":{"name":"s"}}]`

	resources, err := parser.NewParser().ParseStructured(context.Background(), []byte(payload))
	require.NoError(t, err)

	out, err := Serialize(resources, DefaultSerializeOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "kind: Pod")
	assert.Contains(t, out, "kind: Service")
	assert.Contains(t, out, "  labels:\n    app: p")
	assert.NotContains(t, out, "{")
}

func TestSerialize_DocumentOrderMatchesInput(t *testing.T) {
	resources := mustParse(t, "kind: B\napiVersion: v1\n---\nkind: A\napiVersion: v1\n")

	out, err := Serialize(resources, DefaultSerializeOptions())
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "kind: B"), strings.Index(out, "kind: A"))
}

func TestSerialize_RoundTrip(t *testing.T) {
	body := `apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
  labels:
    app: web
spec:
  replicas: 3
---
apiVersion: v1
kind: Service
metadata:
  name: web
`
	first := mustParse(t, body)

	out, err := Serialize(first, DefaultSerializeOptions())
	require.NoError(t, err)

	second := mustParse(t, out)
	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].QualifiedName(), second[i].QualifiedName())
	}

	// Canonicalization is idempotent.
	again, err := Serialize(second, DefaultSerializeOptions())
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSerialize_Empty(t *testing.T) {
	out, err := Serialize(nil, DefaultSerializeOptions())
	require.NoError(t, err)
	assert.Empty(t, out)
}
