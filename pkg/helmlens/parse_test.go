package helmlens

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = `NAME: web
LAST DEPLOYED: Mon Aug 25 10:04:12 2025
NAMESPACE: production
STATUS: pending-install
REVISION: 1
USER-SUPPLIED VALUES:
region: eu-west-1
clusterName: prod-cluster

COMPUTED VALUES:
replicaCount: 3

HOOKS:
MANIFEST:
---
# Source: web/templates/configmap.yaml
apiVersion: v1
kind: ConfigMap
metadata:
  name: web-config
  namespace: production
data:
  zulu: "1"
  alpha: "2"
---
# Source: web/templates/deployment.yaml
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
  namespace: production
spec:
  replicas: 3
  template:
    spec:
      containers:
        - name: web
          image: registry.example.com/web:1.4.2
`

func TestParse_Transcript(t *testing.T) {
	t.Parallel()

	result, err := Parse(context.Background(), sampleTranscript)
	require.NoError(t, err)

	assert.Equal(t, "web", result.ReleaseName)
	assert.Equal(t, "production", result.Namespace)
	assert.Equal(t, "pending-install", result.Status)
	assert.Equal(t, "1", result.Revision)
	assert.Equal(t, 2, result.ResourceCount)

	require.Len(t, result.Resources, 2)
	assert.Equal(t, ResourceSummary{
		APIVersion: "v1",
		Kind:       "ConfigMap",
		Name:       "web-config",
		Namespace:  "production",
	}, result.Resources[0])
	assert.Equal(t, "Deployment", result.Resources[1].Kind)

	// Declaration order of fields and documents survives serialization.
	assert.Contains(t, result.ManifestYAML, "  zulu: \"1\"\n  alpha: \"2\"")
	assert.Less(t,
		strings.Index(result.ManifestYAML, "kind: ConfigMap"),
		strings.Index(result.ManifestYAML, "kind: Deployment"))

	require.NotNil(t, result.Metadata)
	assert.Equal(t, "eu-west-1", result.Metadata.Region)
	assert.Equal(t, "prod-cluster", result.Metadata.Cluster)
	assert.Equal(t, []string{"registry.example.com/web:1.4.2"}, result.Metadata.Images)

	require.Len(t, result.Metadata.ReplicaCounts, 1)
	assert.Equal(t, int64(3), result.Metadata.ReplicaCounts[0].Replicas)
}

func TestParse_StructuredObject(t *testing.T) {
	t.Parallel()

	payload := `{"apiVersion": "v1", "kind": "Service", "metadata": {"name": "svc", "namespace": "default"}}`

	result, err := Parse(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ResourceCount)
	assert.Empty(t, result.ReleaseName)
	assert.Equal(t, "Service", result.Resources[0].Kind)
	assert.Contains(t, result.ManifestYAML, "kind: Service")
}

func TestParse_StructuredArray(t *testing.T) {
	t.Parallel()

	payload := `[
		{"apiVersion": "v1", "kind": "ConfigMap", "metadata": {"name": "a"}},
		{"apiVersion": "v1", "kind": "Secret", "metadata": {"name": "b"}}
	]`

	result, err := Parse(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, 2, result.ResourceCount)
	assert.Equal(t, "ConfigMap", result.Resources[0].Kind)
	assert.Equal(t, "Secret", result.Resources[1].Kind)
}

func TestParse_StructuredPreservesKeyOrder(t *testing.T) {
	t.Parallel()

	payload := `{"kind": "ConfigMap", "apiVersion": "v1", "metadata": {"name": "a"}}`

	result, err := Parse(context.Background(), payload)
	require.NoError(t, err)

	assert.Less(t,
		strings.Index(result.ManifestYAML, "kind: ConfigMap"),
		strings.Index(result.ManifestYAML, "apiVersion: v1"))
}

func TestParse_MixedValidity(t *testing.T) {
	t.Parallel()

	payload := `[
		{"apiVersion": "v1", "kind": "ConfigMap", "metadata": {"name": "a"}},
		{"metadata": {"name": "no-kind"}},
		{"apiVersion": "v1", "metadata": {"name": "no-kind-either"}}
	]`

	result, err := Parse(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ResourceCount)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty input", input: "", wantErr: ErrEmptyInput},
		{name: "whitespace only", input: "  \n\t ", wantErr: ErrEmptyInput},
		{name: "json scalar", input: `"just a string"`, wantErr: ErrUnsupportedShape},
		{name: "json number", input: "42", wantErr: ErrUnsupportedShape},
		{name: "garbage", input: "not a transcript, not json", wantErr: ErrInvalidFormat},
		{name: "transcript without manifest", input: "NAME: web\nSTATUS: deployed\n", wantErr: ErrManifestSectionMissing},
		{name: "all invalid resources", input: `[{"metadata": {"name": "x"}}]`, wantErr: ErrNoValidResources},
		{name: "manifest with no valid docs", input: "NAME: web\nMANIFEST:\nfoo: bar\n", wantErr: ErrNoValidResources},
		{name: "bare mapping without resources", input: "foo: bar\n", wantErr: ErrNoValidResources},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	first, err := Parse(context.Background(), sampleTranscript)
	require.NoError(t, err)

	// Canonical output fed straight back in must be a fixpoint.
	second, err := Parse(context.Background(), first.ManifestYAML)
	require.NoError(t, err)

	assert.Equal(t, first.ManifestYAML, second.ManifestYAML)
	assert.Equal(t, first.ResourceCount, second.ResourceCount)
}

func TestParse_BareManifest(t *testing.T) {
	t.Parallel()

	raw := "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: cm\n---\napiVersion: apps/v1\nkind: Deployment\nmetadata:\n  name: web\n"

	result, err := Parse(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 2, result.ResourceCount)
	assert.Empty(t, result.ReleaseName)
	assert.Empty(t, result.Namespace)
	assert.Contains(t, result.ManifestYAML, "kind: Deployment")
}

func TestParse_WithoutMetadata(t *testing.T) {
	t.Parallel()

	result, err := Parse(context.Background(), sampleTranscript, WithoutMetadata())
	require.NoError(t, err)

	assert.Nil(t, result.Metadata)
}
