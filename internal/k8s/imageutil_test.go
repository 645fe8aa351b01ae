package k8s

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageDigest(t *testing.T) {
	t.Parallel()

	assert.True(t, IsImageDigest("nginx@sha256:abc123def456"))
	assert.False(t, IsImageDigest("nginx:1.25.0"))
	assert.False(t, IsImageDigest("nginx"))
}

func TestImageTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		image string
		want  string
	}{
		{name: "simple tag", image: "nginx:1.25.0", want: "1.25.0"},
		{name: "no tag", image: "nginx", want: ""},
		{name: "registry with port", image: "registry.io:5000/app", want: ""},
		{name: "registry with port and tag", image: "registry.io:5000/app:v2", want: "v2"},
		{name: "nested repository", image: "ghcr.io/org/app:1.0.0", want: "1.0.0"},
		{name: "digest", image: "nginx@sha256:abc123", want: ""},
		{name: "empty", image: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ImageTag(tt.image))
		})
	}
}

func TestHasLatestTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		image string
		want  bool
	}{
		{name: "explicit latest", image: "nginx:latest", want: true},
		{name: "no tag", image: "nginx", want: true},
		{name: "registry with port no tag", image: "registry.io:5000/app", want: true},
		{name: "versioned", image: "nginx:1.25.0", want: false},
		{name: "digest", image: "nginx@sha256:abc123", want: false},
		{name: "empty", image: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, HasLatestTag(tt.image))
		})
	}
}

func TestIsPinnedImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		image string
		want  bool
	}{
		{name: "digest", image: "nginx@sha256:abc123", want: true},
		{name: "semver", image: "nginx:1.25.0", want: true},
		{name: "semver with v prefix", image: "ghcr.io/org/app:v2.3.1", want: true},
		{name: "partial version", image: "nginx:1.25", want: true},
		{name: "latest", image: "nginx:latest", want: false},
		{name: "branch tag", image: "app:main", want: false},
		{name: "no tag", image: "nginx", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsPinnedImage(tt.image))
		})
	}
}
