package k8s

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsImageDigest returns true if the image reference contains a digest reference.
func IsImageDigest(image string) bool {
	return strings.Contains(image, "@sha256:")
}

// ImageTag extracts the tag portion of an image reference, or empty string
// when the image has no explicit tag or is pinned by digest.
func ImageTag(image string) string {
	if image == "" || IsImageDigest(image) {
		return ""
	}

	// Look only at the reference part after the last slash to avoid
	// matching colons in the registry hostname ("registry.io:5000/app").
	ref := image
	if slashIdx := strings.LastIndex(ref, "/"); slashIdx >= 0 {
		ref = ref[slashIdx+1:]
	}

	if colonIdx := strings.LastIndex(ref, ":"); colonIdx >= 0 {
		return ref[colonIdx+1:]
	}

	return ""
}

// HasLatestTag returns true if the image uses :latest or has no explicit tag.
// Images with digests are never considered "latest".
func HasLatestTag(image string) bool {
	if len(image) == 0 {
		return false
	}

	if IsImageDigest(image) {
		return false
	}

	tag := ImageTag(image)
	return tag == "" || tag == "latest"
}

// IsPinnedImage returns true if the image is pinned to an immutable-looking
// reference: a digest or a tag that parses as a semantic version. Mutable
// tags like "latest", "stable", or bare branch names return false.
func IsPinnedImage(image string) bool {
	if IsImageDigest(image) {
		return true
	}

	tag := ImageTag(image)
	if tag == "" {
		return false
	}

	_, err := semver.NewVersion(tag)

	return err == nil
}
