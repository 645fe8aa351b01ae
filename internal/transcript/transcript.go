// Package transcript dismantles helm dry-run transcripts into their
// line-anchored sections and detects structured JSON payload input.
//
// A transcript is the full textual output of `helm install --dry-run --debug`:
// release fields (NAME:, NAMESPACE:, ...), an optional USER-SUPPLIED VALUES:
// section, and the MANIFEST: section holding the rendered resources. A
// structured payload is the same manifest already provided as one JSON object
// or an array of objects, which bypasses section parsing entirely. A bare
// multi-document YAML manifest is also accepted, so canonical output can be
// fed straight back in.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hupe1980/helmlens/internal/yamlutil"
)

// Error kinds surfaced to callers. The messages are part of the external
// contract; tooling matches on them.
var (
	// ErrEmptyInput is returned for empty or all-whitespace input.
	ErrEmptyInput = errors.New("input is empty")

	// ErrInvalidFormat is returned when the input is not a decodable JSON
	// payload, a release transcript, or a bare YAML manifest.
	ErrInvalidFormat = errors.New("invalid input format")

	// ErrUnsupportedShape is returned when a JSON payload decodes to
	// something other than an object or an array.
	ErrUnsupportedShape = errors.New("unsupported payload shape")

	// ErrManifestSectionMissing is returned when a transcript carries no
	// MANIFEST: section.
	ErrManifestSectionMissing = errors.New("manifest section missing")
)

// Section markers, line-anchored and case-sensitive.
const (
	nameMarker         = "NAME:"
	namespaceMarker    = "NAMESPACE:"
	lastDeployedMarker = "LAST DEPLOYED:"
	statusMarker       = "STATUS:"
	revisionMarker     = "REVISION:"
	valuesMarker       = "USER-SUPPLIED VALUES:"
	manifestMarker     = "MANIFEST:"
)

// knownMarkers are the headers whose presence identifies a transcript once
// JSON decoding has failed. HOOKS:, NOTES:, and COMPUTED VALUES: carry no
// data we extract, but they still prove the input came from helm.
var knownMarkers = []string{
	nameMarker,
	namespaceMarker,
	lastDeployedMarker,
	statusMarker,
	revisionMarker,
	valuesMarker,
	manifestMarker,
	"COMPUTED VALUES:",
	"HOOKS:",
	"NOTES:",
	"TEST SUITE:",
}

// topLevelHeader matches transcript section headers such as "MANIFEST:" or
// "USER-SUPPLIED VALUES:" at the start of a line.
var topLevelHeader = regexp.MustCompile(`^[A-Z][A-Z0-9 _-]*:`)

// Release holds the sections extracted from a transcript. All fields are
// optional except ManifestBody, whose absence fails the split.
type Release struct {
	// Name is the release name from the NAME: line.
	Name string

	// Namespace is the target namespace from the NAMESPACE: line.
	Namespace string

	// LastDeployed, Status, and Revision mirror helm's release header
	// fields when present.
	LastDeployed string
	Status       string
	Revision     string

	// UserSuppliedValues is the verbatim body of the USER-SUPPLIED
	// VALUES: section (YAML text, empty when the section is absent).
	UserSuppliedValues string

	// ManifestBody is the verbatim body of the MANIFEST: section,
	// running to the end of the transcript.
	ManifestBody string
}

// Format identifies which of the input grammars matched.
type Format int

const (
	// FormatStructured means the input decoded as a JSON object or array.
	FormatStructured Format = iota

	// FormatTranscript means the input is a helm dry-run transcript.
	FormatTranscript

	// FormatManifest means the input is a bare multi-document YAML
	// manifest without transcript framing. Canonical serializer output
	// re-enters the pipeline through this grammar.
	FormatManifest
)

// Input is the outcome of format detection: exactly one of Payload or
// Release is populated depending on Format. Payload holds the raw input
// for both FormatStructured and FormatManifest.
type Input struct {
	Format  Format
	Payload []byte
	Release *Release
}

// Detect decides whether raw is a structured JSON payload, a transcript,
// or a bare manifest.
//
// JSON decoding is attempted first on the whole input. A decodable object or
// array wins; a decodable scalar fails with ErrUnsupportedShape. When JSON
// decoding fails, the input is a transcript if it carries at least one known
// section marker. Without a marker the input is accepted as a bare manifest
// when at least one document decodes as a YAML mapping, otherwise detection
// fails with ErrInvalidFormat.
func Detect(raw string) (*Input, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}

	var payload interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		switch payload.(type) {
		case map[string]interface{}, []interface{}:
			return &Input{Format: FormatStructured, Payload: []byte(raw)}, nil
		default:
			return nil, fmt.Errorf("%w: expected an object or array, got %T", ErrUnsupportedShape, payload)
		}
	}

	if !hasMarker(raw) {
		if looksLikeManifest(raw) {
			return &Input{Format: FormatManifest, Payload: []byte(raw)}, nil
		}

		return nil, fmt.Errorf("%w: input is neither a JSON payload nor a release transcript", ErrInvalidFormat)
	}

	rel, err := Split(raw)
	if err != nil {
		return nil, err
	}

	return &Input{Format: FormatTranscript, Release: rel}, nil
}

// Split extracts the transcript sections from raw. Each marker is honored at
// most once; lines outside known sections are ignored. A transcript without
// a MANIFEST: section fails with ErrManifestSectionMissing.
func Split(raw string) (*Release, error) {
	rel := &Release{}
	lines := strings.Split(raw, "\n")

	manifestFound := false

	for i := 0; i < len(lines); {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, nameMarker):
			rel.Name = markerValue(line, nameMarker)
			i++
		case strings.HasPrefix(line, namespaceMarker):
			rel.Namespace = markerValue(line, namespaceMarker)
			i++
		case strings.HasPrefix(line, lastDeployedMarker):
			rel.LastDeployed = markerValue(line, lastDeployedMarker)
			i++
		case strings.HasPrefix(line, statusMarker):
			rel.Status = markerValue(line, statusMarker)
			i++
		case strings.HasPrefix(line, revisionMarker):
			rel.Revision = markerValue(line, revisionMarker)
			i++
		case strings.HasPrefix(line, valuesMarker):
			// Body runs until the next top-level header, which is
			// re-examined by the outer loop.
			i++
			start := i

			for i < len(lines) && !topLevelHeader.MatchString(lines[i]) {
				i++
			}

			rel.UserSuppliedValues = strings.TrimSpace(strings.Join(lines[start:i], "\n"))
		case strings.HasPrefix(line, manifestMarker):
			// The manifest body runs to the end of the input.
			rel.ManifestBody = strings.Join(lines[i+1:], "\n")
			manifestFound = true
			i = len(lines)
		default:
			i++
		}
	}

	if !manifestFound {
		return nil, ErrManifestSectionMissing
	}

	return rel, nil
}

// markerValue returns the trimmed remainder of a single-line marker.
func markerValue(line, marker string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, marker))
}

// hasMarker reports whether any known section marker starts a line of raw.
func hasMarker(raw string) bool {
	for _, line := range strings.Split(raw, "\n") {
		for _, m := range knownMarkers {
			if strings.HasPrefix(line, m) {
				return true
			}
		}
	}

	return false
}

// looksLikeManifest reports whether at least one document of raw decodes
// as a YAML mapping. Scalar-only input stays undetected.
func looksLikeManifest(raw string) bool {
	for _, doc := range yamlutil.SplitDocuments([]byte(raw)) {
		var node yaml.Node
		if err := yaml.Unmarshal(doc, &node); err != nil {
			continue
		}

		root := &node
		if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
			root = root.Content[0]
		}

		if root.Kind == yaml.MappingNode {
			return true
		}
	}

	return false
}
