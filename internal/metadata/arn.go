package metadata

import (
	"regexp"
	"strings"
)

// ARN is a decomposed Amazon Resource Name:
// arn:partition:service:region:account-id:resource.
type ARN struct {
	Raw       string
	Partition string
	Service   string
	Region    string
	AccountID string
	Resource  string
}

// arnPattern matches ARN-shaped substrings inside free-form text. The
// account segment is anchored to exactly 12 digits to keep false positives
// out; region and resource segments stay permissive since services vary.
var arnPattern = regexp.MustCompile(`\barn:aws[a-z-]*:[a-z0-9-]+:[a-z0-9-]*:\d{12}:[^\s"',]+`)

// accountIDPattern matches a bare 12-digit account identifier as a whole
// token. Longer digit runs (timestamps, serials) must not match.
var accountIDPattern = regexp.MustCompile(`(?:^|[^0-9])(\d{12})(?:[^0-9]|$)`)

// ParseARN decomposes a single ARN string. Returns false when s is not
// ARN-shaped.
func ParseARN(s string) (ARN, bool) {
	if !strings.HasPrefix(s, "arn:") {
		return ARN{}, false
	}

	parts := strings.SplitN(s, ":", 6)
	if len(parts) != 6 {
		return ARN{}, false
	}

	if len(parts[4]) != 12 || !isDigits(parts[4]) {
		return ARN{}, false
	}

	return ARN{
		Raw:       s,
		Partition: parts[1],
		Service:   parts[2],
		Region:    parts[3],
		AccountID: parts[4],
		Resource:  parts[5],
	}, true
}

// FindARNs extracts every ARN-shaped substring from s.
func FindARNs(s string) []ARN {
	var arns []ARN

	for _, m := range arnPattern.FindAllString(s, -1) {
		if arn, ok := ParseARN(m); ok {
			arns = append(arns, arn)
		}
	}

	return arns
}

// FindAccountID extracts an account identifier from s: the account segment
// of an embedded ARN, or a bare 12-digit token.
func FindAccountID(s string) string {
	if arns := FindARNs(s); len(arns) > 0 {
		return arns[0].AccountID
	}

	if m := accountIDPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}

	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return len(s) > 0
}
