package metadata

import (
	"regexp"

	"github.com/hupe1980/helmlens/internal/k8s"
)

// Well-known topology labels, highest-precedence identity source.
var (
	regionLabels = []string{
		"topology.kubernetes.io/region",
		"failure-domain.beta.kubernetes.io/region",
	}

	zoneLabels = []string{
		"topology.kubernetes.io/zone",
		"failure-domain.beta.kubernetes.io/zone",
	}
)

// Provider annotation conventions, consulted after values.
var (
	clusterAnnotations = []string{
		"alpha.eksctl.io/cluster-name",
		"eks.amazonaws.com/cluster-name",
	}

	roleARNAnnotations = []string{
		"eks.amazonaws.com/role-arn",
	}
)

// Nested value keys looked up in the user-supplied values, dotted-path form.
var (
	regionValueKeys  = []string{"region", "aws.region", "global.region"}
	clusterValueKeys = []string{"clusterName", "cluster.name", "global.clusterName"}
	accountValueKeys = []string{"accountId", "aws.accountId", "global.accountId"}
)

// regionFromLabels scans resource labels for a region label, falling back
// to a zone label with the trailing zone letter trimmed
// ("us-east-1a" -> "us-east-1").
func regionFromLabels(resources []*k8s.Resource) string {
	for _, r := range resources {
		for _, key := range regionLabels {
			if v := r.Labels[key]; v != "" {
				return v
			}
		}
	}

	for _, r := range resources {
		for _, key := range zoneLabels {
			if v := r.Labels[key]; v != "" {
				return trimZoneSuffix(v)
			}
		}
	}

	return ""
}

// regionShape matches provider region names such as "us-east-1" or
// "us-gov-west-1".
var regionShape = regexp.MustCompile(`^[a-z]{2}(?:-[a-z]+)+-\d+$`)

// trimZoneSuffix strips the single trailing availability-zone letter, but
// only when the remainder is a plausible region name. Zone-like values
// that are not zones pass through unchanged.
func trimZoneSuffix(zone string) string {
	if len(zone) > 1 {
		last := zone[len(zone)-1]
		if last >= 'a' && last <= 'z' {
			if rest := zone[:len(zone)-1]; regionShape.MatchString(rest) {
				return rest
			}
		}
	}

	return zone
}

// clusterFromAnnotations scans resource annotations for a cluster-name
// convention.
func clusterFromAnnotations(resources []*k8s.Resource) string {
	for _, r := range resources {
		for _, key := range clusterAnnotations {
			if v := r.Annotations[key]; v != "" {
				return v
			}
		}
	}

	return ""
}

// accountFromAnnotations extracts the account segment from a role ARN
// annotation.
func accountFromAnnotations(resources []*k8s.Resource) string {
	for _, r := range resources {
		for _, key := range roleARNAnnotations {
			if v := r.Annotations[key]; v != "" {
				if arn, ok := ParseARN(v); ok {
					return arn.AccountID
				}
			}
		}
	}

	return ""
}

// accountFromEnv scans container environment values for an embedded
// account identifier (ARN account segment or bare 12-digit token).
func accountFromEnv(resources []*k8s.Resource) string {
	found := ""

	forEachEnvValue(resources, func(v string) bool {
		if id := FindAccountID(v); id != "" {
			found = id
			return false
		}

		return true
	})

	return found
}

// regionFromEnv scans container environment values for an ARN with a
// non-empty region segment.
func regionFromEnv(resources []*k8s.Resource) string {
	found := ""

	forEachEnvValue(resources, func(v string) bool {
		for _, arn := range FindARNs(v) {
			if arn.Region != "" {
				found = arn.Region
				return false
			}
		}

		return true
	})

	return found
}

// forEachEnvValue walks the env entries of all containers and
// initContainers, calling fn with every non-empty value. fn returning
// false stops the walk.
func forEachEnvValue(resources []*k8s.Resource, fn func(string) bool) {
	for _, r := range resources {
		podSpec := r.PodSpec()
		if podSpec == nil {
			continue
		}

		for _, listKey := range []string{"containers", "initContainers"} {
			for _, c := range asSlice(podSpec[listKey]) {
				container := asMap(c)
				if container == nil {
					continue
				}

				for _, e := range asSlice(container["env"]) {
					entry := asMap(e)
					if entry == nil {
						continue
					}

					if v := asString(entry["value"]); v != "" {
						if !fn(v) {
							return
						}
					}
				}
			}
		}
	}
}
