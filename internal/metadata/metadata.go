// Package metadata resolves cloud and cluster identity from parsed release
// resources and builds a descriptive inventory of what the release deploys.
//
// Identity fields (region, cluster, account) are resolved independently,
// each by scanning an ordered list of sources and taking the first hit:
// topology labels, then user-supplied values, then provider annotations,
// then identifiers embedded in container environment variables. Resolution
// is best-effort; a field no source can answer stays empty.
package metadata

import (
	"context"

	"github.com/hupe1980/helmlens/internal/k8s"
)

// Record is the enrichment output for one parsed release. It is built by a
// single fold over the validated resources plus the user-supplied values and
// is never mutated afterwards.
type Record struct {
	// Region is the resolved cloud region (e.g. "us-west-2").
	Region string `json:"region,omitempty"`

	// Cluster is the resolved cluster name.
	Cluster string `json:"cluster,omitempty"`

	// AccountID is the resolved 12-digit cloud account identifier.
	AccountID string `json:"accountId,omitempty"`

	// Images lists every container image reference encountered.
	// Duplicates are preserved; repetition count is meaningful downstream.
	Images []string `json:"images,omitempty"`

	// ConfigRefs lists ConfigMap names referenced as env or volume sources.
	ConfigRefs []string `json:"configRefs,omitempty"`

	// SecretRefs lists Secret names referenced as env or volume sources.
	SecretRefs []string `json:"secretRefs,omitempty"`

	// VolumeClaims lists persistent volume claim names.
	VolumeClaims []string `json:"volumeClaims,omitempty"`

	// Services describes every Service resource.
	Services []ServiceInfo `json:"services,omitempty"`

	// StorageClasses lists storage class names in use.
	StorageClasses []string `json:"storageClasses,omitempty"`

	// ReplicaCounts lists declared replica counts per workload.
	ReplicaCounts []ReplicaCount `json:"replicaCounts,omitempty"`

	// ARNs lists every ARN-shaped string found in annotations or
	// container environment values.
	ARNs []string `json:"arns,omitempty"`
}

// ServiceInfo captures the type and load-balancer related fields of one
// Service resource.
type ServiceInfo struct {
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

// Resolve folds over resources and the raw user-supplied values text to
// build one Record. It never fails: individual sources that are malformed
// or absent are skipped, and unresolvable fields stay empty.
func Resolve(ctx context.Context, resources []*k8s.Resource, userValues string) *Record {
	vals := parseValues(ctx, userValues)

	rec := &Record{}

	rec.Region = firstHit(
		func() string { return regionFromLabels(resources) },
		func() string { return stringFromValues(vals, regionValueKeys) },
		func() string { return regionFromEnv(resources) },
	)

	rec.Cluster = firstHit(
		func() string { return stringFromValues(vals, clusterValueKeys) },
		func() string { return clusterFromAnnotations(resources) },
	)

	rec.AccountID = firstHit(
		func() string { return stringFromValues(vals, accountValueKeys) },
		func() string { return accountFromAnnotations(resources) },
		func() string { return accountFromEnv(resources) },
	)

	for _, r := range resources {
		collectImages(rec, r)
		collectEnvSources(rec, r)
		collectVolumes(rec, r)
		collectService(rec, r)
		collectStorage(rec, r)
		collectReplicas(rec, r)
		collectARNs(rec, r)
	}

	return rec
}

// sourceFunc is one resolver in a per-field precedence chain.
type sourceFunc func() string

// firstHit runs sources in order and returns the first non-empty answer.
func firstHit(sources ...sourceFunc) string {
	for _, src := range sources {
		if v := src(); v != "" {
			return v
		}
	}

	return ""
}
