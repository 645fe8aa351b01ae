// Package k8s provides Kubernetes resource abstractions for parsed manifests.
package k8s

import (
	yaml "gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Resource represents a parsed Kubernetes resource with its GVK, metadata,
// and full unstructured representation.
type Resource struct {
	// GVK is the GroupVersionKind of the resource.
	GVK schema.GroupVersionKind

	// Name is metadata.name.
	Name string

	// Namespace is metadata.namespace (may be empty for cluster-scoped).
	Namespace string

	// Labels from metadata.labels.
	Labels map[string]string

	// Annotations from metadata.annotations.
	Annotations map[string]string

	// Node is the original document node. Serialization goes through the
	// node so that the author's field order survives a round trip.
	Node *yaml.Node

	// Object is the full unstructured representation.
	Object *unstructured.Unstructured
}

// APIVersion returns the apiVersion string (e.g. "apps/v1").
func (r *Resource) APIVersion() string {
	if r.Object != nil {
		return r.Object.GetAPIVersion()
	}

	return r.GVK.GroupVersion().String()
}

// Kind returns the resource kind (e.g. "Deployment").
func (r *Resource) Kind() string {
	return r.GVK.Kind
}

// QualifiedName returns "kind/name" for display purposes.
func (r *Resource) QualifiedName() string {
	return r.GVK.Kind + "/" + r.Name
}

// PodSpec returns the pod spec map for pod-bearing resources: the resource's
// own spec for a Pod, spec.template.spec for workloads, and
// spec.jobTemplate.spec.template.spec for CronJobs. Returns nil when the
// resource has no pod spec.
func (r *Resource) PodSpec() map[string]interface{} {
	if r.Object == nil {
		return nil
	}

	spec, ok := r.Object.Object["spec"].(map[string]interface{})
	if !ok {
		return nil
	}

	switch r.Kind() {
	case "Pod":
		return spec
	case "CronJob":
		jobTemplate, ok := spec["jobTemplate"].(map[string]interface{})
		if !ok {
			return nil
		}

		jobSpec, ok := jobTemplate["spec"].(map[string]interface{})
		if !ok {
			return nil
		}

		spec = jobSpec
	}

	template, ok := spec["template"].(map[string]interface{})
	if !ok {
		return nil
	}

	podSpec, ok := template["spec"].(map[string]interface{})
	if !ok {
		return nil
	}

	return podSpec
}

// WorkloadKinds defines the Kubernetes kinds that contain pod templates.
var WorkloadKinds = map[string]bool{
	"Deployment":  true,
	"StatefulSet": true,
	"DaemonSet":   true,
	"Job":         true,
	"CronJob":     true,
	"ReplicaSet":  true,
}

// IsWorkloadKind returns true if the kind represents a pod-bearing workload.
func IsWorkloadKind(kind string) bool {
	return WorkloadKinds[kind]
}
