package k8s

import "k8s.io/apimachinery/pkg/runtime/schema"

// GVK classification functions for branching by resource kind.

// IsWorkload returns true for workload resources.
func IsWorkload(gvk schema.GroupVersionKind) bool {
	switch gvk.Kind {
	case "Deployment", "StatefulSet", "DaemonSet", "ReplicaSet":
		return gvk.Group == "apps"
	case "Job", "CronJob":
		return gvk.Group == "batch"
	case "Pod":
		return gvk.Group == "" || gvk.Group == "core"
	}

	return false
}

// IsService returns true for Service resources.
func IsService(gvk schema.GroupVersionKind) bool {
	return (gvk.Group == "" || gvk.Group == "core") && gvk.Kind == "Service"
}

// IsConfig returns true for configuration resources (ConfigMap, Secret).
func IsConfig(gvk schema.GroupVersionKind) bool {
	if gvk.Group != "" && gvk.Group != "core" {
		return false
	}

	return gvk.Kind == "ConfigMap" || gvk.Kind == "Secret"
}

// IsStorage returns true for storage resources.
func IsStorage(gvk schema.GroupVersionKind) bool {
	if gvk.Group == "storage.k8s.io" && gvk.Kind == "StorageClass" {
		return true
	}

	if gvk.Group != "" && gvk.Group != "core" {
		return false
	}

	return gvk.Kind == "PersistentVolumeClaim" || gvk.Kind == "PersistentVolume"
}
