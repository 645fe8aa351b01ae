package metadata

import (
	"github.com/hupe1980/helmlens/internal/k8s"
)

// Auxiliary extraction: best-effort inventory of what the release deploys.
// Every collector tolerates missing or malformed fields on a per-resource
// basis; one broken document never aborts the rest.

// collectImages appends every container and initContainer image reference.
func collectImages(rec *Record, r *k8s.Resource) {
	forEachContainer(r, func(container map[string]interface{}) {
		if image := asString(container["image"]); image != "" {
			rec.Images = append(rec.Images, image)
		}
	})
}

// collectEnvSources appends ConfigMap and Secret names referenced through
// envFrom and env valueFrom.
func collectEnvSources(rec *Record, r *k8s.Resource) {
	forEachContainer(r, func(container map[string]interface{}) {
		for _, e := range asSlice(container["envFrom"]) {
			entry := asMap(e)

			if name := nestedName(entry, "configMapRef"); name != "" {
				rec.ConfigRefs = append(rec.ConfigRefs, name)
			}

			if name := nestedName(entry, "secretRef"); name != "" {
				rec.SecretRefs = append(rec.SecretRefs, name)
			}
		}

		for _, e := range asSlice(container["env"]) {
			valueFrom := asMap(asMap(e)["valueFrom"])

			if name := nestedName(valueFrom, "configMapKeyRef"); name != "" {
				rec.ConfigRefs = append(rec.ConfigRefs, name)
			}

			if name := nestedName(valueFrom, "secretKeyRef"); name != "" {
				rec.SecretRefs = append(rec.SecretRefs, name)
			}
		}
	})
}

// collectVolumes appends config/secret volume sources and PVC claim names
// from pod volumes.
func collectVolumes(rec *Record, r *k8s.Resource) {
	podSpec := r.PodSpec()
	if podSpec == nil {
		return
	}

	for _, v := range asSlice(podSpec["volumes"]) {
		volume := asMap(v)
		if volume == nil {
			continue
		}

		if name := nestedName(volume, "configMap"); name != "" {
			rec.ConfigRefs = append(rec.ConfigRefs, name)
		}

		// Secret volumes name the secret via secretName, not name.
		if secret := asMap(volume["secret"]); secret != nil {
			if name := asString(secret["secretName"]); name != "" {
				rec.SecretRefs = append(rec.SecretRefs, name)
			}
		}

		if pvc := asMap(volume["persistentVolumeClaim"]); pvc != nil {
			if claim := asString(pvc["claimName"]); claim != "" {
				rec.VolumeClaims = append(rec.VolumeClaims, claim)
			}
		}
	}
}

// collectService records type and load-balancer fields of Service resources.
func collectService(rec *Record, r *k8s.Resource) {
	if !k8s.IsService(r.GVK) {
		return
	}

	spec := asMap(r.Object.Object["spec"])

	svc := ServiceInfo{
		Name: r.Name,
		Type: asString(spec["type"]),
	}

	if svc.Type == "" {
		svc.Type = "ClusterIP"
	}

	svc.LoadBalancerClass = asString(spec["loadBalancerClass"])
	svc.LoadBalancerIP = asString(spec["loadBalancerIP"])
	svc.ExternalTrafficPolicy = asString(spec["externalTrafficPolicy"])

	rec.Services = append(rec.Services, svc)
}

// collectStorage records PVC names, storage class names, and
// volumeClaimTemplates from workloads and storage resources.
func collectStorage(rec *Record, r *k8s.Resource) {
	switch {
	case r.GVK.Kind == "PersistentVolumeClaim":
		if r.Name != "" {
			rec.VolumeClaims = append(rec.VolumeClaims, r.Name)
		}

		spec := asMap(r.Object.Object["spec"])
		if sc := asString(spec["storageClassName"]); sc != "" {
			rec.StorageClasses = append(rec.StorageClasses, sc)
		}
	case r.GVK.Kind == "StorageClass":
		if r.Name != "" {
			rec.StorageClasses = append(rec.StorageClasses, r.Name)
		}
	case k8s.IsWorkloadKind(r.GVK.Kind):
		spec := asMap(r.Object.Object["spec"])

		for _, t := range asSlice(spec["volumeClaimTemplates"]) {
			tmpl := asMap(t)

			if name := nestedName(tmpl, "metadata"); name != "" {
				rec.VolumeClaims = append(rec.VolumeClaims, name)
			}

			tmplSpec := asMap(tmpl["spec"])
			if sc := asString(tmplSpec["storageClassName"]); sc != "" {
				rec.StorageClasses = append(rec.StorageClasses, sc)
			}
		}
	}
}

// collectReplicas records the declared replica count of scalable workloads.
func collectReplicas(rec *Record, r *k8s.Resource) {
	if !k8s.IsWorkloadKind(r.GVK.Kind) {
		return
	}

	spec := asMap(r.Object.Object["spec"])

	if replicas, ok := asInt64(spec["replicas"]); ok {
		rec.ReplicaCounts = append(rec.ReplicaCounts, ReplicaCount{
			Kind:     r.GVK.Kind,
			Name:     r.Name,
			Replicas: replicas,
		})
	}
}

// collectARNs appends every ARN-shaped string found in annotations and
// container environment values of this resource.
func collectARNs(rec *Record, r *k8s.Resource) {
	for _, v := range r.Annotations {
		for _, arn := range FindARNs(v) {
			rec.ARNs = append(rec.ARNs, arn.Raw)
		}
	}

	forEachContainer(r, func(container map[string]interface{}) {
		for _, e := range asSlice(container["env"]) {
			if v := asString(asMap(e)["value"]); v != "" {
				for _, arn := range FindARNs(v) {
					rec.ARNs = append(rec.ARNs, arn.Raw)
				}
			}
		}
	})
}

// forEachContainer calls fn for every container and initContainer of a
// pod-bearing resource.
func forEachContainer(r *k8s.Resource, fn func(map[string]interface{})) {
	podSpec := r.PodSpec()
	if podSpec == nil {
		return
	}

	for _, listKey := range []string{"containers", "initContainers"} {
		for _, c := range asSlice(podSpec[listKey]) {
			if container := asMap(c); container != nil {
				fn(container)
			}
		}
	}
}

// nestedName returns m[key].name as a string when present.
func nestedName(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}

	return asString(asMap(m[key])["name"])
}

// Untyped accessors: decoded documents have no fixed schema, so every
// lookup returns the zero value instead of panicking on surprises.

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case uint64:
		return int64(t), true
	case float64:
		return int64(t), true
	}

	return 0, false
}
