package diff

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/hupe1980/helmlens/internal/k8s"
)

// ChangeType classifies a resource-level change.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// ResourceChange represents a change to one resource between two renditions.
type ResourceChange struct {
	Type      ChangeType `json:"type"`
	Kind      string     `json:"kind"`
	Name      string     `json:"name"`
	Namespace string     `json:"namespace,omitempty"`
}

// Ref returns a human-readable resource reference.
func (c ResourceChange) Ref() string {
	if c.Namespace != "" {
		return fmt.Sprintf("%s/%s/%s", c.Namespace, c.Kind, c.Name)
	}

	return fmt.Sprintf("%s/%s", c.Kind, c.Name)
}

// CompareResources compares two parsed resource sets and returns the
// per-resource changes, removals first, then sorted by reference.
func CompareResources(oldResources, newResources []*k8s.Resource) []ResourceChange {
	oldIdx := indexResources(oldResources)
	newIdx := indexResources(newResources)

	var changes []ResourceChange

	for key, r := range oldIdx {
		if _, exists := newIdx[key]; !exists {
			changes = append(changes, change(ChangeRemoved, r))
		}
	}

	for key, r := range newIdx {
		old, exists := oldIdx[key]
		if !exists {
			changes = append(changes, change(ChangeAdded, r))
			continue
		}

		if !resourcesEqual(old, r) {
			changes = append(changes, change(ChangeModified, r))
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		removedI := changes[i].Type == ChangeRemoved
		removedJ := changes[j].Type == ChangeRemoved

		if removedI != removedJ {
			return removedI
		}

		return changes[i].Ref() < changes[j].Ref()
	})

	return changes
}

// WriteChanges writes a one-line-per-change summary.
func WriteChanges(w io.Writer, changes []ResourceChange) {
	if len(changes) == 0 {
		_, _ = fmt.Fprintln(w, "No resource changes.")
		return
	}

	added, removed, modified := countByType(changes)

	for _, c := range changes {
		_, _ = fmt.Fprintf(w, "%-8s %s\n", string(c.Type), c.Ref())
	}

	_, _ = fmt.Fprintf(w, "\n%d added, %d removed, %d modified\n", added, removed, modified)
}

func change(t ChangeType, r *k8s.Resource) ResourceChange {
	return ResourceChange{
		Type:      t,
		Kind:      r.GVK.Kind,
		Name:      r.Name,
		Namespace: r.Namespace,
	}
}

func indexResources(resources []*k8s.Resource) map[string]*k8s.Resource {
	idx := make(map[string]*k8s.Resource, len(resources))

	for _, r := range resources {
		key := r.Namespace + "|" + r.GVK.String() + "|" + r.Name
		idx[key] = r
	}

	return idx
}

func resourcesEqual(a, b *k8s.Resource) bool {
	if a.Object == nil || b.Object == nil {
		return a.Object == b.Object
	}

	return reflect.DeepEqual(a.Object.Object, b.Object.Object)
}

func countByType(changes []ResourceChange) (added, removed, modified int) {
	for _, c := range changes {
		switch c.Type {
		case ChangeAdded:
			added++
		case ChangeRemoved:
			removed++
		case ChangeModified:
			modified++
		}
	}

	return
}
