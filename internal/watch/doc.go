// Package watch provides file-watching for the live re-ingestion workflow.
// It monitors release transcript files for changes, debounces rapid events,
// and triggers the ingestion pipeline automatically.
package watch
