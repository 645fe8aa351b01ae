// Package output renders validated resources back into a canonical
// multi-document YAML manifest and provides pluggable output writers.
//
//   - Serialization (serializer.go): one document per resource, separated by
//     "---", field order preserved from the source documents.
//
//   - Writers (writer.go): output destinations via the [Writer] interface,
//     with [StdoutWriter] and [FileWriter] implementations.
package output
