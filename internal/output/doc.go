// Package output renders command results and writes files.
//
// The package is organized around two concerns:
//
//   - Writers (writer.go): output destinations via the [Writer] interface,
//     with [StdoutWriter] and [FileWriter] implementations.
//
//   - Serialization (serializer.go, registry.go): JSON and YAML rendering of
//     API values, selected by name through a [Registry] so commands can
//     offer a --format flag.
package output
