// Package manifest handles parsing and validation of Skylift service
// manifests. It turns raw skylift.yaml documents into validated
// ServiceManifest values: JSON Schema validation covers field shapes and
// types, Go-side checks cover the cross-field invariants, and platform
// defaults are merged into a fresh copy before the result is handed to
// consumers. Load is a pure transform over the input bytes; the manifest
// it returns is never mutated afterwards.
package manifest
