package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/service.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult is the full outcome of validating one document. Schema
// findings and invariant findings are kept apart because they map to
// different failure classes; invariant checks only run once the schema
// passes, so at most one of the two slices is populated.
type ValidationResult struct {
	Valid      bool
	Schema     []Issue
	Invariants []Issue
}

// Issues returns all findings in display order, schema first.
func (r *ValidationResult) Issues() []Issue {
	if len(r.Schema) == 0 {
		return r.Invariants
	}
	return append(append([]Issue{}, r.Schema...), r.Invariants...)
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("service.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("service.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw manifest bytes against the service schema and the
// cross-field invariants. YAML that does not decode at all comes back as
// an ErrMalformedInput error; the error return otherwise covers only
// internal failures such as schema compilation. Findings land in the
// result.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	// Decode to a generic structure first; a decode failure here is the
	// one condition that counts as malformed input.
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, malformed(err)
	}

	// Convert YAML maps to JSON-compatible types and marshal to JSON,
	// then unmarshal with json.Number support for the schema validator.
	raw = normalizeYAML(raw)
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	result := &ValidationResult{}
	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		result.Schema = extractIssues(validationErr)
		return result, nil
	}

	// The shape is known good, so the typed decode cannot fail in any way
	// the schema would not have caught first.
	var m ServiceManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, malformed(err)
	}
	result.Invariants = checkInvariants(&m)
	result.Valid = len(result.Invariants) == 0
	return result, nil
}

// ValidateFile reads a file and validates it against the service schema.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

// checkInvariants enforces the cross-field rules the JSON schema cannot
// express. Paths use JSON-pointer notation matching the schema issues.
func checkInvariants(m *ServiceManifest) []Issue {
	var issues []Issue

	seen := make(map[string]int, len(m.Spec.Env))
	for i, e := range m.Spec.Env {
		first, dup := seen[e.Key]
		if dup {
			issues = append(issues, Issue{
				Path:    fmt.Sprintf("/spec/env/%d/key", i),
				Message: fmt.Sprintf("duplicate env key %q, first declared at /spec/env/%d", e.Key, first),
			})
			continue
		}
		seen[e.Key] = i
	}

	if d := m.Spec.Deploy; d != nil && d.MinReplicas > d.MaxReplicas {
		issues = append(issues, Issue{
			Path:    "/spec/deploy/minReplicas",
			Message: fmt.Sprintf("minReplicas (%d) must not exceed maxReplicas (%d)", d.MinReplicas, d.MaxReplicas),
		})
	}

	if m.Spec.Type != TypeWeb && len(m.Spec.Routes) > 0 {
		issues = append(issues, Issue{
			Path:    "/spec/routes",
			Message: fmt.Sprintf("routes are only valid for web services, not %q", m.Spec.Type),
		})
	}

	issues = append(issues, checkBuild(m)...)
	return issues
}

// checkBuild validates the build block: the dockerfile belongs to the
// docker runtime only, and all paths stay relative and inside the build
// context.
func checkBuild(m *ServiceManifest) []Issue {
	b := m.Spec.Build
	if b == nil {
		return nil
	}

	var issues []Issue
	if b.Context != "" {
		if reason := relPathProblem(b.Context); reason != "" {
			issues = append(issues, Issue{
				Path:    "/spec/build/context",
				Message: "context " + reason,
			})
		}
	}
	if b.Dockerfile != "" {
		if rt := m.RuntimeType(); rt != RuntimeDocker {
			issues = append(issues, Issue{
				Path:    "/spec/build/dockerfile",
				Message: fmt.Sprintf("dockerfile is only valid for the docker runtime, not %q", rt),
			})
		}
		if reason := relPathProblem(b.Dockerfile); reason != "" {
			issues = append(issues, Issue{
				Path:    "/spec/build/dockerfile",
				Message: "dockerfile " + reason,
			})
		}
	}
	return issues
}

// relPathProblem reports why a manifest path is unacceptable, or "" when
// it is fine. Paths must be relative and must not climb out of the
// directory they are resolved against.
func relPathProblem(p string) string {
	if filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/") {
		return "must be a relative path"
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "must not traverse outside the build context"
	}
	return ""
}

// extractIssues walks the ValidationError tree and returns leaf-level
// issues with concrete field paths.
func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return deduplicateIssues(issues)
}

// collectValidationIssues recursively walks the error tree to find leaf
// errors with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
		}

		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Skip generic container errors that aren't informative.
		if keyword == "if" || keyword == "then" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, Issue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []Issue) []Issue {
	seen := make(map[string]bool)
	var result []Issue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

// normalizeYAML recursively converts YAML-decoded values to JSON-compatible
// types. YAML v3 may produce map[string]interface{} but also int/int64 that
// JSON Schema validators may not handle consistently, so this normalizes
// them.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	case int:
		return val
	case int64:
		return val
	case float64:
		return val
	default:
		return val
	}
}
