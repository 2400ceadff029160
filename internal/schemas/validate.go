// Package schemas provides JSON Schema validation for ranking inputs and outputs.
package schemas

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	schemafiles "github.com/jonathan/talent-match/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Schema names as shipped in the schemas directory
const (
	VacancySchema        = "vacancy.schema.json"
	CandidatesSchema     = "candidates.schema.json"
	RankingResultsSchema = "ranking_results.schema.json"
	TalentPoolSchema     = "talent_pool_match.schema.json"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		sb.WriteString(fmt.Sprintf("validation against %s failed:\n", ve.Schema))
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or compiling a schema, or loading the
// document to validate
type SchemaLoadError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Schema, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Registry compiles schemas from a file system on first use and caches them.
// It is safe for concurrent use.
type Registry struct {
	fsys fs.FS

	mu       sync.Mutex
	compiled map[string]*gojsonschema.Schema
}

// NewRegistry creates a registry reading schema documents from fsys
func NewRegistry(fsys fs.FS) *Registry {
	return &Registry{
		fsys:     fsys,
		compiled: make(map[string]*gojsonschema.Schema),
	}
}

var defaultRegistry = NewRegistry(schemafiles.FS)

// Default returns the registry over the schema files built into the binary
func Default() *Registry {
	return defaultRegistry
}

// Names lists the schema documents available to the registry, sorted
func (r *Registry) Names() ([]string, error) {
	names, err := fs.Glob(r.fsys, "*.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Schema returns the compiled schema with the given name
func (r *Registry) Schema(name string) (*gojsonschema.Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema, ok := r.compiled[name]; ok {
		return schema, nil
	}

	content, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Message: "schema not found", Cause: err}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Message: "invalid schema", Cause: err}
	}

	r.compiled[name] = schema
	return schema, nil
}

// Validate checks a JSON document against the named schema
func (r *Registry) Validate(name string, document []byte) error {
	schema, err := r.Schema(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &SchemaLoadError{Schema: name, Message: "document could not be loaded", Cause: err}
	}

	return toValidationError(name, result)
}

// ValidateBytes validates an in-memory JSON document against a built-in schema
func ValidateBytes(name string, document []byte) error {
	return defaultRegistry.Validate(name, document)
}

// ValidateFile validates a JSON file against a built-in schema
func ValidateFile(name, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return defaultRegistry.Validate(name, content)
}

// toValidationError returns nil for a valid result, otherwise a structured error
func toValidationError(schema string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: schema,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
