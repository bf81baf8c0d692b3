package validation

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator validates JSON documents against named JSON schemas
type SchemaValidator interface {
	ValidateBytes(data []byte, schemaName string) error
}

type validator struct {
	schemaFS fs.FS
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a validator that reads schemas from schemaFS.
// Compiled schemas are cached; the validator is not safe for concurrent use.
func NewSchemaValidator(schemaFS fs.FS) SchemaValidator {
	return &validator{
		schemaFS: schemaFS,
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

// ValidateBytes validates JSON data bytes against a schema file
func (v *validator) ValidateBytes(data []byte, schemaName string) error {
	schema, err := v.loadSchema(schemaName)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaName, err)
	}

	var jsonData interface{}
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}

	if err := schema.Validate(jsonData); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// loadSchema loads and compiles a schema, caching the result
func (v *validator) loadSchema(schemaName string) (*jsonschema.Schema, error) {
	if schema, ok := v.schemas[schemaName]; ok {
		return schema, nil
	}

	schemaData, err := fs.ReadFile(v.schemaFS, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var schemaJSON interface{}
	if err := json.Unmarshal(schemaData, &schemaJSON); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	if err := v.compiler.AddResource(schemaName, schemaJSON); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := v.compiler.Compile(schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	v.schemas[schemaName] = schema
	return schema, nil
}

// formatValidationError lists every failing location on its own line
func formatValidationError(err error) error {
	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		var errors []string
		collectErrors(validationErr, &errors)
		return fmt.Errorf("schema validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return fmt.Errorf("validation error: %w", err)
}

func collectErrors(err *jsonschema.ValidationError, errors *[]string) {
	// leaves carry the useful detail; parents only say "some subschema failed"
	if len(err.Causes) == 0 {
		*errors = append(*errors, formatError(err))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, errors)
	}
}

func formatError(err *jsonschema.ValidationError) string {
	location := strings.Join(err.InstanceLocation, "/")
	if location == "" {
		location = "(root)"
	} else {
		location = "/" + location
	}

	keywords := ""
	if err.ErrorKind != nil {
		if keywordPath := err.ErrorKind.KeywordPath(); len(keywordPath) > 0 {
			keywords = strings.Join(keywordPath, ".")
		}
	}

	if keywords != "" {
		return fmt.Sprintf("  - at %s: %s validation failed", location, keywords)
	}
	return fmt.Sprintf("  - at %s: validation failed", location)
}
