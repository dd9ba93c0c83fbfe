// Package schema reflects and validates JSON Schemas for the snapshot
// document and the configuration file. It is debug tooling: the sync loop
// never validates snapshots.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/teamwatch/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator validates documents against one compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaJSON under the given resource name.
func NewValidator(name string, schemaJSON []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	s, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: s}, nil
}

// Validate validates any value that marshals to JSON.
func (v *Validator) Validate(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal document to JSON for validation: %w", err)
	}
	return v.ValidateJSON(jsonData)
}

// ValidateJSON validates a raw JSON document.
func (v *Validator) ValidateJSON(raw []byte) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "document is not valid JSON")
	}

	if err := v.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			return errors.New(errors.ErrCodeInvalidInput,
				fmt.Sprintf("schema validation failed:\n%s", strings.Join(messages, "\n"))).
				WithDetail("violations", len(messages))
		}
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "schema validation failed")
	}

	return nil
}

// collectErrors recursively collects all validation errors into a slice.
func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*messages = append(*messages, fmt.Sprintf("- %s: %s", location, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
