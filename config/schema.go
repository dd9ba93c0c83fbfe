package config

import (
	"encoding/json"

	"github.com/grovetools/teamwatch/schema"
	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects the JSON Schema of the core configuration keys.
// Extensions are left open.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	s := r.Reflect(&Config{})
	s.Title = "teamwatch configuration"
	s.Description = "Schema for teamwatch.yml"

	return json.MarshalIndent(s, "", "  ")
}

// SchemaValidator validates configuration against the reflected schema.
type SchemaValidator struct {
	validator *schema.Validator
}

// NewSchemaValidator reflects and compiles the configuration schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	data, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	validator, err := schema.NewValidator("teamwatch.config.json", data)
	if err != nil {
		return nil, err
	}
	return &SchemaValidator{validator: validator}, nil
}

// Validate validates configuration data against the schema.
func (v *SchemaValidator) Validate(configData interface{}) error {
	return v.validator.Validate(configData)
}
