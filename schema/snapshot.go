package schema

import (
	"encoding/json"

	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/invopop/jsonschema"
)

// SnapshotSchemaName is the resource name used when compiling.
const SnapshotSchemaName = "teamwatch.snapshot.json"

// GenerateSnapshot reflects the JSON Schema of the /api/state document.
// Only fields tagged required are required and unknown fields are allowed,
// since producers add fields freely.
func GenerateSnapshot() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	s := r.Reflect(&models.Snapshot{})
	s.Title = "teamwatch snapshot"
	s.Description = "State document served by the agent team monitor at /api/state."
	s.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(s, "", "  ")
}

// NewSnapshotValidator compiles the reflected snapshot schema.
func NewSnapshotValidator() (*Validator, error) {
	data, err := GenerateSnapshot()
	if err != nil {
		return nil, err
	}
	return NewValidator(SnapshotSchemaName, data)
}
