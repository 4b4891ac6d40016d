package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of the definition file format.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		FieldNameTag:   "json",
	}

	schema := r.Reflect(&File{})
	schema.Title = "keyward collection definitions"
	schema.Description = "Shortcut collections loaded into the keyward registry."

	return json.MarshalIndent(schema, "", "  ")
}
