package models

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// planSchema mirrors the service's plan contract. Category stays a free string so a
// new category on the server does not break older clients.
const planSchema = `{
  "type": "object",
  "required": ["daily_schedule", "summary"],
  "properties": {
    "daily_schedule": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["description", "category"],
        "properties": {
          "description": {"type": "string"},
          "category": {"type": "string"},
          "is_completed": {"type": "boolean"},
          "deadline": {"type": ["string", "null"]}
        }
      }
    },
    "summary": {"type": "string"},
    "date": {"type": "string"}
  }
}`

var planSchemaLoader = gojsonschema.NewStringLoader(planSchema)

// SchemaError lists every violation found in a payload
type SchemaError struct {
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("plan payload does not match schema: %s", strings.Join(e.Errors, "; "))
}

// ValidatePlanJSON checks a raw plan document against the plan schema
func ValidatePlanJSON(data []byte) error {
	result, err := gojsonschema.Validate(planSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &SchemaError{Errors: msgs}
	}
	return nil
}
