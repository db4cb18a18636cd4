package task

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var rawSchema string

// compiledSchema compiles the embedded blob schema. Compile errors can only
// come from editing the embedded file, so they surface as a plain error at
// first use instead of a package init panic.
func compiledSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("tasks.schema.json", strings.NewReader(rawSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("tasks.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateBlob checks a raw persisted blob against the embedded schema.
func validateBlob(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse blob: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("blob validation: %s", flattenSchemaError(ve))
		}
		return fmt.Errorf("blob validation: %w", err)
	}
	return nil
}

// flattenSchemaError walks to the most specific validation failure and
// reports it with a readable path.
func flattenSchemaError(err *jsonschema.ValidationError) string {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	path := jsonPointerToPath(err.InstanceLocation)
	if path == "" {
		return err.Message
	}
	return fmt.Sprintf("%s: %s", path, err.Message)
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
