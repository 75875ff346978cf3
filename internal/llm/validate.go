package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema used to check decoded model output.
type Schema struct {
	// Name is the cache key. Kebab-case, e.g. "lab-task-batch".
	Name string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// compiled caches compiled schemas by name.
var compiled sync.Map // map[string]*jsonschema.Schema

// ValidateJSON checks a decoded JSON value (as produced by json.Unmarshal
// into an any) against schema.
func ValidateJSON(schema *Schema, doc any) error {
	c, err := compile(schema)
	if err != nil {
		return err
	}
	if err := c.Validate(doc); err != nil {
		return fmt.Errorf("schema %s: %w", schema.Name, err)
	}
	return nil
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if c, ok := compiled.Load(schema.Name); ok {
		return c.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON, not Go-typed maps and slices.
	raw, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", schema.Name, err)
	}

	url := "mem://" + schema.Name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", schema.Name, err)
	}
	c, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}

	actual, _ := compiled.LoadOrStore(schema.Name, c)
	return actual.(*jsonschema.Schema), nil
}
