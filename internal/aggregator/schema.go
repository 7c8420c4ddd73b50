package aggregator

import (
	"sort"

	"funnel/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

// schemaTypeTable maps JSON Schema type names to parameter types.
// Anything not listed degrades to TypeUnknown.
var schemaTypeTable = map[string]ParameterType{
	"string":  TypeString,
	"number":  TypeNumber,
	"integer": TypeInteger,
	"boolean": TypeBoolean,
	"array":   TypeArray,
	"object":  TypeObject,
}

// ExtractParameters converts a tool's input schema into typed parameter
// contracts.
//
// The schema is untrusted provider data: it may be empty, well-formed,
// or arbitrarily malformed. A missing or empty properties map yields an
// empty contract list, not an error. Anything that goes wrong for a
// single tool's schema — including a panic from unexpected structure —
// is caught and logged, and that tool gets an empty parameter list so
// one malformed tool cannot disable the rest of its provider.
func ExtractParameters(tool mcp.Tool) (params []ParameterContract) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("Schema", "Recovered extracting schema for tool %s: %v", tool.Name, r)
			params = nil
		}
	}()

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return nil
	}

	required := make(map[string]bool, len(tool.InputSchema.Required))
	for _, name := range tool.InputSchema.Required {
		required[name] = true
	}

	// Deterministic order regardless of map iteration.
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	params = make([]ParameterContract, 0, len(names))
	for _, name := range names {
		contract := ParameterContract{
			Name:     name,
			Type:     TypeUnknown,
			Required: required[name],
		}

		if prop, ok := props[name].(map[string]interface{}); ok {
			if desc, ok := prop["description"].(string); ok {
				contract.Description = desc
			}
			contract.Type = schemaType(prop["type"])
		}

		params = append(params, contract)
	}

	return params
}

// schemaType maps a raw "type" value to a ParameterType. Providers
// occasionally send type unions as arrays; the first recognizable
// entry wins.
func schemaType(raw interface{}) ParameterType {
	switch v := raw.(type) {
	case string:
		if t, ok := schemaTypeTable[v]; ok {
			return t
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if t, ok := schemaTypeTable[s]; ok {
					return t
				}
			}
		}
	}
	return TypeUnknown
}
