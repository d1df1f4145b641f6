// File: lixenwraith/composer/jsonschema.go
package composer

import (
	"encoding/json"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
)

// JSONSchema describes the registry tree as a JSON Schema object: one
// property per field in declaration order, nested schemas as nested objects.
// Static defaults are included when they marshal to JSON.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	root := s.objectSchema()
	root.Title = s.name
	return root
}

func (s *Schema) objectSchema() *jsonschema.Schema {
	obj := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(s.fields)),
	}
	for _, d := range s.fields {
		obj.Properties[d.name] = d.jsonSchema()
		obj.PropertyOrder = append(obj.PropertyOrder, d.name)
	}
	if len(obj.Properties) == 0 {
		obj.Properties = nil
		obj.PropertyOrder = nil
	}
	return obj
}

func (d *Descriptor) jsonSchema() *jsonschema.Schema {
	if d.children != nil && len(d.allowed) == 1 {
		sub := d.children.objectSchema()
		sub.Description = d.desc
		return sub
	}

	prop := &jsonschema.Schema{Description: d.desc}

	var types []string
	seen := make(map[string]bool)
	for _, t := range d.allowed {
		var name string
		switch tt := t.(type) {
		case *Schema:
			name = "object"
		case nilType:
			name = "null"
		case goType:
			name = jsonTypeName(tt.t)
			if name == "array" && prop.Items == nil {
				if item := jsonTypeName(tt.t.Elem()); item != "" {
					prop.Items = &jsonschema.Schema{Type: item}
				}
			}
		}
		if name != "" && !seen[name] {
			seen[name] = true
			types = append(types, name)
		}
	}
	switch len(types) {
	case 0:
	case 1:
		prop.Type = types[0]
	default:
		prop.Types = types
	}

	if d.def.ok {
		if _, isInst := d.def.value.(*Instance); !isInst {
			if raw, err := json.Marshal(d.def.value); err == nil {
				prop.Default = raw
			}
		}
	}
	return prop
}

// jsonTypeName maps a Go type to a JSON Schema type name. Interface types
// have no single JSON type and yield "".
func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Pointer:
		return jsonTypeName(t.Elem())
	}
	return ""
}
