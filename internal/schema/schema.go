// Package schema generates JSON schemas from Go types via reflection.
package schema

import (
	"reflect"
	"strings"

	"github.com/voyagerlab/voyager/tool"
)

// Generate builds a JSON schema for the given type.
func Generate(t reflect.Type) *tool.Schema {
	if t == nil {
		return &tool.Schema{Type: "object"}
	}

	switch t.Kind() {
	case reflect.Struct:
		s := &tool.Schema{Type: "object"}
		properties := map[string]*tool.Schema{}
		required := make([]string, 0)

		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			jsonTag := field.Tag.Get("json")
			if jsonTag == "-" {
				continue
			}

			fieldName := field.Name
			isOmitEmpty := false
			if jsonTag != "" {
				if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
					if commaIdx > 0 {
						fieldName = jsonTag[:commaIdx]
					}
					isOmitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
				} else {
					fieldName = jsonTag
				}
			}

			fieldSchema := fieldSchema(field.Type)
			if desc := field.Tag.Get("description"); desc != "" {
				fieldSchema.Description = desc
			}
			properties[fieldName] = fieldSchema

			if field.Type.Kind() != reflect.Ptr && !isOmitEmpty {
				required = append(required, fieldName)
			}
		}

		s.Properties = properties
		if len(required) > 0 {
			s.Required = required
		}
		return s

	case reflect.Ptr:
		return Generate(t.Elem())

	default:
		return fieldSchema(t)
	}
}

func fieldSchema(t reflect.Type) *tool.Schema {
	switch t.Kind() {
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &tool.Schema{
			Type:  "array",
			Items: fieldSchema(t.Elem()),
		}
	case reflect.Map:
		return &tool.Schema{Type: "object"}
	case reflect.Struct:
		return Generate(t)
	case reflect.Ptr:
		return fieldSchema(t.Elem())
	default:
		return &tool.Schema{Type: "string"}
	}
}
