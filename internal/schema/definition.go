// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

// Parameter types this tool knows how to coerce and validate.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Definition is a parameter definition resolved from the schema.
// Types outside the four coercible ones (object, array, ...) are kept
// as-is and validate as valid: pipeline schemas routinely carry
// parameters this tool does not coerce, and rejecting them here would
// fail schemas the structural validator accepts.
type Definition struct {
	Type    string
	Default any
	Hidden  bool
	Pattern string
}

// DefinitionFromMap decodes a raw definition mapping into a Definition.
// A missing or non-string type defaults to string.
func DefinitionFromMap(raw map[string]any) Definition {
	def := Definition{Type: TypeString}
	if t, ok := raw["type"].(string); ok && t != "" {
		def.Type = t
	}
	if v, ok := raw["default"]; ok {
		def.Default = v
	}
	if h, ok := raw["hidden"].(bool); ok {
		def.Hidden = h
	}
	if p, ok := raw["pattern"].(string); ok {
		def.Pattern = p
	}
	return def
}
