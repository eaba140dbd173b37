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

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// nullSentinel marks a parameter as unset in Nextflow config output.
const nullSentinel = "null"

// Validator validates declared parameter values against a schema
// document and can register parameters the schema does not yet declare.
type Validator struct {
	doc     Document
	defsKey string
}

// NewValidator creates a Validator for the given document. defsKey names
// the definitions block used by the active validation plugin ($defs or
// definitions).
func NewValidator(doc Document, defsKey string) *Validator {
	return &Validator{doc: doc, defsKey: defsKey}
}

// Document returns the backing schema document.
func (v *Validator) Document() Document {
	return v.doc
}

// FindParameter resolves a parameter definition from the backing document.
func (v *Validator) FindParameter(name string) (map[string]any, bool) {
	return v.doc.FindParameter(name, v.defsKey)
}

// Validate checks a parameter value against its schema definition.
// It returns false and a human-readable reason when the value is invalid.
//
// Hidden parameters and the literal value "null" (unset) always pass.
// Pattern checks use leading-anchor semantics: the pattern must match at
// the start of the value, trailing characters are not rejected.
func (v *Validator) Validate(name string, value any) (bool, string) {
	raw, found := v.FindParameter(name)
	if !found {
		return false, "Parameter not found in schema"
	}
	def := DefinitionFromMap(raw)

	if def.Hidden {
		return true, ""
	}
	if s, ok := value.(string); ok && s == nullSentinel {
		return true, ""
	}

	switch def.Type {
	case TypeBoolean:
		s := strings.ToLower(stringify(value))
		if s != "true" && s != "false" {
			return false, fmt.Sprintf("Boolean must be true or false, not `%v`", value)
		}
	case TypeInteger:
		if !isInteger(value) {
			return false, fmt.Sprintf("Not an integer: `%v`", value)
		}
	case TypeNumber:
		if !isNumber(value) {
			return false, fmt.Sprintf("Not a number: `%v`", value)
		}
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return false, fmt.Sprintf("Not a string: `%v`", value)
		}
		if s == "false" || s == "true" || s == "''" {
			return false, fmt.Sprintf("String should not be set to `%v`", value)
		}
		if def.Pattern != "" {
			re, err := regexp.Compile("^(?:" + def.Pattern + ")")
			if err != nil {
				return false, fmt.Sprintf("Invalid pattern '%s': %v", def.Pattern, err)
			}
			if !re.MatchString(s) {
				return false, fmt.Sprintf("Value '%v' does not match required pattern '%s'", value, def.Pattern)
			}
		}
	}

	return true, ""
}

// AddParameter registers a parameter the schema does not declare yet.
// The type is inferred from the raw value's surface form (boolean,
// integer, number, falling back to string) and the definition is
// inserted into the top-level properties region. Re-adding a parameter
// overwrites the previous synthesized definition.
func (v *Validator) AddParameter(name, rawValue string) {
	paramType := TypeString
	switch {
	case strings.EqualFold(rawValue, "true") || strings.EqualFold(rawValue, "false"):
		paramType = TypeBoolean
	case isInteger(rawValue):
		paramType = TypeInteger
	case isNumber(rawValue):
		paramType = TypeNumber
	}

	props, ok := v.doc["properties"].(map[string]any)
	if !ok {
		props = make(map[string]any)
		v.doc["properties"] = props
	}
	props[name] = map[string]any{
		"type":        paramType,
		"description": fmt.Sprintf("Parameter %s", name),
	}
}

// Coerce converts a raw string value to the definition's declared type.
// Values that fail to parse are returned unchanged so the subsequent
// type check reports a clean mismatch instead of an error.
func Coerce(def Definition, raw string) any {
	switch def.Type {
	case TypeBoolean:
		switch strings.ToLower(raw) {
		case "true":
			return true
		case "false":
			return false
		}
	case TypeInteger:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case TypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}

// stringify renders a value the way its string form is validated.
func stringify(value any) string {
	return fmt.Sprintf("%v", value)
}

func isInteger(value any) bool {
	switch value.(type) {
	case int, int32, int64:
		return true
	}
	_, err := strconv.ParseInt(stringify(value), 10, 64)
	return err == nil
}

func isNumber(value any) bool {
	switch value.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	_, err := strconv.ParseFloat(stringify(value), 64)
	return err == nil
}
