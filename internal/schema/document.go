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

// Package schema implements loading, parameter resolution and validation
// for Nextflow pipeline schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definitions-block keys supported by the two validation plugins.
const (
	DefsKeyDefs        = "$defs"
	DefsKeyDefinitions = "definitions"
)

// Document is the in-memory representation of a JSON Schema file.
// It is a plain mapping tree so that unknown regions survive a
// load/mutate/serialize round trip untouched.
type Document map[string]any

// Load reads a schema from a JSON or YAML file. Files with a .yml or
// .yaml extension are parsed as YAML, everything else as JSON. The
// top-level content must be a mapping.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid file format: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid file format: %w", err)
		}
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema must be a mapping, got %T", raw)
	}
	return Document(doc), nil
}

// FindParameter resolves a parameter's effective definition. Top-level
// properties are checked first, then each allOf entry's $ref is followed
// into the definitions block named by defsKey, in document order. The
// first match wins; there is no merging. A copy of the definition is
// returned so callers cannot mutate the document through it.
//
// Resolution deliberately re-scans live state on every call: the
// document may gain properties through AddParameter between calls.
func (d Document) FindParameter(name, defsKey string) (map[string]any, bool) {
	if props, ok := d["properties"].(map[string]any); ok {
		if def, ok := props[name].(map[string]any); ok {
			return copyDefinition(def), true
		}
	}

	allOf, _ := d["allOf"].([]any)
	for _, entry := range allOf {
		section, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		ref, ok := section["$ref"].(string)
		if !ok {
			continue
		}
		defName := ref[strings.LastIndex(ref, "/")+1:]

		defs, _ := d[defsKey].(map[string]any)
		group, ok := defs[defName].(map[string]any)
		if !ok {
			continue
		}
		props, _ := group["properties"].(map[string]any)
		if def, ok := props[name].(map[string]any); ok {
			return copyDefinition(def), true
		}
	}

	return nil, false
}

// Defaults collects all default values declared in the schema, from
// top-level properties and from every allOf-referenced definitions
// group. Later matches overwrite earlier ones, mirroring scan order.
func (d Document) Defaults(defsKey string) map[string]any {
	defaults := make(map[string]any)

	collect := func(props map[string]any) {
		for name, raw := range props {
			if def, ok := raw.(map[string]any); ok {
				if value, ok := def["default"]; ok {
					defaults[name] = value
				}
			}
		}
	}

	if props, ok := d["properties"].(map[string]any); ok {
		collect(props)
	}

	allOf, _ := d["allOf"].([]any)
	for _, entry := range allOf {
		section, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		ref, ok := section["$ref"].(string)
		if !ok {
			continue
		}
		defName := ref[strings.LastIndex(ref, "/")+1:]

		defs, _ := d[defsKey].(map[string]any)
		if group, ok := defs[defName].(map[string]any); ok {
			if props, ok := group["properties"].(map[string]any); ok {
				collect(props)
			}
		}
	}

	return defaults
}

// copyDefinition returns a shallow copy of a definition mapping.
func copyDefinition(def map[string]any) map[string]any {
	out := make(map[string]any, len(def))
	for k, v := range def {
		out[k] = v
	}
	return out
}
