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

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema draft URIs recognized by the two validation plugins.
const (
	Draft2020URI = "https://json-schema.org/draft/2020-12/schema"
	Draft7URI    = "http://json-schema.org/draft-07/schema"
)

// ValidateStructure checks that the document is itself a structurally
// valid JSON Schema of a supported draft. The draft is selected by the
// document's $schema value; anything other than the two recognized URIs
// is rejected as unsupported. The meta-schemas ship with the validator
// library, so no network access is involved.
func ValidateStructure(doc Document) error {
	version, _ := doc["$schema"].(string)

	var metaURL string
	switch version {
	case Draft2020URI:
		metaURL = Draft2020URI
	case Draft7URI:
		metaURL = Draft7URI
	default:
		return fmt.Errorf("unsupported schema version: %q", version)
	}

	compiler := jsonschema.NewCompiler()
	meta, err := compiler.Compile(metaURL)
	if err != nil {
		return fmt.Errorf("compiling meta-schema %s: %w", metaURL, err)
	}

	if err := meta.Validate(map[string]any(doc)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return nil
}
