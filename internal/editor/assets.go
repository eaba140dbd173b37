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

package editor

import (
	_ "embed"
)

// Embed the editor's entry page into the binary so the service has no
// runtime asset dependencies.
//
//go:embed assets/index.html
var indexHTML []byte

// IndexHTML returns the embedded editor page as raw bytes.
func IndexHTML() []byte {
	return indexHTML
}
