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

// Package prompt provides interactive terminal prompts for schema
// editing decisions.
package prompt

import "context"

// Prompter asks the user yes/no questions about schema changes.
type Prompter interface {
	// ConfirmAdd asks whether a parameter missing from the schema
	// should be added to it.
	ConfirmAdd(ctx context.Context, name, rawValue string) (bool, error)
}
