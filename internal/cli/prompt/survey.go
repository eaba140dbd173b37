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

package prompt

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// SurveyPrompter implements Prompter using the survey library.
type SurveyPrompter struct {
	interactive bool
}

// NewSurveyPrompter creates a new survey-based prompter.
func NewSurveyPrompter(interactive bool) *SurveyPrompter {
	return &SurveyPrompter{
		interactive: interactive,
	}
}

// ConfirmAdd asks whether to add an undeclared parameter using
// survey.Confirm. In non-interactive mode it declines without asking.
func (sp *SurveyPrompter) ConfirmAdd(ctx context.Context, name, rawValue string) (bool, error) {
	if !sp.interactive {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var result bool
	q := &survey.Confirm{
		Message: fmt.Sprintf("Parameter %q (value %q) is not in the schema. Add it?", name, rawValue),
		Default: true,
	}

	err := survey.AskOne(q, &result)
	return result, err
}
