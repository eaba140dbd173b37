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
	"log/slog"
	"sort"
	"strings"
)

// paramPrefix is the namespace prefix on declared workflow parameters.
const paramPrefix = "params."

// UnknownPolicy decides what happens when a declared parameter has no
// definition in the schema. Confirm returns true to register the
// parameter, false to record it as invalid.
type UnknownPolicy interface {
	Confirm(name, rawValue string) (bool, error)
}

// PolicyFunc adapts a function to the UnknownPolicy interface.
type PolicyFunc func(name, rawValue string) (bool, error)

// Confirm implements UnknownPolicy.
func (f PolicyFunc) Confirm(name, rawValue string) (bool, error) {
	return f(name, rawValue)
}

// AcceptAll registers every unknown parameter without asking.
var AcceptAll = PolicyFunc(func(string, string) (bool, error) { return true, nil })

// RejectAll records every unknown parameter as invalid.
var RejectAll = PolicyFunc(func(string, string) (bool, error) { return false, nil })

// Report aggregates the outcome of a parameter validation run.
type Report struct {
	// Invalid maps parameter names to failure reasons.
	Invalid map[string]string
	// Checked is the number of parameters that were validated.
	Checked int
	// Added lists parameters registered into the schema during the run.
	Added []string
}

// OK reports whether every checked parameter validated.
func (r *Report) OK() bool {
	return len(r.Invalid) == 0
}

// Run validates every declared workflow parameter against the schema.
//
// Declared keys have their params. prefix stripped; names equal to, or
// dot-separated descendants of, an ignored entry are skipped. Raw values
// are coerced to the declared type before validation. Parameters absent
// from the schema go through the unknown-parameter policy: accepted ones
// are registered via AddParameter and count as valid, rejected ones are
// recorded as invalid. Nothing is registered for rejected parameters.
//
// Parameters are processed in sorted name order so prompting and
// reporting are deterministic for fixed inputs.
func Run(v *Validator, ignored []string, declared map[string]string, policy UnknownPolicy, logger *slog.Logger) (*Report, error) {
	names := make([]string, 0, len(declared))
	values := make(map[string]string, len(declared))
	for key, value := range declared {
		name := strings.TrimPrefix(key, paramPrefix)
		if isIgnored(name, ignored) {
			logger.Debug("skipping ignored parameter", slog.String("param", name))
			continue
		}
		names = append(names, name)
		values[name] = value
	}
	sort.Strings(names)

	report := &Report{Invalid: make(map[string]string)}
	for _, name := range names {
		rawValue := values[name]
		report.Checked++

		rawDef, found := v.FindParameter(name)
		if !found {
			accept, err := policy.Confirm(name, rawValue)
			if err != nil {
				return nil, err
			}
			if accept {
				v.AddParameter(name, rawValue)
				report.Added = append(report.Added, name)
				logger.Info("added parameter to schema", slog.String("param", name))
			} else {
				report.Invalid[name] = "Parameter not defined in schema"
			}
			continue
		}

		value := Coerce(DefinitionFromMap(rawDef), rawValue)
		if ok, reason := v.Validate(name, value); !ok {
			report.Invalid[name] = reason
		}
	}

	return report, nil
}

// isIgnored reports whether name matches an ignored entry or is a
// dot-separated descendant of one (foo.bar is ignored when foo is).
func isIgnored(name string, ignored []string) bool {
	for _, entry := range ignored {
		if name == entry || strings.HasPrefix(name, entry+".") {
			return true
		}
	}
	return false
}
