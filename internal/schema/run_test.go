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
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAllValid(t *testing.T) {
	v := validatorWith(map[string]any{
		"input":  map[string]any{"type": "string"},
		"cpus":   map[string]any{"type": "integer"},
		"enable": map[string]any{"type": "boolean"},
	})

	declared := map[string]string{
		"params.input":  "samples.csv",
		"params.cpus":   "8",
		"params.enable": "true",
	}

	report, err := Run(v, nil, declared, RejectAll, discardLogger())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 3, report.Checked)
}

func TestRunAggregatesFailures(t *testing.T) {
	v := validatorWith(map[string]any{
		"cpus":   map[string]any{"type": "integer"},
		"enable": map[string]any{"type": "boolean"},
	})

	declared := map[string]string{
		"params.cpus":   "abc",
		"params.enable": "maybe",
	}

	report, err := Run(v, nil, declared, RejectAll, discardLogger())
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Len(t, report.Invalid, 2)
	assert.Contains(t, report.Invalid["cpus"], "Not an integer")
	assert.Contains(t, report.Invalid["enable"], "Boolean must be true or false")
}

func TestRunIgnoredParams(t *testing.T) {
	v := validatorWith(map[string]any{})

	declared := map[string]string{
		"params.help":        "true",
		"params.foo":         "x",
		"params.foo.bar":     "y",
		"params.foo.bar.baz": "z",
		"params.foobar":      "kept",
	}

	report, err := Run(v, []string{"help", "foo"}, declared, RejectAll, discardLogger())
	require.NoError(t, err)

	// Descendants of ignored entries are excluded, but foobar is not a
	// dot-descendant of foo and must still be checked.
	assert.Equal(t, 1, report.Checked)
	assert.Contains(t, report.Invalid, "foobar")
}

func TestRunCoercesBeforeValidating(t *testing.T) {
	v := validatorWith(map[string]any{
		"cpus": map[string]any{"type": "integer"},
	})

	report, err := Run(v, nil, map[string]string{"params.cpus": "42"}, RejectAll, discardLogger())
	require.NoError(t, err)
	assert.True(t, report.OK())
}

func TestRunUnknownAccepted(t *testing.T) {
	v := validatorWith(map[string]any{})

	report, err := Run(v, nil, map[string]string{"params.novel": "4.5"}, AcceptAll, discardLogger())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, []string{"novel"}, report.Added)

	def, found := v.FindParameter("novel")
	require.True(t, found)
	assert.Equal(t, TypeNumber, def["type"])
}

func TestRunUnknownRejected(t *testing.T) {
	v := validatorWith(map[string]any{})

	report, err := Run(v, nil, map[string]string{"params.novel": "x"}, RejectAll, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "Parameter not defined in schema", report.Invalid["novel"])

	// Rejection must not mutate the schema.
	_, found := v.FindParameter("novel")
	assert.False(t, found)
}

func TestRunPolicyReceivesBareName(t *testing.T) {
	v := validatorWith(map[string]any{})

	var seenName, seenValue string
	policy := PolicyFunc(func(name, value string) (bool, error) {
		seenName, seenValue = name, value
		return false, nil
	})

	_, err := Run(v, nil, map[string]string{"params.novel": "raw"}, policy, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "novel", seenName)
	assert.Equal(t, "raw", seenValue)
}

func TestRunDeterministicOrder(t *testing.T) {
	v := validatorWith(map[string]any{})

	declared := map[string]string{
		"params.c": "1",
		"params.a": "2",
		"params.b": "3",
	}

	var order []string
	policy := PolicyFunc(func(name, _ string) (bool, error) {
		order = append(order, name)
		return false, nil
	})

	_, err := Run(v, nil, declared, policy, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}
