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

package send

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/nf-schema-builder/internal/commands/shared"
)

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewCommand()
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestSendMissingSchemaFile(t *testing.T) {
	err := runCommand(t, filepath.Join(t.TempDir(), "absent.json"))
	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitIOError, exitErr.Code)
}

func TestSendValidatesBeforeEditing(t *testing.T) {
	// A schema declaring an unrecognized draft must be rejected up
	// front with the invalid-schema code; no editing session starts
	// and the command returns instead of blocking on a finish signal.
	path := filepath.Join(t.TempDir(), "pipeline_schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"$schema": "https://example.com/not-a-draft",
		"type": "object"
	}`), 0o644))

	errCh := make(chan error, 1)
	go func() {
		errCh <- runCommand(t, path)
	}()

	select {
	case err := <-errCh:
		var exitErr *shared.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, shared.ExitInvalidSchema, exitErr.Code)
		assert.Contains(t, err.Error(), "unsupported schema version")
	case <-time.After(10 * time.Second):
		t.Fatal("send blocked in an editing session instead of failing validation")
	}
}

func TestSendMalformedSchemaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline_schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"broken":`), 0o644))

	err := runCommand(t, path)
	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitInvalidSchema, exitErr.Code)
}

func TestSendFlagDefaults(t *testing.T) {
	cmd := NewCommand()

	url, err := cmd.Flags().GetString("url")
	require.NoError(t, err)
	assert.Equal(t, "localhost:5173", url)

	noBrowser, err := cmd.Flags().GetBool("no-browser")
	require.NoError(t, err)
	assert.False(t, noBrowser)
}

func TestSendRejectsExtraArgs(t *testing.T) {
	require.Error(t, runCommand(t, "one.json", "two.json"))
}
