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

// Package cli assembles the root command.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/nf-schema-builder/internal/commands/send"
	"github.com/tombee/nf-schema-builder/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for nf-schema-builder
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nf-schema-builder [schema]",
		Short: "Validate and edit Nextflow workflow parameter schemas",
		Long: `nf-schema-builder validates a workflow's declared parameters against
its JSON Schema and opens the schema in a browser-based editor.

Running it without a subcommand is the same as running 'send': the
schema is opened in the editor and the command waits until you finish.

Run 'nf-schema-builder validate' to check parameters without editing.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation edits the schema, same as the send command.
			sendCmd := send.NewCommand()
			sendCmd.SetArgs(args)
			sendCmd.SetContext(cmd.Context())
			sendCmd.SetOut(cmd.OutOrStdout())
			sendCmd.SetErr(cmd.ErrOrStderr())
			return sendCmd.Execute()
		},
	}

	// Get flag pointers from shared package
	debug, json := shared.RegisterFlagPointers()
	cmd.PersistentFlags().BoolVar(debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")

	return cmd
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
