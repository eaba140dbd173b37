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

// Package send implements the send command.
package send

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tombee/nf-schema-builder/internal/cli/prompt"
	"github.com/tombee/nf-schema-builder/internal/commands/shared"
	"github.com/tombee/nf-schema-builder/internal/editor"
	"github.com/tombee/nf-schema-builder/internal/log"
)

// NewCommand creates the send command
func NewCommand() *cobra.Command {
	var (
		targetURL string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "send [schema]",
		Short: "Validate a schema, then open it in the browser-based editor",
		Long: `Send validates a schema file the same way the validate command does,
then opens it in the browser-based editor. For local targets (the
default) an editor service is started on the requested port, the schema
is loaded into it, and the command waits until you click Finish in the
browser. Edits saved in the browser are written straight back to the
schema file.

For a remote target URL the schema is posted to the running editor
there and the command returns immediately.

A schema that fails validation is never sent; the command exits with
the same codes as validate.`,
		Example: `  # Edit the schema in the current directory
  nf-schema-builder send

  # Edit a specific schema on a custom port
  nf-schema-builder send path/to/nextflow_schema.json --url localhost:8080

  # Start the service without opening a browser
  nf-schema-builder send --no-browser`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaFile := shared.NextflowSchemaFile
			if len(args) == 1 {
				schemaFile = args[0]
			}

			cfg := log.FromEnv()
			if shared.GetDebug() {
				cfg.Level = "debug"
			}
			logger := log.New(cfg)

			err := shared.PerformValidation(cmd.Context(), shared.ValidationOptions{
				SchemaFile: schemaFile,
				Prompter:   prompt.NewSurveyPrompter(!shared.IsNonInteractive()),
				Logger:     logger,
				Out:        cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			err = editor.Send(cmd.Context(), schemaFile, editor.SendOptions{
				URL:       targetURL,
				NoBrowser: noBrowser,
				Logger:    logger,
			})
			if err != nil {
				return shared.NewServerError("sending schema to editor", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), shared.RenderOK("Editing session finished"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetURL, "url", "u", "localhost:5173", "Editor URL to send the schema to")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open the editor page in a browser")

	return cmd
}
