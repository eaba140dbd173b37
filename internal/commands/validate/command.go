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

// Package validate implements the validate command.
package validate

import (
	"github.com/spf13/cobra"

	"github.com/tombee/nf-schema-builder/internal/cli/prompt"
	"github.com/tombee/nf-schema-builder/internal/commands/shared"
	"github.com/tombee/nf-schema-builder/internal/log"
)

// NewCommand creates the validate command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [schema]",
		Short: "Validate a schema file and the workflow parameters against it",
		Long: `Validate checks that a schema file is a structurally valid JSON Schema
of a supported draft (2020-12 or draft-07), then validates the workflow's
declared parameters against it.

Parameter validation only runs for files named nextflow_schema.json; it
needs the nextflow binary on PATH to read the workflow configuration.
The active validation plugin (nf-schema or nf-validation) is detected
from the configuration and decides where parameter definitions live and
which parameters are ignored.

Parameters declared in the workflow but missing from the schema can be
added interactively; the updated schema is written back to disk.`,
		Example: `  # Validate the schema in the current directory
  nf-schema-builder validate

  # Validate a specific schema file
  nf-schema-builder validate path/to/nextflow_schema.json`,
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

			return shared.PerformValidation(cmd.Context(), shared.ValidationOptions{
				SchemaFile: schemaFile,
				Prompter:   prompt.NewSurveyPrompter(!shared.IsNonInteractive()),
				Logger:     logger,
				Out:        cmd.OutOrStdout(),
			})
		},
	}

	return cmd
}
