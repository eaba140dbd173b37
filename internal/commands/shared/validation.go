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

package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tombee/nf-schema-builder/internal/cli/prompt"
	"github.com/tombee/nf-schema-builder/internal/log"
	"github.com/tombee/nf-schema-builder/internal/nfconfig"
	"github.com/tombee/nf-schema-builder/internal/schema"
)

// NextflowSchemaFile is the conventional schema file name. Only files
// with this name are validated against the workflow's declared
// parameters; any other name gets a structural check alone.
const NextflowSchemaFile = "nextflow_schema.json"

// ValidationOptions configures PerformValidation.
type ValidationOptions struct {
	// SchemaFile is the schema document to validate.
	SchemaFile string
	// Prompter decides what to do with parameters missing from the
	// schema. Nil rejects them all.
	Prompter prompt.Prompter
	// Logger for pipeline logs.
	Logger *slog.Logger
	// Out receives human-readable results.
	Out io.Writer
}

// PerformValidation runs the full validation pipeline for a schema
// file: structural check against its JSON Schema draft, then, for a
// workflow schema, parameter validation against the workflow's
// nextflow configuration. Parameters the user chooses to add are
// written back to the schema file. Failures come back as ExitErrors
// carrying the command's exit code.
func PerformValidation(ctx context.Context, opts ValidationOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(nil)
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	doc, err := schema.Load(opts.SchemaFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewIOError(fmt.Sprintf("cannot read schema file %s", opts.SchemaFile), err)
		}
		return NewInvalidSchemaError(fmt.Sprintf("cannot load schema file %s", opts.SchemaFile), err)
	}

	if err := schema.ValidateStructure(doc); err != nil {
		return NewInvalidSchemaError(fmt.Sprintf("schema file %s failed structural validation", opts.SchemaFile), err)
	}
	fmt.Fprintln(out, RenderOK("Schema structure is valid"))

	if filepath.Base(opts.SchemaFile) != NextflowSchemaFile {
		logger.Debug("not a workflow schema, skipping parameter validation",
			slog.String(log.SchemaFileKey, opts.SchemaFile))
		return nil
	}

	wfDir := filepath.Dir(opts.SchemaFile)
	cfg, err := nfconfig.Fetch(ctx, wfDir, logger)
	if err != nil {
		if errors.Is(err, nfconfig.ErrNextflowNotFound) {
			return NewMissingNextflowError("nextflow is not installed or not on PATH", nil)
		}
		return NewIOError("fetching nextflow configuration", err)
	}

	dialect := nfconfig.ResolveDialect(cfg, logger)
	logger.Debug("resolved schema dialect",
		slog.String(log.DialectKey, dialect.Plugin),
		slog.String("defs_key", dialect.DefsKey))

	validator := schema.NewValidator(doc, dialect.DefsKey)
	report, err := schema.Run(validator, dialect.IgnoredParams, cfg.Params(), unknownPolicy(ctx, opts.Prompter), logger)
	if err != nil {
		return NewValidationError("validating parameters", err)
	}

	if len(report.Added) > 0 {
		if err := writeSchema(opts.SchemaFile, validator.Document()); err != nil {
			return NewIOError(fmt.Sprintf("writing updated schema to %s", opts.SchemaFile), err)
		}
		for _, name := range report.Added {
			fmt.Fprintln(out, RenderWarn(fmt.Sprintf("Added parameter %q to schema", name)))
		}
	}

	if !report.OK() {
		fmt.Fprint(out, RenderFailureTable(report.Invalid))
		return NewValidationError(fmt.Sprintf("%d of %d parameters failed validation", len(report.Invalid), report.Checked), nil)
	}

	fmt.Fprintln(out, RenderOK(fmt.Sprintf("All %d parameters are valid", report.Checked)))
	return nil
}

// unknownPolicy adapts a Prompter to the validation run's policy
// interface. A nil prompter rejects every undeclared parameter.
func unknownPolicy(ctx context.Context, p prompt.Prompter) schema.UnknownPolicy {
	if p == nil {
		return schema.RejectAll
	}
	return schema.PolicyFunc(func(name, rawValue string) (bool, error) {
		return p.ConfirmAdd(ctx, name, rawValue)
	})
}

// writeSchema persists the schema document with stable two-space
// indentation and a trailing newline.
func writeSchema(path string, doc schema.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
