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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tombee/nf-schema-builder/internal/cli"
	"github.com/tombee/nf-schema-builder/internal/commands/send"
	"github.com/tombee/nf-schema-builder/internal/commands/validate"
	versioncmd "github.com/tombee/nf-schema-builder/internal/commands/version"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildDate)

	rootCmd := cli.NewRootCommand()
	rootCmd.AddCommand(validate.NewCommand())
	rootCmd.AddCommand(send.NewCommand())
	rootCmd.AddCommand(versioncmd.NewCommand())

	// Ctrl-C cancels the context so a blocked editing session unwinds
	// through the usual shutdown path.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.HandleExitError(err)
	}
}
