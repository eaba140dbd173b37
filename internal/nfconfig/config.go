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

// Package nfconfig fetches and interprets the flattened configuration of
// a Nextflow workflow.
package nfconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNextflowNotFound indicates the nextflow binary is not on PATH.
// This is a fatal precondition for any workflow-aware validation.
var ErrNextflowNotFound = errors.New("nextflow is not installed")

// paramPrefix namespaces declared workflow parameters in flat config output.
const paramPrefix = "params."

// paramDeclRe matches a params.x assignment at the start of a main.nf
// line. The character after the matched "=" is checked separately to
// exclude "==" comparisons.
var paramDeclRe = regexp.MustCompile(`^\s*params\.([a-zA-Z0-9_]+)\s*=`)

// Config is a flat mapping of dotted Nextflow configuration keys to
// string values.
type Config struct {
	values map[string]string
}

// NewConfig wraps an existing flat mapping. Used by tests and the cache.
func NewConfig(values map[string]string) *Config {
	if values == nil {
		values = make(map[string]string)
	}
	return &Config{values: values}
}

// Get returns the value for key, or fallback when absent.
func (c *Config) Get(key, fallback string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	return fallback
}

// Params returns all params.-prefixed entries.
func (c *Config) Params() map[string]string {
	params := make(map[string]string)
	for key, value := range c.values {
		if strings.HasPrefix(key, paramPrefix) {
			params[key] = value
		}
	}
	return params
}

// Plugins returns the configured plugin tokens, quote- and space-trimmed.
func (c *Config) Plugins() []string {
	raw := strings.Trim(c.Get("plugins", ""), `'" `)
	return strings.Split(raw, ",")
}

// IsNextflowInstalled reports whether the nextflow binary is on PATH.
func IsNextflowInstalled() bool {
	_, err := exec.LookPath("nextflow")
	return err == nil
}

// Fetch loads the flattened configuration of the workflow in dir by
// running `nextflow config -flat` and scanning main.nf for parameter
// declarations. Results are cached on disk keyed by the content hash of
// the workflow's declaration files; a cache hit skips the (slow)
// nextflow invocation entirely.
func Fetch(ctx context.Context, dir string, logger *slog.Logger) (*Config, error) {
	if !IsNextflowInstalled() {
		return nil, ErrNextflowNotFound
	}

	cache, err := NewCache("", logger)
	if err != nil {
		logger.Debug("config cache unavailable", slog.Any("error", err))
		cache = nil
	}
	if cache != nil {
		if cached := cache.Get(dir); cached != nil {
			logger.Debug("using cached workflow config", slog.String("dir", dir))
			return NewConfig(cached), nil
		}
	}

	values := make(map[string]string)

	out, err := exec.CommandContext(ctx, "nextflow", "config", "-flat", dir).Output()
	if err != nil {
		return nil, fmt.Errorf("running nextflow config: %w", err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if key, value, ok := parseConfigLine(line); ok {
			values[key] = value
		}
	}

	mainNF, err := os.ReadFile(filepath.Join(dir, "main.nf"))
	if err != nil {
		logger.Warn("could not open main.nf", slog.Any("error", err))
	} else {
		for key, value := range parseMainNF(string(mainNF)) {
			values[key] = value
		}
	}

	if cache != nil && len(values) > 0 {
		cache.Put(dir, values)
	}
	return NewConfig(values), nil
}

// parseConfigLine splits a `key = value` line from flat config output,
// stripping surrounding quotes from the value.
func parseConfigLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, " = ")
	if !found || key == "" {
		return "", "", false
	}
	value = strings.Trim(value, `'"`)
	if value == "" {
		return "", "", false
	}
	return key, value, true
}

// parseMainNF scans main.nf for params.x assignments. Declared
// parameters get the value "null" (unset); comparisons (==) are skipped.
func parseMainNF(content string) map[string]string {
	params := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		m := paramDeclRe.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		// m[1] is the end of the full match, just past the "=".
		if m[1] < len(line) && line[m[1]] == '=' {
			continue
		}
		params[paramPrefix+line[m[2]:m[3]]] = "null"
	}
	return params
}
