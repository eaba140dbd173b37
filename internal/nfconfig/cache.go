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

package nfconfig

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// cacheKeyLen truncates the hex digest used as the cache file name.
const cacheKeyLen = 25

// Cache stores fetched workflow configurations on disk, keyed by a hash
// of the workflow's declaration files. Editing nextflow.config, main.nf
// or any conf/*.config include invalidates the entry.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// NewCache creates a cache rooted at dir, defaulting to the
// nf-schema-builder subdirectory of the user config dir. The directory
// is created if missing.
func NewCache(dir string, logger *slog.Logger) (*Cache, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving user config dir: %w", err)
		}
		dir = filepath.Join(base, "nf-schema-builder")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Cache{dir: dir, logger: logger}, nil
}

// Get returns the cached configuration for the workflow in wfDir, or nil
// when there is no valid entry.
func (c *Cache) Get(wfDir string) map[string]string {
	data, err := os.ReadFile(c.entryPath(wfDir))
	if err != nil {
		return nil
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		c.logger.Debug("failed to load cache entry", slog.Any("error", err))
		return nil
	}
	return values
}

// Put stores the configuration for the workflow in wfDir. Failures are
// logged, not returned: the cache is best effort.
func (c *Cache) Put(wfDir string, values map[string]string) {
	data, err := json.MarshalIndent(values, "", "    ")
	if err != nil {
		c.logger.Debug("failed to encode cache entry", slog.Any("error", err))
		return
	}
	if err := os.WriteFile(c.entryPath(wfDir), data, 0o644); err != nil {
		c.logger.Debug("failed to save cache entry", slog.Any("error", err))
	}
}

func (c *Cache) entryPath(wfDir string) string {
	return filepath.Join(c.dir, c.key(wfDir)+".json")
}

// key hashes the content of the workflow's declaration files into a
// short hex digest. Missing files contribute nothing, so a workflow
// without a main.nf still caches.
func (c *Cache) key(wfDir string) string {
	files := []string{
		filepath.Join(wfDir, "nextflow.config"),
		filepath.Join(wfDir, "main.nf"),
	}
	if includes, err := doublestar.FilepathGlob(filepath.Join(wfDir, "conf", "*.config")); err == nil {
		sort.Strings(includes)
		files = append(files, includes...)
	}

	var combined string
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		sum := sha256.Sum256(content)
		combined += hex.EncodeToString(sum[:])
	}

	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])[:cacheKeyLen]
}
