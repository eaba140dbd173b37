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

package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/browser"

	"github.com/tombee/nf-schema-builder/internal/log"
)

const (
	// defaultPort is the editor service's default port.
	defaultPort = 5173
	// startTimeout bounds the wait for the service to become ready.
	startTimeout = 10 * time.Second
	// requestTimeout bounds each HTTP exchange with the service.
	requestTimeout = 30 * time.Second
)

// SendOptions configures a schema send.
type SendOptions struct {
	// URL is the target, with or without scheme. Default: localhost:5173.
	URL string
	// NoBrowser suppresses opening the editor page in a browser.
	NoBrowser bool
	// Logger for client-side logs.
	Logger *slog.Logger
}

// Send posts the schema file to the target URL. For local targets a
// fresh editor service is started first and the call blocks until the
// user finishes editing; the service is shut down before returning.
// Remote targets get a plain POST.
func Send(ctx context.Context, schemaFile string, opts SendOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(nil)
	}

	target := opts.URL
	if target == "" {
		target = fmt.Sprintf("localhost:%d", defaultPort)
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "http://" + target
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", opts.URL, err)
	}

	var handle *Handle
	if isLocalHost(parsed.Hostname()) {
		port := defaultPort
		if p := parsed.Port(); p != "" {
			port, err = strconv.Atoi(p)
			if err != nil {
				return fmt.Errorf("invalid port in URL %q: %w", opts.URL, err)
			}
		}

		srv := NewServer(Options{
			Host:       parsed.Hostname(),
			Port:       port,
			SchemaFile: schemaFile,
			Logger:     logger,
		})
		handle, err = srv.Start(ctx)
		if err != nil {
			return fmt.Errorf("starting editor service: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			handle.Shutdown(shutdownCtx)
		}()

		if !handle.WaitReady(startTimeout) {
			return fmt.Errorf("editor service failed to start within %s", startTimeout)
		}
		target = handle.URL()

		if !opts.NoBrowser {
			if err := browser.OpenURL(handle.URL()); err != nil {
				logger.Warn("could not open browser", log.Error(err))
			}
		}
	}

	if err := postSchema(ctx, schemaFile, target, logger); err != nil {
		return err
	}
	logger.Info("schema sent successfully", slog.String("url", target))

	if handle != nil {
		logger.Info("waiting for you to finish editing, click the Finish button when done")
		if err := handle.WaitFinished(ctx); err != nil {
			return fmt.Errorf("waiting for finish signal: %w", err)
		}
	}
	return nil
}

// postSchema loads, checks and posts the schema document to the
// service's save endpoint.
func postSchema(ctx context.Context, schemaFile, target string, logger *slog.Logger) error {
	data, err := os.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("reading schema file: %w", err)
	}
	var schemaData any
	if err := json.Unmarshal(data, &schemaData); err != nil {
		return fmt.Errorf("parsing schema file: %w", err)
	}
	body, err := json.Marshal(schemaData)
	if err != nil {
		return fmt.Errorf("serializing schema: %w", err)
	}

	endpoint := strings.TrimSuffix(target, "/")
	if !strings.HasSuffix(endpoint, "/api/schema") {
		endpoint += "/api/schema"
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("sending schema", slog.String("url", endpoint))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sending schema to %s: %s: %s", endpoint, resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

func isLocalHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
