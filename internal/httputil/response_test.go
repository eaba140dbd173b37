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

package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
		wantJSON   string
	}{
		{
			name:       "success with map",
			status:     http.StatusOK,
			data:       map[string]string{"status": "success"},
			wantStatus: http.StatusOK,
			wantJSON:   `{"status":"success"}`,
		},
		{
			name:       "error status code",
			status:     http.StatusInternalServerError,
			data:       map[string]string{"status": "error", "message": "boom"},
			wantStatus: http.StatusInternalServerError,
			wantJSON:   `{"status":"error","message":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteJSON(w, tt.status, tt.data)

			if w.Code != tt.wantStatus {
				t.Errorf("WriteJSON() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("WriteJSON() Content-Type = %v, want application/json", ct)
			}

			var got, want map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if err := json.Unmarshal([]byte(tt.wantJSON), &want); err != nil {
				t.Fatalf("Failed to unmarshal expected JSON: %v", err)
			}

			for k, v := range want {
				if got[k] != v {
					t.Errorf("WriteJSON() response[%s] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusNotFound, "schema file not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("WriteError() status = %v, want %v", w.Code, http.StatusNotFound)
	}

	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if got["status"] != StatusError {
		t.Errorf("WriteError() status tag = %q, want %q", got["status"], StatusError)
	}
	if got["message"] != "schema file not found" {
		t.Errorf("WriteError() message = %q", got["message"])
	}
}
