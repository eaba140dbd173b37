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
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the editor service's Prometheus instrumentation. Each
// server owns its own registry so multiple instances (and tests) never
// collide on registration.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	saves    prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nfsb_editor_requests_total",
			Help: "HTTP requests handled by the schema editor service.",
		}, []string{"method", "path"}),
		saves: factory.NewCounter(prometheus.CounterOpts{
			Name: "nfsb_editor_schema_saves_total",
			Help: "Schema documents persisted through the editor service.",
		}),
	}
}

// handler returns the /metrics endpoint handler for this registry.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
