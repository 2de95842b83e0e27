/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package stats exposes a node's counters over Prometheus, purely as
// an ambient operational surface alongside the protocol's own
// logging; nothing here feeds back into the election logic itself.
package stats

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/facebookincubator/beaconmesh/wire"
)

// Registry holds the Prometheus collectors for one node.
type Registry struct {
	registry *prometheus.Registry

	rx    *prometheus.CounterVec
	tx    *prometheus.CounterVec
	state prometheus.Gauge
	mode  prometheus.Gauge
}

// NewRegistry builds a fresh Registry with all collectors registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.rx = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beaconmesh_packets_received_total",
		Help: "Packets received, by opcode.",
	}, []string{"op"})
	r.tx = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beaconmesh_packets_sent_total",
		Help: "Packets sent, by opcode.",
	}, []string{"op"})
	r.state = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "beaconmesh_state",
		Help: "Current node state as an integer (see node.State).",
	})
	r.mode = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "beaconmesh_mode",
		Help: "Current node mode as an integer (see wire.Mode).",
	})
	r.registry.MustRegister(r.rx, r.tx, r.state, r.mode)
	return r
}

// IncRX records one received packet of opcode op.
func (r *Registry) IncRX(op wire.Op) {
	r.rx.WithLabelValues(op.String()).Inc()
}

// IncTX records one sent packet of opcode op.
func (r *Registry) IncTX(op wire.Op) {
	r.tx.WithLabelValues(op.String()).Inc()
}

// SetStateMode records the node's current (state, mode) pair.
func (r *Registry) SetStateMode(state int, mode wire.Mode) {
	r.state.Set(float64(state))
	r.mode.Set(float64(mode))
}

// Serve starts the /metrics HTTP endpoint and blocks. Intended to be
// run in its own goroutine by the CLI entry point; it never touches
// node state directly.
func (r *Registry) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	log.Infof("serving metrics on %s", addr)
	return http.ListenAndServe(addr, mux) //nolint:gosec
}
