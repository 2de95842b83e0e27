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

// Package config holds the optional YAML override of the §4.4 timer
// durations and retry-attempt counts (SPEC_FULL.md §A.3). It is
// never required: every field defaults to the protocol's own
// constants when no file is given.
package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/facebookincubator/beaconmesh/timers"
)

// Timers is a dynamic config structure, the same shape as the
// teacher's DynamicConfig: every field is optional, and a zero value
// means "leave the built-in default alone".
type Timers struct {
	SlaveNeededRetryInterval   time.Duration
	SlaveNeededRetryAttempts   int
	MasterNeededRetryInterval  time.Duration
	MasterNeededRetryAttempts  int
	GetDataCycleInterval       time.Duration
	NoRequestFromMasterTimeout time.Duration
}

// Read loads a Timers override from path.
func Read(path string) (*Timers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var t Timers
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &t, nil
}

// Apply overwrites the package-level timers.* variables with every
// non-zero field of t. Must be called before any Machine is built.
func (t *Timers) Apply() {
	if t.SlaveNeededRetryInterval != 0 {
		timers.SlaveNeededRetryInterval = t.SlaveNeededRetryInterval
	}
	if t.SlaveNeededRetryAttempts != 0 {
		timers.SlaveNeededRetryAttempts = t.SlaveNeededRetryAttempts
	}
	if t.MasterNeededRetryInterval != 0 {
		timers.MasterNeededRetryInterval = t.MasterNeededRetryInterval
	}
	if t.MasterNeededRetryAttempts != 0 {
		timers.MasterNeededRetryAttempts = t.MasterNeededRetryAttempts
	}
	if t.GetDataCycleInterval != 0 {
		timers.GetDataCycleInterval = t.GetDataCycleInterval
	}
	if t.NoRequestFromMasterTimeout != 0 {
		timers.NoRequestFromMasterTimeout = t.NoRequestFromMasterTimeout
	}
}
