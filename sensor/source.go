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

// Package sensor defines the pluggable sensor source described in
// §6, plus the reference randomizer implementation.
package sensor

import (
	"math/rand"
	"time"

	"github.com/facebookincubator/beaconmesh/wire"
)

// Source returns a fresh sensor reading on demand.
type Source interface {
	Read() wire.SensorData
}

// Reference reading bounds, §6.
const (
	minTemperature = -45
	maxTemperature = 45
	minBrightness  = 350
	maxBrightness  = 550
)

// RandomSource is the reference Source: uniform random temperature
// and brightness within the ranges fixed by §6.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource builds a RandomSource seeded from the current time,
// matching the per-call reseed idiom server.handleEventMessages uses
// for its own *rand.Rand.
func NewRandomSource() *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Read returns a synthesized reading.
func (s *RandomSource) Read() wire.SensorData {
	temp := minTemperature + s.rng.Intn(maxTemperature-minTemperature+1)
	bright := minBrightness + s.rng.Intn(maxBrightness-minBrightness+1)
	return wire.SensorData{
		Temperature: int16(temp),
		Brightness:  uint16(bright),
	}
}
