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

// Package display defines the pluggable display sink described in
// §6, plus the encoding of the text/temperature/time fields (§4.6)
// and the reference stdout renderer.
package display

import (
	"fmt"
	"time"

	"github.com/facebookincubator/beaconmesh/wire"
)

// Text is the fixed literal broadcast in every set_data payload.
const Text = "beaconmesh"

// FormatTemperature renders t (a floored average in whole degrees)
// into the 8-byte NUL-terminated field per §4.6: sign, digits, a
// space, the UTF-8 degree sign, "C", NUL, matching the original
// control_block's "%+02d °C".
func FormatTemperature(t int64) [8]byte {
	var out [8]byte
	s := fmt.Sprintf("%+02d °C", t)
	copy(out[:], s)
	return out
}

// FormatTime renders now into the 9-byte NUL-terminated HH:MM:SS
// field per §4.6, using local time.
func FormatTime(now time.Time) [9]byte {
	var out [9]byte
	copy(out[:], now.Format("15:04:05"))
	return out
}

// FormatText renders the fixed literal into the 45-byte NUL-padded
// field per §4.6.
func FormatText() [45]byte {
	var out [45]byte
	copy(out[:], Text)
	return out
}

// NewDisplayData builds the full payload for a set_data broadcast
// from an averaged brightness/temperature pair.
func NewDisplayData(brightness uint16, temperature int64, now time.Time) wire.DisplayData {
	return wire.DisplayData{
		Brightness:  brightness,
		Text:        FormatText(),
		Temperature: FormatTemperature(temperature),
		Time:        FormatTime(now),
	}
}
