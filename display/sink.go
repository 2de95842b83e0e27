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

package display

import (
	"bytes"
	"fmt"
	"io"

	"github.com/facebookincubator/beaconmesh/wire"
)

// Sink consumes a decoded display payload and renders it.
type Sink interface {
	Show(dd wire.DisplayData)
}

// StdoutSink is the reference Sink: it writes a single line
// containing time, text and temperature as decoded, and brightness
// (already host-order after wire.DecodeDisplay).
type StdoutSink struct {
	w io.Writer
}

// NewStdoutSink builds a StdoutSink writing to w.
func NewStdoutSink(w io.Writer) *StdoutSink {
	return &StdoutSink{w: w}
}

func nulTerminated(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// Show renders dd as a single human-readable line.
func (s *StdoutSink) Show(dd wire.DisplayData) {
	fmt.Fprintf(s.w, "%s | %-45s | %s | brightness=%d\n",
		nulTerminated(dd.Time[:]),
		nulTerminated(dd.Text[:]),
		nulTerminated(dd.Temperature[:]),
		dd.Brightness,
	)
}
