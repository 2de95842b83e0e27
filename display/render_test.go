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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facebookincubator/beaconmesh/wire"
)

func TestFormatTemperaturePositive(t *testing.T) {
	b := FormatTemperature(5)
	require.Equal(t, "+5 °C", strings.TrimRight(string(b[:]), "\x00"))
}

func TestFormatTemperatureNegative(t *testing.T) {
	b := FormatTemperature(-45)
	require.Equal(t, "-45 °C", strings.TrimRight(string(b[:]), "\x00"))
}

func TestFormatTimeLayout(t *testing.T) {
	now := time.Date(2026, 1, 1, 13, 5, 9, 0, time.Local)
	b := FormatTime(now)
	require.Equal(t, "13:05:09", strings.TrimRight(string(b[:]), "\x00"))
}

func TestFormatTextIsNulPadded(t *testing.T) {
	b := FormatText()
	require.True(t, strings.HasPrefix(string(b[:]), Text))
	require.Equal(t, byte(0), b[len(b)-1])
}

func TestStdoutSinkRendersDecodedFields(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStdoutSink(&buf)
	dd := NewDisplayData(420, 12, time.Date(2026, 1, 1, 8, 0, 0, 0, time.Local))
	sink.Show(dd)
	out := buf.String()
	require.Contains(t, out, "08:00:00")
	require.Contains(t, out, Text)
	require.Contains(t, out, "+12 °C")
	require.Contains(t, out, "brightness=420")
}
