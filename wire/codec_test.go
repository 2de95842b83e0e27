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

package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizesAreFixed(t *testing.T) {
	require.Equal(t, 20, HeaderSize, "header size must stay bit-exact")
	require.Equal(t, 4, SensorSize, "sensor payload size must stay bit-exact")
	require.Equal(t, 64, DisplaySize, "display payload size must stay bit-exact")
	require.Equal(t, 84, MaxPacketSize, "max packet size is header + largest payload")
}

func TestHeaderRoundTrip(t *testing.T) {
	id := ID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	buf := make([]byte, HeaderSize)
	EncodeHeader(buf, OpSlaveNeededReq, ModeTmpMaster, id)

	require.Equal(t, OpSlaveNeededReq, DecodeOp(buf), "opcode round-trips")
	require.Equal(t, ModeTmpMaster, DecodeMode(buf), "mode round-trips")
	require.Equal(t, id, DecodeID(buf), "identifier round-trips byte for byte")
}

func TestSensorRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderSize+SensorSize)
	sd := SensorData{Temperature: -45, Brightness: 550}
	EncodeSensor(buf, sd)
	require.Equal(t, sd, DecodeSensor(buf))

	sd2 := SensorData{Temperature: 45, Brightness: 350}
	EncodeSensor(buf, sd2)
	require.Equal(t, sd2, DecodeSensor(buf))
}

func TestDisplayRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderSize+DisplaySize)
	dd := DisplayData{Brightness: 0x1234}
	copy(dd.Text[:], "hello\x00")
	copy(dd.Temperature[:], "+21 \xc2\xb0C\x00")
	copy(dd.Time[:], "12:34:56\x00")

	EncodeDisplay(buf, dd)
	got := DecodeDisplay(buf)
	require.Equal(t, dd, got, "display payload round-trips byte for byte, trailing NULs included")
}

func TestValidateLength(t *testing.T) {
	require.False(t, Validate(make([]byte, 19), 19), "shorter than header is rejected")
	require.False(t, Validate(make([]byte, 85), 85), "longer than the largest payload is rejected")

	buf := make([]byte, HeaderSize)
	EncodeHeader(buf, OpMasterNeededReq, ModeMaster, ID{})
	require.True(t, Validate(buf, HeaderSize), "bare header-only opcode at exactly header size is accepted")
}

func TestValidateOpcode(t *testing.T) {
	buf := make([]byte, HeaderSize)
	EncodeHeader(buf, Op(99), ModeMaster, ID{})
	require.False(t, Validate(buf, HeaderSize), "unknown opcode is rejected")
}

func TestValidateMode(t *testing.T) {
	buf := make([]byte, HeaderSize)
	EncodeHeader(buf, OpMasterNeededReq, Mode(99), ID{})
	require.False(t, Validate(buf, HeaderSize), "unknown mode is rejected")
}

func TestValidateGetDataRspLength(t *testing.T) {
	buf := make([]byte, MaxPacketSize)
	EncodeHeader(buf, OpGetDataRsp, ModeSlave, ID{})
	EncodeSensor(buf, SensorData{})
	require.True(t, Validate(buf, HeaderSize+SensorSize), "get_data_rsp at exactly 24 bytes is accepted")
	require.False(t, Validate(buf, HeaderSize), "get_data_rsp without its sensor payload is rejected")
	require.False(t, Validate(buf, HeaderSize+SensorSize+1), "get_data_rsp with extra trailing bytes is rejected")
}

func TestValidateSetDataLength(t *testing.T) {
	buf := make([]byte, MaxPacketSize)
	EncodeHeader(buf, OpSetData, ModeMaster, ID{})
	require.True(t, Validate(buf, HeaderSize+DisplaySize), "set_data at exactly 84 bytes is accepted")
	require.False(t, Validate(buf, HeaderSize+SensorSize), "set_data without its full display payload is rejected")
}

func TestIDZeroAndLess(t *testing.T) {
	var zero ID
	require.True(t, zero.IsZero())

	low := ID{0, 0, 0, 1}
	high := ID{0, 0, 0, 2}
	require.True(t, low.Less(high))
	require.False(t, high.Less(low))
	require.False(t, low.Less(low))
}
