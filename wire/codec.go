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

// Package wire implements the bit-exact, allocation-free wire format
// shared by every node in the cluster: a fixed 20-byte header, a
// 4-byte sensor payload and a 64-byte display payload, all in network
// byte order.
package wire

import "encoding/binary"

// Op is the packet opcode carried in every header.
type Op uint16

// Opcodes, Table in spec §3.
const (
	OpMasterNeededReq Op = 0
	OpIAmMasterRsp    Op = 1
	OpSlaveNeededReq  Op = 2
	OpIAmSlaveRsp     Op = 3
	OpGetDataReq      Op = 4
	OpGetDataRsp      Op = 5
	OpSetData         Op = 6
)

var opNames = map[Op]string{
	OpMasterNeededReq: "master_needed_req",
	OpIAmMasterRsp:    "i_am_master_rsp",
	OpSlaveNeededReq:  "slave_needed_req",
	OpIAmSlaveRsp:     "i_am_slave_rsp",
	OpGetDataReq:      "get_data_req",
	OpGetDataRsp:      "get_data_rsp",
	OpSetData:         "set_data",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "unknown_op"
}

// Valid reports whether o is a known opcode.
func (o Op) Valid() bool {
	return o <= OpSetData
}

// Mode is the self-asserted role carried in every header.
type Mode uint16

// Modes, §3.
const (
	ModeMaster    Mode = 0
	ModeSlave     Mode = 1
	ModeTmpMaster Mode = 2
)

var modeNames = map[Mode]string{
	ModeMaster:    "master",
	ModeSlave:     "slave",
	ModeTmpMaster: "tmp_master",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown_mode"
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m <= ModeTmpMaster
}

// IDSize is the size in bytes of a node identifier.
const IDSize = 16

// ID is the opaque 128-bit node identifier used for tie-breaking.
type ID [IDSize]byte

// IsZero reports whether id is the reserved "no known master" value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Less reports whether id sorts strictly before other under the
// lexicographic tie-break order used by the election.
func (id ID) Less(other ID) bool {
	for i := range id {
		if id[i] != other[i] {
			return id[i] < other[i]
		}
	}
	return false
}

const (
	// HeaderSize is the fixed size of the common packet header.
	HeaderSize = 20
	// SensorSize is the size of the sensor payload following the header
	// in a get_data_rsp packet.
	SensorSize = 4
	// DisplaySize is the size of the display payload following the
	// header in a set_data packet.
	DisplaySize = 64
	// MaxPacketSize is the largest buffer the transport ever needs to
	// hold: header plus the larger of the two payloads.
	MaxPacketSize = HeaderSize + DisplaySize

	textSize        = 45
	temperatureSize = 8
	timeSize        = 9
)

// SensorData is the decoded payload of a get_data_rsp packet.
type SensorData struct {
	Temperature int16
	Brightness  uint16
}

// DisplayData is the decoded payload of a set_data packet.
type DisplayData struct {
	Brightness  uint16
	Text        [textSize]byte
	Temperature [temperatureSize]byte
	Time        [timeSize]byte
}

// EncodeHeader writes the 20-byte header into buf[:HeaderSize].
func EncodeHeader(buf []byte, op Op, mode Mode, id ID) {
	binary.BigEndian.PutUint16(buf[0:2], uint16(op))
	binary.BigEndian.PutUint16(buf[2:4], uint16(mode))
	copy(buf[4:4+IDSize], id[:])
}

// DecodeOp reads the opcode field out of buf.
func DecodeOp(buf []byte) Op {
	return Op(binary.BigEndian.Uint16(buf[0:2]))
}

// DecodeMode reads the mode field out of buf.
func DecodeMode(buf []byte) Mode {
	return Mode(binary.BigEndian.Uint16(buf[2:4]))
}

// DecodeID reads the sender identifier out of buf.
func DecodeID(buf []byte) ID {
	var id ID
	copy(id[:], buf[4:4+IDSize])
	return id
}

// EncodeSensor writes the 4-byte sensor payload into
// buf[HeaderSize : HeaderSize+SensorSize].
func EncodeSensor(buf []byte, sd SensorData) {
	b := buf[HeaderSize : HeaderSize+SensorSize]
	binary.BigEndian.PutUint16(b[0:2], uint16(sd.Temperature))
	binary.BigEndian.PutUint16(b[2:4], sd.Brightness)
}

// DecodeSensor reads the sensor payload out of buf.
func DecodeSensor(buf []byte) SensorData {
	b := buf[HeaderSize : HeaderSize+SensorSize]
	return SensorData{
		Temperature: int16(binary.BigEndian.Uint16(b[0:2])),
		Brightness:  binary.BigEndian.Uint16(b[2:4]),
	}
}

// EncodeDisplay writes the 64-byte display payload into
// buf[HeaderSize : HeaderSize+DisplaySize]. Brightness is byte-swapped
// to network order same as every other multi-byte field; text fields
// are copied byte-for-byte including trailing NULs.
func EncodeDisplay(buf []byte, dd DisplayData) {
	b := buf[HeaderSize : HeaderSize+DisplaySize]
	binary.BigEndian.PutUint16(b[0:2], dd.Brightness)
	copy(b[2:2+textSize], dd.Text[:])
	copy(b[2+textSize:2+textSize+temperatureSize], dd.Temperature[:])
	copy(b[2+textSize+temperatureSize:2+textSize+temperatureSize+timeSize], dd.Time[:])
}

// DecodeDisplay reads the display payload out of buf.
func DecodeDisplay(buf []byte) DisplayData {
	b := buf[HeaderSize : HeaderSize+DisplaySize]
	var dd DisplayData
	dd.Brightness = binary.BigEndian.Uint16(b[0:2])
	copy(dd.Text[:], b[2:2+textSize])
	copy(dd.Temperature[:], b[2+textSize:2+textSize+temperatureSize])
	copy(dd.Time[:], b[2+textSize+temperatureSize:2+textSize+temperatureSize+timeSize])
	return dd
}

// Validate reports whether buf[:n] is a well-formed packet per §4.1:
// big enough for a header, no larger than the largest known payload,
// a known opcode and mode, and the payload size that opcode demands.
func Validate(buf []byte, n int) bool {
	if n < HeaderSize || n > MaxPacketSize {
		return false
	}
	op := DecodeOp(buf[:n])
	if !op.Valid() {
		return false
	}
	mode := DecodeMode(buf[:n])
	if !mode.Valid() {
		return false
	}
	switch op {
	case OpGetDataRsp:
		return n == HeaderSize+SensorSize
	case OpSetData:
		return n == HeaderSize+DisplaySize
	default:
		return true
	}
}
