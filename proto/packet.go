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

// Package proto implements the dispatcher/state-machine core of §4.3:
// a (opcode, state) handler table built per node role, and the H-*
// handlers and timer-expiry sequences that drive the election and
// data exchange.
package proto

import "github.com/facebookincubator/beaconmesh/wire"

// Packet is a validated, decoded datagram ready for dispatch.
type Packet struct {
	Op   wire.Op
	Mode wire.Mode
	ID   wire.ID
	Buf  []byte
}

// DecodePacket decodes the common header fields out of buf[:n].
// Callers must have already run buf through wire.Validate.
func DecodePacket(buf []byte, n int) Packet {
	b := buf[:n]
	return Packet{
		Op:   wire.DecodeOp(b),
		Mode: wire.DecodeMode(b),
		ID:   wire.DecodeID(b),
		Buf:  b,
	}
}
