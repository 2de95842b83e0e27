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

// Package node holds a cluster member's fixed identity, its role, and
// its mutable (mode, state) pair.
package node

import (
	"crypto/rand"
	"fmt"

	"github.com/cespare/xxhash"

	"github.com/facebookincubator/beaconmesh/wire"
)

// Role is fixed at construction for the process lifetime.
type Role int

// Roles, §4.2.
const (
	RoleControl Role = iota
	RoleIndication
)

func (r Role) String() string {
	if r == RoleControl {
		return "control"
	}
	return "indication"
}

// NewID generates a uniformly random 128-bit node identifier.
func NewID() (wire.ID, error) {
	var id wire.ID
	if _, err := rand.Read(id[:]); err != nil {
		return wire.ID{}, fmt.Errorf("generating node identifier: %w", err)
	}
	return id, nil
}

// Fingerprint renders a short, log-friendly hash of id. Wire
// comparisons never use this value; it exists purely to keep log
// lines readable instead of printing all 32 hex digits every time.
func Fingerprint(id wire.ID) string {
	return fmt.Sprintf("%08x", uint32(xxhash.Sum64(id[:])))
}

// State is the local state-machine position, §3.
type State int

// States. Control nodes only ever occupy StateWaitingForSlave and
// StateMaster; indication nodes use all four.
const (
	StateWaitingForSlave State = iota
	StateMaster
	StateWaitingForMaster
	StateSlave
)

var stateNames = map[State]string{
	StateWaitingForSlave:  "waiting_for_slave",
	StateMaster:           "master",
	StateWaitingForMaster: "waiting_for_master",
	StateSlave:            "slave",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown_state"
}

// Allowed reports whether the (state, mode) pair belongs to the set
// permitted by invariant 1 in §3.
func Allowed(s State, m wire.Mode) bool {
	switch s {
	case StateWaitingForSlave:
		return m == wire.ModeMaster || m == wire.ModeTmpMaster
	case StateMaster:
		return m == wire.ModeMaster || m == wire.ModeTmpMaster
	case StateWaitingForMaster:
		return m == wire.ModeSlave
	case StateSlave:
		return m == wire.ModeSlave
	default:
		return false
	}
}

// PublishedMode returns the mode a node of the given role publishes
// on the wire when it enters StateMaster, per §4.2.
func (r Role) PublishedMode() wire.Mode {
	if r == RoleControl {
		return wire.ModeMaster
	}
	return wire.ModeTmpMaster
}

// InitialState returns the (mode, state) pair a node of role r starts
// in, per §4.2.
func (r Role) InitialState() (wire.Mode, State) {
	if r == RoleControl {
		return wire.ModeMaster, StateWaitingForSlave
	}
	return wire.ModeTmpMaster, StateWaitingForMaster
}
