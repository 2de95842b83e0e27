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

package node

import (
	"github.com/eclesh/welford"

	"github.com/facebookincubator/beaconmesh/wire"
)

// SetDataCyclesInit is the number of get-data cycles between two
// set_data broadcasts, §3/§4.4.
const SetDataCyclesInit = 6

// MasterAccum holds the master-side running accumulators, §3.
// Reset to zero by Reset after every calculate_average, invariant 6.
type MasterAccum struct {
	SumTemperature int64
	SumBrightness  int64
	Responses      int

	// Polled is false until the first get_data_req of this mastership
	// has gone out; the get-data cycle timeout uses it to distinguish
	// "just became master, nothing to average yet" from "polled last
	// cycle and got silence".
	Polled bool

	// LastTemperature/LastBrightness hold the most recently computed
	// average, used by the set_data cadence even on a cycle that
	// itself received no responses to average afresh.
	LastTemperature int64
	LastBrightness  int64

	// SetDataCycles counts down from SetDataCyclesInit to 0, at which
	// point a set_data broadcast is due and the counter is reloaded.
	SetDataCycles int

	// TemperatureJitter is an ambient running-statistics view of the
	// accepted temperature samples, purely for the per-cycle jitter
	// log line (SPEC_FULL.md §B); it is not part of the spec's own
	// average/reset contract and is never zeroed by Reset.
	TemperatureJitter *welford.Stats
}

// NewMasterAccum returns a zeroed accumulator ready for use.
func NewMasterAccum() *MasterAccum {
	return &MasterAccum{
		SetDataCycles:     SetDataCyclesInit,
		TemperatureJitter: welford.New(),
	}
}

// Add folds one slave's reading into the running sums.
func (a *MasterAccum) Add(sd wire.SensorData) {
	a.SumTemperature += int64(sd.Temperature)
	a.SumBrightness += int64(sd.Brightness)
	a.Responses++
	a.TemperatureJitter.Add(float64(sd.Temperature))
}

// Average computes floor(sum/count) for both channels. The caller
// must check Responses > 0 first.
func (a *MasterAccum) Average() (temperature, brightness int64) {
	return a.SumTemperature / int64(a.Responses), a.SumBrightness / int64(a.Responses)
}

// Reset zeroes the accumulators, invariant 6. SetDataCycles is left
// untouched; callers decrement/reload it separately per §4.4.
func (a *MasterAccum) Reset() {
	a.SumTemperature = 0
	a.SumBrightness = 0
	a.Responses = 0
}

// CalculateAverage computes the floored averages, records them as the
// latest known averages, and zeroes the accumulators (invariant 6).
// ok is false when there were no responses to average, in which case
// nothing is mutated.
func (a *MasterAccum) CalculateAverage() (temperature, brightness int64, ok bool) {
	if a.Responses == 0 {
		return 0, 0, false
	}
	temperature, brightness = a.Average()
	a.LastTemperature = temperature
	a.LastBrightness = brightness
	a.Reset()
	return temperature, brightness, true
}

// SlaveView holds the slave-side fields, §3.
type SlaveView struct {
	MasterID   wire.ID
	MasterMode wire.Mode
	// Oldest is true unless a peer with a strictly greater identifier
	// was observed during the current election window.
	Oldest  bool
	Reading wire.SensorData
}

// HasMaster reports whether the slave currently has a known master
// (invariant 4: non-nil exactly while State == StateSlave).
func (v *SlaveView) HasMaster() bool {
	return !v.MasterID.IsZero()
}

// ClearMaster resets the slave view to the "no known master" state.
func (v *SlaveView) ClearMaster() {
	v.MasterID = wire.ID{}
	v.MasterMode = 0
}

// Node is one cluster member: a fixed identity and role, plus the
// mutable mode/state and role-specific accumulators.
type Node struct {
	ID   wire.ID
	Role Role

	Mode  wire.Mode
	State State

	Master *MasterAccum
	Slave  *SlaveView
}

// New builds a Node in its role's initial (mode, state), per §4.2.
// Control nodes get a live MasterAccum immediately since they only
// ever occupy StateWaitingForSlave/StateMaster; indication nodes get
// a live SlaveView for the same reason, starting in
// StateWaitingForMaster with Oldest true.
func New(id wire.ID, role Role) *Node {
	mode, state := role.InitialState()
	n := &Node{ID: id, Role: role, Mode: mode, State: state}
	switch role {
	case RoleControl:
		n.Master = NewMasterAccum()
	case RoleIndication:
		n.Slave = &SlaveView{Oldest: true}
	}
	return n
}

// BecomeMaster transitions n into StateMaster, publishing its role's
// mode and arming a fresh accumulator, per H-IAS.
func (n *Node) BecomeMaster() {
	n.Mode = n.Role.PublishedMode()
	n.State = StateMaster
	n.Master = NewMasterAccum()
}

// BecomeWaitingForSlave transitions n back to StateWaitingForSlave,
// publishing its role's mode, per the get_data_cycle timeout's
// "no responses" branch in §4.4.
func (n *Node) BecomeWaitingForSlave() {
	n.Mode = n.Role.PublishedMode()
	n.State = StateWaitingForSlave
}

// BecomeSlaveOf transitions n (an indication node) into StateSlave
// under the given master, per H-IAM-S.
func (n *Node) BecomeSlaveOf(masterID wire.ID, masterMode wire.Mode) {
	n.Mode = wire.ModeSlave
	n.State = StateSlave
	n.Slave.MasterID = masterID
	n.Slave.MasterMode = masterMode
}

// BecomeWaitingForMaster re-enters the election, per the
// no_request_from_master timeout in §4.4.
func (n *Node) BecomeWaitingForMaster() {
	n.Mode = wire.ModeSlave
	n.State = StateWaitingForMaster
	n.Slave.Oldest = true
	n.Slave.ClearMaster()
}
