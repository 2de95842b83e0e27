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

// Package timers implements the single multiplexed timer described in
// §4.4 and §5: one steady-clock timer, reused across the four retry/
// liveness purposes, where arming for a new purpose always cancels
// whatever was previously pending.
package timers

import "time"

// Purpose identifies which of the four retry/liveness timeouts the
// single timer is currently counting down to.
type Purpose int

// The four timer purposes, §4.4.
const (
	PurposeNone Purpose = iota
	PurposeSlaveNeededSent
	PurposeMasterNeededSent
	PurposeGetDataCycle
	PurposeNoRequestFromMaster
)

func (p Purpose) String() string {
	switch p {
	case PurposeSlaveNeededSent:
		return "slave_needed_sent"
	case PurposeMasterNeededSent:
		return "master_needed_sent"
	case PurposeGetDataCycle:
		return "get_data_cycle"
	case PurposeNoRequestFromMaster:
		return "no_request_from_master"
	default:
		return "none"
	}
}

// Durations and initial retry-attempt counts, §4.4. These are vars,
// not consts, solely so an operator's optional -config file (A.3) can
// override them at startup for testing; nothing in the protocol
// itself ever assigns to them after that.
var (
	SlaveNeededRetryInterval   = 3 * time.Second
	SlaveNeededRetryAttempts   = 2
	MasterNeededRetryInterval  = 1 * time.Second
	MasterNeededRetryAttempts  = 3
	GetDataCycleInterval       = 5 * time.Second
	NoRequestFromMasterTimeout = 6 * GetDataCycleInterval // 30s
)

// Engine is the single resettable timer owned by the event loop.
// It is not safe for concurrent use; the loop that owns it is the
// only caller, matching the single-threaded cooperative model of §5.
type Engine struct {
	timer   *time.Timer
	purpose Purpose
}

// NewEngine returns a disarmed Engine.
func NewEngine() *Engine {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return &Engine{timer: t, purpose: PurposeNone}
}

// C is the channel the event loop selects on to learn the timer
// fired. Every value received off it corresponds to the purpose
// active at the time of the most recent Arm call the loop observed.
func (e *Engine) C() <-chan time.Time {
	return e.timer.C
}

// Purpose reports what the currently armed (or just-fired) timer is
// for.
func (e *Engine) Purpose() Purpose {
	return e.purpose
}

// Arm (re)arms the timer for purpose p, to fire after d. Per
// invariant 5, this cancels whatever was previously armed: any tick
// already sitting unread in the channel is drained first so the next
// receive always corresponds to this arming, not a stale one.
func (e *Engine) Arm(p Purpose, d time.Duration) {
	if !e.timer.Stop() {
		select {
		case <-e.timer.C:
		default:
		}
	}
	e.purpose = p
	e.timer.Reset(d)
}

// Cancel disarms the timer without arming a new purpose.
func (e *Engine) Cancel() {
	if !e.timer.Stop() {
		select {
		case <-e.timer.C:
		default:
		}
	}
	e.purpose = PurposeNone
}
