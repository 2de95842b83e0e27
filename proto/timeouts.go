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

package proto

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/facebookincubator/beaconmesh/node"
	"github.com/facebookincubator/beaconmesh/timers"
	"github.com/facebookincubator/beaconmesh/wire"
)

// StartSlaveElection sends the first slave_needed_req and arms the
// retry timer, §4.4. Used at control startup, by an indication node's
// self-promotion, and by the get-data cycle's demotion branch.
func (m *Machine) StartSlaveElection() {
	m.Node.BecomeWaitingForSlave()
	m.slaveNeededAttempts.Reset(timers.SlaveNeededRetryAttempts)
	m.sendMulticastHeader(wire.OpSlaveNeededReq)
	m.Timers.Arm(timers.PurposeSlaveNeededSent, timers.SlaveNeededRetryInterval)
}

// StartMasterElection sends the first master_needed_req and arms the
// retry timer, §4.4. Indication nodes only: used at startup and by
// the no_request_from_master timeout's demotion.
func (m *Machine) StartMasterElection() {
	m.Node.BecomeWaitingForMaster()
	m.masterNeededAttempts.Reset(timers.MasterNeededRetryAttempts)
	m.sendMulticastHeader(wire.OpMasterNeededReq)
	m.Timers.Arm(timers.PurposeMasterNeededSent, timers.MasterNeededRetryInterval)
}

// onSlaveNeededSentTimeout resends slave_needed_req while attempts
// remain; once exhausted the node stays in waiting_for_slave
// indefinitely, awaiting an external master_needed_req (H-MNR).
func (m *Machine) onSlaveNeededSentTimeout() {
	if !m.slaveNeededAttempts.HasNext() {
		return
	}
	m.slaveNeededAttempts.Consume()
	m.sendMulticastHeader(wire.OpSlaveNeededReq)
	m.Timers.Arm(timers.PurposeSlaveNeededSent, timers.SlaveNeededRetryInterval)
}

// onMasterNeededSentTimeout resends master_needed_req while attempts
// remain. Once exhausted, a node that never saw a higher identifier
// self-promotes by starting a slave election; one that did defers and
// stays in waiting_for_master.
func (m *Machine) onMasterNeededSentTimeout() {
	if !m.masterNeededAttempts.HasNext() {
		if m.Node.Slave.Oldest {
			log.Infof("self-promoting: no higher peer observed, id=%s", node.Fingerprint(m.Node.ID))
			m.StartSlaveElection()
		}
		return
	}
	m.masterNeededAttempts.Consume()
	m.sendMulticastHeader(wire.OpMasterNeededReq)
	m.Timers.Arm(timers.PurposeMasterNeededSent, timers.MasterNeededRetryInterval)
}

// onGetDataCycleTimeout drives the master poll cadence of §4.4/§4.6.
// The first firing after becoming master has nothing to average yet
// (Polled is still false) and unconditionally polls; every later
// firing demotes back to waiting_for_slave if the prior poll drew no
// response at all.
func (m *Machine) onGetDataCycleTimeout() {
	acc := m.Node.Master
	if acc.Polled && acc.Responses == 0 {
		log.Warnf("no slave responses last cycle, returning to waiting_for_slave")
		m.StartSlaveElection()
		return
	}
	if acc.Responses > 0 {
		jitter := acc.TemperatureJitter
		n := acc.Responses
		temp, bright, _ := acc.CalculateAverage()
		log.Infof("averaged temperature=%d brightness=%d over cycle (n=%d, stddev=%.2f)", temp, bright, n, jitter.Stddev())
		acc.SetDataCycles--
	}
	acc.Polled = true

	m.sendMulticastHeader(wire.OpGetDataReq)

	if acc.SetDataCycles <= 0 {
		m.sendSetData()
		acc.SetDataCycles = node.SetDataCyclesInit
	}
	m.Timers.Arm(timers.PurposeGetDataCycle, timers.GetDataCycleInterval)
}

// onNoRequestFromMasterTimeout (H-SNR-WM's counterpart on expiry): the
// master-liveness watchdog lapsed, so the slave re-enters the
// election from scratch.
func (m *Machine) onNoRequestFromMasterTimeout() {
	log.Warnf("master liveness watchdog expired, re-entering election")
	m.StartMasterElection()
}
