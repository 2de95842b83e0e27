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
	"net"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/facebookincubator/beaconmesh/display"
	"github.com/facebookincubator/beaconmesh/node"
	"github.com/facebookincubator/beaconmesh/sensor"
	"github.com/facebookincubator/beaconmesh/stats"
	"github.com/facebookincubator/beaconmesh/timers"
	"github.com/facebookincubator/beaconmesh/wire"
)

// Sender delivers an already-encoded packet onto the wire. The
// transport owns the socket; Machine never touches it directly, per
// §5's "shared resources: none cross the loop boundary".
type Sender interface {
	Multicast(buf []byte) error
	Unicast(buf []byte, addr *net.UDPAddr) error
}

type handlerFunc func(m *Machine, pkt Packet, addr *net.UDPAddr)

// Machine is the per-node dispatcher/state-machine core of §4.3. It
// owns no socket and performs no blocking I/O; every mutation happens
// synchronously inside Dispatch, Start or OnTimerFired, matching
// the single-threaded cooperative loop of §5.
type Machine struct {
	Node    *node.Node
	Sender  Sender
	Sensor  sensor.Source
	Display display.Sink
	Timers  *timers.Engine
	Stats   *stats.Registry

	table [7][4]handlerFunc

	slaveNeededAttempts  *timers.AttemptCounter
	masterNeededAttempts *timers.AttemptCounter

	sendBuf [wire.MaxPacketSize]byte
}

// NewMachine builds a Machine for n, wiring its dispatch table to n's
// role per §4.3.
func NewMachine(n *node.Node, sender Sender, src sensor.Source, sink display.Sink, eng *timers.Engine, reg *stats.Registry) *Machine {
	m := &Machine{
		Node:                 n,
		Sender:               sender,
		Sensor:               src,
		Display:              sink,
		Timers:               eng,
		Stats:                reg,
		slaveNeededAttempts:  timers.NewAttemptCounter(timers.SlaveNeededRetryAttempts),
		masterNeededAttempts: timers.NewAttemptCounter(timers.MasterNeededRetryAttempts),
	}
	switch n.Role {
	case node.RoleControl:
		m.table = newControlTable()
	case node.RoleIndication:
		m.table = newIndicationTable()
	}
	return m
}

// Start kicks off the role-appropriate election sequence, §4.2/§4.4.
// Control nodes look for a slave; indication nodes look for a master.
func (m *Machine) Start() {
	switch m.Node.Role {
	case node.RoleControl:
		m.StartSlaveElection()
	case node.RoleIndication:
		m.StartMasterElection()
	}
}

// Dispatch routes a validated, decoded packet to the handler selected
// by (pkt.Op, Node.State), logging and dropping anything the table
// has no cell for. Self-origin packets are dropped first per
// invariant 3.
func (m *Machine) Dispatch(pkt Packet, addr *net.UDPAddr) {
	if pkt.ID == m.Node.ID {
		return
	}
	if m.Stats != nil {
		m.Stats.IncRX(pkt.Op)
	}
	h := m.table[pkt.Op][m.Node.State]
	if h == nil {
		log.Debugf("unexpected packet: op=%s state=%s mode=%s from=%s", pkt.Op, m.Node.State, pkt.Mode, addr)
		return
	}
	h(m, pkt, addr)
	if m.Stats != nil {
		m.Stats.SetStateMode(int(m.Node.State), m.Node.Mode)
	}
}

// OnTimerFired dispatches the single multiplexed timer's current
// purpose to the matching handler, §4.4.
func (m *Machine) OnTimerFired() {
	switch m.Timers.Purpose() {
	case timers.PurposeSlaveNeededSent:
		m.onSlaveNeededSentTimeout()
	case timers.PurposeMasterNeededSent:
		m.onMasterNeededSentTimeout()
	case timers.PurposeGetDataCycle:
		m.onGetDataCycleTimeout()
	case timers.PurposeNoRequestFromMaster:
		m.onNoRequestFromMasterTimeout()
	}
}

func (m *Machine) emitMulticast(op wire.Op, buf []byte) {
	if err := m.Sender.Multicast(buf); err != nil {
		log.Warnf("send %s multicast: %v", op, err)
		return
	}
	if m.Stats != nil {
		m.Stats.IncTX(op)
	}
	log.Debugf("-> multicast %s", op)
}

func (m *Machine) emitUnicast(op wire.Op, buf []byte, addr *net.UDPAddr) {
	if err := m.Sender.Unicast(buf, addr); err != nil {
		log.Warnf("send %s to %s: %v", op, addr, err)
		return
	}
	if m.Stats != nil {
		m.Stats.IncTX(op)
	}
	log.Debugf("-> unicast %s to %s", op, addr)
}

func (m *Machine) sendMulticastHeader(op wire.Op) {
	wire.EncodeHeader(m.sendBuf[:], op, m.Node.Mode, m.Node.ID)
	m.emitMulticast(op, m.sendBuf[:wire.HeaderSize])
}

func (m *Machine) sendUnicastHeader(op wire.Op, addr *net.UDPAddr) {
	wire.EncodeHeader(m.sendBuf[:], op, m.Node.Mode, m.Node.ID)
	m.emitUnicast(op, m.sendBuf[:wire.HeaderSize], addr)
}

func (m *Machine) sendUnicastSensor(op wire.Op, sd wire.SensorData, addr *net.UDPAddr) {
	wire.EncodeHeader(m.sendBuf[:], op, m.Node.Mode, m.Node.ID)
	wire.EncodeSensor(m.sendBuf[:], sd)
	m.emitUnicast(op, m.sendBuf[:wire.HeaderSize+wire.SensorSize], addr)
}

func (m *Machine) sendMulticastDisplay(op wire.Op, dd wire.DisplayData) {
	wire.EncodeHeader(m.sendBuf[:], op, m.Node.Mode, m.Node.ID)
	wire.EncodeDisplay(m.sendBuf[:], dd)
	m.emitMulticast(op, m.sendBuf[:wire.HeaderSize+wire.DisplaySize])
}

// sendSetData broadcasts the master's latest averaged reading as a
// set_data payload, §4.6.
func (m *Machine) sendSetData() {
	dd := display.NewDisplayData(uint16(m.Node.Master.LastBrightness), m.Node.Master.LastTemperature, time.Now())
	log.Infof("broadcasting set_data: temperature=%d brightness=%d", m.Node.Master.LastTemperature, m.Node.Master.LastBrightness)
	m.sendMulticastDisplay(wire.OpSetData, dd)
}
