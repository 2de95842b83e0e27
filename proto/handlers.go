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

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/facebookincubator/beaconmesh/node"
	"github.com/facebookincubator/beaconmesh/timers"
	"github.com/facebookincubator/beaconmesh/wire"
)

// hMNR (H-MNR): a master answers a master_needed_req by confirming
// its own mode, then treats the sender the way an i_am_slave_rsp
// would (H-IAS) — the request is itself evidence of a live slave.
func hMNR(m *Machine, pkt Packet, addr *net.UDPAddr) {
	m.sendUnicastHeader(wire.OpIAmMasterRsp, addr)
	hIAS(m, pkt, addr)
}

// hIAS (H-IAS): a node observed confirmation of a slave. If it was
// waiting for one, it becomes master and starts the get-data cycle.
func hIAS(m *Machine, _ Packet, _ *net.UDPAddr) {
	if m.Node.State != node.StateWaitingForSlave {
		return
	}
	m.Node.BecomeMaster()
	log.Info(color.GreenString("elected master: id=%s mode=%s", node.Fingerprint(m.Node.ID), m.Node.Mode))
	m.Timers.Arm(timers.PurposeGetDataCycle, timers.GetDataCycleInterval)
}

// hGDR (H-GDR): fold a slave's sensor reading into the running
// accumulators. Never replies.
func hGDR(m *Machine, pkt Packet, _ *net.UDPAddr) {
	sd := wire.DecodeSensor(pkt.Buf)
	m.Node.Master.Add(sd)
}

// hSNRPeer (H-SNR-peer): a control node answers any slave_needed_req
// by asserting its own mode, instructing the sender to defer to it.
func hSNRPeer(m *Machine, _ Packet, addr *net.UDPAddr) {
	m.sendUnicastHeader(wire.OpIAmMasterRsp, addr)
}

// hIAMPeer (H-IAM-peer): a control node observing another
// i_am_master_rsp. A tmp_master announcement is merely informational;
// a peer asserting the permanent master mode is a configuration
// error that cannot be resolved locally.
func hIAMPeer(_ *Machine, pkt Packet, _ *net.UDPAddr) {
	switch pkt.Mode {
	case wire.ModeMaster:
		log.Fatal(color.RedString("duplicate control node detected: peer %s also publishes mode master", node.Fingerprint(pkt.ID)))
	case wire.ModeTmpMaster:
		log.Warn(color.YellowString("peer %s announced tmp_master while this node is the permanent master", node.Fingerprint(pkt.ID)))
	}
}

// hMNRS (H-MNR-S): an indication node not currently master tracks
// whether a higher-identified peer is contending, for the eventual
// self-promotion decision in onMasterNeededSentTimeout.
func hMNRS(m *Machine, pkt Packet, _ *net.UDPAddr) {
	if m.Node.ID.Less(pkt.ID) {
		m.Node.Slave.Oldest = false
	}
}

// hIAMM (H-IAM-M): an indication node acting as (or seeking) master
// only yields to a permanent master's announcement; a peer's
// tmp_master announcement is ignored.
func hIAMM(m *Machine, pkt Packet, addr *net.UDPAddr) {
	if pkt.Mode != wire.ModeMaster {
		return
	}
	hIAMS(m, pkt, addr)
}

// hIAMS (H-IAM-S): accept the sender as master, becoming a slave and
// arming the liveness watchdog.
func hIAMS(m *Machine, pkt Packet, _ *net.UDPAddr) {
	m.Node.BecomeSlaveOf(pkt.ID, pkt.Mode)
	log.Info(color.GreenString("accepted master %s mode=%s", node.Fingerprint(pkt.ID), pkt.Mode))
	m.Timers.Arm(timers.PurposeNoRequestFromMaster, timers.NoRequestFromMasterTimeout)
}

// hSNRWM (H-SNR-WM): while waiting for a master, unconditionally
// accept the first candidate and confirm with i_am_slave_rsp.
func hSNRWM(m *Machine, pkt Packet, addr *net.UDPAddr) {
	hIAMS(m, pkt, addr)
	m.sendUnicastHeader(wire.OpIAmSlaveRsp, addr)
}

// hSNRS (H-SNR-S): already a slave under a temporary master, switch
// allegiance only to a strictly stronger or permanent candidate.
func hSNRS(m *Machine, pkt Packet, addr *net.UDPAddr) {
	if m.Node.Slave.MasterMode != wire.ModeTmpMaster {
		return
	}
	if m.Node.Slave.MasterID.Less(pkt.ID) || pkt.Mode == wire.ModeMaster {
		hSNRWM(m, pkt, addr)
	}
}

// hSNRM (H-SNR-M): acting as (or seeking) master, yield only to a
// permanent master, or to a tmp_master candidate with a strictly
// greater identifier.
func hSNRM(m *Machine, pkt Packet, addr *net.UDPAddr) {
	accept := pkt.Mode == wire.ModeMaster || (pkt.Mode == wire.ModeTmpMaster && m.Node.ID.Less(pkt.ID))
	if accept {
		hSNRWM(m, pkt, addr)
	}
}

// hGDReq (H-GDReq): answer the current master's poll with a fresh
// reading, refreshing the liveness watchdog.
func hGDReq(m *Machine, pkt Packet, addr *net.UDPAddr) {
	if pkt.ID != m.Node.Slave.MasterID {
		return
	}
	reading := m.Sensor.Read()
	m.Node.Slave.Reading = reading
	m.Timers.Arm(timers.PurposeNoRequestFromMaster, timers.NoRequestFromMasterTimeout)
	m.sendUnicastSensor(wire.OpGetDataRsp, reading, addr)
}

// hSD (H-SD): render the current master's display push.
func hSD(m *Machine, pkt Packet, _ *net.UDPAddr) {
	if pkt.ID != m.Node.Slave.MasterID {
		return
	}
	dd := wire.DecodeDisplay(pkt.Buf)
	m.Display.Show(dd)
}
