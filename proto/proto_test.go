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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/facebookincubator/beaconmesh/node"
	"github.com/facebookincubator/beaconmesh/timers"
	"github.com/facebookincubator/beaconmesh/wire"
)

type unicastCall struct {
	buf  []byte
	addr *net.UDPAddr
}

type fakeSender struct {
	multicasts [][]byte
	unicasts   []unicastCall
}

func (f *fakeSender) Multicast(buf []byte) error {
	f.multicasts = append(f.multicasts, append([]byte(nil), buf...))
	return nil
}

func (f *fakeSender) Unicast(buf []byte, addr *net.UDPAddr) error {
	f.unicasts = append(f.unicasts, unicastCall{buf: append([]byte(nil), buf...), addr: addr})
	return nil
}

type fakeSensor struct {
	sd wire.SensorData
}

func (f fakeSensor) Read() wire.SensorData { return f.sd }

type fakeSink struct {
	shown []wire.DisplayData
}

func (f *fakeSink) Show(dd wire.DisplayData) { f.shown = append(f.shown, dd) }

var testAddr = &net.UDPAddr{IP: net.ParseIP("239.1.1.1"), Port: 30001}

func newTestMachine(t *testing.T, role node.Role) (*Machine, *fakeSender, *fakeSink) {
	t.Helper()
	id, err := node.NewID()
	require.NoError(t, err)
	n := node.New(id, role)
	sender := &fakeSender{}
	sink := &fakeSink{}
	m := NewMachine(n, sender, fakeSensor{}, sink, timers.NewEngine(), nil)
	return m, sender, sink
}

func newPeerID(t *testing.T) wire.ID {
	t.Helper()
	id, err := node.NewID()
	require.NoError(t, err)
	return id
}

func TestDispatchDropsSelfOrigin(t *testing.T) {
	m, sender, _ := newTestMachine(t, node.RoleControl)
	pkt := Packet{Op: wire.OpMasterNeededReq, Mode: wire.ModeMaster, ID: m.Node.ID}
	m.Dispatch(pkt, testAddr)
	require.Empty(t, sender.unicasts)
	require.Equal(t, node.StateWaitingForSlave, m.Node.State)
}

func TestDispatchUnmappedCellLeavesStateUnchanged(t *testing.T) {
	m, sender, _ := newTestMachine(t, node.RoleControl)
	peer := newPeerID(t)
	// get_data_req has no cell in the control table at any state.
	pkt := Packet{Op: wire.OpGetDataReq, Mode: wire.ModeSlave, ID: peer}
	m.Dispatch(pkt, testAddr)
	require.Empty(t, sender.multicasts)
	require.Empty(t, sender.unicasts)
	require.Equal(t, node.StateWaitingForSlave, m.Node.State)
}

func TestControlTableHasNoIndicationOnlyCells(t *testing.T) {
	table := newControlTable()
	require.Nil(t, table[wire.OpGetDataReq][node.StateSlave])
	require.Nil(t, table[wire.OpSetData][node.StateSlave])
	require.Nil(t, table[wire.OpSlaveNeededReq][node.StateWaitingForMaster])
}

func TestIndicationTableCoversAllFourStates(t *testing.T) {
	table := newIndicationTable()
	require.NotNil(t, table[wire.OpMasterNeededReq][node.StateWaitingForSlave])
	require.NotNil(t, table[wire.OpMasterNeededReq][node.StateMaster])
	require.NotNil(t, table[wire.OpMasterNeededReq][node.StateWaitingForMaster])
	require.NotNil(t, table[wire.OpMasterNeededReq][node.StateSlave])
}
