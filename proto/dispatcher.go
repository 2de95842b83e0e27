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
	"github.com/facebookincubator/beaconmesh/node"
	"github.com/facebookincubator/beaconmesh/wire"
)

// newControlTable builds the control-node table of §4.3: only
// waiting_for_slave and master are ever reachable, so every other
// cell is left nil (falls through to Dispatch's stub logging).
func newControlTable() [7][4]handlerFunc {
	var t [7][4]handlerFunc

	t[wire.OpMasterNeededReq][node.StateWaitingForSlave] = hMNR
	t[wire.OpMasterNeededReq][node.StateMaster] = hMNR

	t[wire.OpSlaveNeededReq][node.StateWaitingForSlave] = hSNRPeer
	t[wire.OpSlaveNeededReq][node.StateMaster] = hSNRPeer

	t[wire.OpIAmMasterRsp][node.StateWaitingForSlave] = hIAMPeer
	t[wire.OpIAmMasterRsp][node.StateMaster] = hIAMPeer

	t[wire.OpIAmSlaveRsp][node.StateWaitingForSlave] = hIAS
	t[wire.OpIAmSlaveRsp][node.StateMaster] = hIAS

	t[wire.OpGetDataRsp][node.StateMaster] = hGDR

	return t
}

// newIndicationTable builds the indication-node table of §4.3. It
// shares master_needed_req→H-MNR, i_am_slave_rsp→H-IAS and
// get_data_rsp→H-GDR with the control table at the two states both
// roles occupy while acting as master, but overrides slave_needed_req
// and i_am_master_rsp at those same states with the peer-aware H-SNR-M/
// H-IAM-M variants, since a node that can itself become a slave must
// weigh a competing candidate instead of unconditionally rejecting it
// the way a permanent control node does. It then adds the two states
// (waiting_for_master, slave) a control node never occupies.
func newIndicationTable() [7][4]handlerFunc {
	var t [7][4]handlerFunc

	t[wire.OpMasterNeededReq][node.StateWaitingForSlave] = hMNR
	t[wire.OpMasterNeededReq][node.StateMaster] = hMNR
	t[wire.OpMasterNeededReq][node.StateWaitingForMaster] = hMNRS
	t[wire.OpMasterNeededReq][node.StateSlave] = hMNRS

	t[wire.OpIAmMasterRsp][node.StateWaitingForSlave] = hIAMM
	t[wire.OpIAmMasterRsp][node.StateMaster] = hIAMM
	t[wire.OpIAmMasterRsp][node.StateWaitingForMaster] = hIAMS

	t[wire.OpSlaveNeededReq][node.StateWaitingForSlave] = hSNRM
	t[wire.OpSlaveNeededReq][node.StateMaster] = hSNRM
	t[wire.OpSlaveNeededReq][node.StateWaitingForMaster] = hSNRWM
	t[wire.OpSlaveNeededReq][node.StateSlave] = hSNRS

	t[wire.OpIAmSlaveRsp][node.StateWaitingForSlave] = hIAS
	t[wire.OpIAmSlaveRsp][node.StateMaster] = hIAS

	t[wire.OpGetDataRsp][node.StateMaster] = hGDR

	t[wire.OpGetDataReq][node.StateSlave] = hGDReq
	t[wire.OpSetData][node.StateSlave] = hSD

	return t
}
