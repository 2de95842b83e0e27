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

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/facebookincubator/beaconmesh/proto"
	"github.com/facebookincubator/beaconmesh/wire"
)

// Port is the fixed UDP port of §6, not configurable by CLI.
const Port = 30001

type datagram struct {
	n    int
	addr *net.UDPAddr
	buf  []byte
}

// Loop is the single-threaded cooperative event loop of §5. All
// Machine mutation happens on the goroutine running Run; a second,
// minimal goroutine only blocks on the kernel recvfrom call and
// forwards completed datagrams over a channel, since Go cannot select
// on a blocking syscall directly. That goroutine owns no state the
// loop touches, so the single-owner invariant on the receive buffer,
// send buffer, dispatcher table and node state still holds.
type Loop struct {
	socket  *Socket
	machine *proto.Machine

	tickEvery time.Duration
	onTick    func(*proto.Machine)
}

// NewLoop builds a Loop reading from socket and dispatching into
// machine.
func NewLoop(socket *Socket, machine *proto.Machine) *Loop {
	return &Loop{socket: socket, machine: machine}
}

// WithTick arms an additional ambient callback fired every d,
// invoked on the same goroutine as Dispatch/OnTimerFired so it can
// read Machine/Node state without racing the loop's ownership of it
// (§5). Used by the CLI layer for health logging and systemd
// notifications; the protocol itself never calls this.
func (l *Loop) WithTick(d time.Duration, fn func(*proto.Machine)) *Loop {
	l.tickEvery = d
	l.onTick = fn
	return l
}

// Run starts the node's election sequence and then services datagrams
// and timer expiries until ctx is cancelled or the socket errors.
// Grounded on RunListener's errgroup-supervised select loop, narrowed
// from a worker pool down to the single loop §5 mandates.
func (l *Loop) Run(ctx context.Context) error {
	l.machine.Start()

	recvCh := make(chan datagram, 1)
	errCh := make(chan error, 1)

	go l.receiveLoop(ctx, recvCh, errCh)

	var tickC <-chan time.Time
	if l.onTick != nil {
		ticker := time.NewTicker(l.tickEvery)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return fmt.Errorf("receive loop: %w", err)
		case dg := <-recvCh:
			l.handleDatagram(dg)
		case <-l.machine.Timers.C():
			l.machine.OnTimerFired()
		case <-tickC:
			l.onTick(l.machine)
		}
	}
}

// receiveLoop holds the single outstanding receive of §5: it blocks
// on the next datagram, copies it out of the scratch buffer and hands
// it to the owning loop, then immediately re-arms the next receive.
func (l *Loop) receiveLoop(ctx context.Context, recvCh chan<- datagram, errCh chan<- error) {
	buf := make([]byte, wire.MaxPacketSize)
	for {
		n, addr, err := l.socket.Receive(buf)
		if err != nil {
			if isRecoverable(err) {
				log.Debugf("recoverable receive error, re-arming: %v", err)
				continue
			}
			select {
			case errCh <- err:
			case <-ctx.Done():
			}
			return
		}
		cp := make([]byte, n)
		copy(cp, buf[:n])
		select {
		case recvCh <- datagram{n: n, addr: addr, buf: cp}:
		case <-ctx.Done():
			return
		}
	}
}

// isRecoverable reports whether err is the kind handle_receive_from's
// "!error || error == message_size" condition would also re-arm on: an
// interrupted syscall, a would-block spin, or a datagram larger than
// the receive buffer. Anything else (a bad or closed descriptor, a
// torn-down interface) is fatal to the loop.
func isRecoverable(err error) bool {
	return errors.Is(err, unix.EINTR) ||
		errors.Is(err, unix.EAGAIN) ||
		errors.Is(err, unix.EWOULDBLOCK) ||
		errors.Is(err, unix.EMSGSIZE)
}

func (l *Loop) handleDatagram(dg datagram) {
	if !wire.Validate(dg.buf, dg.n) {
		log.Infof("discarded packet from %s: failed validation (n=%d)", dg.addr, dg.n)
		return
	}
	pkt := proto.DecodePacket(dg.buf, dg.n)
	l.machine.Dispatch(pkt, dg.addr)
}
