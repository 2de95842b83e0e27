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

// Package transport implements the §4.5 UDP multicast socket and the
// §5 single-threaded cooperative event loop built on top of it.
package transport

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// Socket is a single UDP/IPv4 socket bound to listenAddr:port, with
// SO_REUSEADDR set before bind so multiple nodes on the same host can
// join the same multicast group and port, and membership of the group
// at multicastAddr already joined. It exposes the raw
// recvfrom/sendto operations the event loop and Machine need, in the
// idiom of sendWorker.listen and IPToSockaddr/SockaddrToIP.
type Socket struct {
	fd         int
	groupAddr  unix.Sockaddr
	listenPort int
}

// NewSocket creates, binds and joins fd for the given addresses and
// port. The caller owns the returned Socket and must Close it.
func NewSocket(listenAddr, multicastAddr string, port int) (*Socket, error) {
	lip := net.ParseIP(listenAddr)
	if lip == nil {
		return nil, fmt.Errorf("invalid listen address %q", listenAddr)
	}
	lip4 := lip.To4()
	if lip4 == nil {
		return nil, fmt.Errorf("listen address %q is not IPv4", listenAddr)
	}
	mip := net.ParseIP(multicastAddr)
	if mip == nil {
		return nil, fmt.Errorf("invalid multicast address %q", multicastAddr)
	}
	mip4 := mip.To4()
	if mip4 == nil {
		return nil, fmt.Errorf("multicast address %q is not IPv4", multicastAddr)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return nil, fmt.Errorf("creating socket: %w", err)
	}

	// SO_REUSEADDR must be set before bind so a second node process on
	// this host can bind the same multicast port, per §4.5.
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("SO_REUSEADDR: %w", err)
	}

	bindAddr := ipToSockaddr(lip4, port)
	if err := unix.Bind(fd, bindAddr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("binding to %s:%d: %w", listenAddr, port, err)
	}

	mreq := &unix.IPMreq{}
	copy(mreq.Multiaddr[:], mip4)
	copy(mreq.Interface[:], lip4)
	if err := unix.SetsockoptIPMreq(fd, unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP, mreq); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("joining multicast group %s: %w", multicastAddr, err)
	}

	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("setting socket to blocking: %w", err)
	}

	return &Socket{
		fd:         fd,
		groupAddr:  ipToSockaddr(mip4, port),
		listenPort: port,
	}, nil
}

// Close releases the underlying file descriptor.
func (s *Socket) Close() error {
	return unix.Close(s.fd)
}

// Receive blocks for the next datagram, per §5's "exactly one
// in-flight receive at all times" (the caller is expected to call
// Receive again only once it has finished handling the previous one).
func (s *Socket) Receive(buf []byte) (int, *net.UDPAddr, error) {
	n, sa, err := unix.Recvfrom(s.fd, buf, 0)
	if err != nil {
		return 0, nil, err
	}
	return n, sockaddrToUDPAddr(sa), nil
}

// Multicast sends buf to the joined group, used for
// slave_needed_req, master_needed_req, get_data_req and set_data.
func (s *Socket) Multicast(buf []byte) error {
	return unix.Sendto(s.fd, buf, 0, s.groupAddr)
}

// Unicast sends buf back to a specific sender endpoint, used for
// i_am_master_rsp, i_am_slave_rsp and get_data_rsp.
func (s *Socket) Unicast(buf []byte, addr *net.UDPAddr) error {
	sa, err := udpAddrToSockaddr(addr)
	if err != nil {
		return err
	}
	return unix.Sendto(s.fd, buf, 0, sa)
}

func ipToSockaddr(ip4 net.IP, port int) unix.Sockaddr {
	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip4)
	return sa
}

func sockaddrToUDPAddr(sa unix.Sockaddr) *net.UDPAddr {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.UDPAddr{IP: net.IPv4(v.Addr[0], v.Addr[1], v.Addr[2], v.Addr[3]), Port: v.Port}
	default:
		return nil
	}
}

func udpAddrToSockaddr(addr *net.UDPAddr) (unix.Sockaddr, error) {
	ip4 := addr.IP.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("address %s is not IPv4", addr.IP)
	}
	return ipToSockaddr(ip4, addr.Port), nil
}
