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

// Package runnode holds the cobra command and process wiring shared
// by cmd/controlnode and cmd/indicationnode; the two binaries differ
// only in the node.Role they pass in. Grounded on cmd/ptpcheck/cmd's
// cobra root command plus cmd/ptp4u/main.go's flag-to-config wiring.
package runnode

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/facebookincubator/beaconmesh/config"
	"github.com/facebookincubator/beaconmesh/display"
	"github.com/facebookincubator/beaconmesh/node"
	"github.com/facebookincubator/beaconmesh/proto"
	"github.com/facebookincubator/beaconmesh/sensor"
	"github.com/facebookincubator/beaconmesh/stats"
	"github.com/facebookincubator/beaconmesh/timers"
	"github.com/facebookincubator/beaconmesh/transport"
)

const healthInterval = 30 * time.Second

var (
	logLevel    string
	configFile  string
	metricsAddr string
)

// NewCommand builds the root command for a node of the given role.
// use is the binary name shown in usage text.
func NewCommand(use string, role node.Role) *cobra.Command {
	cmd := &cobra.Command{
		Use:          fmt.Sprintf("%s <listen_address> <multicast_address>", use),
		Short:        fmt.Sprintf("Run a %s node", role),
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(role, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&logLevel, "loglevel", "info", "Set a log level. Can be: debug, info, warning, error")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to an optional YAML file overriding the timer durations/retry counts")
	cmd.Flags().StringVar(&metricsAddr, "metricsaddr", "", "host:port to serve Prometheus /metrics on; empty disables it")
	return cmd
}

// Execute runs cmd, exiting 1 on any error returned — including the
// ExactArgs(2) usage mismatch §6 requires.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(role node.Role, listenAddr, multicastAddr string) error {
	switch logLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warning":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Fatalf("unrecognized log level: %v", logLevel)
	}

	if configFile != "" {
		tm, err := config.Read(configFile)
		if err != nil {
			log.Fatal(err)
		}
		tm.Apply()
		log.Infof("loaded timer overrides from %s", configFile)
	}

	id, err := node.NewID()
	if err != nil {
		return fmt.Errorf("generating node identity: %w", err)
	}
	n := node.New(id, role)
	log.Infof("starting %s node id=%s listen=%s group=%s", role, node.Fingerprint(id), listenAddr, multicastAddr)

	socket, err := transport.NewSocket(listenAddr, multicastAddr, transport.Port)
	if err != nil {
		return fmt.Errorf("socket setup: %w", err)
	}
	defer socket.Close()

	reg := stats.NewRegistry()
	machine := proto.NewMachine(n, socket, sensor.NewRandomSource(), display.NewStdoutSink(os.Stdout), timers.NewEngine(), reg)
	loop := transport.NewLoop(socket, machine).WithTick(healthInterval, newHealthTick())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return loop.Run(ctx)
	})
	if metricsAddr != "" {
		eg.Go(func() error {
			return reg.Serve(metricsAddr)
		})
	}

	if err := eg.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// newHealthTick returns a WithTick callback that runs on the event
// loop's own goroutine, so it may read Machine/Node fields without
// racing the loop's exclusive ownership of them, §5.
func newHealthTick() func(*proto.Machine) {
	var health stats.HostHealth
	notified := false
	return func(m *proto.Machine) {
		health.LogOnce()
		if !notified && (m.Node.State == node.StateMaster || m.Node.State == node.StateSlave) {
			stats.NotifyReady()
			notified = true
		}
		stats.NotifyWatchdog()
	}
}
