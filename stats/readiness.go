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

package stats

import (
	"github.com/coreos/go-systemd/daemon"
	log "github.com/sirupsen/logrus"
)

// NotifyReady tells systemd (if running under it) that the node has
// finished its initial election and reached a steady state.
func NotifyReady() {
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if !supported && err != nil {
		log.Warningf("sd_notify ready failed: %v", err)
		return
	}
	if !supported {
		log.Debug("sd_notify not supported, skipping readiness notification")
		return
	}
	log.Debug("sent sd_notify ready")
}

// NotifyWatchdog pings the systemd watchdog. The CLI calls it on every
// periodic health tick of the event loop, whatever the node's state,
// so a wedged event loop gets restarted by systemd instead of hanging
// forever.
func NotifyWatchdog() {
	supported, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
	if !supported && err != nil {
		log.Warningf("sd_notify watchdog failed: %v", err)
	}
}
