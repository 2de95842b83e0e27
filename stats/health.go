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
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
	log "github.com/sirupsen/logrus"
)

var processStart = time.Now()

// HostHealth periodically logs process-level resource usage,
// independent of the protocol's own state logging.
type HostHealth struct{}

// LogOnce collects and logs one health snapshot.
func (HostHealth) LogOnce() {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warningf("health: could not inspect own process: %v", err)
		return
	}
	cpu, err := proc.Percent(0)
	if err != nil {
		log.Warningf("health: could not read cpu percent: %v", err)
		return
	}
	mem, err := proc.MemoryInfo()
	uptime := time.Since(processStart).Round(time.Second)
	if err != nil {
		log.Infof("health: uptime=%s cpu=%.1f%%", uptime, cpu)
		return
	}
	log.Infof("health: uptime=%s cpu=%.1f%% rss=%s", uptime, cpu, humanBytes(mem.RSS))
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for nn := n / unit; nn >= unit; nn /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
