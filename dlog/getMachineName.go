package dlog

import (
	"fmt"
	"os"
	"runtime"
	"sync"
)

var (
	machineName     string
	machineNameOnce sync.Once
)

// getMachineName identifies this process in the shared log key, i.g. "host-CPU8"
func getMachineName() string {
	machineNameOnce.Do(func() {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "unknown"
		}
		machineName = fmt.Sprintf("%s-CPU%d", host, runtime.NumCPU())
	})
	return machineName
}
