//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-terminates pid and its child processes with taskkill.
// Errors are ignored; the caller still kills the leader through rod's launcher.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
