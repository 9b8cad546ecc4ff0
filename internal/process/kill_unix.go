//go:build !windows

package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid.
// Errors are ignored; the caller still kills the leader through rod's launcher.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
