package process

// Notes:
// - KillTree: real termination is covered by the browser integration tests.
//   Here we only check that unknown and non-positive PIDs are harmless;
//   PID 0 must never reach the syscall since -0 targets our own group.

import "testing"

func TestKillTree_IgnoresInvalidPIDs(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{0, -1, 999999999} {
		KillTree(pid)
	}
}
