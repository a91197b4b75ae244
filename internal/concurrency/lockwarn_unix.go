//go:build unix

package concurrency

import "golang.org/x/sys/unix"

// IsAlive reports whether pid names a live process. Overridable for
// tests.
//
// unix.Kill(pid, 0) probes liveness directly through the kill(2)
// syscall without the os.FindProcess/os.Process.Signal indirection,
// and distinguishes "process gone" (ESRCH) from "process exists but we
// can't signal it" (EPERM) the way os.Process.Signal's generic error
// return does not.
var IsAlive = func(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
