//go:build windows

// Package process terminates a browser process together with its renderer
// and GPU children.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its process tree with taskkill.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
