package mounts

import (
	"bytes"
	"os/exec"
)

// CommandRunner runs an external command and returns its stderr.
type CommandRunner interface {
	Run(name string, args ...string) (stderr string, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}
