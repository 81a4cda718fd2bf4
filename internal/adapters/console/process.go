package console

import (
	"os"

	"github.com/anno-app/annoboot/internal/ports"
)

// Process implements ports.ProcessControl.
type Process struct {
	exit func(int)
}

// NewProcess returns a Process that calls os.Exit.
func NewProcess() *Process {
	return &Process{exit: os.Exit}
}

// NewProcessWithExit returns a Process that calls exit instead of os.Exit.
func NewProcessWithExit(exit func(int)) *Process {
	return &Process{exit: exit}
}

// Exit ends the process with code.
func (p *Process) Exit(code int) {
	p.exit(code)
}

var _ ports.ProcessControl = (*Process)(nil)
