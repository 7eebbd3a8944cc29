package thumbnail

import (
	"fmt"
	"os"
	"os/exec"
)

// Process is a running viewer.
type Process interface {
	// Kill signals the process to exit. It does not wait.
	Kill() error

	// Done is closed once the process has exited.
	Done() <-chan struct{}
}

// Spawner starts viewer processes.
type Spawner interface {
	Start(name string, args ...string) (Process, error)
}

// ExecSpawner runs viewers with os/exec. The viewer writes its escape
// sequences straight to the terminal on stdout.
type ExecSpawner struct{}

func (ExecSpawner) Start(name string, args ...string) (Process, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	p := &execProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

type execProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func (p *execProcess) Kill() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	killProcessGroup(p.cmd)
	return p.cmd.Process.Kill()
}

func (p *execProcess) Done() <-chan struct{} {
	return p.done
}
