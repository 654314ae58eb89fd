package workflow

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// Hook runs the post-save command.
type Hook interface {
	Run(ctx context.Context, command []string, path string) error
}

// Command executes the post-save command as a child process with the saved path as its
// last argument. Its output goes to stderr so stdout stays clean.
type Command struct{}

// Run implements Hook.
func (Command) Run(ctx context.Context, command []string, path string) error {
	if len(command) == 0 {
		return errors.New("empty command")
	}
	args := append(append([]string{}, command[1:]...), path)
	cmd := exec.CommandContext(ctx, command[0], args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
