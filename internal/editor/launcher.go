package editor

import (
	"context"
	"fmt"
	"log"
	"os/exec"

	"PixelBoard/internal/state"
)

// Launcher starts external programs named by external_command intents.
type Launcher interface {
	Launch(ctx context.Context, cmd state.ExternalCommand) error
}

// ExecLauncher starts the program and does not wait for it to finish.
type ExecLauncher struct{}

func (ExecLauncher) Launch(ctx context.Context, c state.ExternalCommand) error {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", c.Program, err)
	}
	log.Printf("[EDITOR] Started %s (pid %d)", c.Program, cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("[EDITOR] %s exited: %v", c.Program, err)
		}
	}()
	return nil
}
