package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/gpvm/hw"
	"github.com/mna/gpvm/internal/demobackend"
	"github.com/mna/mainer"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunDemo(ctx, stdio, c.Config, c.SeedTag, c.Ticks)
}

// RunDemo loads a demobackend.Config from configPath, spawns one thread
// with seedTag, runs the host for n ticks, and writes a thread-usage
// report to stdio.Stdout.
func RunDemo(ctx context.Context, stdio mainer.Stdio, configPath, seedTag string, n int) error {
	f, err := os.Open(configPath)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	defer f.Close()

	cfg, err := demobackend.LoadConfig(f)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	backend := demobackend.NewBackend(cfg)
	events := demobackend.EventLog{Output: stdio.Stdout}
	host := hw.NewHost[*demobackend.State, string, *demobackend.Backend, any](hw.DefaultConfig(), backend, events)
	host.SetPanicHandler(func(id hw.ThreadID, r any) {
		fmt.Fprintf(stdio.Stderr, "thread %d panicked: %v\n", id, r)
	})

	if _, ok := host.SpawnWithTag(seedTag, 1.0); !ok {
		err := fmt.Errorf("run: no module matches seed tag %q", seedTag)
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := host.Tick(); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}

	report := host.ThreadUsage()
	if _, err := report.WriteTo(stdio.Stdout); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
