package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/flemzord/tgwire/internal/daemon"
)

// program adapts the daemon loop to the service manager interface. Start must
// return immediately; the manager stops the process with SIGTERM, which the
// daemon's own signal handling turns into a graceful shutdown.
type program struct {
	params daemon.RunParams
	done   chan struct{}
}

func (p *program) Start(service.Service) error {
	go func() {
		defer close(p.done)
		if err := daemon.Run(p.params); err != nil {
			fmt.Fprintln(os.Stderr, "tgwire:", err)
			os.Exit(1)
		}
	}()
	return nil
}

func (p *program) Stop(service.Service) error {
	select {
	case <-p.done:
	case <-time.After(20 * time.Second):
	}
	return nil
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage tgwire as a system service",
	}
	cmd.AddCommand(
		serviceControlCmd("install", "Install the system service"),
		serviceControlCmd("uninstall", "Remove the system service"),
		serviceControlCmd("start", "Start the installed service"),
		serviceControlCmd("stop", "Stop the running service"),
		serviceControlCmd("restart", "Restart the service"),
		serviceStatusCmd(),
		serviceRunCmd(),
	)
	return cmd
}

func newService(prg *program) (service.Service, error) {
	args := []string{"service", "run"}
	if cfgPath != "" {
		// The service manager starts the daemon outside this working
		// directory, so a relative config path would not resolve.
		abs, err := filepath.Abs(cfgPath)
		if err != nil {
			return nil, err
		}
		args = append(args, "--config", abs)
	}
	return service.New(prg, &service.Config{
		Name:        "tgwire",
		DisplayName: "tgwire",
		Description: "Telegram bot daemon: long-polls updates, records them, and serves ops endpoints.",
		Arguments:   args,
	})
}

func serviceControlCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := newService(&program{done: make(chan struct{})})
			if err != nil {
				return err
			}
			if err := service.Control(svc, action); err != nil {
				return err
			}
			fmt.Printf("service %s: done\n", action)
			return nil
		},
	}
}

func serviceStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the service is running",
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := newService(&program{done: make(chan struct{})})
			if err != nil {
				return err
			}
			status, err := svc.Status()
			if err != nil {
				return err
			}
			switch status {
			case service.StatusRunning:
				fmt.Println("running")
			case service.StatusStopped:
				fmt.Println("stopped")
			default:
				fmt.Println("unknown")
			}
			return nil
		},
	}
}

func serviceRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run under the service manager (invoked by the installed service)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			prg := &program{
				params: daemon.RunParams{
					ConfigPath: cfgPath,
					Version:    version,
					Commit:     commit,
					Date:       date,
					LogLevel:   logLevel,
				},
				done: make(chan struct{}),
			}
			svc, err := newService(prg)
			if err != nil {
				return err
			}
			return svc.Run()
		},
	}
	cmd.Flags().String("log-level", "", "Override log.level from the config (debug, info, warn, error)")
	return cmd
}
