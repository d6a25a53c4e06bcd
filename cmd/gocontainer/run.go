package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/criyle/go-container/container"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type runOptions struct {
	config container.Config
}

func newRunCommand() *cobra.Command {
	opts := runOptions{config: container.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "run [OPTIONS] [cpu_quota=FRACTION] [memory=SIZE] COMMAND [ARG...]",
		Short: "Run a command in a new container",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContainer(cmd, &opts, args)
		},
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	installConfigFlags(&opts.config, flags)
	return cmd
}

func installConfigFlags(c *container.Config, flags *pflag.FlagSet) {
	flags.StringVar(&c.HostName, "hostname", c.HostName, "Container host name")
	flags.StringVar(&c.DomainName, "domainname", c.DomainName, "Container domain name")
	flags.StringVar(&c.RootDir, "rootfs", c.RootDir, "Root file system of the container")
	flags.StringVar(&c.ContainerIP, "ip", c.ContainerIP, "IPv4 address of the container")
	flags.StringVar(&c.BridgeName, "bridge", c.BridgeName, "Existing host bridge to attach to")
	flags.StringVar(&c.BridgeIP, "bridge-ip", c.BridgeIP, "IPv4 address of the bridge, used as gateway")
	flags.StringVar(&c.MemoryLimit, "memory", c.MemoryLimit, "Memory limit (e.g. 100m), empty for no limit")
	flags.Float64Var(&c.CPUQuota, "cpu-quota", c.CPUQuota, "Fraction of a single cpu core, 0 for no limit")
	flags.StringArrayVar(&c.Binds, "bind", c.Binds, "Bind mount a host directory (source:target[:ro])")
	flags.StringArrayVar(&c.Tmpfs, "tmpfs", c.Tmpfs, "Mount a tmpfs directory (target[:options])")
	flags.StringSliceVar(&c.SeccompDeny, "seccomp-deny", c.SeccompDeny, "Syscalls denied inside the container")
	flags.BoolVar(&c.RequireLimits, "require-limits", c.RequireLimits, "Fail when a resource limit could not be applied")
}

func runContainer(cmd *cobra.Command, opts *runOptions, args []string) error {
	argv, err := parseOverrides(&opts.config, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "...start container")
	defer fmt.Fprintln(out, "stop container...")

	r, err := container.NewRunner(opts.config)
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status, err := r.Start(ctx, argv)
	if err != nil {
		return err
	}
	if !status.Success() {
		return &StatusError{Status: status.String(), StatusCode: status.ExitCode()}
	}
	return nil
}

// parseOverrides consumes the leading key=value overrides and returns the
// command. A single remaining argument is split on white space.
func parseOverrides(c *container.Config, args []string) ([]string, error) {
	i := 0
	for ; i < len(args); i++ {
		k, v, ok := strings.Cut(args[i], "=")
		if !ok {
			break
		}
		switch k {
		case "cpu_quota":
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid cpu_quota %q: %w", v, err)
			}
			c.CPUQuota = f
		case "memory":
			c.MemoryLimit = v
		default:
			return commandArgs(args[i:])
		}
	}
	return commandArgs(args[i:])
}

func commandArgs(args []string) ([]string, error) {
	if len(args) == 1 {
		args = strings.Fields(args[0])
	}
	if len(args) == 0 {
		return nil, errors.New("missing command")
	}
	return args, nil
}
