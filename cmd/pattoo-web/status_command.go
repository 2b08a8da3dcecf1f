package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pattooweb/internal/agent"
	"pattooweb/internal/config"
	"pattooweb/internal/deps"
	"pattooweb/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show agent, dependency and path status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			writeLines(out, renderSectionHeader("agents", colorize))
			writeLines(out, agentStatusLines(cmd.Context(), cfg, colorize))
			fmt.Fprintln(out)

			writeLines(out, renderSectionHeader("dependencies", colorize))
			depCfg := *cfg
			if layout, err := ctx.layout(); err == nil {
				depCfg.Install.CheckCommand = layout.CheckCommand(cfg).String()
			}
			fmt.Fprintln(out, dependencyTable(preflight.CheckSystemDeps(&depCfg)))
			fmt.Fprintln(out)

			writeLines(out, renderSectionHeader("paths", colorize))
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			return nil
		},
	}
}

func agentStatusLines(ctx context.Context, cfg *config.Config, colorize bool) []string {
	agents := []struct {
		name string
		addr string
	}{
		{name: cfg.Agent.Name, addr: cfg.APIAddress()},
		{name: cfg.ProxyName(), addr: cfg.PublicAddress()},
	}

	lines := make([]string, 0, len(agents))
	for _, a := range agents {
		alive, pid, err := agent.ProcessInfo(cfg.PIDPath(a.name))
		switch {
		case err != nil:
			lines = append(lines, renderStatusLine(a.name, statusError, err.Error(), colorize))
		case !alive:
			lines = append(lines, renderStatusLine(a.name, statusWarn, "Not running (run `pattoo-web start`)", colorize))
		default:
			check := preflight.CheckEndpoint(ctx, a.name, "http://"+a.addr)
			kind := statusOK
			if !check.Passed {
				kind = statusWarn
			}
			detail := fmt.Sprintf("Running (pid %d) on %s, %s", pid, a.addr, strings.ToLower(check.Detail))
			lines = append(lines, renderStatusLine(a.name, kind, detail, colorize))
		}
	}
	return lines
}

func dependencyTable(statuses []deps.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "ok"
		if !s.Available {
			state = "missing"
			if s.Optional {
				state = "missing (optional)"
			}
		}
		detail := s.Detail
		if detail == "" {
			detail = s.Description
		}
		rows = append(rows, []string{s.Name, s.Command, state, detail})
	}
	return renderTable([]string{"Name", "Command", "State", "Detail"}, rows, nil)
}

func writeLines(out io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
