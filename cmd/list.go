package cmd

import (
	"context"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"funnel/internal/aggregator"
	"funnel/internal/config"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		prefixAll bool
		check     bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Discover and list all aggregated tools",
		Long: `list connects to every configured provider, aggregates their tool
catalogs, and prints the resulting function set with registered names,
source providers, and parameter counts. Providers that cannot be
reached are reported and contribute no tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = " Discovering tool catalogs..."
			s.Start()

			reg, err := aggregator.Build(ctx, cfg.Providers, aggregator.Options{
				Policy: aggregator.NamingPolicy{PrefixAll: prefixAll || cfg.PrefixAll},
				Filter: cfg.Filter,
			})
			s.Stop()
			if err != nil {
				return err
			}
			defer reg.Close()

			printProviders(ctx, reg, check)
			printTools(reg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&prefixAll, "prefix-all", false, "prefix every tool name with its provider, not just collisions")
	cmd.Flags().BoolVar(&check, "check", false, "ping each provider and report responsiveness")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall discovery timeout")

	return cmd
}

func printProviders(ctx context.Context, reg *aggregator.Registry, check bool) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Providers")

	header := table.Row{"Provider", "Tools", "Status"}
	t.AppendHeader(header)

	for _, status := range reg.Providers() {
		state := "ok"
		if status.Err != nil {
			state = fmt.Sprintf("degraded: %v", status.Err)
		} else if check {
			if err := reg.Ping(ctx, status.ID); err != nil {
				state = fmt.Sprintf("unresponsive: %v", err)
			}
		}
		t.AppendRow(table.Row{status.ID, status.Tools, state})
	}
	t.Render()
}

func printTools(reg *aggregator.Registry) {
	contracts := reg.Contracts()
	if len(contracts) == 0 {
		fmt.Println("No tools discovered.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Tools")
	t.AppendHeader(table.Row{"Registered Name", "Provider", "Original Name", "Params", "Description"})

	for _, c := range contracts {
		t.AppendRow(table.Row{c.RegisteredName, c.Provider, c.OriginalName, len(c.Parameters), truncate(c.Description, 60)})
	}
	t.Render()
}

// truncate shortens s to at most max runes, never splitting a
// multi-byte character.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
