package cmd

import (
	"context"
	"fmt"
	"time"

	"funnel/internal/aggregator"
	"funnel/internal/config"

	"github.com/spf13/cobra"
)

func newCallCmd() *cobra.Command {
	var (
		argsJSON  string
		prefixAll bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "call <registered-name>",
		Short: "Invoke one aggregated tool",
		Long: `call builds the aggregated registry from the configuration file and
invokes a single tool by its registered name, printing the textual
result. Invocation failures are reported as the handler's error text,
mirroring exactly what an agent pipeline would receive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registeredName := args[0]

			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			reg, err := aggregator.Build(ctx, cfg.Providers, aggregator.Options{
				Policy: aggregator.NamingPolicy{PrefixAll: prefixAll || cfg.PrefixAll},
				Filter: cfg.Filter,
			})
			if err != nil {
				return err
			}
			defer reg.Close()

			handler, ok := reg.Handler(registeredName)
			if !ok {
				return fmt.Errorf("unknown tool %s (run 'funnel list' to see registered names)", registeredName)
			}

			fmt.Println(handler(ctx, argsJSON))
			return nil
		},
	}

	cmd.Flags().StringVarP(&argsJSON, "args", "a", "", "tool arguments as a JSON object")
	cmd.Flags().BoolVar(&prefixAll, "prefix-all", false, "prefix every tool name with its provider, not just collisions")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "overall call timeout including discovery")

	return cmd
}
