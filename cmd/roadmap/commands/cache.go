package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the roadmap cache",
	}
	cmd.AddCommand(c.newCacheKeyCmd(), c.newCacheInfoCmd(), c.newCacheClearCmd())
	return cmd
}

func (c *CLI) newCacheKeyCmd() *cobra.Command {
	var pf profileFlags
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the cache fingerprint for a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, name, err := pf.resolve(cmd)
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a Application) error {
				fp, err := a.Fingerprint(p, name)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), fp)
				return err
			})
		},
	}
	pf.register(cmd)
	return cmd
}

func (c *CLI) newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print cache size, keys and whether the model is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(a Application) error {
				info, err := a.CacheInfo(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			})
		},
	}
}

func (c *CLI) newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached roadmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(a Application) error {
				if err := a.ClearCache(cmd.Context()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
				return err
			})
		},
	}
}
