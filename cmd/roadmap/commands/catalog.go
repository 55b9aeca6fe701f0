package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/catalog"
)

func (c *CLI) newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the domains, languages and frameworks a profile may use",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "domains",
		Short: "List technology domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeEntries(cmd.OutOrStdout(), c.catalog.Domains)
		},
	})

	var domain string
	languages := &cobra.Command{
		Use:   "languages",
		Short: "List programming languages, optionally only those offered for a domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if domain == "" {
				return writeEntries(cmd.OutOrStdout(), c.catalog.Languages)
			}
			return writeEntries(cmd.OutOrStdout(), c.catalog.AvailableLanguages(domain))
		},
	}
	languages.Flags().StringVar(&domain, "domain", "", "Only languages offered for this domain")
	cmd.AddCommand(languages)

	var language string
	frameworks := &cobra.Command{
		Use:   "frameworks",
		Short: "List frameworks, optionally only those offered for a language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if language == "" {
				return writeEntries(cmd.OutOrStdout(), c.catalog.Frameworks)
			}
			return writeEntries(cmd.OutOrStdout(), c.catalog.AvailableFrameworks(language))
		},
	}
	frameworks.Flags().StringVar(&language, "language", "", "Only frameworks offered for this language")
	cmd.AddCommand(frameworks)

	return cmd
}

func writeEntries(w io.Writer, entries []catalog.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", e.Code, e.Label); err != nil {
			return err
		}
	}
	return tw.Flush()
}
