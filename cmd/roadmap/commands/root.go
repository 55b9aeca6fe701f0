// Package commands implements the roadmap CLI.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-roadmap/internal/app"
	"github.com/yungbote/neurobridge-roadmap/internal/roadmap"
	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/catalog"
)

// Application is the slice of the roadmap app the commands drive.
type Application interface {
	GenerateWithPath(ctx context.Context, p roadmap.Profile, name string) ([]roadmap.Task, roadmap.Path, error)
	Fingerprint(p roadmap.Profile, name string) (string, error)
	CacheInfo(ctx context.Context) (roadmap.CacheInfo, error)
	ClearCache(ctx context.Context) error
	WriteMetrics(w io.Writer) error
	Close(ctx context.Context) error
}

// Provider builds the application on demand so commands that only read the catalog never load
// configuration or dial the cache.
type Provider func(ctx context.Context, opts app.Options) (Application, error)

type CLI struct {
	provider Provider
	catalog  *catalog.Catalog
	rootCmd  *cobra.Command

	configPath string
	metrics    bool
}

func New(provider Provider) *CLI {
	rootCmd := &cobra.Command{
		Use:           "roadmap",
		Short:         "Generate personalized learning roadmaps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		provider: provider,
		catalog:  catalog.Default(),
		rootCmd:  rootCmd,
	}
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to a roadmap YAML config file")
	rootCmd.PersistentFlags().BoolVar(&c.metrics, "metrics", false, "Print Prometheus metrics to stderr when the command finishes")

	rootCmd.AddCommand(c.newGenerateCmd())
	rootCmd.AddCommand(c.newCatalogCmd())
	rootCmd.AddCommand(c.newCacheCmd())

	return c
}

func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// withApp opens the application, runs fn and then emits metrics and closes it.
func (c *CLI) withApp(cmd *cobra.Command, fn func(Application) error) (err error) {
	ctx := cmd.Context()
	a, err := c.provider(ctx, app.Options{ConfigPath: c.configPath, Metrics: c.metrics})
	if err != nil {
		return err
	}
	defer func() {
		if c.metrics {
			if werr := a.WriteMetrics(cmd.ErrOrStderr()); werr != nil && err == nil {
				err = werr
			}
		}
		if cerr := a.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
