package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-roadmap/internal/roadmap"
)

type generateOutput struct {
	RoadmapName string          `json:"roadmap_name"`
	Source      roadmap.Path    `json:"source"`
	Summary     roadmap.Summary `json:"summary"`
	Tasks       []roadmap.Task  `json:"tasks"`
}

func (c *CLI) newGenerateCmd() *cobra.Command {
	var pf profileFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a roadmap for a learner profile and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, name, err := pf.resolve(cmd)
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a Application) error {
				tasks, path, err := a.GenerateWithPath(cmd.Context(), p, name)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(generateOutput{
					RoadmapName: name,
					Source:      path,
					Summary:     roadmap.Summarize(tasks),
					Tasks:       tasks,
				})
			})
		},
	}
	pf.register(cmd)
	return cmd
}
