package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// layoutCommand prints where every label of a chart ends up.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "layout [chart.toml]",
		Short: "Print label placements for a chart",
		Long: `Lay out a chart and print the body rectangle and one row per segment with its
label text, label box and connector line. Hidden labels (adaptive layout) are marked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chart, err := loadChart(cmd.Context(), cmd, args[0], &flags)
			if err != nil {
				return err
			}

			s := chart.Snapshot()
			w := c.stdout(cmd)
			fmt.Fprintln(w, StyleTitle.Render(args[0]))
			printKeyValue(w, "canvas", fmt.Sprintf("%.0fx%.0f", s.Width, s.Height))
			printKeyValue(w, "body", fmt.Sprintf("%.1f,%.1f → %.1f,%.1f", s.Body.X0, s.Body.Y0, s.Body.X1, s.Body.Y1))
			printKeyValue(w, "position", s.Position)
			fmt.Fprintln(w, placementTable(s))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
