package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnel/pkg/errors"
)

// hitTestCommand reports the label or segment under a point.
func (c *CLI) hitTestCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "hittest [flags] [chart.toml] [x] [y]",
		Short: "Report the label or segment at a point",
		Long: `Report the label or segment at a point. Flags go before the chart path so
that negative coordinates are read as numbers:

  funnel hittest --position outside chart.toml -5 120`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePoint(args[1], args[2])
			if err != nil {
				return err
			}
			chart, err := loadChart(cmd.Context(), cmd, args[0], &flags)
			if err != nil {
				return err
			}

			w := c.stdout(cmd)
			hit, ok := chart.HitTest(x, y)
			if !ok {
				fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("nothing at %g,%g", x, y)))
				return nil
			}
			name := ""
			if segs := chart.Config().Segments; hit.ID < len(segs) {
				name = segs[hit.ID].Name
			}
			printSuccess(w, "%s %d %s", hit.Type, hit.ID, StyleDim.Render(name))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func parsePoint(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "x coordinate %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "y coordinate %q", ys)
	}
	return x, y, nil
}
