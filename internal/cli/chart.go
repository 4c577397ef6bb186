package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnel/pkg/config"
	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/label"
	"github.com/matzehuels/funnel/pkg/funnel/widget"
)

// chartFlags are the chart overrides shared by every command that loads a
// chart file. Zero values leave the file untouched.
type chartFlags struct {
	position string  // label position: inside, outside, columns
	align    string  // label side: left, right
	width    float64 // canvas width
	height   float64 // canvas height
	inverted bool    // widest segment at the bottom
	rtl      bool    // right-to-left column text
	noLabels bool    // hide labels entirely
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.position, "position", "", "label position: inside, outside, columns")
	cmd.Flags().StringVar(&f.align, "align", "", "label side for outside positions: left, right")
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width (overrides the file)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height (overrides the file)")
	cmd.Flags().BoolVar(&f.inverted, "inverted", false, "draw the widest segment at the bottom")
	cmd.Flags().BoolVar(&f.rtl, "rtl", false, "right-to-left column text")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "hide labels")
}

// apply overrides cfg with the flags that were set on cmd.
func (f *chartFlags) apply(cmd *cobra.Command, cfg *config.Chart) error {
	changed := cmd.Flags().Changed
	if changed("position") {
		if err := validatePosition(f.position); err != nil {
			return err
		}
		cfg.Label.Position = label.ParsePosition(f.position)
	}
	if changed("align") {
		cfg.Label.HorizontalAlignment = label.ParseAlignment(f.align)
	}
	if changed("width") {
		cfg.Width = f.width
	}
	if changed("height") {
		cfg.Height = f.height
	}
	if changed("inverted") {
		cfg.Inverted = f.inverted
	}
	if changed("rtl") {
		cfg.RTL = f.rtl
	}
	if f.noLabels {
		cfg.Label.Visible = false
	}
	return cfg.Validate()
}

// validatePosition rejects unknown position names on the command line,
// where a typo should not silently fall back to inside labels.
func validatePosition(s string) error {
	if label.ParsePosition(s).String() != strings.ToLower(strings.TrimSpace(s)) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown label position %q (want inside, outside or columns)", s)
	}
	return nil
}

// loadChart reads path, applies flags and runs the layout.
func loadChart(ctx context.Context, cmd *cobra.Command, path string, flags *chartFlags) (*widget.Chart, error) {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cmd, &cfg); err != nil {
		return nil, err
	}

	c, err := widget.New(cfg, widget.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	c.Render()
	logger.Debug("Chart laid out", "file", path, "segments", len(cfg.Segments), "position", cfg.Label.Position)
	return c, nil
}
