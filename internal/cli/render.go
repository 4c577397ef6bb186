package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/sink"
	"github.com/matzehuels/funnel/pkg/funnel/widget"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	formats    []string // output formats: "svg", "json"
	background string   // SVG canvas fill
	noStyles   bool     // omit hover styles from SVG
	chart      chartFlags
}

// renderCommand creates the render command, which lays out a chart file and
// writes it in one or more formats.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [chart.toml]",
		Short: "Render a funnel chart to SVG and/or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background color")
	cmd.Flags().BoolVar(&opts.noStyles, "no-styles", false, "omit hover styles from SVG")
	opts.chart.register(cmd)

	return cmd
}

// parseFormats parses the --format flag. If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{sink.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(sink.Formats, f) {
			return errors.New(errors.ErrCodeUnsupported, "invalid format: %s (must be 'svg' or 'json')", f)
		}
	}
	return nil
}

// basePath derives the base output path. Without output it strips the
// extension from input; a known format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(sink.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	chart, err := loadChart(ctx, cmd, input, &opts.chart)
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		data, err := renderChart(ctx, chart, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}

		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if path == "-" {
			if _, err := c.stdout(cmd).Write(data); err != nil {
				return err
			}
			continue
		}
		if err := writeFile(path, data); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(data))
		printFile(c.stdout(cmd), path)
	}

	prog.done(fmt.Sprintf("Rendered %s", input))
	return nil
}

func renderChart(ctx context.Context, chart *widget.Chart, format string, opts *renderOpts) ([]byte, error) {
	if format != sink.FormatSVG {
		return sink.Render(ctx, chart, format)
	}
	svgOpts := []sink.SVGOption{sink.WithTitle(chart.Config().Title)}
	if opts.background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.background))
	}
	if opts.noStyles {
		svgOpts = append(svgOpts, sink.WithoutStyles())
	}
	return sink.RenderSVG(ctx, chart, svgOpts...), nil
}

func writeFile(path string, data []byte) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
