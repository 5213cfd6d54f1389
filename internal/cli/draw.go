package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keydraw/keydraw/pkg/draw"
	"github.com/keydraw/keydraw/pkg/keymap"
)

// drawOpts holds the command-line flags for the draw command.
type drawOpts struct {
	output     string   // output file path, empty for stdout
	configPath string   // TOML config file with visual constants
	layers     []string // layer subset to draw, empty for all
	keysOnly   bool     // suppress combos
	combosOnly bool     // blank out key legends
}

// newDrawCmd creates the draw command for rendering keymap YAML as SVG.
func newDrawCmd() *cobra.Command {
	var layersStr string
	opts := drawOpts{}

	cmd := &cobra.Command{
		Use:   "draw [keymap.yaml]",
		Short: "Render a keymap YAML file to SVG",
		Long: `Render a keymap YAML file to SVG.

The keymap file contains the physical layout spec, the per-layer key
legends and optional combo definitions. Visual constants (padding, font
sizes, glyphs, stylesheet) come from an optional TOML config file applied
on top of the built-in defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.layers = splitList(layersStr)
			return runDraw(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file with visual constants")
	cmd.Flags().StringVarP(&layersStr, "select-layers", "s", "", "layer name(s) to draw (comma-separated, default: all)")
	cmd.Flags().BoolVar(&opts.keysOnly, "keys-only", false, "draw keys only, no combos")
	cmd.Flags().BoolVar(&opts.combosOnly, "combos-only", false, "draw combos on blank keys")

	return cmd
}

// runDraw loads the keymap and config, then renders to the output sink.
func runDraw(ctx context.Context, input string, opts *drawOpts) error {
	logger := loggerFromContext(ctx)

	cfg := draw.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = draw.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		logger.Debugf("loaded config from %s", opts.configPath)
	}

	km, err := keymap.Load(input)
	if err != nil {
		return err
	}
	logger.Debugf("loaded keymap with %d layers, %d combos, %d keys",
		len(km.LayerNames()), len(km.Combos()), km.Layout().Len())

	d, err := draw.New(cfg, km)
	if err != nil {
		return err
	}

	var renderOpts []draw.RenderOption
	if len(opts.layers) > 0 {
		renderOpts = append(renderOpts, draw.WithLayers(opts.layers...))
	}
	if opts.keysOnly {
		renderOpts = append(renderOpts, draw.KeysOnly())
	}
	if opts.combosOnly {
		renderOpts = append(renderOpts, draw.CombosOnly())
	}

	out := os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.output, err)
		}
		defer f.Close()
		out = f
	}

	prog := newProgress(logger)
	if err := d.Render(out, renderOpts...); err != nil {
		return err
	}
	n := len(opts.layers)
	if n == 0 {
		n = len(km.LayerNames())
	}
	if opts.output != "" {
		prog.done(fmt.Sprintf("Rendered %d layers to %s", n, opts.output))
	}
	return nil
}

// splitList parses a comma-separated flag value into trimmed entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
