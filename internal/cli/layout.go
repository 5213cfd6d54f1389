package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keydraw/keydraw/pkg/keymap"
)

// newLayoutCmd creates the layout command for inspecting computed key
// geometry. Useful when debugging ortho grid parameters or combo
// positions referenced by index.
func newLayoutCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [keymap.yaml]",
		Short: "Print the computed physical layout geometry as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// layoutDump is the JSON shape emitted by the layout command.
type layoutDump struct {
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Keys   []layoutDumpKey `json:"keys"`
}

type layoutDumpKey struct {
	Index    int     `json:"index"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"w"`
	Height   float64 `json:"h"`
	Rotation float64 `json:"r,omitempty"`
}

// runLayout loads the keymap and writes its layout geometry.
func runLayout(ctx context.Context, input string, output string) error {
	logger := loggerFromContext(ctx)

	km, err := keymap.Load(input)
	if err != nil {
		return err
	}
	l := km.Layout()
	logger.Debugf("layout has %d keys, extent %gx%g", l.Len(), l.Width(), l.Height())

	dump := layoutDump{
		Width:  l.Width(),
		Height: l.Height(),
		Keys:   make([]layoutDumpKey, l.Len()),
	}
	for i, k := range l.Keys() {
		dump.Keys[i] = layoutDumpKey{
			Index: i, X: k.X, Y: k.Y, Width: k.Width, Height: k.Height, Rotation: k.Rotation,
		}
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}
