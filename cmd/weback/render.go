package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dulek/weback/vacmap"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render <map-file>",
	Short: "Render a raw map payload to a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "map.png", "output file")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read map payload: %w", err)
	}
	m, err := vacmap.Parse(raw)
	if err != nil {
		return err
	}
	img, err := vacmap.Render(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderOut, img, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	cmd.Printf("rendered %dx%d grid with %d path points to %s\n",
		m.Grid.Width, m.Grid.Height, len(m.Path), renderOut)
	return nil
}
