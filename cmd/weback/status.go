package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dulek/weback/vacuum"
)

var statusCmd = &cobra.Command{
	Use:   "status <status-json>",
	Short: "Derive the semantic properties from a raw status report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read status report: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("parse status report: %w", err)
	}
	status := vacuum.NewStatus(fields)

	cmd.Printf("mode:       %s\n", status.Mode())
	cmd.Printf("cleaning:   %t\n", status.IsCleaning())
	cmd.Printf("charging:   %t\n", status.IsCharging())
	cmd.Printf("available:  %t\n", status.IsAvailable())
	if battery, err := status.BatteryLevel(); err != nil {
		cmd.Printf("battery:    invalid (%v)\n", err)
	} else {
		cmd.Printf("battery:    %d%%\n", battery)
	}
	if info, ok := status.ErrorInfo(); ok {
		cmd.Printf("error:      %s\n", info)
	}
	if fan, ok := status.FanStatus(); ok {
		cmd.Printf("fan:        %s\n", fan)
	}
	if mop, ok := status.MopStatus(); ok {
		cmd.Printf("water:      %s\n", mop)
	}
	cmd.Printf("clean time: %ds\n", status.CleanTime())
	cmd.Printf("clean area: %dm²\n", status.CleanArea())
	cmd.Printf("clean kind: %s\n", status.VacuumOrMop())
	if id, ok := status.ActiveMapID(); ok {
		cmd.Printf("map id:     %s\n", id)
	}
	return nil
}
