/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	servo "github.com/allbin/servo-panel"
	"github.com/allbin/servo-panel/internal/serial"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata.

Examples:
  servo-panel info /dev/ttyUSB0
  servo-panel info /dev/ttyACM0

For USB devices, this displays vendor/product IDs, serial numbers, interface
numbers, and other USB-specific metadata extracted from sysfs. Use it to
tell the servo controller apart from other adapters on the same host.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := serial.GetPortInfo(args[0])
		if err != nil {
			return fmt.Errorf("failed to get port info: %w", err)
		}
		printPortInfo(cmd.OutOrStdout(), info)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printPortInfo(out io.Writer, info *serial.PortInfo) {
	fmt.Fprintf(out, "Port Information: %s\n\n", info.Path)
	fmt.Fprintf(out, "  Name:        %s\n", info.Name)
	fmt.Fprintf(out, "  Description: %s\n", info.Description)
	fmt.Fprintf(out, "  Link:        %d baud 8N1, %v read timeout\n", servo.BaudRate, servo.ReadTimeout)

	if !info.IsUSB() {
		return
	}

	fmt.Fprintln(out, "\nUSB Device Information:")
	fields := []struct {
		label string
		value string
	}{
		{"Vendor ID:   ", info.VendorID},
		{"Product ID:  ", info.ProductID},
		{"Serial:      ", info.SerialNumber},
		{"Interface:   ", info.InterfaceNumber},
		{"Bus:         ", info.BusNumber},
		{"Device:      ", info.DeviceNumber},
		{"Manufacturer:", info.Manufacturer},
		{"Product:     ", info.Product},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(out, "  %s %s\n", f.label, f.value)
		}
	}
}
