/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"

	servo "github.com/allbin/servo-panel"
	"github.com/allbin/servo-panel/internal/serial"
	"github.com/allbin/servo-panel/internal/tui/colors"
)

// portsCmd represents the ports command
var portsCmd = &cobra.Command{
	Use:     "ports",
	Aliases: []string{"list"},
	Short:   "List attached serial ports",
	Long: `List the serial ports currently attached to the system.

The servo controller usually shows up as a USB serial adapter (ttyUSB*)
or a USB CDC/ACM device (ttyACM*). Virtual terminals and pseudo-terminals
are excluded from the listing.

Example usage:
  servo-panel ports
  servo-panel ports --table
  servo-panel ports --filter usb`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := servo.NewController(servo.WithLogger(log))
		ports, err := ctrl.ListPorts()
		if err != nil {
			return err
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		ports = filterPorts(ports, filterType)
		out := cmd.OutOrStdout()
		if len(ports) == 0 {
			if filterType != "" {
				fmt.Fprintf(out, "No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Fprintln(out, "No serial ports found")
			}
			return nil
		}

		if tableFormat {
			renderTable(out, ports)
		} else {
			renderSimple(out, ports)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)

	portsCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	portsCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []string, filterType string) []string {
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []string
	for _, port := range ports {
		info, err := serial.GetPortInfo(port)
		if err != nil {
			continue
		}

		name := strings.ToLower(info.Name)
		switch strings.ToLower(filterType) {
		case "usb":
			if info.IsUSB() || strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm") {
				filtered = append(filtered, port)
			}
		case "standard":
			if strings.HasPrefix(name, "ttys") {
				filtered = append(filtered, port)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, port)
			}
		}
	}
	return filtered
}

const (
	columnKeyPort    = "port"
	columnKeyType    = "type"
	columnKeyUSB     = "usb"
	columnKeyProduct = "product"
)

// portRows builds one table row per port with its sysfs metadata
func portRows(ports []string) []table.Row {
	rows := make([]table.Row, 0, len(ports))
	for _, port := range ports {
		data := table.RowData{
			columnKeyPort:    port,
			columnKeyType:    "Unknown",
			columnKeyUSB:     "",
			columnKeyProduct: "",
		}

		info, err := serial.GetPortInfo(port)
		if err != nil {
			data[columnKeyProduct] = fmt.Sprintf("Error: %v", err)
			rows = append(rows, table.NewRow(data))
			continue
		}

		data[columnKeyType] = getPortType(info.Name)
		if info.IsUSB() {
			data[columnKeyUSB] = fmt.Sprintf("%s:%s", info.VendorID, info.ProductID)
		}
		data[columnKeyProduct] = strings.TrimSpace(info.Manufacturer + " " + info.Product)
		rows = append(rows, table.NewRow(data))
	}
	return rows
}

// renderTable renders the port list in a styled static table format
func renderTable(out io.Writer, ports []string) {
	fmt.Fprintf(out, "Found %d serial port(s):\n\n", len(ports))

	t := table.New([]table.Column{
		table.NewColumn(columnKeyPort, "Port", 16),
		table.NewColumn(columnKeyType, "Type", 18),
		table.NewColumn(columnKeyUSB, "VID:PID", 11),
		table.NewFlexColumn(columnKeyProduct, "Product", 1),
	}).
		WithRows(portRows(ports)).
		WithTargetWidth(80).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Mauve)).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(colors.Text).
			BorderForeground(colors.Surface2).
			Align(lipgloss.Left))

	fmt.Fprintln(out, t.View())
}

// renderSimple renders the port list in simple text format
func renderSimple(out io.Writer, ports []string) {
	for _, port := range ports {
		fmt.Fprintln(out, port)
	}
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}
