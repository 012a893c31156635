/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	servo "github.com/allbin/servo-panel"
	"github.com/allbin/servo-panel/internal/config"
	"github.com/allbin/servo-panel/internal/tui/colors"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <channel> <angle>",
	Short: "Move one servo and print the controller's reply",
	Long: `Move one servo to an angle and print the controller's reply.

The command connects to the port, sends "S<channel>:<angle>", waits up to
one second for the reply line and disconnects again. Angles outside 0-180
are clamped before they are sent.

Example usage:
  servo-panel send A 90 --port /dev/ttyUSB0
  servo-panel send b 0 -p /dev/ttyACM0
  SERVO_PANEL_PORT=/dev/ttyUSB0 servo-panel send A 180`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, angle, err := parseSendArgs(args[0], args[1])
		if err != nil {
			return err
		}
		if cfg.Port == "" {
			return fmt.Errorf("%w: no port given, use --port or %s_PORT", servo.ErrInvalidPort, config.EnvPrefix)
		}

		ctrl := servo.NewController(servo.WithLogger(log))
		return sendAngle(cmd.OutOrStdout(), ctrl, cfg.Port, ch, angle)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

// parseSendArgs validates the channel and angle arguments
func parseSendArgs(channel, angle string) (servo.Channel, int, error) {
	ch, err := servo.ParseChannel(channel)
	if err != nil {
		return 0, 0, err
	}
	a, err := strconv.Atoi(strings.TrimSpace(angle))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid angle %q: want a whole number of degrees", angle)
	}
	return ch, a, nil
}

// commander is the part of servo.Controller a one-shot send needs
type commander interface {
	Connect(port string) error
	Disconnect()
	Send(ch servo.Channel, angle int) (string, error)
}

func sendAngle(out io.Writer, ctrl commander, port string, ch servo.Channel, angle int) error {
	infoStyle := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true)

	successStyle := lipgloss.NewStyle().
		Foreground(colors.Green).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(colors.Overlay0)

	fmt.Fprintf(out, "%s Opening %s...\n", infoStyle.Render("⚡"), port)
	if err := ctrl.Connect(port); err != nil {
		return err
	}
	defer ctrl.Disconnect()

	clamped := servo.ClampAngle(angle)
	if clamped != angle {
		fmt.Fprintf(out, "%s Angle %d clamped to %d°\n", dimStyle.Render("!"), angle, clamped)
	}
	fmt.Fprintf(out, "%s Servo %s → %d°\n", infoStyle.Render("📤"), ch, clamped)

	response, err := ctrl.Send(ch, clamped)
	if err != nil {
		return err
	}

	if response == "" {
		fmt.Fprintf(out, "%s %s\n", successStyle.Render("✓"), dimStyle.Render("(no reply)"))
		return nil
	}
	fmt.Fprintf(out, "%s %s\n", successStyle.Render("✓"), response)
	return nil
}
