/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	servo "github.com/allbin/servo-panel"
	"github.com/allbin/servo-panel/internal/logging"
	"github.com/allbin/servo-panel/internal/serial"
	"github.com/allbin/servo-panel/internal/tui/components"
	"github.com/allbin/servo-panel/internal/tui/models"
)

// panelCmd represents the panel command
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Interactive servo control panel",
	Long: `Open the interactive servo control panel.

The panel lists the attached serial ports, connects to the chosen one and
shows one slider per servo channel. Moving a slider only changes the
panel; press enter to send the focused servo's angle. Replies and link
events appear in the log below the sliders.

Keys:
  [ / ]        choose port          c      connect / disconnect
  tab          switch servo         enter  send angle
  ← → / h l    ±1°                  r      rescan ports
  ⇧← ⇧→ / H L  ±10°                 q      quit

Example usage:
  servo-panel panel
  servo-panel panel --port /dev/ttyUSB0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var p *tea.Program

		// stderr is hidden behind the alt screen, so diagnostics go to the log pane
		logger, err := logging.NewForwarder(cfg.LogLevel, func(entry *logrus.Entry) {
			if p != nil {
				p.Send(components.NewLogMsg(entry))
			}
		})
		if err != nil {
			return err
		}

		ctrl := servo.NewController(servo.WithLogger(logger))
		defer ctrl.Disconnect()

		link := components.LinkInfo{
			BaudRate: servo.BaudRate,
			DataBits: 8,
			StopBits: 1,
			Parity:   serial.ParityNone,
		}
		m := models.NewPanelModel(ctrl, link, models.WithPort(cfg.Port))

		p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("failed to run panel: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(panelCmd)
}
