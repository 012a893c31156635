/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/allbin/servo-panel/internal/config"
	"github.com/allbin/servo-panel/internal/logging"
)

var (
	cfgFile string
	v       = config.New()
	cfg     config.Config
	log     = logrus.StandardLogger()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "servo-panel",
	Short: "Drive a two-channel servo controller over a serial port",
	Long: `Drive a two-channel servo controller attached over a serial port.

The controller accepts one ASCII command per line, "S<channel>:<angle>",
and answers with a single text line. Channels are A and B, angles run
from 0 to 180 degrees. The link always runs at 9600 baud 8N1.

Settings are read from flags, SERVO_PANEL_* environment variables and an
optional config.yaml in $XDG_CONFIG_HOME/servo-panel or /etc/servo-panel.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		logger, err := logging.New(c.LogLevel, c.LogFormat, os.Stderr)
		if err != nil {
			return err
		}
		cfg = c
		log = logger
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/servo-panel/config.yaml)")
	flags.StringP(config.KeyPort, "p", "", "serial port of the servo controller, e.g. /dev/ttyUSB0")
	flags.String(config.KeyLogLevel, "info", "log level: trace, debug, info, warn, error")
	flags.String(config.KeyLogFormat, logging.FormatText, "log format: text, json")

	for _, key := range []string{config.KeyPort, config.KeyLogLevel, config.KeyLogFormat} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
}
