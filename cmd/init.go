package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/engine"
)

var forceInit bool

// initCmd: qmin init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile, forceInit); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("Configuration file created: %s\n", cfgFile)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) error {
	if configurationPath == "" {
		configurationPath = engine.DefaultConfigPath
	}

	if _, err := os.Stat(configurationPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configurationPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return engine.WriteConfig(configurationPath, engine.DefaultConfig())
}
