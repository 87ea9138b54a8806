package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/engine"
	"github.com/gnoswap-labs/qmin/internal"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	// search overrides, applied on top of the configuration file
	maxDepth   int
	parallel   bool
	noCache    bool
	clearCache bool

	logger *zap.Logger

	// rootFlags is rootCmd's persistent flag set, kept here so loadConfig
	// does not refer to rootCmd and create an initialization cycle.
	rootFlags *pflag.FlagSet
)

var rootCmd = &cobra.Command{
	Use:              "qmin [paths...]",
	Short:            "qmin - a Quine-McCluskey boolean function minimizer",
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// qmin [path1 path2 ...] behaves like the run subcommand
		runCmd.Run(runCmd, args)
	},
}

func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	rootFlags = flags
	flags.StringVar(&cfgFile, "config", engine.DefaultConfigPath, "Path to the configuration file")
	flags.DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for a whole run")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.IntVar(&maxDepth, "max-depth", 0, "Depth limit of the cover search (overrides max_depth)")
	flags.BoolVar(&parallel, "parallel", false, "Explore the first branch of the cover search in parallel")
	flags.BoolVar(&noCache, "no-cache", false, "Disable the result cache")
	flags.BoolVar(&clearCache, "clear-cache", false, "Drop every cached result before running")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(casesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig reads the configuration file and applies command line
// overrides.
func loadConfig() (engine.Config, error) {
	config, err := engine.LoadConfig(cfgFile)
	if err != nil {
		return config, err
	}

	flags := rootFlags
	if flags.Changed("max-depth") {
		config.MaxDepth = maxDepth
	}
	if flags.Changed("parallel") {
		config.Parallel = parallel
	}
	if noCache {
		config.CacheDir = ""
	}
	return config, nil
}

// newEngine loads the configuration and builds an engine, exiting on failure.
func newEngine() (engine.Config, *internal.Engine) {
	config, err := loadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.String("path", cfgFile), zap.Error(err))
	}
	eng, err := engine.New(config, logger)
	if err != nil {
		logger.Fatal("Failed to initialize engine", zap.Error(err))
	}
	if clearCache {
		if err := eng.ClearCache(); err != nil {
			logger.Fatal("Failed to clear cache", zap.String("dir", config.CacheDir), zap.Error(err))
		}
		logger.Debug("cache cleared", zap.String("dir", config.CacheDir))
	}
	return config, eng
}
