package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/engine"
	"github.com/gnoswap-labs/qmin/internal/render"
	"github.com/gnoswap-labs/qmin/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-minimize problem files whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		config, eng := newEngine()
		if len(args) == 0 {
			args = []string{config.CasesDir}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handle := func(filename string, report *types.Report, err error) {
			if report == nil {
				logger.Error("Error processing file", zap.String("file", filename), zap.Error(err))
				return
			}
			if err != nil {
				logger.Warn("Search truncated", zap.String("file", filename), zap.Error(err))
			}
			if err := render.Report(os.Stdout, *report); err != nil {
				logger.Error("Error printing report", zap.Error(err))
			}
		}

		if err := eng.Watch(ctx, args, engine.HasProblemExtension, handle); err != nil {
			logger.Fatal("Watch failed", zap.Error(err))
		}
	},
}
