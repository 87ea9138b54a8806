package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/engine"
	"github.com/gnoswap-labs/qmin/internal"
	"github.com/gnoswap-labs/qmin/internal/qm"
	"github.com/gnoswap-labs/qmin/internal/render"
	"github.com/gnoswap-labs/qmin/internal/types"
)

var (
	runJsonOutput bool
	outPath       string
	verilogDir    string
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Minimize problem files or directories (\"-\" reads stdin)",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		_, eng := newEngine()

		outcomes, err := collectOutcomes(ctx, eng, args, os.Stdin)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}

		if runJsonOutput {
			if err := writeJSON(outcomes, outPath); err != nil {
				logger.Error("Error writing JSON output", zap.Error(err))
				os.Exit(1)
			}
		} else {
			printOutcomes(os.Stdout, outcomes)
		}

		if verilogDir != "" {
			writeVerilogFiles(eng, outcomes, verilogDir)
		}

		if countFailures(outcomes) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJsonOutput, "json", false, "Output reports in JSON format")
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	runCmd.Flags().StringVar(&verilogDir, "verilog-dir", "", "Write a Verilog module per problem into this directory")
}

// collectOutcomes processes every argument; "-" reads one problem from stdin.
func collectOutcomes(ctx context.Context, eng engine.MinimizeEngine, args []string, stdin io.Reader) ([]engine.Outcome, error) {
	var (
		paths   []string
		sources []engine.Source
	)
	for _, arg := range args {
		if arg != "-" {
			paths = append(paths, arg)
			continue
		}
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		sources = append(sources, engine.Source{Name: "stdin", Content: content})
	}

	outcomes, err := engine.ProcessSources(ctx, logger, eng, sources, engine.ProcessSource)
	if err != nil {
		return nil, err
	}
	fileOutcomes, err := engine.ProcessFiles(ctx, logger, eng, paths, engine.ProcessFile)
	if err != nil {
		return nil, err
	}
	return append(outcomes, fileOutcomes...), nil
}

func printOutcomes(w io.Writer, outcomes []engine.Outcome) {
	for _, outcome := range outcomes {
		if outcome.Report == nil {
			fmt.Fprintf(w, "error: %v\n\n", outcome.Err)
			continue
		}
		if err := render.Report(w, *outcome.Report); err != nil {
			logger.Error("Error printing report", zap.String("path", outcome.Path), zap.Error(err))
		}
		fmt.Fprintln(w)
	}
}

// countFailures counts outcomes with an error. A truncated search counts
// as a failure.
func countFailures(outcomes []engine.Outcome) int {
	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}
	return failed
}

func writeJSON(outcomes []engine.Outcome, jsonOutput string) error {
	type entry struct {
		Report *types.Report `json:"report,omitempty"`
		Error  string        `json:"error,omitempty"`
	}
	byPath := make(map[string]entry, len(outcomes))
	for _, outcome := range outcomes {
		e := entry{Report: outcome.Report}
		if outcome.Err != nil {
			e.Error = outcome.Err.Error()
		}
		byPath[outcome.Path] = e
	}

	d, err := json.MarshalIndent(byPath, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling reports to JSON: %w", err)
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return nil
	}
	return os.WriteFile(jsonOutput, d, 0o644)
}

func writeVerilogFiles(eng *internal.Engine, outcomes []engine.Outcome, dir string) {
	for _, outcome := range outcomes {
		if outcome.Report == nil || outcome.Report.Verilog == "" {
			continue
		}
		path, err := internal.WriteVerilog(dir, outcome.Report, eng.ModuleName(outcome.Report.Name))
		if err != nil {
			logger.Warn("Could not save Verilog file", zap.String("path", outcome.Path), zap.Error(err))
			continue
		}
		logger.Info("Verilog written", zap.String("file", path))
	}
}

// isTruncated reports whether err came from a cover search that hit its
// depth limit.
func isTruncated(err error) bool {
	return errors.Is(err, qm.ErrSearchTruncated)
}
