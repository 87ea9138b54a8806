package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/engine"
	"github.com/gnoswap-labs/qmin/internal/problem"
	"github.com/gnoswap-labs/qmin/internal/qm"
	"github.com/gnoswap-labs/qmin/internal/types"
	"github.com/gnoswap-labs/qmin/internal/verify"
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Minimize problem files and verify every cover independently",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		config, err := loadConfig()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.String("path", cfgFile), zap.Error(err))
		}
		checker, err := newChecker(config.SearchConfig(), os.Stdout)
		if err != nil {
			logger.Fatal("Failed to initialize checker", zap.Error(err))
		}

		outcomes, err := engine.ProcessFiles(ctx, logger, checker, args, engine.ProcessFile)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}

		failed := countFailures(outcomes)
		fmt.Printf("\n%d checked, %d failed\n", len(outcomes), failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

// checker is a MinimizeEngine that verifies each solution instead of
// building a report.
type checker struct {
	parser *problem.Parser
	search qm.Config

	mu  sync.Mutex
	out io.Writer
}

func newChecker(search qm.Config, out io.Writer) (*checker, error) {
	parser, err := problem.NewParser()
	if err != nil {
		return nil, err
	}
	return &checker{parser: parser, search: search, out: out}, nil
}

func (c *checker) Run(filePath string) (*types.Report, error) {
	prob, err := c.parser.ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	return nil, c.check(filePath, prob)
}

func (c *checker) RunSource(name string, source []byte) (*types.Report, error) {
	prob, err := c.parser.ParseString(name, string(source))
	if err != nil {
		return nil, err
	}
	return nil, c.check(name, prob)
}

func (c *checker) check(name string, prob types.Problem) error {
	sol, err := qm.Minimize(prob.NumVars, prob.Minterms, prob.DontCares, c.search)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	res, err := verify.Check(sol)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		fmt.Fprintf(c.out, "FAIL %s: %v\n", name, err)
		return fmt.Errorf("%s: %w", name, err)
	}

	sat := "skipped"
	if res.SATChecked {
		sat = "ok"
	}
	fmt.Fprintf(c.out, "ok   %s: %d cover(s), %d essential + %d selected, sat %s\n",
		name, res.CoversChecked, len(sol.Essentials), res.MinimumCover, sat)
	return nil
}
