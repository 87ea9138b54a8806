package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/engine"
	"github.com/gnoswap-labs/qmin/internal"
	"github.com/gnoswap-labs/qmin/internal/cases"
	"github.com/gnoswap-labs/qmin/internal/render"
)

var casesCmd = &cobra.Command{
	Use:   "cases <selection>",
	Short: "Minimize numbered test cases, e.g. \"1 3-5 7\"",
	Long: `Reads the numbered case files from cases_dir (named by case_pattern),
prints a report for each, writes a Verilog module per case into verilog_dir
and finishes with a summary. Exits with status 1 if any case failed.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nums, errs := cases.Parse(strings.Join(args, " "))
		for _, err := range errs {
			logger.Warn("Skipping selection", zap.Error(err))
		}
		if len(nums) == 0 {
			fmt.Println("error: No valid test cases specified")
			os.Exit(1)
		}

		config, eng := newEngine()
		if failed := runCases(os.Stdout, config, eng, nums); len(failed) > 0 {
			os.Exit(1)
		}
	},
}

// runCases processes the selected cases in order and returns the numbers
// of the cases that failed.
func runCases(w io.Writer, config engine.Config, eng *internal.Engine, nums []int) []int {
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(w, "Processing %d test case(s): %v\n\n", len(nums), nums)

	var failed []int
	for i, n := range nums {
		fmt.Fprintf(w, "%s\nTESTCASE %d (%d/%d)\n%s\n", rule, n, i+1, len(nums), rule)

		if err := runCase(w, config, eng, n); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			failed = append(failed, n)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\nSUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(w, "Total test cases: %d\n", len(nums))
	fmt.Fprintf(w, "Successful: %d\n", len(nums)-len(failed))
	fmt.Fprintf(w, "Failed: %d\n", len(failed))
	if len(failed) > 0 {
		fmt.Fprintf(w, "Failed cases: %v\n", failed)
	}
	return failed
}

func runCase(w io.Writer, config engine.Config, eng *internal.Engine, n int) error {
	path := cases.Path(config.CasesDir, config.CasePattern, n)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot open file %s", path)
	}

	report, err := engine.ProcessFile(eng, path)
	if report == nil {
		return err
	}
	if err := render.Report(w, *report); err != nil {
		return err
	}
	if isTruncated(err) {
		return fmt.Errorf("case %d: no cover found within depth %d", n, config.MaxDepth)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n=== VERILOG CODE ===\n%s", report.Verilog)
	file, err := internal.WriteVerilog(config.VerilogDir, report, eng.ModuleName(report.Name))
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Could not save Verilog file: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "\nVerilog code saved to: %s\n", file)
	return nil
}
