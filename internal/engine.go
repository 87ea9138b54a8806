package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/internal/problem"
	"github.com/gnoswap-labs/qmin/internal/qm"
	"github.com/gnoswap-labs/qmin/internal/render"
	"github.com/gnoswap-labs/qmin/internal/types"
)

// DefaultModulePrefix prefixes the names of generated Verilog modules.
const DefaultModulePrefix = "boolean_function_"

// Options configures an Engine.
type Options struct {
	Search       qm.Config
	ModulePrefix string
	// ModuleSuffix maps a problem name to the rest of its Verilog module
	// name. Identifier is used when nil.
	ModuleSuffix func(name string) string
	Output       string
	// CacheDir enables the result cache when non-empty.
	CacheDir string
	// Dependencies are files whose modification invalidates cached results.
	Dependencies []string
	// CacheMaxAge defaults to DefaultCacheMaxAge.
	CacheMaxAge time.Duration
	Logger      *zap.Logger
}

// Engine reads problem files and minimizes them.
type Engine struct {
	parser       *problem.Parser
	search       qm.Config
	modulePrefix string
	moduleSuffix func(string) string
	output       string
	cache        *Cache
	logger       *zap.Logger
}

// NewEngine creates a new minimization engine.
func NewEngine(opts Options) (*Engine, error) {
	parser, err := problem.NewParser()
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		parser:       parser,
		search:       opts.Search,
		modulePrefix: opts.ModulePrefix,
		moduleSuffix: opts.ModuleSuffix,
		output:       opts.Output,
		logger:       opts.Logger,
	}
	if engine.modulePrefix == "" {
		engine.modulePrefix = DefaultModulePrefix
	}
	if engine.moduleSuffix == nil {
		engine.moduleSuffix = Identifier
	}
	if engine.logger == nil {
		engine.logger = zap.NewNop()
	}

	if opts.CacheDir != "" {
		cache, err := NewCache(opts.CacheDir, CacheOptions{
			Settings:     engine.settings(),
			Dependencies: opts.Dependencies,
			MaxAge:       opts.CacheMaxAge,
		})
		if err != nil {
			return nil, err
		}
		engine.cache = cache
	}

	return engine, nil
}

// settings identifies everything besides the problem file that a report
// depends on. Module names also depend on moduleSuffix, which follows the
// configuration file and is covered by the cache dependencies.
func (e *Engine) settings() string {
	depth := e.search.MaxDepth
	if depth <= 0 {
		depth = qm.DefaultMaxDepth
	}
	return fmt.Sprintf("max_depth=%d parallel=%t module_prefix=%s output=%s",
		depth, e.search.Parallel, e.modulePrefix, e.output)
}

// ClearCache drops every cached report. It is a no-op without a cache.
func (e *Engine) ClearCache() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Clear()
}

// Run minimizes the problem stored in filename.
//
// When the cover search is truncated, the partial report is returned
// together with an error wrapping qm.ErrSearchTruncated.
func (e *Engine) Run(filename string) (*types.Report, error) {
	if e.cache != nil {
		if report, ok := e.cache.Get(filename); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return report, nil
		}
	}

	prob, err := e.parser.ParseFile(filename)
	if err != nil {
		return nil, err
	}

	report, err := e.Solve(prob)
	if err != nil {
		return report, fmt.Errorf("%s: %w", filename, err)
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, report); err != nil {
			e.logger.Warn("failed to cache result", zap.String("file", filename), zap.Error(err))
		}
	}
	return report, nil
}

// RunSource minimizes a problem given as file content. Results are not cached.
func (e *Engine) RunSource(name string, source []byte) (*types.Report, error) {
	prob, err := e.parser.ParseString(name, string(source))
	if err != nil {
		return nil, err
	}
	return e.Solve(prob)
}

// Solve minimizes prob and builds its report.
func (e *Engine) Solve(prob types.Problem) (*types.Report, error) {
	sol, err := qm.Minimize(prob.NumVars, prob.Minterms, prob.DontCares, e.search)
	if err != nil && !errors.Is(err, qm.ErrSearchTruncated) {
		return nil, err
	}

	report := NewReport(prob, sol, e.ModuleName(prob.Name), e.output)
	e.logger.Debug("minimized",
		zap.String("problem", prob.Name),
		zap.Int("implicants", len(report.Implicants)),
		zap.Int("covers", len(report.Covers)),
	)
	return &report, err
}

// ModuleName returns the Verilog module name for a problem.
func (e *Engine) ModuleName(name string) string {
	return e.modulePrefix + e.moduleSuffix(name)
}

// NewReport converts a solution into a report. The Verilog module is
// generated from the first cover.
func NewReport(prob types.Problem, sol *qm.Solution, module, output string) types.Report {
	report := types.Report{
		Name:      prob.Name,
		Problem:   prob,
		Essential: sol.Essential.Sorted(),
		Uncovered: sol.Uncovered,
	}

	for _, im := range sol.Implicants {
		report.Implicants = append(report.Implicants, types.Implicant{
			Pattern:    im.Pattern.String(),
			Covered:    im.Covered,
			Expression: render.Expression(im.Pattern),
		})
	}

	for i, cover := range sol.Covers {
		report.Covers = append(report.Covers, types.Cover{
			Selected:   cover,
			Expression: render.SumOfProducts(sol.Selected(i)),
		})
	}

	if len(sol.Covers) == 0 {
		report.Truncated = true
		return report
	}
	report.Verilog = render.Verilog(module, output, sol.NumVars, sol.Selected(0))
	return report
}

// Identifier turns a problem name into a valid Verilog identifier suffix.
func Identifier(name string) string {
	if name == "" {
		return "f"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// WriteVerilog writes the report's Verilog module into dir and returns the
// file path.
func WriteVerilog(dir string, report *types.Report, module string) (string, error) {
	if report.Verilog == "" {
		return "", fmt.Errorf("no verilog for %s", report.Name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, module+".v")
	if err := os.WriteFile(path, []byte(report.Verilog), 0o644); err != nil {
		return "", fmt.Errorf("failed to write verilog: %w", err)
	}
	return path, nil
}
