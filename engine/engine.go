package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/internal"
	"github.com/gnoswap-labs/qmin/internal/cases"
	"github.com/gnoswap-labs/qmin/internal/types"
)

type MinimizeEngine interface {
	Run(filePath string) (*types.Report, error)
	RunSource(name string, source []byte) (*types.Report, error)
}

// Outcome is the result of processing one problem. Err is set when the
// problem failed; Report may still be set for a truncated search.
type Outcome struct {
	Path   string
	Report *types.Report
	Err    error
}

// Source is an in-memory problem.
type Source struct {
	Name    string
	Content []byte
}

// New creates an engine configured by config. Caching is disabled when
// config.CacheDir is empty.
func New(config Config, logger *zap.Logger) (*internal.Engine, error) {
	opts := internal.Options{
		Search:       config.SearchConfig(),
		ModulePrefix: config.ModulePrefix,
		ModuleSuffix: moduleSuffix(config.CasePattern),
		Output:       config.Output,
		CacheDir:     config.CacheDir,
		CacheMaxAge:  config.CacheMaxAge,
		Logger:       logger,
	}
	if config.Path != "" {
		opts.Dependencies = []string{config.Path}
	}
	return internal.NewEngine(opts)
}

// moduleSuffix names case modules by number, e.g. boolean_function_3 for
// test3.txt, and everything else by its sanitized name.
func moduleSuffix(pattern string) func(string) string {
	return func(name string) string {
		if n, ok := cases.Number(name, pattern); ok {
			return fmt.Sprint(n)
		}
		return internal.Identifier(name)
	}
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine MinimizeEngine,
	sources []Source,
	processor func(MinimizeEngine, Source) (*types.Report, error),
) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(sources))
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		report, err := processor(engine, source)
		if err != nil && logger != nil {
			logger.Error("Error processing source", zap.String("source", source.Name), zap.Error(err))
		}
		outcomes = append(outcomes, Outcome{Path: source.Name, Report: report, Err: err})
	}
	return outcomes, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine MinimizeEngine,
	paths []string,
	processor func(MinimizeEngine, string) (*types.Report, error),
) ([]Outcome, error) {
	var outcomes []Outcome
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		outcomes = append(outcomes, results...)
	}
	return outcomes, nil
}

// ProcessPath processes a single problem file, or every problem file under
// a directory using a bounded pool of workers. Outcomes of a directory are
// sorted by path.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine MinimizeEngine,
	path string,
	processor func(MinimizeEngine, string) (*types.Report, error),
) ([]Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		report, err := processor(engine, path)
		if err != nil && logger != nil {
			logger.Error("Error processing file", zap.String("file", path), zap.Error(err))
		}
		return []Outcome{{Path: path, Report: report, Err: err}}, nil
	}

	var files []string
	err = filepath.Walk(path, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && HasProblemExtension(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	resultChan := make(chan Outcome, len(files))
	sem := make(chan struct{}, runtime.NumCPU())

	started := 0
	for _, filePath := range files {
		if ctx.Err() != nil {
			drain(resultChan, started)
			return nil, ctx.Err()
		}
		select {
		case <-ctx.Done():
			drain(resultChan, started)
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		started++

		go func(fp string) {
			defer func() { <-sem }()

			report, err := processor(engine, fp)
			if err != nil && logger != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			resultChan <- Outcome{Path: fp, Report: report, Err: err}
			_ = bar.Add(1)
		}(filePath)
	}

	outcomes := drain(resultChan, started)
	_ = bar.Finish()

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Path < outcomes[j].Path })
	return outcomes, nil
}

func drain(results <-chan Outcome, n int) []Outcome {
	outcomes := make([]Outcome, 0, n)
	for range n {
		outcomes = append(outcomes, <-results)
	}
	return outcomes
}

func ProcessFile(engine MinimizeEngine, filePath string) (*types.Report, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine MinimizeEngine, source Source) (*types.Report, error) {
	return engine.RunSource(source.Name, source.Content)
}

var problemExtensions = map[string]bool{
	".txt": true,
	".qm":  true,
}

// HasProblemExtension reports whether path looks like a problem file.
func HasProblemExtension(path string) bool {
	return problemExtensions[filepath.Ext(path)]
}
