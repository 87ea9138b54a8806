package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/qmin/internal"
	"github.com/gnoswap-labs/qmin/internal/cases"
	"github.com/gnoswap-labs/qmin/internal/qm"
	"github.com/gnoswap-labs/qmin/internal/render"
)

// DefaultConfigPath is the configuration file read when none is given.
const DefaultConfigPath = ".qmin.yaml"

// Config is the contents of a .qmin.yaml file.
type Config struct {
	Name string `yaml:"name"`

	// search
	MaxDepth int  `yaml:"max_depth"`
	Parallel bool `yaml:"parallel"`

	// numbered cases
	CasesDir    string `yaml:"cases_dir"`
	CasePattern string `yaml:"case_pattern"`

	// verilog output
	ModulePrefix string `yaml:"module_prefix"`
	Output       string `yaml:"output"`
	VerilogDir   string `yaml:"verilog_dir"`

	CacheDir    string        `yaml:"cache_dir"`
	CacheMaxAge time.Duration `yaml:"cache_max_age"`

	// Path is the file the configuration was loaded from, if any.
	Path string `yaml:"-"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Name:         "qmin",
		MaxDepth:     qm.DefaultMaxDepth,
		CasesDir:     ".",
		CasePattern:  cases.DefaultPattern,
		ModulePrefix: internal.DefaultModulePrefix,
		Output:       render.DefaultOutput,
		VerilogDir:   ".",
		CacheDir:     defaultCacheDir(),
		CacheMaxAge:  internal.DefaultCacheMaxAge,
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "qmin")
	}
	return filepath.Join(dir, "qmin")
}

// LoadConfig reads the configuration at path on top of the defaults. A
// missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	config.Path = path

	if config.CacheMaxAge < 0 {
		return config, fmt.Errorf("invalid cache_max_age %s: must not be negative", config.CacheMaxAge)
	}
	if strings.Count(config.CasePattern, "%") != 1 || !strings.Contains(config.CasePattern, "%d") {
		return config, fmt.Errorf("invalid case_pattern %q: must contain a single %%d", config.CasePattern)
	}
	return config, nil
}

// WriteConfig writes config to path as YAML.
func WriteConfig(path string, config Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config to YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// SearchConfig returns the cover search settings.
func (c Config) SearchConfig() qm.Config {
	return qm.Config{MaxDepth: c.MaxDepth, Parallel: c.Parallel}
}
