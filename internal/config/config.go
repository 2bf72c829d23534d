package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

const DefaultLimit = 10000

type Config struct {
	FilePath         string
	UseStdin         bool
	Follow           bool
	Limit            int // 0 = unbounded
	BlockSizeMB      int
	Theme            Theme
	Filter           string // initial filter bar query
	Offline          bool
	OpenAIModel      string
	OpenAIBase       string
	OpenAITimeoutSec int
	TimeLayout       string
	ForceFormat      string
	ExportFormat     string
	ExportOut        string
	ConfigPath       string
	ShowVersion      bool

	// Internal
	IsPipedStdin bool
}

// fileConfig mirrors the YAML file. Pointers tell unset keys apart.
type fileConfig struct {
	Limit      *int    `yaml:"limit"`
	Theme      *string `yaml:"theme"`
	Follow     *bool   `yaml:"follow"`
	Format     *string `yaml:"format"`
	TimeLayout *string `yaml:"time_layout"`
	Filter     *string `yaml:"filter"`
	Offline    *bool   `yaml:"offline"`
	OpenAI     struct {
		Model      *string `yaml:"model"`
		BaseURL    *string `yaml:"base_url"`
		TimeoutSec *int    `yaml:"timeout_sec"`
	} `yaml:"openai"`
}

func Load() (*Config, error) {
	fi, _ := os.Stdin.Stat()
	piped := fi != nil && (fi.Mode()&os.ModeCharDevice) == 0
	return LoadArgs(os.Args[1:], piped)
}

// LoadArgs resolves configuration with precedence flags > YAML file > env >
// built-in defaults.
func LoadArgs(args []string, pipedStdin bool) (*Config, error) {
	cfg := &Config{IsPipedStdin: pipedStdin}

	fs := flag.NewFlagSet("logpane", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVarP(&cfg.FilePath, "file", "f", "", "path to log file")
	fs.BoolVar(&cfg.Follow, "follow", false, "follow file (tail -f)")
	fs.BoolVar(&cfg.UseStdin, "stdin", false, "read from stdin (default: auto if piped)")
	fs.IntVarP(&cfg.Limit, "limit", "n", DefaultLimit, "maximum records kept in memory (0 = unbounded)")
	fs.IntVar(&cfg.BlockSizeMB, "block-size-mb", 0, "when reading a file (no follow), read only the last N MB (0=all)")
	theme := string(ThemeDark)
	fs.StringVar(&theme, "theme", string(ThemeDark), "theme: dark|light")
	fs.StringVar(&cfg.Filter, "filter", "", "initial filter, same syntax as the filter bar")
	fs.BoolVar(&cfg.Offline, "offline", false, "disable OpenAI")
	fs.StringVar(&cfg.OpenAIModel, "openai-model", getenvDefault("LOGPANE_OPENAI_MODEL", "gpt-5-mini"), "OpenAI model override")
	fs.StringVar(&cfg.OpenAIBase, "openai-base-url", getenvDefault("LOGPANE_OPENAI_BASE_URL", ""), "OpenAI base URL override")
	fs.IntVar(&cfg.OpenAITimeoutSec, "openai-timeout-sec", getenvDefaultInt("LOGPANE_OPENAI_TIMEOUT_SEC", 120), "OpenAI request timeout in seconds")
	fs.StringVar(&cfg.TimeLayout, "time-layout", "", "force time layout (Go format)")
	fs.StringVar(&cfg.ForceFormat, "format", "", "force format: json|logfmt|apache|syslog|text")
	fs.StringVar(&cfg.ExportFormat, "export", "", "export the filtered records and exit: csv|json")
	fs.StringVarP(&cfg.ExportOut, "out", "o", "", "output path for export")
	fs.StringVar(&cfg.ConfigPath, "config", "", "YAML config file (default: $XDG_CONFIG_HOME/logpane/config.yaml)")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.FilePath == "" && fs.NArg() > 0 {
		cfg.FilePath = fs.Arg(0)
	}

	path, explicit := cfg.ConfigPath, cfg.ConfigPath != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path != "" {
		if err := applyFile(cfg, &theme, fs, path, explicit); err != nil {
			return nil, err
		}
	}
	cfg.Theme = Theme(theme)

	if cfg.Theme != ThemeDark && cfg.Theme != ThemeLight {
		return nil, fmt.Errorf("unknown theme %q", cfg.Theme)
	}
	if cfg.ExportFormat != "" && cfg.ExportOut == "" {
		return nil, errors.New("--export requires --out path")
	}
	if cfg.UseStdin || (cfg.IsPipedStdin && cfg.FilePath == "") {
		cfg.UseStdin = true
	}
	if cfg.Follow && cfg.FilePath == "" {
		if fs.Changed("follow") {
			return nil, errors.New("--follow requires --file")
		}
		cfg.Follow = false
	}
	if cfg.Limit < 0 {
		cfg.Limit = 0
	}
	return cfg, nil
}

func applyFile(cfg *Config, theme *string, fs *flag.FlagSet, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	set := func(name string) bool { return !fs.Changed(name) }
	if fc.Limit != nil && set("limit") {
		cfg.Limit = *fc.Limit
	}
	if fc.Theme != nil && set("theme") {
		*theme = *fc.Theme
	}
	if fc.Follow != nil && set("follow") {
		cfg.Follow = *fc.Follow
	}
	if fc.Format != nil && set("format") {
		cfg.ForceFormat = *fc.Format
	}
	if fc.TimeLayout != nil && set("time-layout") {
		cfg.TimeLayout = *fc.TimeLayout
	}
	if fc.Filter != nil && set("filter") {
		cfg.Filter = *fc.Filter
	}
	if fc.Offline != nil && set("offline") {
		cfg.Offline = *fc.Offline
	}
	if fc.OpenAI.Model != nil && set("openai-model") {
		cfg.OpenAIModel = *fc.OpenAI.Model
	}
	if fc.OpenAI.BaseURL != nil && set("openai-base-url") {
		cfg.OpenAIBase = *fc.OpenAI.BaseURL
	}
	if fc.OpenAI.TimeoutSec != nil && set("openai-timeout-sec") {
		cfg.OpenAITimeoutSec = *fc.OpenAI.TimeoutSec
	}
	return nil
}

func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "logpane", "config.yaml")
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) OpenAIKey() string { return os.Getenv("OPENAI_API_KEY") }

func (c *Config) String() string {
	return fmt.Sprintf("file=%s stdin=%v follow=%v limit=%d theme=%s offline=%v", c.FilePath, c.UseStdin, c.Follow, c.Limit, c.Theme, c.Offline)
}
