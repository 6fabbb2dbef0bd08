package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Output       string `yaml:"output"`
	PerSeed      bool   `yaml:"per_seed"`
	SeedsFile    string `yaml:"seeds_file"`
	PatternsFile string `yaml:"patterns_file"`
	Debug        bool   `yaml:"debug"`

	Renderer         string        `yaml:"renderer"`
	Timeout          time.Duration `yaml:"timeout"`
	RenderWait       time.Duration `yaml:"render_wait"`
	Retries          int           `yaml:"retries"`
	UserAgent        string        `yaml:"user_agent"`
	Cookie           string        `yaml:"cookie"`
	CookieFile       string        `yaml:"cookie_file"`
	CloudflareBypass bool          `yaml:"cloudflare_bypass"`

	MaxPages    int           `yaml:"max_pages"`
	Delay       time.Duration `yaml:"delay"`
	SeedWorkers int           `yaml:"seed_workers"`

	DefaultRange string `yaml:"default_range"`
	DefaultList  string `yaml:"default_list"`
}

type Options struct {
	IgnoreConfig     bool
	Debug            bool
	Output           string
	PerSeed          bool
	SeedsFile        string
	PatternsFile     string
	Renderer         string
	Timeout          time.Duration
	RenderWait       time.Duration
	Retries          int
	UserAgent        string
	Cookie           string
	CookieFile       string
	CloudflareBypass bool
	MaxPages         int
	Delay            time.Duration
	SeedWorkers      int
	DefaultRange     string
	DefaultList      string
}

func DefaultConfig() *Config {
	return &Config{
		Output:      "output.json",
		SeedsFile:   "urls.txt",
		Renderer:    "http",
		Timeout:     30 * time.Second,
		RenderWait:  2 * time.Second,
		Retries:     3,
		SeedWorkers: 1,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadMerged returns the active profile with the non-zero options laid over
// it, and a description of where it came from.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `polscrape config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.PerSeed {
		c.PerSeed = true
	}
	if o.SeedsFile != "" {
		c.SeedsFile = o.SeedsFile
	}
	if o.PatternsFile != "" {
		c.PatternsFile = o.PatternsFile
	}
	if o.Debug {
		c.Debug = true
	}
	if o.Renderer != "" {
		c.Renderer = o.Renderer
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.RenderWait != 0 {
		c.RenderWait = o.RenderWait
	}
	if o.Retries != 0 {
		c.Retries = o.Retries
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.CloudflareBypass {
		c.CloudflareBypass = true
	}
	if o.MaxPages != 0 {
		c.MaxPages = o.MaxPages
	}
	if o.Delay != 0 {
		c.Delay = o.Delay
	}
	if o.SeedWorkers != 0 {
		c.SeedWorkers = o.SeedWorkers
	}
	if o.DefaultRange != "" {
		c.DefaultRange = o.DefaultRange
	}
	if o.DefaultList != "" {
		c.DefaultList = o.DefaultList
	}
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "output.json"
	}
	if c.Renderer == "" {
		c.Renderer = "http"
	}
	if c.Retries < 1 {
		c.Retries = 1
	}
	if c.SeedWorkers < 1 {
		c.SeedWorkers = 1
	}
	if c.MaxPages < 0 {
		c.MaxPages = 0
	}
}

func (c *Config) Print(w io.Writer) {
	p := func(format string, args ...any) {
		_, _ = fmt.Fprintf(w, format, args...)
	}

	p(" -output: %s\n", c.Output)
	if c.PerSeed {
		p(" -per_seed: %t\n", c.PerSeed)
	}
	if c.SeedsFile != "" {
		p(" -seeds_file: %s\n", c.SeedsFile)
	}
	if c.PatternsFile != "" {
		p(" -patterns_file: %s\n", c.PatternsFile)
	}
	p(" -renderer: %s\n", c.Renderer)
	p(" -timeout: %s\n", c.Timeout)
	if c.Renderer != "http" {
		p(" -render_wait: %s\n", c.RenderWait)
	}
	p(" -retries: %d\n", c.Retries)
	p(" -seed_workers: %d\n", c.SeedWorkers)
	if c.MaxPages > 0 {
		p(" -max_pages: %d\n", c.MaxPages)
	}
	if c.Delay > 0 {
		p(" -delay: %s\n", c.Delay)
	}
	if c.CloudflareBypass {
		p(" -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	if c.CookieFile != "" {
		p(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.DefaultRange != "" {
		p(" -range: %s\n", c.DefaultRange)
	}
	if c.DefaultList != "" {
		p(" -list: %s\n", c.DefaultList)
	}
	if c.Debug {
		p(" -debug: %t\n", c.Debug)
	}
}
