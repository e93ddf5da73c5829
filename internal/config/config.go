// Package config holds the run configuration. Everything the pipeline
// needs is passed through this struct explicitly; nothing reads the
// process environment outside of Load.
package config

import (
	"errors"

	"github.com/spf13/viper"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/common"
)

// Markers bounding the mutable README section. Existing documents use
// these literals, so they are compatibility constants, not style.
const (
	DefaultMarkerStart = "<!-- NANO_LIST_START -->"
	DefaultMarkerEnd   = "<!-- NANO_LIST_END -->"
)

// DefaultMinStars is the minimum star filter appended to every query.
const DefaultMinStars = 1000

// DefaultQueries combines "nano" name/topic searches with direct
// well-known project names. Order matters: on duplicate results across
// queries, the first query's snapshot wins.
var DefaultQueries = []string{
	"nano in:name topic:ai",
	"nano in:name topic:machine-learning",
	"nano in:name topic:llm",
	"nano in:name topic:deep-learning",
	"nano in:name topic:gpt",
	"nano in:name topic:chatbot",
	"nano in:name topic:nlp",
	"nano in:name topic:agent",
	"nano in:name topic:neural-network",
	"nano in:name topic:transformer",
	"nanoGPT",
	"nanochat",
	"nanobot",
	"nanobrowser",
	"nanocoder",
	"nanoflow",
	"nanotron",
}

// Config is the full run configuration.
type Config struct {
	Token       string   `mapstructure:"token"`     // API token; empty means anonymous requests
	DocPath     string   `mapstructure:"doc_path"`  // README location
	MinStars    int      `mapstructure:"min_stars"` // star floor for search results
	Queries     []string `mapstructure:"queries"`   // ordered search queries
	MarkerStart string   `mapstructure:"marker_start"`
	MarkerEnd   string   `mapstructure:"marker_end"`
	OutputPath  string   `mapstructure:"output_path"` // workflow output file; empty disables emission
	DryRun      bool     `mapstructure:"dry_run"`     // report changes without writing the README
}

// Default returns the configuration matching the repo's CI setup.
func Default() Config {
	return Config{
		DocPath:     "README.md",
		MinStars:    DefaultMinStars,
		Queries:     DefaultQueries,
		MarkerStart: DefaultMarkerStart,
		MarkerEnd:   DefaultMarkerEnd,
	}
}

// Load builds the configuration from defaults, an optional YAML config
// file (./awesome-nano-ai.yaml, mainly for query list overrides), and
// environment variables (GITHUB_TOKEN, GITHUB_OUTPUT).
func Load(cfgFile string) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("doc_path", def.DocPath)
	v.SetDefault("min_stars", def.MinStars)
	v.SetDefault("queries", def.Queries)
	v.SetDefault("marker_start", def.MarkerStart)
	v.SetDefault("marker_end", def.MarkerEnd)

	// Secrets and CI wiring come from the environment, never the file.
	_ = v.BindEnv("token", "GITHUB_TOKEN")
	_ = v.BindEnv("output_path", "GITHUB_OUTPUT")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("awesome-nano-ai")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, common.WrapError(common.ErrCodeInvalidInput, "reading config file", err)
		}
		// No config file is the normal CI case.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, common.WrapError(common.ErrCodeInvalidInput, "unmarshaling config", err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.DocPath == "" {
		return common.NewError(common.ErrCodeInvalidInput, "doc_path must not be empty")
	}
	if c.MinStars < 0 {
		return common.NewError(common.ErrCodeInvalidInput, "min_stars must be >= 0")
	}
	if len(c.Queries) == 0 {
		return common.NewError(common.ErrCodeInvalidInput, "at least one search query is required")
	}
	if c.MarkerStart == "" || c.MarkerEnd == "" {
		return common.NewError(common.ErrCodeInvalidInput, "section markers must not be empty")
	}
	return nil
}
