package types

import "time"

// OutputFormat selects how feature tables are written.
type OutputFormat string

const (
	OutputCSV  OutputFormat = "csv"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// Valid reports whether f is a supported output format.
func (f OutputFormat) Valid() bool {
	switch f {
	case OutputCSV, OutputJSON, OutputYAML:
		return true
	}
	return false
}

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-features/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FeaturesConfig holds settings for the feature pipeline.
type FeaturesConfig struct {
	// EdgesPath is the CSV file of citation edges.
	EdgesPath string `json:"edges" yaml:"edges" mapstructure:"edges"`

	// MetadataPath is a CSV file of paper metadata. Mutually exclusive with MetadataDir.
	MetadataPath string `json:"metadata" yaml:"metadata" mapstructure:"metadata"`

	// MetadataDir is a directory of per-paper YAML metadata records
	// (e.g. "papers/metadata").
	MetadataDir string `json:"metadata_dir" yaml:"metadata_dir" mapstructure:"metadata_dir"`

	// OutputPath is where the feature table is written; empty means stdout.
	OutputPath string `json:"output" yaml:"output" mapstructure:"output"`

	// Format selects the output format: csv, json, or yaml.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Workers bounds the row-parallel overlap computation (0 = GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// StoreConfig holds settings for the SQLite run store.
type StoreConfig struct {
	// DBPath is the SQLite database file (e.g. "features/runs.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// OpenAlexConfig holds settings for fetching paper metadata from OpenAlex.
type OpenAlexConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RequestDelay is the pause between consecutive work lookups (default 100ms).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`

	// PapersDir is the base directory for papers (contains metadata/).
	PapersDir string `json:"papers_dir" yaml:"papers_dir" mapstructure:"papers_dir"`
}

// PipelineConfig groups all configuration sections.
type PipelineConfig struct {
	Features FeaturesConfig `json:"features" yaml:"features" mapstructure:"features"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	OpenAlex OpenAlexConfig `json:"openalex" yaml:"openalex" mapstructure:"openalex"`
}
