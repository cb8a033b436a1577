// Package am loads dlog configuration ("am" as in "I am configured as").
//
// Sources, lowest to highest precedence: built-in defaults, the system file
// /etc/dlog/dlog.toml, the user file <config dir>/dlog/dlog.toml, a project
// dlog.toml found by walking up from the working directory, an explicit
// --config file, and DLOG_* environment variables.
package am

// Config represents the dlog configuration
type Config struct {
	Data    DataConfig    `mapstructure:"data" json:"data" yaml:"data" toml:"data"`
	Record  RecordConfig  `mapstructure:"record" json:"record" yaml:"record" toml:"record"`
	Fact    FactConfig    `mapstructure:"fact" json:"fact" yaml:"fact" toml:"fact"`
	Storage StorageConfig `mapstructure:"storage" json:"storage" yaml:"storage" toml:"storage"`
	Index   IndexConfig   `mapstructure:"index" json:"index" yaml:"index" toml:"index"`
	Log     LogConfig     `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
}

// DataConfig locates the data directory
type DataConfig struct {
	Dir         string `mapstructure:"dir" json:"dir" yaml:"dir" toml:"dir"`                                     // empty: $XDG_DATA_HOME/dlog or ~/.local/share/dlog
	StartOfWeek string `mapstructure:"start_of_week" json:"start_of_week" yaml:"start_of_week" toml:"start_of_week"` // weekday name used by "this week"
}

// RecordConfig configures the default record
type RecordConfig struct {
	Inbox           string `mapstructure:"inbox" json:"inbox" yaml:"inbox" toml:"inbox"`
	InboxDir        string `mapstructure:"inbox_dir" json:"inbox_dir" yaml:"inbox_dir" toml:"inbox_dir"` // empty: <data.dir>/<inbox>
	PromptForRecord bool   `mapstructure:"prompt_for_record" json:"prompt_for_record" yaml:"prompt_for_record" toml:"prompt_for_record"`
}

// FactConfig configures how entries are built
type FactConfig struct {
	TypedValues bool `mapstructure:"typed_values" json:"typed_values" yaml:"typed_values" toml:"typed_values"` // rich value inference for new entries
}

// StorageConfig configures the CSV storage engine
type StorageConfig struct {
	BatchThreshold int `mapstructure:"batch_threshold" json:"batch_threshold" yaml:"batch_threshold" toml:"batch_threshold"` // files read sequentially up to this count
	BatchWorkers   int `mapstructure:"batch_workers" json:"batch_workers" yaml:"batch_workers" toml:"batch_workers"`
}

// IndexConfig selects the fact type store
type IndexConfig struct {
	Backend string `mapstructure:"backend" json:"backend" yaml:"backend" toml:"backend"` // csv or sqlite
	Path    string `mapstructure:"path" json:"path" yaml:"path" toml:"path"`             // empty: inside the data directory
}

// LogConfig configures logging output
type LogConfig struct {
	JSON bool `mapstructure:"json" json:"json" yaml:"json" toml:"json"`
}

// Index backends
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)
