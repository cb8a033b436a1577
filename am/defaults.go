package am

import (
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override (DLOG_DATA_DIR, ...)
	EnvPrefix = "DLOG"

	// ConfigFileName is the name of user, system and project config files
	ConfigFileName = "dlog.toml"

	// DefaultDirPermissions is used for the config and data directories
	DefaultDirPermissions = 0o755
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "")
	v.SetDefault("data.start_of_week", "monday")

	v.SetDefault("record.inbox", "Inbox")
	v.SetDefault("record.inbox_dir", "")
	v.SetDefault("record.prompt_for_record", false)

	v.SetDefault("fact.typed_values", false)

	v.SetDefault("storage.batch_threshold", 4)
	v.SetDefault("storage.batch_workers", 4)

	v.SetDefault("index.backend", BackendCSV)
	v.SetDefault("index.path", "")

	v.SetDefault("log.json", false)
}
