package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/dlog/errors"
)

var (
	globalConfig  *Config
	viperInstance *viper.Viper
	explicitFile  string
)

// SetConfigFile makes path the highest-precedence config file. Call it
// before Load; an empty path clears the override.
func SetConfigFile(path string) {
	explicitFile = path
	Reset()
}

// Load reads the configuration, caching the result
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() (*viper.Viper, error) {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.WrapConfig(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, on top of the
// defaults and without environment overrides
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapConfig(err, "failed to read config file "+configPath)
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := mergeConfigFiles(v, ConfigSearchPaths()); err != nil {
		return nil, err
	}

	viperInstance = v
	return v, nil
}

// UserConfigPath is <config dir>/dlog/dlog.toml
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dlog", ConfigFileName)
}

// ConfigSearchPaths lists candidate config files, lowest precedence first
func ConfigSearchPaths() []ConfigPath {
	paths := []ConfigPath{
		{Path: filepath.Join("/etc", "dlog", ConfigFileName), Source: SourceSystem},
		{Path: UserConfigPath(), Source: SourceUser},
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, ConfigPath{Path: project, Source: SourceProject})
	}
	if explicitFile != "" {
		paths = append(paths, ConfigPath{Path: explicitFile, Source: SourceExplicit})
	}
	return paths
}

// findProjectConfig searches for dlog.toml by walking up the directory tree
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFiles merges existing files into v in order, recording where
// each key came from. A file that exists but does not parse is an error; an
// explicit file that does not exist is an error too.
func mergeConfigFiles(v *viper.Viper, paths []ConfigPath) error {
	for _, cp := range paths {
		if _, err := os.Stat(cp.Path); err != nil {
			if cp.Source == SourceExplicit {
				return errors.WrapConfig(err, "config file "+cp.Path)
			}
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(cp.Path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			return errors.WrapConfig(err, "failed to read config file "+cp.Path)
		}

		for _, key := range tempViper.AllKeys() {
			v.Set(key, tempViper.Get(key))
			ConfigSources[key] = SourceInfo{Source: cp.Source, Path: cp.Path}
		}
	}
	return nil
}

// Get returns a configuration value using dot notation
func Get(key string) (interface{}, error) {
	v, err := initViper()
	if err != nil {
		return nil, err
	}
	return v.Get(key), nil
}
