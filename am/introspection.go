package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/dlog/dlog.toml
	SourceUser        ConfigSource = "user"        // <config dir>/dlog/dlog.toml
	SourceProject     ConfigSource = "project"     // dlog.toml above the working directory
	SourceExplicit    ConfigSource = "explicit"    // --config
	SourceEnvironment ConfigSource = "environment" // DLOG_* env vars
)

// ConfigPath is a candidate config file and the source it represents
type ConfigPath struct {
	Path   string       `json:"path" yaml:"path"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// ConfigSources is filled while config files are merged
var ConfigSources = map[string]SourceInfo{}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// EnvVarName is the environment variable overriding key
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Settings lists every effective setting, sorted by key, with its source
func Settings() ([]SettingInfo, error) {
	v, err := initViper()
	if err != nil {
		return nil, err
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	out := make([]SettingInfo, 0, len(keys))
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[key]; ok {
			info = si
		}
		if env := EnvVarName(key); os.Getenv(env) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: env}
		}
		out = append(out, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return out, nil
}
