package am

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/logger"
)

// WritablePath is the file `am set` writes: the --config file when given,
// otherwise the user config file
func WritablePath() string {
	if explicitFile != "" {
		return explicitFile
	}
	return UserConfigPath()
}

// SetValue persists one key into the writable config file. The raw value is
// converted to the type of the key's default, and the resulting configuration
// must validate before anything is written. Returns the file written.
func SetValue(key, raw string) (string, error) {
	defaults := viper.New()
	SetDefaults(defaults)
	if !isKnownKey(defaults, key) {
		return "", errors.NewInvalidRequestError("unknown config key %q", key)
	}

	typed, err := coerce(defaults.Get(key), raw)
	if err != nil {
		return "", errors.Wrapf(err, "value for %s", key)
	}

	configPath := WritablePath()
	config, err := readTOMLMap(configPath)
	if err != nil {
		return "", err
	}
	setNested(config, strings.Split(key, "."), typed)

	data, err := toml.Marshal(config)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal config")
	}
	if err := validateTOML(data); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return "", errors.WrapIO(err, "create config directory")
	}
	if err := createBackup(configPath); err != nil {
		return "", errors.Wrap(err, "failed to create backup")
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return "", errors.WrapIO(err, "write %s", configPath)
	}

	Reset()
	return configPath, nil
}

func isKnownKey(v *viper.Viper, key string) bool {
	for _, k := range v.AllKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func coerce(def interface{}, raw string) (interface{}, error) {
	switch def.(type) {
	case bool:
		return strconv.ParseBool(raw)
	case int:
		return strconv.Atoi(raw)
	}
	return raw, nil
}

func readTOMLMap(path string) (map[string]interface{}, error) {
	config := make(map[string]interface{})
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, errors.WrapIO(err, "read %s", path)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, errors.WrapConfig(err, "failed to parse "+path)
	}
	return config, nil
}

func setNested(m map[string]interface{}, path []string, val interface{}) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = val
}

func validateTOML(data []byte) error {
	v := viper.New()
	v.SetConfigType("toml")
	SetDefaults(v)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return errors.WrapConfig(err, "invalid config")
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldPath, back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, 0o644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
