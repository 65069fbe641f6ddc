package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/csvtable/internal/paths"
	"github.com/mesh-intelligence/csvtable/pkg/types"
	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	envPrefix = "CSVTABLE"

	cfgKeyDelimiter = "delimiter"
	cfgKeyHasHeader = "has_header"
	cfgKeyQuoting   = "quoting"
	cfgKeyCRLF      = "crlf"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
)

// boundFlags maps config keys to the persistent flags that override them.
// has_header is set by hand from --no-header, which inverts it.
var boundFlags = map[string]string{
	cfgKeyDelimiter: "delimiter",
	cfgKeyQuoting:   "quoting",
	cfgKeyCRLF:      "crlf",
	cfgKeyLogLevel:  "log-level",
	cfgKeyLogFormat: "log-format",
}

// loadConfig layers config.yaml from configDir and CSVTABLE_* environment
// variables under the flags already bound to v. Precedence is flag > env >
// file > default. A missing config.yaml is not an error.
func loadConfig(v *viper.Viper, configDir string) error {
	v.SetDefault(cfgKeyDelimiter, types.DefaultDelimiter)
	v.SetDefault(cfgKeyHasHeader, true)
	v.SetDefault(cfgKeyQuoting, string(types.DefaultQuoting))
	v.SetDefault(cfgKeyCRLF, false)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", paths.ConfigFile(configDir), err)
	}
	return nil
}

// tableConfig builds the table settings from the layered configuration.
func tableConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.Config{
		Delimiter: v.GetString(cfgKeyDelimiter),
		HasHeader: v.GetBool(cfgKeyHasHeader),
		Quoting:   types.Quoting(strings.ToLower(v.GetString(cfgKeyQuoting))),
		CRLF:      v.GetBool(cfgKeyCRLF),
	}
	if cfg.Delimiter == `\t` || strings.EqualFold(cfg.Delimiter, "tab") {
		cfg.Delimiter = "\t"
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
