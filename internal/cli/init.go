package cli

import (
	"fmt"
	"os"

	"github.com/mesh-intelligence/csvtable/internal/paths"
	"github.com/mesh-intelligence/csvtable/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Delimiter string `yaml:"delimiter"`
	HasHeader bool   `yaml:"has_header"`
	Quoting   string `yaml:"quoting"`
	CRLF      bool   `yaml:"crlf"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Long:  "Create the configuration directory and write config.yaml with default\nsettings. An existing config.yaml is left alone.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	path := paths.ConfigFile(configDir)
	created, err := writeConfigIfMissing(path)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	if created {
		fmt.Fprintf(a.stdout, "Wrote %s\n", path)
	} else {
		fmt.Fprintf(a.stdout, "%s already exists\n", path)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether it wrote the file.
func writeConfigIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Delimiter: types.DefaultDelimiter,
		HasHeader: true,
		Quoting:   string(types.DefaultQuoting),
		LogLevel:  "info",
		LogFormat: "text",
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
