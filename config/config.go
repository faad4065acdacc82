package config

import (
	"github.com/ethrahere/curatoor/core"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("CURATOOR")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	loadLegacyEnv(config)
	defaultConfig(config)
	return nil
}
