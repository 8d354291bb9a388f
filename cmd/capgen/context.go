package main

import (
	"strings"
	"sync"

	"capgen/internal/config"
)

type commandContext struct {
	configFlag  *string
	modelFlag   *modelValue
	logFileFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, modelFlag *modelValue, logFileFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		modelFlag:   modelFlag,
		logFileFlag: logFileFlag,
	}
}

// ensureConfig loads the configuration once and applies CLI flag overrides
// on top of it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.modelFlag != nil && c.modelFlag.set {
			cfg.Transcription.Model = c.modelFlag.value
		}
		if c.logFileFlag != nil && strings.TrimSpace(*c.logFileFlag) != "" {
			expanded, err := config.ExpandPath(*c.logFileFlag)
			if err != nil {
				c.configErr = err
				return
			}
			cfg.Logging.File = expanded
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
