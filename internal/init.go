package internal

// Init loads configuration from configFile and initializes the global logger
// from it. Debug mode forces the debug level.
func Init(configFile string) (*Config, *Logger, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return nil, GetLogger(), err
	}

	level, err := ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, GetLogger(), err
	}
	if cfg.Debug {
		level = LogLevelDebug
	}

	if err := InitGlobalLogger(cfg.Log.Dir, level, AllComponents); err != nil {
		// If logger initialization fails, use the default logger
		logger := GetLogger()
		logger.Error(ComponentGeneral, "Error initializing logger: %v", err)
	}

	logger := GetLogger()
	logger.SetLevel(level)
	if used := cfg.FileUsed(); used != "" {
		logger.Debug(ComponentConfig, "Using config file: %s", used)
	}

	return cfg, logger, nil
}
