package internal

import (
	"os"
	"path/filepath"
)

var (
	DefaultAppName          = "gallery"
	DefaultAppCMDShortCut   = "gal"
	DefaultEnvPrefix        = "GALLERY"
	DefaultConfigFolderName = DefaultAppName
	DefaultConfigPath       = filepath.Join(os.Getenv("HOME"), ".config", DefaultConfigFolderName)
	DefaultConfigName       = "config"
	DefaultGlobalConfigFile = filepath.Join(DefaultConfigPath, DefaultConfigName+".yaml")
	DefaultCacheDBPath      = filepath.Join(DefaultConfigPath, "cache.db")
)
