package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	cmdDir    = "cmd"
	configDir = "configs"

	appEnvKey  = "APP_ENV"
	defaultEnv = "tst001"
)

// GetAppEnv reads the deployment environment name from $APP_ENV, falling
// back to defaultEnv when it's unset.
func GetAppEnv() (string, error) {
	env := os.Getenv(appEnvKey)
	if env == "" {
		return defaultEnv, nil
	}
	return env, nil
}

// Read loads cfg from $APP_ENV's YAML file plus environment variable
// overrides, looking for the configs/ directory as a sibling of the
// caller's cmd/ directory.
func Read(cfg any) {
	appEnv, err := GetAppEnv()
	if err != nil {
		log.Fatalf("get appEnv error: %s \n", err)
		return
	}
	if err := read(cfg, appEnv, getConfigDirPath(2)); err != nil {
		log.Fatalf("get config error: %s \n", err)
		return
	}
}

// ReadWithConfigDirPath is Read, pointed at an explicit config directory
// instead of deriving one from the caller's location.
func ReadWithConfigDirPath(cfg any, cfgDirPath string) {
	appEnv, err := GetAppEnv()
	if err != nil {
		log.Fatalf("get appEnv error: %s \n", err)
		return
	}
	if err := read(cfg, appEnv, cfgDirPath); err != nil {
		log.Fatalf("get config error: %s \n", err)
		return
	}
}

func read(cfg any, cfgName string, cfgDirPath string) error {
	v := viper.New()
	v.AutomaticEnv()

	v.SetConfigName(cfgName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cfgDirPath)

	if err := v.ReadInConfig(); err != nil {
		return errors.Errorf("read cfg error: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return errors.Errorf("parse cfg error: %w", err)
	}
	return nil
}

// getConfigDirPath locates the configs/ directory as a sibling of the
// caller's cmd/ directory (readable cross-platform via filepath.ToSlash).
func getConfigDirPath(skip int) string {
	_, file, _, _ := runtime.Caller(skip)
	dirList := strings.Split(filepath.ToSlash(filepath.Dir(file)), "/")
	dirPath := "./"

	for i, dir := range dirList {
		if dir == cmdDir {
			dirPath = filepath.Join(configDir, filepath.Join(dirList[i+1:]...))
			break
		}
	}
	return dirPath
}
