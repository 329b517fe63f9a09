package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/truthlens/newsroom/dlog"
)

// ConfigDir is where config.toml is looked up; defaults to the directory of the binary
var ConfigDir = func() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}()

// step1: load config from file
func LoadConfig_FromFile() {
	if ConfigDir == "" {
		return
	}
	var (
		tomlFile       = filepath.Join(ConfigDir, "config.toml")
		demoConfigFile = filepath.Join(ConfigDir, "config.demo.toml")
	)
	//return if success load config from file
	if _, err := toml.DecodeFile(tomlFile, &Cfg); err == nil {
		dlog.Info().Str("filename", tomlFile).Msg("LoadConfigFromFile success")
		return
	} else if !errors.Is(err, os.ErrNotExist) {
		//if toml file exist, but with bad format, then return
		dlog.Error().Err(err).Str("filename", tomlFile).Msg("LoadConfigFromFile failed, see example format in config.demo.toml")
		return
	}
	if err := WriteDemoConfig(demoConfigFile); err != nil {
		dlog.Error().Err(err).Str("filename", demoConfigFile).Msg("save demo toml config file failed")
	}
}

// WriteDemoConfig writes the defaults plus a sample redis server as an example config file
func WriteDemoConfig(filename string) error {
	demo := Default()
	demo.Redis = append(demo.Redis, &ConfigRedis{Name: "default", Username: "newsroom", Password: "yourpasswordhere", Host: "redis.local", Port: 6379, DB: 0})
	demo.Jwt.Secret = "change-me"
	writer, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer writer.Close()
	return toml.NewEncoder(writer).Encode(demo)
}
