package config

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/truthlens/newsroom/dlog"
)

// LoadConfig_FromWeb downloads a toml config from CONFIG_URL (or Cfg.ConfigUrl), caches it as config.toml and applies it
func LoadConfig_FromWeb() {
	var (
		resp      *http.Response
		configUrl string
		err       error
		_Cfg      Configuration = Default()
	)
	if configUrl = os.Getenv("CONFIG_URL"); configUrl == "" {
		configUrl = Cfg.ConfigUrl
	}
	if !strings.HasPrefix(strings.ToLower(configUrl), "http") {
		return
	}

	httpClient := &http.Client{Timeout: time.Second * 6}
	if resp, err = httpClient.Get(configUrl); err != nil {
		dlog.Error().Err(err).Str("Url", configUrl).Msg("LoadConfig_FromWeb failed")
		return
	}
	defer resp.Body.Close()
	if _, err = toml.NewDecoder(resp.Body).Decode(&_Cfg); err != nil {
		dlog.Error().Err(err).Str("Url", configUrl).Msg("LoadConfig_FromWeb failed")
		return
	}

	if ConfigDir != "" {
		localConfigFile := filepath.Join(ConfigDir, "config.toml")
		if writer, err := os.OpenFile(localConfigFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644); err != nil {
			dlog.Error().Err(err).Str("Url", configUrl).Msg("LoadConfig_FromWeb unable to open config.toml")
		} else {
			if err = toml.NewEncoder(writer).Encode(_Cfg); err != nil {
				dlog.Error().Err(err).Str("Url", configUrl).Msg("LoadConfig_FromWeb unable to save to toml file")
			}
			writer.Close()
		}
	}

	//restore the configUrl, to prevent url drift, which is hard to trace
	_Cfg.ConfigUrl = configUrl
	Cfg = _Cfg
}
