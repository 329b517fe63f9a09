package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadConfig_FromEnv applies HTTP, STORE, JWT, ADMIN json objects, REDIS_<name> objects, PORT and LogLevel.
// A malformed variable is reported but does not stop the others from being applied.
func LoadConfig_FromEnv() (err error) {
	var (
		envMap = map[string]string{}
		errs   []error
	)

	for _, env := range os.Environ() {
		kvs := strings.SplitN(env, "=", 2)
		if len(kvs) == 2 && len(kvs[0]) > 0 && len(kvs[1]) > 0 {
			envMap[kvs[0]] = kvs[1]
		}
	}
	//load redis items
	for key, val := range envMap {
		var rdsCfg = &ConfigRedis{}
		//if it is not in the format of REDIS_*, then skip
		if !strings.HasPrefix(key, "REDIS_") || len(key) <= 6 {
			continue
		}
		if val = strings.TrimSpace(val); len(val) < 2 || val[0] != '{' || val[len(val)-1] != '}' {
			continue
		}
		if err := json.Unmarshal([]byte(val), rdsCfg); err != nil {
			correctFormat := "{Username,Password,Host,Port,DB}"
			errs = append(errs, fmt.Errorf("Step1.1.2 Load Env/%s failed, correct format: %s: %w", key, correctFormat, err))
			continue
		}
		//read redis name from env key
		rdsCfg.Name = key[6:]
		Cfg.Redis = upsertRedis(Cfg.Redis, rdsCfg)
	}

	sections := []struct {
		name string
		dst  interface{}
	}{
		{"HTTP", &Cfg.Http},
		{"STORE", &Cfg.Store},
		{"JWT", &Cfg.Jwt},
		{"ADMIN", &Cfg.Admin},
	}
	for _, s := range sections {
		if env, ok := envMap[s.name]; ok && len(env) > 0 {
			if err := json.Unmarshal([]byte(env), s.dst); err != nil {
				errs = append(errs, fmt.Errorf("Step1.1.2 Load Env/%s failed: %w", s.name, err))
			}
		}
	}

	// PORT is honoured the same way the static server always did
	if portEnv, ok := envMap["PORT"]; ok {
		if port, err := strconv.ParseInt(portEnv, 10, 64); err == nil && port > 0 {
			Cfg.Http.Port = port
		} else {
			errs = append(errs, fmt.Errorf("Step1.1.2 Load Env/PORT failed: %q is not a port", portEnv))
		}
	}
	if logLevelEnv, ok := envMap["LogLevel"]; ok && len(logLevelEnv) > 0 {
		if logLevel, err := strconv.ParseInt(logLevelEnv, 10, 8); err == nil {
			Cfg.Settings.LogLevel = int8(logLevel)
		} else {
			errs = append(errs, fmt.Errorf("Step1.1.2 Load Env/LogLevel failed: %w", err))
		}
	}
	return errors.Join(errs...)
}

func upsertRedis(list []*ConfigRedis, item *ConfigRedis) []*ConfigRedis {
	for i, it := range list {
		if it.Name == item.Name {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}
