package config

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/truthlens/newsroom/dlog"
)

type ConfigHttp struct {
	CORES string
	Port  int64 `env:"Port,default=3000"`
	// StaticDir holds the built single page app, served with index.html fallback
	StaticDir string `env:"StaticDir,default=dist"`
	//MaxBufferSize is the max size of a request body in bytes, default 10M
	MaxBufferSize int64 `env:"MaxBufferSize,default=10485760"`
}

// ConfigStore selects where documents live. Backend is one of memory, file, redis, sqlite, postgres
type ConfigStore struct {
	Backend string
	// Path is the json file for the file backend, or the database file for sqlite
	Path string
	// DSN is the postgres connection url
	DSN string
	// RedisName picks one of the configured redis servers for the redis backend
	RedisName string
	// Prefix is prepended to every key in redis
	Prefix string
}

type ConfigRedis struct {
	Name     string
	Username string `env:"Username"`
	Password string `env:"Password"`
	Host     string `env:"Host,required=true"`
	Port     int64  `env:"Port,required=true"`
	DB       int64  `env:"DB,required=true"`
}
type ConfigJWT struct {
	Secret string `env:"Secret"`
	// ExpireHours is the lifetime of admin tokens
	ExpireHours int64
}

// ConfigAdmin is the bootstrap account created when no admin user exists
type ConfigAdmin struct {
	Name     string
	Email    string
	Password string
}
type ConfigSettings struct {
	//{"DebugLevel": 0,"InfoLevel": 1,"WarnLevel": 2,"ErrorLevel": 3,"FatalLevel": 4,"PanicLevel": 5,"NoLevel": 6,"Disabled": 7	  }
	LogLevel int8
	// LogToRedis copies log lines to the default redis server
	LogToRedis bool
}

type Configuration struct {
	ConfigUrl string
	Http      ConfigHttp
	Store     ConfigStore
	Redis     []*ConfigRedis
	Jwt       ConfigJWT
	Admin     ConfigAdmin
	Settings  ConfigSettings
}

func hideCharsButLast4(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func (c Configuration) String() string {
	var (
		c1  Configuration
		buf bytes.Buffer
	)
	//use gob to deep copy, to prevent error modification of the original secret
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return "error: " + err.Error() + " when encoding config to gob string"
	}
	gob.NewDecoder(&buf).Decode(&c1)
	c1.Jwt.Secret = hideCharsButLast4(c1.Jwt.Secret)
	c1.Admin.Password = hideCharsButLast4(c1.Admin.Password)
	c1.Store.DSN = hideCharsButLast4(c1.Store.DSN)
	for _, rds := range c1.Redis {
		rds.Password = hideCharsButLast4(rds.Password)
	}
	jsonstr, _ := json.Marshal(c1)
	return string(jsonstr)
}

// Default returns the built in configuration, used before any file or env is applied
func Default() Configuration {
	return Configuration{
		ConfigUrl: "",
		Http:      ConfigHttp{CORES: "*", Port: 3000, StaticDir: "dist", MaxBufferSize: 10485760},
		Store:     ConfigStore{Backend: "file", Path: "data.json", Prefix: "newsroom:"},
		Redis:     []*ConfigRedis{},
		Jwt:       ConfigJWT{Secret: "", ExpireHours: 24 * 7},
		Admin:     ConfigAdmin{Name: "Administrator", Email: "admin@truthlens.com"},
		Settings:  ConfigSettings{LogLevel: 1},
	}
}

// set default values
var Cfg Configuration = Default()

var rds map[string]*redis.Client = map[string]*redis.Client{}

func GetRdsCount() int {
	return len(rds)
}
func GetRdsClientByName(name string) (rc *redis.Client, err error) {
	var ok bool
	if rc, ok = rds[name]; !ok {
		err = fmt.Errorf("redis client with name %s not defined in environment", name)
		return nil, err
	}
	return rc, nil
}

// Load applies config.toml, then the environment, then the remote config url, and connects redis servers.
// A malformed environment variable is logged and returned, nothing is connected then.
func Load() error {
	dlog.Info().Msg("Step1.0: App Start! load config")
	LoadConfig_FromFile()
	dlog.Info().Str("Step1.1.1 Current config after apply config.toml", Cfg.String()).Send()
	if err := LoadConfig_FromEnv(); err != nil {
		dlog.Error().Err(err).Msg("Step1.1.2 Load config from enviroment failed")
		return err
	}
	dlog.Info().Str("Step1.1.2 Current config after apply enviroment", Cfg.String()).Send()
	//warning local config will be overwritten by the config from web
	LoadConfig_FromWeb()
	dlog.Info().Str("Step1.1.3 Current config after apply web config toml", Cfg.String()).Send()

	dlog.SetLevel(Cfg.Settings.LogLevel)
	if len(Cfg.Jwt.Secret) == 0 {
		dlog.Warn().Msg("Step1.1.4 Jwt.Secret is empty, a random secret is used and admin tokens will not survive a restart")
	}
	ConnectRedis()
	if rc, ok := rds["default"]; ok && Cfg.Settings.LogToRedis {
		dlog.RdsClientToLog = rc
	}
	dlog.Info().Msg("Step1.E: App config loaded done")
	return nil
}

func ConnectRedis() {
	dlog.Info().Str("Step1.2 Checking Redis", "Start").Send()
	for _, rdsCfg := range Cfg.Redis {
		redisOption := &redis.Options{
			Addr:         rdsCfg.Host + ":" + strconv.Itoa(int(rdsCfg.Port)),
			Username:     rdsCfg.Username,
			Password:     rdsCfg.Password,
			DB:           int(rdsCfg.DB),
			PoolSize:     50,
			DialTimeout:  time.Second * 10,
			ReadTimeout:  time.Second * 30,
			WriteTimeout: time.Second * 30,
		}
		rdsClient := redis.NewClient(redisOption)
		if _, err := rdsClient.Ping(context.Background()).Result(); err != nil {
			dlog.Error().Err(err).Any("Step1.3 Redis server ping error", rdsCfg.Host).Send()
			continue
		}
		dlog.Info().Str("Step1.3 Redis Load ", "Success").Any("RedisUsername", rdsCfg.Username).Any("RedisHost", rdsCfg.Host).Any("RedisPort", rdsCfg.Port).Send()
		rds[rdsCfg.Name] = rdsClient
		pingServer(rdsCfg.Host)
	}
}

// SetRdsClient registers an already connected client, i.g. one created by a test
func SetRdsClient(name string, rc *redis.Client) {
	rds[name] = rc
}
