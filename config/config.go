/*
Package config loads the settings of the grove command from defaults,
an optional configuration file, GROVE_ prefixed environment variables
and command line flags, each overriding the previous ones.
*/
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read as settings
const EnvPrefix = "GROVE"

// Config holds every setting of the grove command
type Config struct {
	Log        Log        `mapstructure:"log"`
	Forest     Forest     `mapstructure:"forest"`
	Experiment Experiment `mapstructure:"experiment"`
	Redis      Redis      `mapstructure:"redis"`
	Server     Server     `mapstructure:"server"`
}

// Log configures the logger
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Forest configures forest training
type Forest struct {
	Trees   int   `mapstructure:"trees"`
	Workers int   `mapstructure:"workers"`
	Seed    int64 `mapstructure:"seed"`
}

// Experiment configures learning curves and comparisons
type Experiment struct {
	Iterations   int    `mapstructure:"iterations"`
	Repeats      int    `mapstructure:"repeats"`
	MinTrainSize int    `mapstructure:"min_train_size"`
	MaxTrainSize int    `mapstructure:"max_train_size"`
	Step         int    `mapstructure:"step"`
	Trees        int    `mapstructure:"trees"`
	Workers      int    `mapstructure:"workers"`
	Seed         int64  `mapstructure:"seed"`
	DefaultLabel string `mapstructure:"default_label"`
}

// Redis configures the shared experiment queue
type Redis struct {
	Addr       string        `mapstructure:"addr"`
	DB         int           `mapstructure:"db"`
	Password   string        `mapstructure:"password"`
	Queue      string        `mapstructure:"queue"`
	TaskMaxRun time.Duration `mapstructure:"task_max_run"`
	LockTTL    time.Duration `mapstructure:"lock_ttl"`
}

// Server configures the HTTP service
type Server struct {
	Addr string `mapstructure:"addr"`
}

var defaults = map[string]interface{}{
	"log.level":                 "info",
	"log.format":                "text",
	"forest.trees":              50,
	"forest.workers":            0,
	"forest.seed":               0,
	"experiment.iterations":     500,
	"experiment.repeats":        100,
	"experiment.min_train_size": 10,
	"experiment.max_train_size": 300,
	"experiment.step":           2,
	"experiment.trees":          50,
	"experiment.workers":        0,
	"experiment.seed":           0,
	"experiment.default_label":  "",
	"redis.addr":                "localhost:6379",
	"redis.db":                  0,
	"redis.password":            "",
	"redis.queue":               "grove",
	"redis.task_max_run":        "10m",
	"redis.lock_ttl":            "5s",
	"server.addr":               ":8080",
}

/*
Load takes the path to a configuration file, which may be empty, and
the command line flags bound to setting keys, and returns the
resulting configuration. Only flags that were set on the command line
override other sources.
*/
func Load(path string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading configuration from %s: %v", path, err)
		}
	}
	for k, f := range flags {
		if f == nil {
			continue
		}
		if err := v.BindPFlag(k, f); err != nil {
			return nil, fmt.Errorf("binding flag %s to %s: %v", f.Name, k, err)
		}
	}
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decoding configuration: %v", err)
	}
	return c, nil
}

/*
NewLogger returns a logrus logger writing to w with the level and
format of the configuration.
*/
func (l Log) NewLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %v", err)
	}
	logger := logrus.New()
	logger.SetLevel(level)
	if w == nil {
		w = os.Stderr
	}
	logger.SetOutput(w)
	switch l.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", l.Format)
	}
	return logger, nil
}
