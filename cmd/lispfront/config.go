package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/xiam/lispfront"
)

// flag names
const (
	configFlagName   = "config"
	maxDepthFlagName = "max-depth"
	logLevelFlagName = "log-level"
)

// Config holds the settings that can be read from a YAML file. Command line
// flags take precedence over the file.
type Config struct {
	MaxDepth int    `yaml:"max_depth"`
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the settings used when neither a file nor flags say
// otherwise.
func DefaultConfig() Config {
	return Config{
		MaxDepth: 0,
		LogLevel: logrus.WarnLevel.String(),
	}
}

// AsCliFlags returns the global flags of the command.
func AsCliFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  configFlagName,
			Usage: "YAML file with max_depth and log_level settings",
		},
		&cli.IntFlag{
			Name:  maxDepthFlagName,
			Usage: fmt.Sprintf("maximum nesting of forms, 0 means %d and negative values disable the limit", lispfront.DefaultMaxDepth),
		},
		&cli.StringFlag{
			Name:  logLevelFlagName,
			Usage: "one of panic, fatal, error, warning, info, debug or trace",
		},
	}
}

// LoadConfig reads filename on top of the default settings. Unknown keys are
// rejected.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	buf, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrap(err, "failed to read config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		// an empty document leaves the defaults in place
		if errors.Is(err, io.EOF) {
			return config, nil
		}
		return config, errors.Wrapf(err, "failed to decode %s", filename)
	}

	return config, nil
}

// configFromContext merges the config file, if any, with the flags that were
// set explicitly.
func configFromContext(ctx *cli.Context) (Config, error) {
	config := DefaultConfig()

	if filename := ctx.String(configFlagName); filename != "" {
		var err error
		if config, err = LoadConfig(filename); err != nil {
			return config, err
		}
	}

	if ctx.IsSet(maxDepthFlagName) {
		config.MaxDepth = ctx.Int(maxDepthFlagName)
	}
	if ctx.IsSet(logLevelFlagName) {
		config.LogLevel = ctx.String(logLevelFlagName)
	}

	return config, nil
}

// Options translates the settings into pipeline options logging to logger.
func (c Config) Options(logger *logrus.Logger) (lispfront.Options, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return lispfront.Options{}, errors.Wrap(err, "invalid log level")
	}
	logger.SetLevel(level)

	return lispfront.Options{
		MaxDepth: c.MaxDepth,
		Logger:   logger,
	}, nil
}
