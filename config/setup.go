package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Setup reads the yaml settings file into ExtConfig.
func Setup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	var cfg Extend
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.Application.Host == "" {
		cfg.Application.Host = "0.0.0.0"
	}
	if cfg.Application.Port == 0 {
		cfg.Application.Port = 8000
	}
	if cfg.Mongodb.ReviewDB == "" {
		cfg.Mongodb.ReviewDB = "mtreview"
	}
	if cfg.JWT.Timeout == 0 {
		cfg.JWT.Timeout = 3600
	}
	ExtConfig = cfg
	return nil
}
