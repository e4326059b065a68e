package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config locates the trivia backend. Values come from a YAML file with flag
// overrides on top.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
		TLS  bool   `yaml:"tls"`
	} `yaml:"server"`
}

// Default is the local development backend.
func Default() Config {
	cfg := Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8080"
	return cfg
}

// Load reads YAML config from path. A missing file falls back to defaults;
// a present but malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == "" && !cfg.Server.TLS {
		cfg.Server.Port = "8080"
	}
	return cfg, nil
}
