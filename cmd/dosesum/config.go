package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

type destinationConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CalledAET  string `yaml:"called_aet"`
	CallingAET string `yaml:"calling_aet"`
}

type config struct {
	Report      string            `yaml:"report"`
	Ledger      string            `yaml:"ledger"`
	Destination destinationConfig `yaml:"destination"`
}

func defaultConfig() *config {
	return &config{
		Report: "dose_summary.csv",
	}
}

func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
