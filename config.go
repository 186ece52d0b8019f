package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// config is the optional per-project black.yml file. Flags take priority
// over anything set here.
type config struct {
	Output string `yaml:"output"`
	Static bool   `yaml:"static"`
	Qbe    string `yaml:"qbe"`
	Cc     string `yaml:"cc"`
}

func loadConfig() config {
	data, err := ioutil.ReadFile("black.yml")
	if err != nil {
		return config{}
	}

	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error reading black.yml: %s\n", err)
		os.Exit(1)
	}

	return cfg
}
