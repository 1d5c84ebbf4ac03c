// Package config loads the YAML configuration file and publishes each
// top-level section as a retained message on config/<section>. Services
// pick their own section up from the bus and never touch the file.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"spbm-go/bus"
)

const (
	serviceName  = "config"
	configPrefix = "config"
)

// DefaultPath is where the daemon looks without an explicit -config.
const DefaultPath = "/etc/spbm/config.yaml"

type Service struct {
	Name string
	Path string // empty => defaults only
}

func NewService(path string) *Service {
	return &Service{Name: serviceName, Path: path}
}

// Load parses the file at Path, overlaying the built-in defaults. A
// missing file is not an error: the defaults stand alone.
func (s *Service) Load() (map[string]any, error) {
	sections := defaultSections()

	if s.Path == "" {
		return sections, nil
	}
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return sections, nil
	}
	if err != nil {
		return nil, err
	}

	var fileSections map[string]any
	if err := yaml.Unmarshal(raw, &fileSections); err != nil {
		return nil, err
	}
	for k, v := range fileSections {
		sections[k] = v
	}
	return sections, nil
}

// Publish sends every section as a retained message.
func (s *Service) Publish(conn *bus.Connection) error {
	sections, err := s.Load()
	if err != nil {
		return err
	}
	for k, v := range sections {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
	return nil
}
