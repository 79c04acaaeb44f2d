// Package config holds the graphql2js run options and loads them from flags,
// environment and an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

// Options is the complete configuration of one graphql2js invocation.
type Options struct {
	// Patterns are the source glob patterns.
	Patterns []string `yaml:"patterns"`
	Watch    bool     `yaml:"watch"`
	// Output is a directory or a {projectRoot}-prefixed template.
	Output string `yaml:"output"`
	// Root is the directory sources are made relative to; derived from the first
	// pattern when empty.
	Root             string        `yaml:"root"`
	EmitDeclarations bool          `yaml:"emit_declarations"`
	Verbose          bool          `yaml:"verbose"`
	Marker           string        `yaml:"marker"`
	RescanInterval   time.Duration `yaml:"rescan_interval"`

	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Notify  NotifyConfig  `yaml:"notify"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus endpoint in watch mode.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

// NotifyConfig enables NATS change notifications.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// LoadFile reads a YAML options file. Environment variables in the file are
// expanded; unknown keys are rejected.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration file").
			WithContext("path", path).Fatal().Build()
	}
	return Parse([]byte(os.ExpandEnv(string(data))), path)
}

// Parse decodes YAML options. source is only used in error context.
func Parse(data []byte, source string) (*Options, error) {
	var opts Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse configuration file").
			WithContext("path", source).Fatal().Build()
	}
	return &opts, nil
}

// Overlay copies every non-zero field of other onto o and returns o. Flags
// overlay the file, so an explicit flag always wins.
func (o *Options) Overlay(other *Options) *Options {
	if other == nil {
		return o
	}
	if len(other.Patterns) > 0 {
		o.Patterns = other.Patterns
	}
	o.Watch = o.Watch || other.Watch
	o.EmitDeclarations = o.EmitDeclarations || other.EmitDeclarations
	o.Verbose = o.Verbose || other.Verbose
	overlayString(&o.Output, other.Output)
	overlayString(&o.Root, other.Root)
	overlayString(&o.Marker, other.Marker)
	if other.RescanInterval != 0 {
		o.RescanInterval = other.RescanInterval
	}
	if other.Logging.Level != "" {
		o.Logging.Level = other.Logging.Level
	}
	if other.Logging.Format != "" {
		o.Logging.Format = other.Logging.Format
	}
	overlayString(&o.Metrics.Addr, other.Metrics.Addr)
	overlayString(&o.Metrics.Path, other.Metrics.Path)
	overlayString(&o.Notify.NATSURL, other.Notify.NATSURL)
	overlayString(&o.Notify.Subject, other.Notify.Subject)
	return o
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
