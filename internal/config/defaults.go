package config

import (
	"git.home.luguber.info/inful/graphql2js/internal/notify"
	"git.home.luguber.info/inful/graphql2js/internal/pathresolve"
	"git.home.luguber.info/inful/graphql2js/internal/sources"
)

const (
	// DefaultOutput is used when no output folder is configured.
	DefaultOutput      = "./bin"
	DefaultMetricsPath = "/metrics"
)

// ApplyDefaults fills unset options. An empty root is derived from the static
// prefix of the first pattern.
func (o *Options) ApplyDefaults() {
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Root == "" && len(o.Patterns) > 0 {
		o.Root = sources.StaticBase(o.Patterns[0])
	}
	if o.Marker == "" {
		o.Marker = pathresolve.DefaultMarker
	}
	if o.Logging.Level == "" {
		o.Logging.Level = LogLevelInfo
		if o.Verbose {
			o.Logging.Level = LogLevelDebug
		}
	}
	if o.Logging.Format == "" {
		o.Logging.Format = LogFormatText
	}
	if o.Metrics.Path == "" {
		o.Metrics.Path = DefaultMetricsPath
	}
	if o.Notify.NATSURL != "" && o.Notify.Subject == "" {
		o.Notify.Subject = notify.DefaultSubject
	}
}
