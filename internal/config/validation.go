package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

// Validate reports configuration errors that must stop the run before any file
// is processed.
func (o *Options) Validate() error {
	if len(o.Patterns) == 0 {
		return ferrors.ConfigError("at least one source pattern is required").Build()
	}
	if strings.TrimSpace(o.Output) == "" {
		return ferrors.ConfigError("must provide output folder").Build()
	}
	if strings.TrimSpace(o.Root) == "" {
		return ferrors.ConfigError("root path not provided and could not be derived from input glob").
			WithContext("pattern", o.Patterns[0]).Build()
	}
	if _, err := ParseLogLevel(string(o.Logging.Level)); err != nil {
		return err
	}
	if _, err := ParseLogFormat(string(o.Logging.Format)); err != nil {
		return err
	}
	if o.RescanInterval < 0 {
		return ferrors.ConfigError("rescan interval must not be negative").
			WithContext("rescan_interval", o.RescanInterval.String()).Build()
	}
	if o.RescanInterval > 0 && !o.Watch {
		return ferrors.ConfigError("rescan interval requires watch mode").Build()
	}
	if o.Metrics.Addr != "" && !strings.HasPrefix(o.Metrics.Path, "/") {
		return ferrors.ConfigError("metrics path must start with /").
			WithContext("path", o.Metrics.Path).Build()
	}
	return nil
}
