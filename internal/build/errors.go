package build

import "errors"

// Sentinel errors for conditions callers may want to match with errors.Is.
// They are always wrapped in a classified error carrying the offending paths.
var (
	ErrOutputCollision = errors.New("graphql2js: output path collision")
	ErrSourceNotFile   = errors.New("graphql2js: source is not a regular file")
)
