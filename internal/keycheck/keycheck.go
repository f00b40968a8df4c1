// Package keycheck inspects a provider API key before it is used and
// produces a human-readable diagnostic. A bad key is reported, not fatal:
// the provider call that follows will fail with its own error.
package keycheck

import "strings"

// DefaultPrefix is the prefix expected when none is configured.
const DefaultPrefix = "sk-proj-"

// Status classifies a key.
type Status int

const (
	StatusOK Status = iota
	StatusMissing
	StatusWhitespace
	StatusWrongPrefix
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusWhitespace:
		return "whitespace"
	case StatusWrongPrefix:
		return "wrong-prefix"
	default:
		return "unknown"
	}
}

// Diagnostic is the outcome of Check.
type Diagnostic struct {
	Status  Status
	Message string
}

// OK reports whether the key passed every check.
func (d Diagnostic) OK() bool { return d.Status == StatusOK }

// Check validates key against the expected prefix. Whitespace is checked
// before the prefix so a padded key is reported as such.
func Check(key, prefix string) Diagnostic {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	switch {
	case key == "":
		return Diagnostic{StatusMissing, "No API key was found - set LLM_API_KEY in the environment or in a .env file"}
	case strings.TrimSpace(key) != key:
		return Diagnostic{StatusWhitespace, "An API key was found, but it looks like it might have space or tab characters at the start or end - please remove them"}
	case !strings.HasPrefix(key, prefix):
		return Diagnostic{StatusWrongPrefix, "An API key was found, but it doesn't start " + prefix + "; please check you're using the right key"}
	default:
		return Diagnostic{StatusOK, "API key found and looks good so far!"}
	}
}
