// Package ranking scores, explains and orders candidates against job vacancies.
package ranking

import "fmt"

// ConfigError represents an invalid ranking configuration (weights, options or
// scoring constants). It is always returned before any candidate is scored.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config error: %s", e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
