package generation

import "fmt"

// ConfigurationError reports a setting the live backend needs but does not have.
// It is returned on first use, not at construction.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is not configured", e.Setting)
}
