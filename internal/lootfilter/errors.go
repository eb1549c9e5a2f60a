package lootfilter

import (
	"errors"
	"fmt"
)

var ErrConfiguration = errors.New("invalid loot filter configuration")

// ConfigError points at the offending entry of a loot filter file.
// Rule is the zero based rule index under Item, -1 for item level errors.
type ConfigError struct {
	Item string
	Rule int
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	where := e.Item
	if e.Rule >= 0 {
		where = fmt.Sprintf("%s rule #%d", e.Item, e.Rule+1)
	}
	if e.Key != "" {
		where = fmt.Sprintf("%s, key %q", where, e.Key)
	}
	return fmt.Sprintf("%s: %s: %v", ErrConfiguration, where, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
