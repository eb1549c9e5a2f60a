package gamedata

import "errors"

var (
	// ErrInvalidStat is returned when a stat id has no ItemStatCost row.
	ErrInvalidStat = errors.New("invalid stat")
	// ErrMissingLocalization marks a string key absent from the localization table.
	ErrMissingLocalization = errors.New("missing localization")
)
