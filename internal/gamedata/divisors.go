package gamedata

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hectorgimenez/d2go/pkg/data/stat"
)

// Divisors maps per-level stats to the divisor applied before scaling by level.
type Divisors map[stat.ID]int

// Divisor returns the per-level divisor for id, if any.
func (d Divisors) Divisor(id stat.ID) (int, bool) {
	div, found := d[id]
	return div, found
}

// ParseDivisors reads Properties.txt and keeps the properties whose parameter
// text describes a per-level value ("#/8 per Level", "ac/lvl (8ths)").
// Properties pointing to stats unknown to the stat table are ignored.
func ParseDivisors(r io.Reader, stats *StatTable) (Divisors, error) {
	records, err := readTSV(r)
	if err != nil {
		return nil, fmt.Errorf("properties: %w", err)
	}

	divisors := make(Divisors)
	for idx, rec := range records {
		div, err := parsePerLevelParameter(rec.str("*Parameter"))
		if err != nil {
			return nil, fmt.Errorf("properties row %d (%s): %w", idx, rec.str("code"), err)
		}
		if div == 0 {
			continue
		}

		id, found := stats.byExactName(rec.str("stat1"))
		if !found {
			continue
		}
		if _, dup := divisors[id]; !dup {
			divisors[id] = div
		}
	}

	return divisors, nil
}

func parsePerLevelParameter(text string) (int, error) {
	switch {
	case strings.HasSuffix(text, " per Level"):
		text = strings.ReplaceAll(text, "#/", "")
		text = strings.ReplaceAll(text, " per Level", "")
	case strings.HasPrefix(text, "ac/lvl "):
		text = strings.ReplaceAll(text, "ac/lvl (", "")
		text = strings.ReplaceAll(text, "ths)", "")
	default:
		return 0, nil
	}

	return strconv.Atoi(strings.TrimSpace(text))
}
