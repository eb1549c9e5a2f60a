package stats

import (
	"github.com/hectorgimenez/d2go/pkg/data/stat"
	"github.com/hectorgimenez/lootlens/internal/game"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
)

// negativeValueStats are stored positive but lower the target's value.
var negativeValueStats = map[stat.ID]struct{}{
	stat.EnemyFireResist:      {},
	stat.EnemyLightningResist: {},
	stat.EnemyColdResist:      {},
	stat.EnemyPoisonResist:    {},
	stat.TargetDefense:        {},
}

// Reader answers stat questions about item snapshots using the game tables.
// It holds no mutable state and is safe for concurrent use.
type Reader struct {
	tables *gamedata.Tables
}

func NewReader(tables *gamedata.Tables) *Reader {
	return &Reader{tables: tables}
}

func (r *Reader) Tables() *gamedata.Tables {
	return r.tables
}

// Adjusted decodes a raw stat value: shift by ValShift, scale per-level stats
// by the player level and optionally flip the sign of negative-valued stats.
func (r *Reader) Adjusted(id stat.ID, value, playerLevel int, adjustNegative bool) (float64, error) {
	meta, err := r.tables.Stats.Lookup(id)
	if err != nil {
		return 0, err
	}

	adjusted := float64(value >> meta.ValShift)

	if divisor, found := r.tables.Divisors.Divisor(id); found {
		adjusted = adjusted / float64(divisor) * float64(playerLevel)
	}

	if _, negative := negativeValueStats[id]; adjustNegative && negative {
		adjusted *= -1
	}

	return adjusted, nil
}

// ResolveStat returns the item's adjusted value for a stat, truncated to int.
func (r *Reader) ResolveStat(it game.Item, id stat.ID, playerLevel int, adjustSign bool) (int, error) {
	v, err := r.Adjusted(id, it.StatValue(id), playerLevel, adjustSign)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
