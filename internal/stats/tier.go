package stats

import (
	"github.com/hectorgimenez/d2go/pkg/data/item"
	"github.com/hectorgimenez/lootlens/internal/game"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
)

// ItemTier ranks an item within its class: normal, exceptional or elite.
type ItemTier int

const (
	TierNotApplicable ItemTier = -1
	TierNormal        ItemTier = 0
	TierExceptional   ItemTier = 1
	TierElite         ItemTier = 2
)

func (t ItemTier) String() string {
	switch t {
	case TierNormal:
		return "Normal"
	case TierExceptional:
		return "Exceptional"
	case TierElite:
		return "Elite"
	default:
		return "NotApplicable"
	}
}

// ClassifyTier splits each item class in three equal parts. The integer
// division is kept as the game data relies on it, even for class sizes not
// divisible by three.
func (r *Reader) ClassifyTier(name item.Name) ItemTier {
	class, idx, found := r.tables.Catalog.ClassOf(name)
	if !found || class.Name == gamedata.ClassCirclets {
		return TierNotApplicable
	}

	return ItemTier(idx * 3 / len(class.Items))
}

func (r *Reader) ItemTier(it game.Item) ItemTier {
	return r.ClassifyTier(it.Name)
}

// QualityLevel returns the item's qlvl. Uniques and set items use their own
// qlvl when the catalog knows them, otherwise the base item's.
func (r *Reader) QualityLevel(it game.Item) (int, bool) {
	key := string(it.Name)
	switch {
	case it.Quality == item.QualityUnique && it.UniqueName != "":
		if _, found := r.tables.Catalog.QualityLevel(it.UniqueName); found {
			key = it.UniqueName
		}
	case it.Quality == item.QualitySet && it.SetName != "":
		if _, found := r.tables.Catalog.QualityLevel(it.SetName); found {
			key = it.SetName
		}
	}

	return r.tables.Catalog.QualityLevel(key)
}
