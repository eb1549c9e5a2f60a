package stats

import (
	"slices"

	"github.com/hectorgimenez/d2go/pkg/data"
	"github.com/hectorgimenez/d2go/pkg/data/skill"
	"github.com/hectorgimenez/d2go/pkg/data/stat"
	"github.com/hectorgimenez/lootlens/internal/game"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
)

var (
	resistStats    = []stat.ID{stat.FireResist, stat.LightningResist, stat.ColdResist, stat.PoisonResist}
	attributeStats = []stat.ID{stat.Strength, stat.Dexterity, stat.Vitality, stat.Energy}
	// skill level stats in lookup order; only SingleSkill benefits from tree bonuses.
	singleSkillStats = []stat.ID{stat.SingleSkill, stat.NonClassSkill}
)

func ownValues(it game.Item, ids []stat.ID) []int {
	values := make([]int, len(ids))
	for i, id := range ids {
		values[i], _ = it.OwnStat(id)
	}
	return values
}

// AllResists returns the lowest of the four elemental resists, or their sum.
func AllResists(it game.Item, sumOfEach bool) int {
	values := ownValues(it, resistStats)
	if !sumOfEach {
		return slices.Min(values)
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum
}

// AllAttributes returns the lowest of the four attributes.
func AllAttributes(it game.Item) int {
	return slices.Min(ownValues(it, attributeStats))
}

// ClassSkills returns +class skills for one class, optionally with +all skills.
func ClassSkills(it game.Item, class data.Class, addAllSkills bool) int {
	allSkills := 0
	if addAllSkills {
		allSkills = it.StatValue(stat.AllSkills)
	}
	if v, found := it.OwnLayer(stat.AddClassSkills, int(class)); found {
		return allSkills + v
	}
	return allSkills
}

// BestClassSkills returns the classes with the highest +class skills bonus and
// that bonus plus +all skills.
func BestClassSkills(it game.Item) ([]data.Class, int) {
	allSkills := it.StatValue(stat.AllSkills)

	best := 0
	var classes []data.Class
	for _, class := range gamedata.PlayerClasses {
		v, found := it.OwnLayer(stat.AddClassSkills, int(class))
		if !found {
			continue
		}
		switch {
		case v > best:
			classes = []data.Class{class}
			best = v
		case v == best:
			classes = append(classes, class)
		}
	}

	return classes, allSkills + best
}

// SkillTreeSkills returns +skill tab points for a tree, optionally including the
// owning class' +class and +all skills.
func (r *Reader) SkillTreeSkills(it game.Item, tree gamedata.SkillTree, addClassSkills bool) int {
	base := 0
	if addClassSkills {
		base = ClassSkills(it, tree.Class(), true)
	}
	if v, found := it.OwnLayer(stat.AddSkillTab, int(tree)); found {
		return base + v
	}
	return base
}

// BestSkillTreeSkills returns the trees with the highest bonus on the item.
func (r *Reader) BestSkillTreeSkills(it game.Item, addClassSkills bool) ([]gamedata.SkillTree, int) {
	best := 0
	var trees []gamedata.SkillTree
	for _, tree := range r.tables.Catalog.SkillTrees() {
		v, found := it.OwnLayer(stat.AddSkillTab, int(tree))
		if !found {
			continue
		}
		if addClassSkills {
			v += ClassSkills(it, tree.Class(), true)
		}
		switch {
		case v > best:
			trees = []gamedata.SkillTree{tree}
			best = v
		case v == best:
			trees = append(trees, tree)
		}
	}

	return trees, best
}

// SingleSkills returns the +levels to one skill. Class skills optionally
// include tree, class and all skill bonuses; non-class (o-skill) levels never do.
func (r *Reader) SingleSkills(it game.Item, sk skill.ID, addSkillTree bool) int {
	base := 0
	if addSkillTree {
		if tree, found := r.tables.Catalog.SkillTreeOf(sk); found {
			base = r.SkillTreeSkills(it, tree, true)
		}
	}

	for _, id := range singleSkillStats {
		if v, found := it.OwnLayer(id, int(sk)); found {
			if id == stat.SingleSkill {
				return base + v
			}
			return v
		}
	}

	return base
}

// BestSingleSkills returns the skills with the highest level bonus on the item.
func (r *Reader) BestSingleSkills(it game.Item, addSkillTree bool) ([]skill.ID, int) {
	best := 0
	var skills []skill.ID
	for _, id := range singleSkillStats {
		for _, tree := range r.tables.Catalog.SkillTrees() {
			for _, sk := range r.tables.Catalog.TreeSkills(tree) {
				v, found := it.OwnLayer(id, int(sk))
				if !found {
					continue
				}
				if addSkillTree && id == stat.SingleSkill {
					v += r.SkillTreeSkills(it, tree, true)
				}
				switch {
				case v > best:
					skills = []skill.ID{sk}
					best = v
				case v == best:
					skills = append(skills, sk)
				}
			}
		}
	}

	return skills, best
}

// Charges describes a charged skill: the layer packs skill id << 6 | level and
// the value packs max charges << 8 | current charges.
type Charges struct {
	Level   int
	Current int
	Max     int
}

// SkillCharges returns the charges the item holds for a skill.
func SkillCharges(it game.Item, sk skill.ID) Charges {
	for _, s := range it.OwnLayers(stat.ItemChargedSkill) {
		if skill.ID(s.Layer>>6) != sk {
			continue
		}
		return DecodeCharges(s.Layer, s.Value)
	}
	return Charges{}
}

// DecodeCharges unpacks one ItemChargedSkill layer and value.
func DecodeCharges(layer, value int) Charges {
	return Charges{
		Level:   layer % (1 << 6),
		Current: value % (1 << 8),
		Max:     value >> 8,
	}
}

// BestSkillCharges returns the charged skill with the highest skill level.
func BestSkillCharges(it game.Item) (skill.ID, Charges, bool) {
	var (
		best   Charges
		bestID skill.ID
		found  bool
	)
	for _, s := range it.OwnLayers(stat.ItemChargedSkill) {
		c := DecodeCharges(s.Layer, s.Value)
		if !found || c.Level > best.Level {
			best, bestID, found = c, skill.ID(s.Layer>>6), true
		}
	}
	return bestID, best, found
}
