package lootfilter

import (
	"log/slog"
	"slices"

	"github.com/hectorgimenez/d2go/pkg/data/stat"
	"github.com/hectorgimenez/lootlens/internal/game"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
	"github.com/hectorgimenez/lootlens/internal/stats"
)

// ItemRules are the rules declared under one item key. Nil Rules means the
// entry matches on existence alone.
type ItemRules struct {
	Item  string
	Rules []*Rule
}

type entry struct {
	existence bool
	rules     []*Rule
}

// Filter evaluates items against the loaded rules. It is read-only after New
// and safe for concurrent use.
type Filter struct {
	reader  *stats.Reader
	anyItem *entry
	byItem  map[string]*entry
	logger  *slog.Logger
}

// New builds a filter. Entries for the same item are merged in order.
func New(tables *gamedata.Tables, items []ItemRules, logger *slog.Logger) (*Filter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f := &Filter{
		reader: stats.NewReader(tables),
		byItem: make(map[string]*entry),
		logger: logger,
	}

	for _, ir := range items {
		for _, r := range ir.Rules {
			if r == nil {
				continue
			}
			if r.Item == "" {
				r.Item = ir.Item
			}
			r.prepare()
			if err := f.validate(r); err != nil {
				return nil, err
			}
		}

		e := f.entryFor(ir.Item)
		if ir.Rules == nil {
			e.existence = true
			continue
		}
		e.rules = append(e.rules, slices.DeleteFunc(slices.Clone(ir.Rules), func(r *Rule) bool { return r == nil })...)
	}

	logger.Debug("loot filter loaded", slog.Int("items", len(f.byItem)), slog.Bool("anyItem", f.anyItem != nil))
	return f, nil
}

func (f *Filter) entryFor(name string) *entry {
	if isAnyKey(name) {
		if f.anyItem == nil {
			f.anyItem = &entry{}
		}
		return f.anyItem
	}

	key := normalizeKey(name)
	e, found := f.byItem[key]
	if !found {
		e = &entry{}
		f.byItem[key] = e
	}
	return e
}

// validate checks stat thresholds against the stat table once, at load.
func (f *Filter) validate(r *Rule) error {
	for _, th := range r.Stats {
		if _, err := f.reader.Tables().Stats.Lookup(th.Stat); err != nil {
			return &ConfigError{Item: r.Item, Rule: -1, Key: gamedata.StatName(th.Stat), Err: err}
		}
	}
	return nil
}

// candidates returns the item's own entry when it has one, otherwise the
// Any entry.
func (f *Filter) candidates(it game.Item) *entry {
	if e, found := f.byItem[normalizeKey(string(it.Name))]; found {
		return e
	}
	return f.anyItem
}

// Evaluate returns whether the item passes the filter and the first rule, in
// declared order, that matched. Existence matches return a nil rule.
func (f *Filter) Evaluate(it game.Item, areaLevel, playerLevel int) (bool, *Rule) {
	if it.LowQuality {
		return false, nil
	}

	e := f.candidates(it)
	if e == nil {
		return false, nil
	}
	if e.existence {
		return !it.AnyPlayerHolding, nil
	}

	for _, r := range e.rules {
		if it.Identified && (it.Dropped || it.AnyPlayerHolding) && r.TargetsUnidentified() {
			continue
		}
		if it.InStore && !r.CheckVendor && !r.VendorOnly {
			continue
		}
		if r.VendorOnly && !it.InStore {
			continue
		}

		if f.matches(r, it, areaLevel, playerLevel) {
			f.logger.Debug("loot filter match",
				slog.String("item", string(it.Name)),
				slog.String("rule", r.ID.String()),
			)
			return true, r
		}
	}

	return false, nil
}

// matches checks the rule's constraints in declared order, stopping at the
// first one that fails.
func (f *Filter) matches(r *Rule, it game.Item, areaLevel, playerLevel int) bool {
	for _, ref := range r.order {
		if !f.check(r, ref, it, areaLevel, playerLevel) {
			return false
		}
	}
	return true
}

func (f *Filter) check(r *Rule, ref constraintRef, it game.Item, areaLevel, playerLevel int) bool {
	switch ref.field {
	case FieldTiers:
		return slices.Contains(r.Tiers, f.reader.ItemTier(it))
	case FieldQualities:
		return slices.Contains(r.Qualities, it.Quality)
	case FieldSockets:
		return slices.Contains(r.Sockets, it.StatValue(stat.NumSockets))
	case FieldEthereal:
		return it.Ethereal == *r.Ethereal
	case FieldMinAreaLevel:
		return areaLevel >= *r.MinAreaLevel
	case FieldMaxAreaLevel:
		return areaLevel <= *r.MaxAreaLevel
	case FieldMinPlayerLevel:
		return playerLevel >= *r.MinPlayerLevel
	case FieldMaxPlayerLevel:
		return playerLevel <= *r.MaxPlayerLevel
	case FieldMinQualityLevel:
		qlvl, found := f.reader.QualityLevel(it)
		return found && qlvl >= *r.MinQualityLevel
	case FieldMaxQualityLevel:
		qlvl, found := f.reader.QualityLevel(it)
		return found && qlvl <= *r.MaxQualityLevel
	case FieldAllAttributes:
		return stats.AllAttributes(it) >= *r.AllAttributes
	case FieldAllResist:
		return stats.AllResists(it, false) >= *r.AllResist
	case FieldSumResist:
		return stats.AllResists(it, true) >= *r.SumResist
	case FieldClassSkills:
		return f.checkClassSkills(r.ClassSkills, it)
	case FieldSkillTrees:
		return f.checkSkillTrees(r.SkillTrees, it)
	case FieldSkills:
		return f.checkSkills(r.Skills, it)
	case FieldSkillCharges:
		return checkSkillCharges(r.SkillCharges, it)
	case FieldStat:
		return f.checkStat(r.Stats[ref.index], it)
	default:
		return false
	}
}

func (f *Filter) checkClassSkills(reqs []ClassRequirement, it game.Item) bool {
	for _, req := range reqs {
		var points int
		if req.Any {
			_, points = stats.BestClassSkills(it)
		} else {
			points = stats.ClassSkills(it, req.Class, true)
		}
		if points < req.Min {
			return false
		}
	}
	return true
}

func (f *Filter) checkSkillTrees(reqs []TreeRequirement, it game.Item) bool {
	for _, req := range reqs {
		var points int
		if req.Any {
			_, points = f.reader.BestSkillTreeSkills(it, true)
		} else {
			points = f.reader.SkillTreeSkills(it, req.Tree, true)
		}
		if points < req.Min {
			return false
		}
	}
	return true
}

func (f *Filter) checkSkills(reqs []SkillRequirement, it game.Item) bool {
	for _, req := range reqs {
		var points int
		if req.Any {
			_, points = f.reader.BestSingleSkills(it, true)
		} else {
			points = f.reader.SingleSkills(it, req.Skill, true)
		}
		if points < req.Min {
			return false
		}
	}
	return true
}

func checkSkillCharges(reqs []SkillRequirement, it game.Item) bool {
	for _, req := range reqs {
		var charges stats.Charges
		if req.Any {
			_, charges, _ = stats.BestSkillCharges(it)
		} else {
			charges = stats.SkillCharges(it, req.Skill)
		}
		if charges.Level < req.Min {
			return false
		}
	}
	return true
}

// checkStat resolves the threshold stat at player level 1, thresholds do not
// depend on the character holding the item.
func (f *Filter) checkStat(th StatThreshold, it game.Item) bool {
	value, err := f.reader.ResolveStat(it, th.Stat, 1, true)
	if err != nil {
		f.logger.Warn("loot filter stat lookup failed", slog.Any("error", err))
		return false
	}

	if value < 0 {
		return th.Value < 0 && value <= th.Value
	}
	return th.Value > 0 && value >= th.Value
}
