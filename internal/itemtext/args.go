package itemtext

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/hectorgimenez/d2go/pkg/data"
	"github.com/hectorgimenez/d2go/pkg/data/npc"
	"github.com/hectorgimenez/d2go/pkg/data/skill"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
	"github.com/hectorgimenez/lootlens/internal/stats"
)

// skillArg renders as the skill's display name.
type skillArg skill.ID

func (s skillArg) String() string {
	if sk, found := skill.Skills[skill.ID(s)]; found && sk.Name != "" {
		return sk.Name
	}
	return strconv.Itoa(int(s))
}

// classOnlyKey returns the "<Cls>Only" string key of the skill's class, e.g. SorOnly.
func (s skillArg) classOnlyKey() (string, bool) {
	sk, found := skill.Skills[skill.ID(s)]
	if !found || len(sk.Class) < 3 {
		return "", false
	}
	return strings.ToUpper(sk.Class[:1]) + sk.Class[1:3] + "Only", true
}

// statArgs turns one (stat, layer, value) entry into template arguments
// according to the stat's descfunc.
func (f *Formatter) statArgs(run *formatRun, meta gamedata.StatMeta, layer, raw int) ([]any, error) {
	it := run.it
	adjusted, err := f.reader.Adjusted(meta.ID, raw, run.player.Level, false)
	if err != nil {
		return nil, err
	}
	value := int(adjusted)

	switch meta.DescFunc {
	case gamedata.DescFuncPercentOf128:
		return []any{int(float64(value) / 1.28)}, nil
	case gamedata.DescFuncRepairRate:
		if value == 0 {
			return []any{0}, nil
		}
		return []any{int(math.RoundToEven(100.0 / float64(value)))}, nil
	case gamedata.DescFuncClassSkills:
		return []any{stats.ClassSkills(it, data.Class(layer), false)}, nil
	case gamedata.DescFuncSkillTab:
		return []any{f.reader.SkillTreeSkills(it, gamedata.SkillTree(layer), false)}, nil
	case gamedata.DescFuncChanceToCast:
		return []any{value, layer % (1 << 6), skillArg(layer >> 6)}, nil
	case gamedata.DescFuncAura:
		return []any{value, skillArg(layer)}, nil
	case gamedata.DescFuncMonsterDamage, gamedata.DescFuncMonsterAttack:
		return []any{value, f.monsterName(npc.ID(layer), run.lang)}, nil
	case gamedata.DescFuncCharges:
		charges := stats.DecodeCharges(layer, raw)
		return []any{charges.Level, skillArg(layer >> 6), charges.Current, charges.Max}, nil
	case gamedata.DescFuncSingleSkill, gamedata.DescFuncNonClassSkill:
		return []any{f.reader.SingleSkills(it, skill.ID(layer), false), skillArg(layer)}, nil
	default:
		return []any{value}, nil
	}
}

// monsterName localizes a monster through the catalog's string key, unknown
// monsters render as their id.
func (f *Formatter) monsterName(id npc.ID, lang gamedata.Language) string {
	if key, found := f.tables.Catalog.MonsterNameKey(id); found {
		name, err := f.tables.Localization.LookupIn(gamedata.DomainMonsters, key, lang)
		if err == nil {
			return name
		}
		f.logger.Debug("missing monster name", slog.String("key", key), slog.String("lang", string(lang)))
	}
	return strconv.Itoa(int(id))
}

// isNegative reports whether the leading argument selects the negative template.
func isNegative(args []any) bool {
	if len(args) == 0 {
		return false
	}
	n, ok := args[0].(int)
	return ok && n < 0
}

func argsEqual(a, b any) bool {
	x, okA := a.(int)
	y, okB := b.(int)
	return okA && okB && x == y
}

// poisonArgs converts raw poison min, max and length (frames) into the
// displayed total damage over the duration in seconds.
func poisonArgs(args []any) []any {
	if len(args) < 3 {
		return args
	}
	minDmg, _ := args[0].(int)
	maxDmg, _ := args[1].(int)
	frames, _ := args[2].(int)

	duration := frames / 25
	multiplier := float64(duration) / 10.24

	return []any{
		int(math.Round(float64(minDmg) * multiplier)),
		int(math.Round(float64(maxDmg) * multiplier)),
		duration,
	}
}
