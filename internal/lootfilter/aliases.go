package lootfilter

import (
	"strings"

	"github.com/hectorgimenez/d2go/pkg/data/stat"
)

// statAliases maps the short pickit style names players already know to stat
// ids. Anything else is resolved against the stat table by name.
var statAliases = map[string]stat.ID{
	// Resistances
	"fireres":      stat.FireResist,
	"coldres":      stat.ColdResist,
	"lightresist":  stat.LightningResist,
	"lightres":     stat.LightningResist,
	"poisonres":    stat.PoisonResist,
	"maxfireres":   stat.MaxFireResist,
	"maxcoldres":   stat.MaxColdResist,
	"maxlightres":  stat.MaxLightningResist,
	"maxpoisonres": stat.MaxPoisonResist,

	// Life/Mana
	"maxhp":   stat.MaxLife,
	"regen":   stat.ReplenishLife,
	"manareg": stat.ManaRecovery,

	// Speed Mods
	"fcr":    stat.FasterCastRate,
	"fhr":    stat.FasterHitRecovery,
	"frw":    stat.FasterRunWalk,
	"ias":    stat.IncreasedAttackSpeed,
	"fbr":    stat.FasterBlockRate,
	"fblock": stat.FasterBlockRate,

	// Damage/AR
	"tohit":          stat.AttackRating,
	"eddmg":          stat.EnhancedDamage,
	"enhanceddamage": stat.EnhancedDamage,
	"ed":             stat.EnhancedDamage,
	"cb":             stat.CrushingBlow,
	"ds":             stat.DeadlyStrike,
	"ow":             stat.OpenWounds,

	// Leech
	"lifeleech": stat.LifeSteal,
	"ll":        stat.LifeSteal,
	"manaleech": stat.ManaSteal,
	"ml":        stat.ManaSteal,

	// Magic Find / Gold Find
	"itemmagicbonus": stat.MagicFind,
	"mf":             stat.MagicFind,
	"itemgoldbonus":  stat.GoldFind,
	"gf":             stat.GoldFind,

	// Damage Reduction
	"magicdamagereduction": stat.MagicDamageReduction,
	"mdr":                  stat.MagicDamageReduction,

	// Defense
	"ac":          stat.Defense,
	"enhanceddef": stat.EnhancedDefense,

	// Other
	"sockets":                 stat.NumSockets,
	"lightradius":             stat.LightRadius,
	"reducedreq":              stat.Requirements,
	"itemreplenishdurability": stat.ReplenishDurability,
	"allskills":               stat.AllSkills,
}

func statAlias(name string) (stat.ID, bool) {
	id, found := statAliases[strings.ToLower(strings.TrimSpace(name))]
	return id, found
}
