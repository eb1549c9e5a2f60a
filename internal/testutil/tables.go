// Package testutil builds small in-memory game tables for package tests.
package testutil

import (
	"github.com/hectorgimenez/d2go/pkg/data/item"
	"github.com/hectorgimenez/d2go/pkg/data/npc"
	"github.com/hectorgimenez/d2go/pkg/data/skill"
	"github.com/hectorgimenez/d2go/pkg/data/stat"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
)

// Helms has nine entries ordered normal to elite.
var Helms = []item.Name{
	"Cap", "SkullCap", "Helm",
	"WarHat", "Sallet", "Casque",
	"Shako", "Hydraskull", "Armet",
}

var Circlets = []item.Name{"Circlet", "Coronet", "Tiara", "Diadem"}

// DamageVsMonster is the ItemStatCost row for damage against one monster type.
const DamageVsMonster = stat.ID(180)

// Zombie has a localized name, other monster ids do not.
const Zombie = npc.ID(5)

// MonsterTexts are the enUS monster names keyed by string id.
var MonsterTexts = map[string]string{
	"Zombie": "Zombie",
}

// StatMetas returns the synthetic ItemStatCost rows.
func StatMetas() []gamedata.StatMeta {
	return []gamedata.StatMeta{
		{ID: stat.Strength, Name: "strength", DescPriority: 67, DescStrPos: "ModStr1e", DescStrNeg: "ModStr1e", DescGroup: "Moditem2allattrib"},
		{ID: stat.Energy, Name: "energy", DescPriority: 61, DescStrPos: "ModStr1h", DescStrNeg: "ModStr1h", DescGroup: "Moditem2allattrib"},
		{ID: stat.Dexterity, Name: "dexterity", DescPriority: 65, DescStrPos: "ModStr1i", DescStrNeg: "ModStr1i", DescGroup: "Moditem2allattrib"},
		{ID: stat.Vitality, Name: "vitality", DescPriority: 63, DescStrPos: "ModStr1j", DescStrNeg: "ModStr1j", DescGroup: "Moditem2allattrib"},
		{ID: stat.MaxLife, Name: "maxhp", ValShift: 8, DescPriority: 59, DescStrPos: "ModStr1u", DescStrNeg: "ModStr1u"},
		{ID: stat.MinDamage, Name: "mindamage", DescPriority: 126, DescStrPos: "ModStr1g", DescStrNeg: "ModStr1g"},
		{ID: stat.MaxDamage, Name: "maxdamage", DescPriority: 125, DescStrPos: "ModStr1f", DescStrNeg: "ModStr1f"},
		{ID: stat.TwoHandedMinDamage, Name: "secondary_mindamage", DescPriority: 124, DescStrPos: "ModStr1g", DescStrNeg: "ModStr1g"},
		{ID: stat.TwoHandedMaxDamage, Name: "secondary_maxdamage", DescPriority: 123, DescStrPos: "ModStr1f", DescStrNeg: "ModStr1f"},
		{ID: stat.EnhancedDamage, Name: "item_maxdamage_percent", DescPriority: 129, DescStrPos: "strModEnhancedDamage", DescStrNeg: "strModEnhancedDamage"},
		{ID: stat.EnhancedDamageMin, Name: "item_mindamage_percent", DescPriority: 129},
		{ID: stat.FireResist, Name: "fireresist", DescPriority: 36, DescStrPos: "strModFireResistance", DescStrNeg: "strModFireResistance", DescGroup: "strModAllResistances"},
		{ID: stat.LightningResist, Name: "lightresist", DescPriority: 34, DescStrPos: "strModLightningResistance", DescStrNeg: "strModLightningResistance", DescGroup: "strModAllResistances"},
		{ID: stat.ColdResist, Name: "coldresist", DescPriority: 32, DescStrPos: "strModColdResistance", DescStrNeg: "strModColdResistance", DescGroup: "strModAllResistances"},
		{ID: stat.PoisonResist, Name: "poisonresist", DescPriority: 30, DescStrPos: "strModPoisonResistance", DescStrNeg: "strModPoisonResistance", DescGroup: "strModAllResistances"},
		{ID: stat.FireMinDamage, Name: "firemindam", DescPriority: 102, DescStrPos: "strModFireDamage", DescStrNeg: "strModFireDamage"},
		{ID: stat.FireMaxDamage, Name: "firemaxdam", DescPriority: 101, DescStrPos: "strModFireDamage", DescStrNeg: "strModFireDamage"},
		{ID: stat.PoisonMinDamage, Name: "poisonmindam", DescPriority: 92, DescStrPos: "strModPoisonDamage", DescStrNeg: "strModPoisonDamage"},
		{ID: stat.PoisonMaxDamage, Name: "poisonmaxdam", DescPriority: 92, DescStrPos: "strModPoisonDamage", DescStrNeg: "strModPoisonDamage"},
		{ID: stat.PoisonLength, Name: "poisonlength", DescPriority: 92},
		{ID: stat.FasterCastRate, Name: "item_fastercastrate", DescPriority: 79, DescStrPos: "ModStr4a", DescStrNeg: "ModStr4a"},
		{ID: stat.MagicFind, Name: "item_magicbonus", DescPriority: 8, DescStrPos: "strModMagicFind", DescStrNeg: "strModMagicFind"},
		{ID: stat.EnemyFireResist, Name: "passive_fire_pierce", DescPriority: 88, DescStrPos: "ModStr5w", DescStrNeg: "ModStr5w"},
		{ID: stat.ReplenishDurability, Name: "item_replenish_durability", DescPriority: 1, DescFunc: gamedata.DescFuncRepairRate, DescStrPos: "ModStre9t", DescStrNeg: "ModStre9t"},
		{ID: stat.StrengthPerLevel, Name: "item_strength_perlevel", DescPriority: 66, DescStrPos: "ModStr6e", DescStrNeg: "ModStr6e", DescStr2: "increaseswithplaylevelX"},
		{ID: stat.AllSkills, Name: "item_allskills", DescPriority: 158, DescStrPos: "ModStr3k", DescStrNeg: "ModStr3k"},
		{ID: stat.AddClassSkills, Name: "item_addclassskills", DescPriority: 150, DescFunc: gamedata.DescFuncClassSkills, DescStrPos: "ModStr3a", DescStrNeg: "ModStr3a"},
		{ID: stat.AddSkillTab, Name: "item_addskill_tab", DescPriority: 151, DescFunc: gamedata.DescFuncSkillTab, DescStrPos: "ModStr3b", DescStrNeg: "ModStr3b"},
		{ID: stat.SingleSkill, Name: "item_singleskill", DescPriority: 81, DescFunc: gamedata.DescFuncSingleSkill, DescStrPos: "ItemModifierClassSkill", DescStrNeg: "ItemModifierClassSkill"},
		{ID: stat.NonClassSkill, Name: "item_nonclassskill", DescPriority: 81, DescFunc: gamedata.DescFuncNonClassSkill, DescStrPos: "ItemModifierNonClassSkill", DescStrNeg: "ItemModifierNonClassSkill"},
		{ID: stat.ItemChargedSkill, Name: "item_charged_skill", DescPriority: 1, DescFunc: gamedata.DescFuncCharges, DescStrPos: "ModStre10d", DescStrNeg: "ModStre10d"},
		{ID: stat.SkillOnHit, Name: "item_skillonhit", DescPriority: 160, DescFunc: gamedata.DescFuncChanceToCast, DescStrPos: "ItemExpansiveChancX", DescStrNeg: "ItemExpansiveChancX"},
		{ID: stat.Aura, Name: "item_aura", DescPriority: 159, DescFunc: gamedata.DescFuncAura, DescStrPos: "ModitemAura", DescStrNeg: "ModitemAura"},
		{ID: stat.NumSockets, Name: "item_numsockets"},
		{ID: DamageVsMonster, Name: "item_damage_vs_montype", DescPriority: 40, DescFunc: gamedata.DescFuncMonsterDamage, DescStrPos: "ModitemDamageVsMonster", DescStrNeg: "ModitemDamageVsMonster"},
	}
}

// Texts are the enUS item-modifier strings keyed by string id.
var Texts = map[string]string{
	"ModStr1e":                   "+%d to Strength",
	"ModStr1h":                   "+%d to Energy",
	"ModStr1i":                   "+%d to Dexterity",
	"ModStr1j":                   "+%d to Vitality",
	"ModStr1u":                   "+%d to Life",
	"Moditem2allattrib":          "+%d to all Attributes",
	"ModStr1g":                   "+%d to Minimum Damage",
	"ModStr1f":                   "+%d to Maximum Damage",
	"strModMinDamageRange":       "Adds %d-%d Damage",
	"strModMinDamage":            "+%d Damage",
	"strModEnhancedDamage":       "+%d%% Enhanced Damage",
	"strModFireResistance":       "Fire Resist %+d%%",
	"strModLightningResistance":  "Lightning Resist %+d%%",
	"strModColdResistance":       "Cold Resist %+d%%",
	"strModPoisonResistance":     "Poison Resist %+d%%",
	"strModAllResistances":       "All Resistances +%d",
	"strModFireDamage":           "+%d Fire Damage",
	"strModFireDamageRange":      "Adds %d-%d Fire Damage",
	"strModPoisonDamage":         "+%d Poison Damage over %d Seconds",
	"strModPoisonDamageRange":    "Adds %d-%d Poison Damage over %d Seconds",
	"ModStr4a":                   "+%d%% Faster Cast Rate",
	"strModMagicFind":            "%d%% Better Chance of Getting Magic Items",
	"ModStr5w":                   "-%d%% to Enemy Fire Resistance",
	"ModStre9t":                  "Repairs %d durability per second",
	"ModStre9u":                  "Repairs %d durability in %d seconds",
	"ModStr6e":                   "+%d to Strength",
	"increaseswithplaylevelX":    "(Based on Character Level)",
	"ModStr3k":                   "+%d to All Skills",
	"ModStr3a":                   "+%d to Class Skills",
	"ModStr3b":                   "+%d to Skill Tab",
	"ItemModifierClassSkill":     "+%d to %s %s",
	"ItemModifierNonClassSkill":  "+%d to %s",
	"ModStre10d":                 "Level %d %s (%d/%d Charges)",
	"ItemExpansiveChancX":        "%d%% Chance to cast level %d %s on striking",
	"ModitemAura":                "Level %d %s Aura When Equipped",
	"ModitemDamageVsMonster":     "+%d%% Damage to %s",
	"SorOnly":                    "(Sorceress Only)",
	"NecOnly":                    "(Necromancer Only)",
	"Socketable":                 "Socketed (%d)",
	"strethereal":                "Ethereal (Cannot be Repaired)",
	"strItemModEtherealSocketed": "Ethereal (Cannot be Repaired), Socketed (%d)",
}

// Tables returns a fresh table bundle: the stat rows above, a divisor of 8
// for item_strength_perlevel, the enUS texts and a catalog with helms,
// circlets, a few sorceress and necromancer skill trees and one monster name.
func Tables() *gamedata.Tables {
	loc := gamedata.NewLocalization()
	records := make([]gamedata.LocalizedString, 0, len(Texts))
	id := 1
	for key, text := range Texts {
		records = append(records, gamedata.LocalizedString{
			ID:   id,
			Key:  key,
			Text: map[gamedata.Language]string{gamedata.EnUS: text},
		})
		id++
	}
	loc.Add(gamedata.DomainItemModifiers, records)

	monsters := make([]gamedata.LocalizedString, 0, len(MonsterTexts))
	for key, text := range MonsterTexts {
		monsters = append(monsters, gamedata.LocalizedString{
			ID:   id,
			Key:  key,
			Text: map[gamedata.Language]string{gamedata.EnUS: text},
		})
		id++
	}
	loc.Add(gamedata.DomainMonsters, monsters)
	loc.Add(gamedata.DomainItems, []gamedata.LocalizedString{{
		ID:   id,
		Key:  "Harlequin Crest",
		Text: map[gamedata.Language]string{gamedata.EnUS: "Harlequin Crest", gamedata.DeDE: "Harlekinhaube"},
	}})

	catalog := gamedata.NewCatalog(
		[]gamedata.ItemClass{
			{Name: "Helms", Items: Helms},
			{Name: gamedata.ClassCirclets, Items: Circlets},
		},
		map[string]int{
			"Cap":             1,
			"Shako":           58,
			"Harlequin Crest": 69,
		},
		map[gamedata.SkillTree][]skill.ID{
			gamedata.TreeLightning:     {skill.StaticField, skill.Teleport},
			gamedata.TreeCold:          {skill.Blizzard},
			gamedata.TreePoisonAndBone: {skill.Teeth, skill.BoneSpear},
		},
		map[npc.ID]string{Zombie: "Zombie"},
	)

	return &gamedata.Tables{
		Stats:        gamedata.NewStatTable(StatMetas()),
		Divisors:     gamedata.Divisors{stat.StrengthPerLevel: 8},
		Localization: loc,
		Catalog:      catalog,
	}
}
