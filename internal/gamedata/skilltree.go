package gamedata

import (
	"fmt"

	"github.com/hectorgimenez/d2go/pkg/data"
)

// SkillTree is the layer used by the item_addskill_tab stat: class id * 8 + tab.
type SkillTree int

const (
	TreeBowAndCrossbow       SkillTree = 0
	TreePassiveAndMagic      SkillTree = 1
	TreeJavelinAndSpear      SkillTree = 2
	TreeFire                 SkillTree = 8
	TreeLightning            SkillTree = 9
	TreeCold                 SkillTree = 10
	TreeCurses               SkillTree = 16
	TreePoisonAndBone        SkillTree = 17
	TreeNecromancerSummoning SkillTree = 18
	TreePaladinCombat        SkillTree = 24
	TreeOffensiveAuras       SkillTree = 25
	TreeDefensiveAuras       SkillTree = 26
	TreeBarbarianCombat      SkillTree = 32
	TreeMasteries            SkillTree = 33
	TreeWarcries             SkillTree = 34
	TreeDruidSummoning       SkillTree = 40
	TreeShapeShifting        SkillTree = 41
	TreeElemental            SkillTree = 42
	TreeTraps                SkillTree = 48
	TreeShadowDisciplines    SkillTree = 49
	TreeMartialArts          SkillTree = 50
)

var skillTreeNames = map[SkillTree]string{
	TreeBowAndCrossbow:       "BowAndCrossbow",
	TreePassiveAndMagic:      "PassiveAndMagic",
	TreeJavelinAndSpear:      "JavelinAndSpear",
	TreeFire:                 "Fire",
	TreeLightning:            "Lightning",
	TreeCold:                 "Cold",
	TreeCurses:               "Curses",
	TreePoisonAndBone:        "PoisonAndBone",
	TreeNecromancerSummoning: "NecromancerSummoning",
	TreePaladinCombat:        "PaladinCombat",
	TreeOffensiveAuras:       "OffensiveAuras",
	TreeDefensiveAuras:       "DefensiveAuras",
	TreeBarbarianCombat:      "BarbarianCombat",
	TreeMasteries:            "Masteries",
	TreeWarcries:             "Warcries",
	TreeDruidSummoning:       "DruidSummoning",
	TreeShapeShifting:        "ShapeShifting",
	TreeElemental:            "Elemental",
	TreeTraps:                "Traps",
	TreeShadowDisciplines:    "ShadowDisciplines",
	TreeMartialArts:          "MartialArts",
}

// Class returns the player class owning the tree.
func (t SkillTree) Class() data.Class {
	return data.Class(int(t) >> 3)
}

func (t SkillTree) String() string {
	if name, found := skillTreeNames[t]; found {
		return name
	}
	return fmt.Sprintf("SkillTree(%d)", int(t))
}

// ParseSkillTree resolves a tree by name, ignoring case, spaces and underscores.
func ParseSkillTree(name string) (SkillTree, error) {
	key := normalizeName(name)
	for tree, treeName := range skillTreeNames {
		if normalizeName(treeName) == key {
			return tree, nil
		}
	}
	return 0, fmt.Errorf("unknown skill tree %q", name)
}

var classNames = map[data.Class]string{
	data.Amazon:      "Amazon",
	data.Sorceress:   "Sorceress",
	data.Necromancer: "Necromancer",
	data.Paladin:     "Paladin",
	data.Barbarian:   "Barbarian",
	data.Druid:       "Druid",
	data.Assassin:    "Assassin",
}

// PlayerClasses lists the classes in id order.
var PlayerClasses = []data.Class{data.Amazon, data.Sorceress, data.Necromancer, data.Paladin, data.Barbarian, data.Druid, data.Assassin}

// ClassName returns the english class name used in configuration files.
func ClassName(c data.Class) string {
	return classNames[c]
}

// ParseClass resolves a player class by name.
func ParseClass(name string) (data.Class, error) {
	key := normalizeName(name)
	for _, c := range PlayerClasses {
		if normalizeName(classNames[c]) == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown player class %q", name)
}
