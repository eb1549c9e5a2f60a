package gamedata

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hectorgimenez/d2go/pkg/data/item"
	"github.com/hectorgimenez/d2go/pkg/data/npc"
	"github.com/hectorgimenez/d2go/pkg/data/skill"
	"gopkg.in/yaml.v3"
)

// ClassCirclets is the only item class without tiers.
const ClassCirclets = "Circlets"

// ItemClass groups the variants of one base item, ordered normal to elite.
type ItemClass struct {
	Name  string      `yaml:"name"`
	Items []item.Name `yaml:"items"`
}

// Catalog carries the item and skill groupings the stat engine derives from.
type Catalog struct {
	itemClasses   []ItemClass
	qualityLevels map[string]int
	treeSkills    map[SkillTree][]skill.ID
	skillTree     map[skill.ID]SkillTree
	trees         []SkillTree
	monsterNames  map[npc.ID]string
}

type catalogFile struct {
	ItemClasses   []ItemClass      `yaml:"itemClasses"`
	QualityLevels map[string]int   `yaml:"qualityLevels"`
	SkillTrees    map[string][]int `yaml:"skillTrees"`
	// MonsterNames maps monstats ids to their monsters string table key.
	MonsterNames map[int]string `yaml:"monsterNames"`
}

func NewCatalog(classes []ItemClass, qualityLevels map[string]int, trees map[SkillTree][]skill.ID, monsterNames map[npc.ID]string) *Catalog {
	c := &Catalog{
		itemClasses:   slices.Clone(classes),
		qualityLevels: maps.Clone(qualityLevels),
		treeSkills:    make(map[SkillTree][]skill.ID, len(trees)),
		skillTree:     make(map[skill.ID]SkillTree),
		monsterNames:  maps.Clone(monsterNames),
	}
	for tree, skills := range trees {
		c.treeSkills[tree] = slices.Clone(skills)
		c.trees = append(c.trees, tree)
		for _, sk := range skills {
			c.skillTree[sk] = tree
		}
	}
	slices.Sort(c.trees)

	return c
}

// ParseCatalog decodes the catalog yaml document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	trees := make(map[SkillTree][]skill.ID, len(file.SkillTrees))
	for name, ids := range file.SkillTrees {
		tree, err := ParseSkillTree(name)
		if err != nil {
			return nil, fmt.Errorf("catalog skill trees: %w", err)
		}
		for _, id := range ids {
			trees[tree] = append(trees[tree], skill.ID(id))
		}
	}

	for _, class := range file.ItemClasses {
		if class.Name == "" {
			return nil, errors.New("catalog item class without name")
		}
	}

	monsters := make(map[npc.ID]string, len(file.MonsterNames))
	for id, key := range file.MonsterNames {
		monsters[npc.ID(id)] = key
	}

	return NewCatalog(file.ItemClasses, file.QualityLevels, trees, monsters), nil
}

// ClassOf returns the first class listing name and the item's index in it.
func (c *Catalog) ClassOf(name item.Name) (ItemClass, int, bool) {
	for _, class := range c.itemClasses {
		if idx := slices.Index(class.Items, name); idx >= 0 {
			return class, idx, true
		}
	}
	return ItemClass{}, -1, false
}

// QualityLevel returns the qlvl of a base item, unique or set item by name.
func (c *Catalog) QualityLevel(name string) (int, bool) {
	qlvl, found := c.qualityLevels[name]
	return qlvl, found
}

// SkillTreeOf returns the tree a class skill belongs to.
func (c *Catalog) SkillTreeOf(id skill.ID) (SkillTree, bool) {
	tree, found := c.skillTree[id]
	return tree, found
}

// TreeSkills returns the skills of a tree in catalog order.
func (c *Catalog) TreeSkills(tree SkillTree) []skill.ID {
	return slices.Clone(c.treeSkills[tree])
}

// SkillTrees returns every tree with at least one skill, ascending.
func (c *Catalog) SkillTrees() []SkillTree {
	return slices.Clone(c.trees)
}

func (c *Catalog) ItemClasses() []ItemClass {
	return slices.Clone(c.itemClasses)
}

// MonsterNameKey returns the monsters string table key of a monster.
func (c *Catalog) MonsterNameKey(id npc.ID) (string, bool) {
	key, found := c.monsterNames[id]
	return key, found
}
