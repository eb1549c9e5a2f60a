package gamedata

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/hectorgimenez/d2go/pkg/data"
	"github.com/hectorgimenez/d2go/pkg/data/item"
	"github.com/hectorgimenez/d2go/pkg/data/npc"
	"github.com/hectorgimenez/d2go/pkg/data/skill"
	"github.com/hectorgimenez/d2go/pkg/data/stat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemStatCost = "\ufeffStat\t*ID\tEncode\tValShift\tdescpriority\tdescfunc\tdescstrpos\tdescstrneg\tdgrpstrpos\tdescstr2\n" +
	"strength\t0\t\t\t67\t1\tModStr1e\tModStr1e\tModitem2allattrib\t\n" +
	"energy\t1\t\t\t61\t1\tModStr1h\tModStr1h\tModitem2allattrib\t\n" +
	"maxhp\t7\t\t8\t59\t1\tModStr1u\tModStr1u\t\t\n" +
	"\t8\t\t\t\t\t\t\t\t\n" +
	"item_singleskill\t107\t\t\t81\t27\tItemModifierClassSkill\tItemModifierClassSkill\t\t\n" +
	"item_strength_perlevel\t220\t\t\t66\t6\tModStr6e\tModStr6e\t\tincreaseswithplaylevelX\n"

const properties = "code\t*Parameter\tstat1\n" +
	"str/lvl\t#/8 per Level\titem_strength_perlevel\n" +
	"str/lvl2\t#/4 per Level\titem_strength_perlevel\n" +
	"hp\t\tmaxhp\n" +
	"unknown/lvl\t#/2 per Level\tnot_a_stat\n"

const modifierStrings = `[
	// generated by the string table dumper
	{"id": 1, "Key": "ModStr1e", "enUS": "+%d to Strength", "deDE": "+%d Stärke"},
	/* item-modifiers */
	{"id": 2, "Key": "ModStr1h", "enUS": "+%d to Energy"}
]`

const runeStrings = `[
	{"id": 20507, "Key": "Runeword1", "enUS": "Ancient's Pledge"},
	{"id": 20508, "Key": "r01", "enUS": "El Rune"}
]`

const catalogYAML = `itemClasses:
  - name: Helms
    items: [Cap, SkullCap, Helm]
  - name: Circlets
    items: [Circlet, Coronet]
qualityLevels:
  Cap: 1
  Harlequin Crest: 69
skillTrees:
  Cold: [59]
  Lightning: [42, 54]
monsterNames:
  5: Zombie
`

func TestParseStatTable(t *testing.T) {
	table, err := ParseStatTable(strings.NewReader(itemStatCost))
	require.NoError(t, err)

	assert.Equal(t, 5, table.Len(), "rows without a Stat name are skipped")

	meta, err := table.Lookup(stat.MaxLife)
	require.NoError(t, err)
	assert.Equal(t, "maxhp", meta.Name)
	assert.Equal(t, 8, meta.ValShift)
	assert.Equal(t, 59, meta.DescPriority)
	assert.Equal(t, DescFuncValue, meta.DescFunc)

	meta, err = table.Lookup(stat.SingleSkill)
	require.NoError(t, err)
	assert.Equal(t, DescFuncSingleSkill, meta.DescFunc)

	meta, err = table.Lookup(stat.StrengthPerLevel)
	require.NoError(t, err)
	assert.Equal(t, "increaseswithplaylevelX", meta.DescStr2)

	assert.Equal(t, []stat.ID{stat.Strength, stat.Energy}, table.Group("Moditem2allattrib"))

	_, err = table.Lookup(stat.Vitality)
	assert.ErrorIs(t, err, ErrInvalidStat)
}

func TestStatTableByName(t *testing.T) {
	table, err := ParseStatTable(strings.NewReader(itemStatCost))
	require.NoError(t, err)

	tests := []struct {
		name  string
		want  stat.ID
		found bool
	}{
		{name: "maxhp", want: stat.MaxLife, found: true},
		{name: "MaxHP", want: stat.MaxLife, found: true},
		{name: "item_SingleSkill", want: stat.SingleSkill, found: true},
		{name: "item single skill", want: stat.SingleSkill, found: true},
		{name: "nope", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, found := table.ByName(tt.name)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, id)
			}
		})
	}
}

func TestParseStatTableIDPastEnum(t *testing.T) {
	doc := "Stat\t*ID\tdescpriority\tdescstrpos\n" +
		"strength\t0\t67\tModStr1e\n" +
		"item_new_stat\t400\t10\tModStrNew\n"

	var table *StatTable
	require.NotPanics(t, func() {
		var err error
		table, err = ParseStatTable(strings.NewReader(doc))
		require.NoError(t, err)
	})

	meta, err := table.Lookup(stat.ID(400))
	require.NoError(t, err)
	assert.Equal(t, "item_new_stat", meta.Name)

	id, found := table.ByName("item_new_stat")
	require.True(t, found)
	assert.Equal(t, stat.ID(400), id)
}

func TestStatName(t *testing.T) {
	assert.Equal(t, stat.StringStats[stat.Strength], StatName(stat.Strength))
	assert.Equal(t, "400", StatName(stat.ID(400)))
}

func TestStatTableGroupIsACopy(t *testing.T) {
	table, err := ParseStatTable(strings.NewReader(itemStatCost))
	require.NoError(t, err)

	group := table.Group("Moditem2allattrib")
	group[0] = stat.Vitality
	assert.Equal(t, []stat.ID{stat.Strength, stat.Energy}, table.Group("Moditem2allattrib"))
}

func TestParseStatTableBadNumber(t *testing.T) {
	_, err := ParseStatTable(strings.NewReader("Stat\t*ID\tValShift\nstrength\t0\tx\n"))
	assert.Error(t, err)
}

func TestDescFuncFromCode(t *testing.T) {
	assert.Equal(t, DescFuncPercentOf128, DescFuncFromCode(5))
	assert.Equal(t, DescFuncRepairRate, DescFuncFromCode(11))
	assert.Equal(t, DescFuncCharges, DescFuncFromCode(24))
	assert.Equal(t, DescFuncNonClassSkill, DescFuncFromCode(28))
	assert.Equal(t, DescFuncValue, DescFuncFromCode(1))
	assert.Equal(t, DescFuncValue, DescFuncFromCode(99))
}

func TestParseDivisors(t *testing.T) {
	table, err := ParseStatTable(strings.NewReader(itemStatCost))
	require.NoError(t, err)

	divisors, err := ParseDivisors(strings.NewReader(properties), table)
	require.NoError(t, err)

	div, found := divisors.Divisor(stat.StrengthPerLevel)
	assert.True(t, found)
	assert.Equal(t, 8, div, "the first matching property wins")

	_, found = divisors.Divisor(stat.MaxLife)
	assert.False(t, found)
	assert.Len(t, divisors, 1)
}

func TestParsePerLevelParameter(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "#/8 per Level", want: 8},
		{text: "#/2 per Level", want: 2},
		{text: "ac/lvl (8ths)", want: 8},
		{text: "", want: 0},
		{text: "skill", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parsePerLevelParameter(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parsePerLevelParameter("#/x per Level")
	assert.Error(t, err)
}

func TestLocalization(t *testing.T) {
	records, err := ParseLocalization([]byte(`[{"id": 1, "Key": "ModStr1e", "enUS": "+%d to Strength", "deDE": "+%d Stärke"}]`))
	require.NoError(t, err)

	loc := NewLocalization()
	loc.Add(DomainItemModifiers, records)

	text, err := loc.Lookup("ModStr1e", EnUS)
	require.NoError(t, err)
	assert.Equal(t, "+%d to Strength", text)

	text, err = loc.Lookup("ModStr1e", DeDE)
	require.NoError(t, err)
	assert.Equal(t, "+%d Stärke", text)

	_, err = loc.Lookup("ModStr1e", JaJP)
	assert.ErrorIs(t, err, ErrMissingLocalization)

	_, err = loc.Lookup("missing", EnUS)
	assert.ErrorIs(t, err, ErrMissingLocalization)

	_, err = loc.LookupIn(DomainItems, "ModStr1e", EnUS)
	assert.ErrorIs(t, err, ErrMissingLocalization, "domains are separate")
}

func TestParseLocalizationRequiresKey(t *testing.T) {
	_, err := ParseLocalization([]byte(`[{"id": 1, "enUS": "x"}]`))
	assert.Error(t, err)
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("ENUS")
	require.NoError(t, err)
	assert.Equal(t, EnUS, lang)

	_, err = ParseLanguage("xxXX")
	assert.Error(t, err)
}

func TestParseCatalog(t *testing.T) {
	catalog, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	class, idx, found := catalog.ClassOf(item.Name("SkullCap"))
	require.True(t, found)
	assert.Equal(t, "Helms", class.Name)
	assert.Equal(t, 1, idx)

	_, _, found = catalog.ClassOf(item.Name("Ring"))
	assert.False(t, found)

	qlvl, found := catalog.QualityLevel("Harlequin Crest")
	assert.True(t, found)
	assert.Equal(t, 69, qlvl)

	tree, found := catalog.SkillTreeOf(skill.ID(54))
	assert.True(t, found)
	assert.Equal(t, TreeLightning, tree)
	assert.Equal(t, []SkillTree{TreeLightning, TreeCold}, catalog.SkillTrees())
	assert.Equal(t, []skill.ID{42, 54}, catalog.TreeSkills(TreeLightning))

	key, found := catalog.MonsterNameKey(npc.ID(5))
	assert.True(t, found)
	assert.Equal(t, "Zombie", key)
	_, found = catalog.MonsterNameKey(npc.ID(6))
	assert.False(t, found)
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	catalog, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	catalog.TreeSkills(TreeLightning)[0] = skill.ID(1)
	catalog.SkillTrees()[0] = TreeFire
	catalog.ItemClasses()[0] = ItemClass{Name: "Rings"}

	assert.Equal(t, []skill.ID{42, 54}, catalog.TreeSkills(TreeLightning))
	assert.Equal(t, []SkillTree{TreeLightning, TreeCold}, catalog.SkillTrees())
	assert.Equal(t, "Helms", catalog.ItemClasses()[0].Name)
}

func TestParseCatalogErrors(t *testing.T) {
	_, err := ParseCatalog([]byte("skillTrees:\n  Gardening: [1]\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("itemClasses:\n  - items: [Cap]\n"))
	assert.Error(t, err)
}

func TestSkillTreeClass(t *testing.T) {
	tests := []struct {
		tree SkillTree
		want data.Class
	}{
		{tree: TreeBowAndCrossbow, want: data.Amazon},
		{tree: TreeCold, want: data.Sorceress},
		{tree: TreePoisonAndBone, want: data.Necromancer},
		{tree: TreeDefensiveAuras, want: data.Paladin},
		{tree: TreeWarcries, want: data.Barbarian},
		{tree: TreeElemental, want: data.Druid},
		{tree: TreeMartialArts, want: data.Assassin},
	}

	for _, tt := range tests {
		t.Run(tt.tree.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tree.Class())
		})
	}
}

func TestParseSkillTreeAndClass(t *testing.T) {
	tree, err := ParseSkillTree("poison and bone")
	require.NoError(t, err)
	assert.Equal(t, TreePoisonAndBone, tree)

	class, err := ParseClass("sorceress")
	require.NoError(t, err)
	assert.Equal(t, data.Sorceress, class)

	_, err = ParseClass("warlock")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"txt/ItemStatCost.txt":        {Data: []byte(itemStatCost)},
		"txt/Properties.txt":          {Data: []byte(properties)},
		"catalog.yaml":                {Data: []byte(catalogYAML)},
		"strings/item-modifiers.json": {Data: []byte(modifierStrings)},
		"strings/item-runes.json":     {Data: []byte(runeStrings)},
	}

	tables, err := Load(context.Background(), fsys, Sources{
		ItemStatCost: "txt/ItemStatCost.txt",
		Properties:   "txt/Properties.txt",
		Catalog:      "catalog.yaml",
		Localization: map[Domain]string{
			DomainItemModifiers: "strings/item-modifiers.json",
			DomainRunes:         "strings/item-runes.json",
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, tables.Stats.Len())
	div, found := tables.Divisors.Divisor(stat.StrengthPerLevel)
	assert.True(t, found)
	assert.Equal(t, 8, div)
	assert.Len(t, tables.Catalog.ItemClasses(), 2)

	text, err := tables.Localization.Lookup("ModStr1h", EnUS)
	require.NoError(t, err)
	assert.Equal(t, "+%d to Energy", text)

	name, err := tables.Localization.Runeword(20507, EnUS)
	require.NoError(t, err)
	assert.Equal(t, "Ancient's Pledge", name)
	assert.Equal(t, 1, tables.Localization.Len(DomainRunes))
}

func TestLoadOptionalSources(t *testing.T) {
	fsys := fstest.MapFS{
		"ItemStatCost.txt": {Data: []byte(itemStatCost)},
	}

	tables, err := Load(context.Background(), fsys, Sources{ItemStatCost: "ItemStatCost.txt"}, nil)
	require.NoError(t, err)
	assert.Empty(t, tables.Divisors)
	assert.Empty(t, tables.Catalog.ItemClasses())
}

func TestLoadMissingFile(t *testing.T) {
	fsys := fstest.MapFS{
		"ItemStatCost.txt": {Data: []byte(itemStatCost)},
	}

	_, err := Load(context.Background(), fsys, Sources{
		ItemStatCost: "ItemStatCost.txt",
		Localization: map[Domain]string{DomainItems: "missing.json"},
	}, nil)
	assert.Error(t, err)
}
