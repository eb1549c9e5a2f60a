package lootfilter_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/hectorgimenez/d2go/pkg/data"
	"github.com/hectorgimenez/d2go/pkg/data/item"
	"github.com/hectorgimenez/d2go/pkg/data/skill"
	"github.com/hectorgimenez/d2go/pkg/data/stat"
	"github.com/hectorgimenez/lootlens/internal/game"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
	"github.com/hectorgimenez/lootlens/internal/lootfilter"
	"github.com/hectorgimenez/lootlens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, doc string) *lootfilter.Filter {
	t.Helper()
	f, err := lootfilter.Parse([]byte(doc), testutil.Tables(), nil)
	require.NoError(t, err)
	return f
}

func shako(mods ...func(*game.Item)) game.Item {
	it := game.Item{Name: "Shako", Quality: item.QualityUnique, Dropped: true}
	for _, mod := range mods {
		mod(&it)
	}
	return it
}

func withStats(s ...stat.Data) func(*game.Item) {
	return func(it *game.Item) {
		it.Identified = true
		it.Stats = append(it.Stats, s...)
		it.AddedStats = append(it.AddedStats, s...)
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestEvaluateExistence(t *testing.T) {
	f := parse(t, "Any:\n")

	tests := []struct {
		name string
		it   game.Item
		want bool
	}{
		{name: "on the ground", it: shako(), want: true},
		{name: "already held", it: shako(func(it *game.Item) { it.AnyPlayerHolding = true }), want: false},
		{name: "low quality", it: shako(func(it *game.Item) { it.LowQuality = true }), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, rule := f.Evaluate(tt.it, 85, 90)
			assert.Equal(t, tt.want, matched)
			assert.Nil(t, rule)
		})
	}
}

func TestEvaluateEmptyFilter(t *testing.T) {
	f := parse(t, "")

	matched, rule := f.Evaluate(shako(), 85, 90)
	assert.False(t, matched)
	assert.Nil(t, rule)
}

func TestEvaluateFirstMatchingRuleWins(t *testing.T) {
	f := parse(t, `
Shako:
  - Ethereal: true
  - {}
  - Qualities: [Unique]
`)

	matched, rule := f.Evaluate(shako(), 85, 90)
	require.True(t, matched)
	require.NotNil(t, rule)
	assert.Empty(t, rule.Constraints())
	assert.Equal(t, "Shako", rule.Item)
}

func TestEvaluateSpecificItemOverridesAny(t *testing.T) {
	f := parse(t, `
Any:
  - {}
Shako:
  - Ethereal: true
`)

	matched, _ := f.Evaluate(shako(), 85, 90)
	assert.False(t, matched)

	matched, rule := f.Evaluate(game.Item{Name: "Cap", Quality: item.QualityMagic, Dropped: true}, 85, 90)
	assert.True(t, matched)
	require.NotNil(t, rule)
	assert.Equal(t, lootfilter.AnyItem, rule.Item)
}

func TestEvaluateItemNamesAreNormalized(t *testing.T) {
	f := parse(t, `
shako:
  - {}
`)

	matched, _ := f.Evaluate(shako(), 85, 90)
	assert.True(t, matched)
}

func TestEvaluateVendor(t *testing.T) {
	f := parse(t, `
Shako:
  - VendorOnly: true
    Qualities: [Magic]
  - CheckVendor: true
    Qualities: [Unique]
  - Qualities: [Rare]
`)

	inStore := func(q item.Quality) game.Item {
		return game.Item{Name: "Shako", Quality: q, InStore: true}
	}
	onGround := func(q item.Quality) game.Item {
		return game.Item{Name: "Shako", Quality: q, Dropped: true}
	}

	tests := []struct {
		name     string
		it       game.Item
		want     bool
		wantRule int
	}{
		{name: "vendor only rule in store", it: inStore(item.QualityMagic), want: true, wantRule: 0},
		{name: "vendor only rule on the ground", it: onGround(item.QualityMagic), want: false},
		{name: "check vendor rule in store", it: inStore(item.QualityUnique), want: true, wantRule: 1},
		{name: "check vendor rule on the ground", it: onGround(item.QualityUnique), want: true, wantRule: 1},
		{name: "plain rule skips the store", it: inStore(item.QualityRare), want: false},
		{name: "plain rule on the ground", it: onGround(item.QualityRare), want: true, wantRule: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, rule := f.Evaluate(tt.it, 85, 90)
			assert.Equal(t, tt.want, matched)
			if !tt.want {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			want := []lootfilter.Field{lootfilter.FieldQualities}
			assert.Equal(t, want, rule.Constraints())
			assert.Equal(t, tt.wantRule == 0, rule.VendorOnly)
			assert.Equal(t, tt.wantRule == 1, rule.CheckVendor)
		})
	}
}

func TestEvaluateUnidentifiedRules(t *testing.T) {
	f := parse(t, `
Shako:
  - Qualities: [Unique]
`)

	unid := shako()
	matched, _ := f.Evaluate(unid, 85, 90)
	assert.True(t, matched)

	id := shako(withStats(stat.Data{ID: stat.MagicFind, Value: 50}))
	matched, _ = f.Evaluate(id, 85, 90)
	assert.False(t, matched, "identified drops skip rules meant for unidentified items")

	f = parse(t, `
Shako:
  - Qualities: [Unique]
    UnidentifiedOnly: false
`)
	matched, _ = f.Evaluate(id, 85, 90)
	assert.True(t, matched)
}

func TestEvaluateStatThresholds(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		it   game.Item
		want bool
	}{
		{
			name: "alias at threshold",
			doc:  "Shako:\n  - fcr: 20\n",
			it:   shako(withStats(stat.Data{ID: stat.FasterCastRate, Value: 20})),
			want: true,
		},
		{
			name: "alias below threshold",
			doc:  "Shako:\n  - fcr: 20\n",
			it:   shako(withStats(stat.Data{ID: stat.FasterCastRate, Value: 19})),
			want: false,
		},
		{
			name: "table name",
			doc:  "Shako:\n  - item_magicbonus: 50\n",
			it:   shako(withStats(stat.Data{ID: stat.MagicFind, Value: 50})),
			want: true,
		},
		{
			name: "negative threshold with negative value",
			doc:  "Shako:\n  - passive_fire_pierce: -10\n",
			it:   shako(withStats(stat.Data{ID: stat.EnemyFireResist, Value: 20})),
			want: true,
		},
		{
			name: "negative threshold not reached",
			doc:  "Shako:\n  - passive_fire_pierce: -25\n",
			it:   shako(withStats(stat.Data{ID: stat.EnemyFireResist, Value: 20})),
			want: false,
		},
		{
			name: "positive threshold with negative value",
			doc:  "Shako:\n  - passive_fire_pierce: 10\n",
			it:   shako(withStats(stat.Data{ID: stat.EnemyFireResist, Value: 20})),
			want: false,
		},
		{
			name: "negative threshold with positive value",
			doc:  "Shako:\n  - fireres: -10\n",
			it:   shako(withStats(stat.Data{ID: stat.FireResist, Value: 30})),
			want: false,
		},
		{
			name: "per level stat resolves at level one",
			doc:  "Shako:\n  - item_strength_perlevel: 3\n",
			it:   shako(withStats(stat.Data{ID: stat.StrengthPerLevel, Value: 16})),
			want: false,
		},
		{
			name: "missing stat",
			doc:  "Shako:\n  - fcr: 1\n",
			it:   shako(withStats()),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, _ := parse(t, tt.doc).Evaluate(tt.it, 85, 90)
			assert.Equal(t, tt.want, matched)
		})
	}
}

func TestEvaluateConstraints(t *testing.T) {
	sorcSkills := shako(withStats(
		stat.Data{ID: stat.AllSkills, Value: 1},
		stat.Data{ID: stat.AddClassSkills, Layer: int(data.Sorceress), Value: 2},
		stat.Data{ID: stat.AddSkillTab, Layer: int(gamedata.TreeLightning), Value: 3},
		stat.Data{ID: stat.SingleSkill, Layer: int(skill.Teleport), Value: 2},
		stat.Data{ID: stat.ItemChargedSkill, Layer: int(skill.Blizzard)<<6 | 7, Value: 20<<8 | 20},
	))
	resists := shako(withStats(
		stat.Data{ID: stat.FireResist, Value: 20},
		stat.Data{ID: stat.LightningResist, Value: 25},
		stat.Data{ID: stat.ColdResist, Value: 30},
		stat.Data{ID: stat.PoisonResist, Value: 35},
	))

	tests := []struct {
		name string
		doc  string
		it   game.Item
		want bool
	}{
		{name: "elite tier", doc: "Any:\n  - Tiers: [Elite]\n", it: shako(), want: true},
		{name: "wrong tier", doc: "Any:\n  - Tiers: Normal\n", it: shako(), want: false},
		{name: "circlet has no tier", doc: "Any:\n  - Tiers: [Normal, Exceptional, Elite]\n", it: game.Item{Name: "Tiara", Dropped: true}, want: false},
		{name: "sockets", doc: "Any:\n  - Sockets: [2, 3]\n", it: shako(func(it *game.Item) { it.Stats = stat.Stats{{ID: stat.NumSockets, Value: 3}} }), want: true},
		{name: "no sockets", doc: "Any:\n  - Sockets: [2, 3]\n", it: shako(), want: false},
		{name: "ethereal false", doc: "Any:\n  - Ethereal: false\n", it: shako(), want: true},
		{name: "min area level", doc: "Any:\n  - MinAreaLevel: 85\n", it: shako(), want: true},
		{name: "max area level", doc: "Any:\n  - MaxAreaLevel: 80\n", it: shako(), want: false},
		{name: "min player level", doc: "Any:\n  - MinPlayerLevel: 91\n", it: shako(), want: false},
		{name: "max player level", doc: "Any:\n  - MaxPlayerLevel: 90\n", it: shako(), want: true},
		{name: "min quality level of unique", doc: "Any:\n  - MinQualityLevel: 69\n", it: shako(func(it *game.Item) { it.UniqueName = "Harlequin Crest" }), want: true},
		{name: "max quality level of base", doc: "Any:\n  - MaxQualityLevel: 60\n", it: shako(), want: true},
		{name: "unknown quality level fails", doc: "Any:\n  - MaxQualityLevel: 99\n", it: game.Item{Name: "Armet", Dropped: true}, want: false},
		{name: "all resist", doc: "Any:\n  - AllResist: 20\n", it: resists, want: true},
		{name: "all resist too high", doc: "Any:\n  - AllResist: 21\n", it: resists, want: false},
		{name: "sum resist", doc: "Any:\n  - SumResist: 110\n", it: resists, want: true},
		{name: "class skills", doc: "Any:\n  - ClassSkills: {Sorceress: 3}\n", it: sorcSkills, want: true},
		{name: "class skills of another class", doc: "Any:\n  - ClassSkills: {Necromancer: 2}\n", it: sorcSkills, want: false},
		{name: "any class skills", doc: "Any:\n  - ClassSkills: {Any: 3}\n", it: sorcSkills, want: true},
		{name: "skill tree", doc: "Any:\n  - SkillTrees: {Lightning: 6}\n", it: sorcSkills, want: true},
		{name: "any skill tree", doc: "Any:\n  - SkillTrees: {Any: 7}\n", it: sorcSkills, want: false},
		{name: "single skill by id", doc: fmt.Sprintf("Any:\n  - Skills: {%d: 8}\n", int(skill.Teleport)), it: sorcSkills, want: true},
		{name: "single skill too low", doc: fmt.Sprintf("Any:\n  - Skills: {%d: 9}\n", int(skill.Teleport)), it: sorcSkills, want: false},
		{name: "charges by id", doc: fmt.Sprintf("Any:\n  - SkillCharges: {%d: 7}\n", int(skill.Blizzard)), it: sorcSkills, want: true},
		{name: "any charges", doc: "Any:\n  - SkillCharges: {Any: 8}\n", it: sorcSkills, want: false},
		{name: "empty requirements", doc: "Any:\n  - SkillCharges: {}\n", it: resists, want: true},
		{name: "null constraint is unset", doc: "Any:\n  - Ethereal: ~\n", it: shako(), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, _ := parse(t, tt.doc).Evaluate(tt.it, 85, 90)
			assert.Equal(t, tt.want, matched)
		})
	}
}

func TestParseKeepsDeclaredOrder(t *testing.T) {
	f := parse(t, `
Shako:
  - Ethereal: false
    fcr: 10
    Qualities: [Unique, Set]
    MinAreaLevel: 1
`)

	matched, rule := f.Evaluate(shako(withStats(stat.Data{ID: stat.FasterCastRate, Value: 10})), 85, 90)
	require.True(t, matched)
	require.NotNil(t, rule)
	assert.Equal(t, []lootfilter.Field{
		lootfilter.FieldEthereal,
		lootfilter.FieldStat,
		lootfilter.FieldQualities,
		lootfilter.FieldMinAreaLevel,
	}, rule.Constraints())
	assert.Equal(t, []item.Quality{item.QualityUnique, item.QualitySet}, rule.Qualities)
	assert.Equal(t, []lootfilter.StatThreshold{{Stat: stat.FasterCastRate, Value: 10}}, rule.Stats)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantItem string
		wantRule int
		wantKey  string
	}{
		{name: "unknown key", doc: "Shako:\n  - {}\n  - Bogus: 1\n", wantItem: "Shako", wantRule: 1, wantKey: "Bogus"},
		{name: "unknown tier", doc: "Shako:\n  - Tiers: [Legendary]\n", wantItem: "Shako", wantRule: 0, wantKey: "Tiers"},
		{name: "unknown quality", doc: "Shako:\n  - Qualities: [Epic]\n", wantItem: "Shako", wantRule: 0, wantKey: "Qualities"},
		{name: "unknown class", doc: "Shako:\n  - ClassSkills: {Monk: 1}\n", wantItem: "Shako", wantRule: 0, wantKey: "ClassSkills"},
		{name: "requirements must be a mapping", doc: "Shako:\n  - SkillTrees: [Cold]\n", wantItem: "Shako", wantRule: 0, wantKey: "SkillTrees"},
		{name: "duplicate constraint", doc: "Shako:\n  - MinAreaLevel: 1\n    minarealevel: 2\n", wantItem: "Shako", wantRule: 0, wantKey: "minarealevel"},
		{name: "item rules must be a list", doc: "Shako: 5\n", wantItem: "Shako", wantRule: -1},
		{name: "stat missing from the table", doc: "Shako:\n  - fhr: 10\n", wantItem: "Shako", wantRule: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lootfilter.Parse([]byte(tt.doc), testutil.Tables(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, lootfilter.ErrConfiguration)

			var cfgErr *lootfilter.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantItem, cfgErr.Item)
			assert.Equal(t, tt.wantRule, cfgErr.Rule)
			if tt.wantKey != "" {
				assert.Equal(t, tt.wantKey, cfgErr.Key)
			}
		})
	}
}

func TestParseRejectsNonMappingRoot(t *testing.T) {
	_, err := lootfilter.Parse([]byte("- Shako\n"), testutil.Tables(), nil)
	assert.ErrorIs(t, err, lootfilter.ErrConfiguration)
}

func TestNewWithCodeBuiltRules(t *testing.T) {
	rule := &lootfilter.Rule{
		Stats:    []lootfilter.StatThreshold{{Stat: stat.MagicFind, Value: 30}},
		Ethereal: ptr(false),
	}
	f, err := lootfilter.New(testutil.Tables(), []lootfilter.ItemRules{
		{Item: "Shako", Rules: []*lootfilter.Rule{rule}},
		{Item: "Ber Rune"},
	}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rule.ID)
	assert.Equal(t, "Shako", rule.Item)
	assert.Equal(t, []lootfilter.Field{lootfilter.FieldEthereal, lootfilter.FieldStat}, rule.Constraints())

	matched, got := f.Evaluate(shako(withStats(stat.Data{ID: stat.MagicFind, Value: 35})), 85, 90)
	assert.True(t, matched)
	assert.Same(t, rule, got)

	matched, got = f.Evaluate(game.Item{Name: "BerRune", Dropped: true}, 85, 90)
	assert.True(t, matched)
	assert.Nil(t, got)
}

func TestNewRejectsUnknownStat(t *testing.T) {
	tests := []struct {
		name    string
		id      stat.ID
		wantKey string
	}{
		{name: "stat missing from the table", id: stat.FasterHitRecovery, wantKey: gamedata.StatName(stat.FasterHitRecovery)},
		{name: "id past the d2go enum", id: stat.ID(500), wantKey: "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = lootfilter.New(testutil.Tables(), []lootfilter.ItemRules{
					{Item: "Shako", Rules: []*lootfilter.Rule{{Stats: []lootfilter.StatThreshold{{Stat: tt.id, Value: 1}}}}},
				}, nil)
			})
			assert.ErrorIs(t, err, lootfilter.ErrConfiguration)
			assert.ErrorIs(t, err, gamedata.ErrInvalidStat)

			var cfgErr *lootfilter.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "Shako", cfgErr.Item)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}
