package itemtext

import (
	"slices"

	"github.com/hectorgimenez/d2go/pkg/data/stat"
)

const (
	keyDamageRange  = "strModMinDamageRange"
	keyPoisonRange  = "strModPoisonDamageRange"
	keyReplenishDur = "ModStre9u"
	keyEthSocketed  = "strItemModEtherealSocketed"
	keySocketed     = "Socketable"
	keyEthereal     = "strethereal"
	rangeSuffix     = "Range"
)

// customGroup is a multi stat line the stat table has no descgroup for.
// Variants are tried in order, the first one fully present wins.
type customGroup struct {
	key      string
	variants [][]stat.ID
}

var customGroups = []customGroup{
	{key: keyDamageRange, variants: [][]stat.ID{
		{stat.MinDamage, stat.MaxDamage, stat.TwoHandedMinDamage, stat.TwoHandedMaxDamage},
		{stat.MinDamage, stat.MaxDamage},
	}},
	{key: "ModStr1g", variants: [][]stat.ID{{stat.MinDamage, stat.TwoHandedMinDamage}}},
	{key: "ModStr1f", variants: [][]stat.ID{{stat.MaxDamage, stat.TwoHandedMaxDamage}}},
	{key: "strModEnhancedDamage", variants: [][]stat.ID{{stat.EnhancedDamage, stat.EnhancedDamageMin}}},
	{key: "strModFireDamageRange", variants: [][]stat.ID{{stat.FireMinDamage, stat.FireMaxDamage}}},
	{key: "strModLightningDamageRange", variants: [][]stat.ID{{stat.LightningMinDamage, stat.LightningMaxDamage}}},
	{key: "strModColdDamageRange", variants: [][]stat.ID{{stat.ColdMinDamage, stat.ColdMaxDamage}}},
	{key: keyPoisonRange, variants: [][]stat.ID{{stat.PoisonMinDamage, stat.PoisonMaxDamage, stat.PoisonLength}}},
	{key: "strModMagicDamageRange", variants: [][]stat.ID{{stat.MagicMinDamage, stat.MagicMaxDamage}}},
}

// groupsContaining yields the custom group variants id belongs to, in table order.
func groupsContaining(id stat.ID) []customGroup {
	var out []customGroup
	for _, g := range customGroups {
		for _, members := range g.variants {
			if slices.Contains(members, id) {
				out = append(out, customGroup{key: g.key, variants: [][]stat.ID{members}})
			}
		}
	}
	return out
}
