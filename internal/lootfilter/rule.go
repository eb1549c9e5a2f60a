package lootfilter

import (
	"github.com/google/uuid"
	"github.com/hectorgimenez/d2go/pkg/data"
	"github.com/hectorgimenez/d2go/pkg/data/item"
	"github.com/hectorgimenez/d2go/pkg/data/skill"
	"github.com/hectorgimenez/d2go/pkg/data/stat"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
	"github.com/hectorgimenez/lootlens/internal/stats"
)

// AnyItem is the item key whose rules apply to items without their own entry.
const AnyItem = "Any"

// Field identifies one constraint of a rule.
type Field int

const (
	FieldTiers Field = iota
	FieldQualities
	FieldSockets
	FieldEthereal
	FieldMinAreaLevel
	FieldMaxAreaLevel
	FieldMinPlayerLevel
	FieldMaxPlayerLevel
	FieldMinQualityLevel
	FieldMaxQualityLevel
	FieldAllAttributes
	FieldAllResist
	FieldSumResist
	FieldClassSkills
	FieldSkillTrees
	FieldSkills
	FieldSkillCharges
	FieldStat
)

var fieldNames = map[Field]string{
	FieldTiers:           "Tiers",
	FieldQualities:       "Qualities",
	FieldSockets:         "Sockets",
	FieldEthereal:        "Ethereal",
	FieldMinAreaLevel:    "MinAreaLevel",
	FieldMaxAreaLevel:    "MaxAreaLevel",
	FieldMinPlayerLevel:  "MinPlayerLevel",
	FieldMaxPlayerLevel:  "MaxPlayerLevel",
	FieldMinQualityLevel: "MinQualityLevel",
	FieldMaxQualityLevel: "MaxQualityLevel",
	FieldAllAttributes:   "AllAttributes",
	FieldAllResist:       "AllResist",
	FieldSumResist:       "SumResist",
	FieldClassSkills:     "ClassSkills",
	FieldSkillTrees:      "SkillTrees",
	FieldSkills:          "Skills",
	FieldSkillCharges:    "SkillCharges",
}

func (f Field) String() string {
	if name, found := fieldNames[f]; found {
		return name
	}
	return "Stat"
}

// ClassRequirement asks for a minimum +class skills bonus, Any meaning the
// best class on the item.
type ClassRequirement struct {
	Class data.Class
	Any   bool
	Min   int
}

type TreeRequirement struct {
	Tree gamedata.SkillTree
	Any  bool
	Min  int
}

// SkillRequirement is used for single skill levels and skill charge levels.
type SkillRequirement struct {
	Skill skill.ID
	Any   bool
	Min   int
}

// StatThreshold requires the item's adjusted stat value to reach Value with
// the same sign: negative thresholds ask for values at or below them.
type StatThreshold struct {
	Stat  stat.ID
	Value int
}

// constraintRef is one declared constraint; index points into Stats for FieldStat.
type constraintRef struct {
	field Field
	index int
}

// Rule is one loot filter entry. Unset optional fields are nil and are not
// checked; empty skill requirement lists are satisfied by any item.
type Rule struct {
	ID   uuid.UUID
	Item string

	Tiers     []stats.ItemTier
	Qualities []item.Quality
	Sockets   []int
	Ethereal  *bool

	MinAreaLevel    *int
	MaxAreaLevel    *int
	MinPlayerLevel  *int
	MaxPlayerLevel  *int
	MinQualityLevel *int
	MaxQualityLevel *int

	AllAttributes *int
	AllResist     *int
	SumResist     *int

	ClassSkills  []ClassRequirement
	SkillTrees   []TreeRequirement
	Skills       []SkillRequirement
	SkillCharges []SkillRequirement

	Stats []StatThreshold

	// CheckVendor lets the rule match items shown by a vendor, VendorOnly
	// restricts it to them.
	CheckVendor bool
	VendorOnly  bool
	// UnidentifiedOnly marks rules meant for unidentified items. When unset
	// it is derived from the rule's constraints.
	UnidentifiedOnly *bool

	order []constraintRef
}

// Constraints returns the rule's constraints in evaluation order.
func (r *Rule) Constraints() []Field {
	fields := make([]Field, len(r.order))
	for i, ref := range r.order {
		fields[i] = ref.field
	}
	return fields
}

// TargetsUnidentified reports whether the rule is meant to be evaluated on
// unidentified items only.
func (r *Rule) TargetsUnidentified() bool {
	if r.UnidentifiedOnly != nil {
		return *r.UnidentifiedOnly
	}
	return !r.needsIdentified()
}

// needsIdentified reports whether any constraint reads stats that only show
// once the item is identified.
func (r *Rule) needsIdentified() bool {
	return len(r.Stats) > 0 ||
		r.AllAttributes != nil || r.AllResist != nil || r.SumResist != nil ||
		r.ClassSkills != nil || r.SkillTrees != nil || r.Skills != nil || r.SkillCharges != nil
}

// isSet reports whether a declared field holds a value.
func (r *Rule) isSet(f Field) bool {
	switch f {
	case FieldTiers:
		return r.Tiers != nil
	case FieldQualities:
		return r.Qualities != nil
	case FieldSockets:
		return r.Sockets != nil
	case FieldEthereal:
		return r.Ethereal != nil
	case FieldMinAreaLevel:
		return r.MinAreaLevel != nil
	case FieldMaxAreaLevel:
		return r.MaxAreaLevel != nil
	case FieldMinPlayerLevel:
		return r.MinPlayerLevel != nil
	case FieldMaxPlayerLevel:
		return r.MaxPlayerLevel != nil
	case FieldMinQualityLevel:
		return r.MinQualityLevel != nil
	case FieldMaxQualityLevel:
		return r.MaxQualityLevel != nil
	case FieldAllAttributes:
		return r.AllAttributes != nil
	case FieldAllResist:
		return r.AllResist != nil
	case FieldSumResist:
		return r.SumResist != nil
	case FieldClassSkills:
		return r.ClassSkills != nil
	case FieldSkillTrees:
		return r.SkillTrees != nil
	case FieldSkills:
		return r.Skills != nil
	case FieldSkillCharges:
		return r.SkillCharges != nil
	default:
		return false
	}
}

// prepare fills the evaluation order for rules built in code: the enumerated
// fields in their declaration order, then stat thresholds.
func (r *Rule) prepare() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.order != nil {
		return
	}

	r.order = []constraintRef{}
	for f := FieldTiers; f < FieldStat; f++ {
		if r.isSet(f) {
			r.order = append(r.order, constraintRef{field: f})
		}
	}
	for i := range r.Stats {
		r.order = append(r.order, constraintRef{field: FieldStat, index: i})
	}
}
