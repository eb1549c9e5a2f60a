package lootfilter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hectorgimenez/d2go/pkg/data/item"
	"github.com/hectorgimenez/d2go/pkg/data/skill"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
	"github.com/hectorgimenez/lootlens/internal/stats"
	"gopkg.in/yaml.v3"
)

var (
	errNotMapping  = errors.New("expected a mapping")
	errNotSequence = errors.New("expected a list")
	errUnknownKey  = errors.New("unknown constraint or stat name")
)

var knownQualities = []item.Quality{
	item.QualityNormal,
	item.QualitySuperior,
	item.QualityMagic,
	item.QualitySet,
	item.QualityRare,
	item.QualityUnique,
	item.QualityCrafted,
}

var tierNames = map[string]stats.ItemTier{
	"normal":      stats.TierNormal,
	"exceptional": stats.TierExceptional,
	"elite":       stats.TierElite,
}

// LoadFile reads a loot filter yaml file.
func LoadFile(path string, tables *gamedata.Tables, logger *slog.Logger) (*Filter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading loot filter %s: %w", path, err)
	}
	return Parse(data, tables, logger)
}

// Parse decodes a loot filter document:
//
//	Any:
//	  - Qualities: [Unique]
//	Shako:
//	  - Ethereal: false
//	    FasterCastRate: 10
//	Ber Rune:
//
// Keys are kept in their declared order, a null item entry matches on existence.
func Parse(data []byte, tables *gamedata.Tables, logger *slog.Logger) (*Filter, error) {
	var doc yaml.Node
	d := yaml.NewDecoder(bytes.NewReader(data))
	if err := d.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(tables, nil, logger)
		}
		return nil, fmt.Errorf("error decoding loot filter: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Rule: -1, Err: errNotMapping}
	}

	p := parser{tables: tables}
	var entries []ItemRules
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		entry, err := p.itemRules(name, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return New(tables, entries, logger)
}

type parser struct {
	tables *gamedata.Tables
}

func (p parser) itemRules(name string, node *yaml.Node) (ItemRules, error) {
	entry := ItemRules{Item: name}
	if isNull(node) {
		return entry, nil
	}
	if node.Kind != yaml.SequenceNode {
		return entry, &ConfigError{Item: name, Rule: -1, Err: errNotSequence}
	}

	entry.Rules = make([]*Rule, 0, len(node.Content))
	for idx, ruleNode := range node.Content {
		rule, err := p.rule(ruleNode)
		if err != nil {
			var cfgErr *ConfigError
			if errors.As(err, &cfgErr) {
				cfgErr.Item, cfgErr.Rule = name, idx
				return entry, cfgErr
			}
			return entry, &ConfigError{Item: name, Rule: idx, Err: err}
		}
		rule.Item = name
		entry.Rules = append(entry.Rules, rule)
	}

	return entry, nil
}

func (p parser) rule(node *yaml.Node) (*Rule, error) {
	r := &Rule{ID: uuid.New(), order: []constraintRef{}}
	if isNull(node) {
		return r, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		if err := p.field(r, key, value); err != nil {
			return nil, &ConfigError{Key: key, Err: err}
		}
	}

	return r, nil
}

func (p parser) field(r *Rule, key string, value *yaml.Node) error {
	field, known := fieldByKey(key)
	if !known {
		switch normalizeKey(key) {
		case "checkvendor":
			return value.Decode(&r.CheckVendor)
		case "vendoronly":
			return value.Decode(&r.VendorOnly)
		case "unidentifiedonly", "unidonly":
			return decodePtr(value, &r.UnidentifiedOnly)
		}
		return p.statThreshold(r, key, value)
	}

	if isNull(value) {
		return nil
	}
	if r.isSet(field) {
		return fmt.Errorf("%s declared twice", field)
	}

	var err error
	switch field {
	case FieldTiers:
		r.Tiers, err = decodeList(value, parseTier)
	case FieldQualities:
		r.Qualities, err = decodeList(value, parseQuality)
	case FieldSockets:
		r.Sockets, err = decodeList(value, strconv.Atoi)
	case FieldEthereal:
		err = decodePtr(value, &r.Ethereal)
	case FieldMinAreaLevel:
		err = decodePtr(value, &r.MinAreaLevel)
	case FieldMaxAreaLevel:
		err = decodePtr(value, &r.MaxAreaLevel)
	case FieldMinPlayerLevel:
		err = decodePtr(value, &r.MinPlayerLevel)
	case FieldMaxPlayerLevel:
		err = decodePtr(value, &r.MaxPlayerLevel)
	case FieldMinQualityLevel:
		err = decodePtr(value, &r.MinQualityLevel)
	case FieldMaxQualityLevel:
		err = decodePtr(value, &r.MaxQualityLevel)
	case FieldAllAttributes:
		err = decodePtr(value, &r.AllAttributes)
	case FieldAllResist:
		err = decodePtr(value, &r.AllResist)
	case FieldSumResist:
		err = decodePtr(value, &r.SumResist)
	case FieldClassSkills:
		r.ClassSkills, err = decodeRequirements(value, parseClassRequirement)
	case FieldSkillTrees:
		r.SkillTrees, err = decodeRequirements(value, parseTreeRequirement)
	case FieldSkills:
		r.Skills, err = decodeRequirements(value, parseSkillRequirement)
	case FieldSkillCharges:
		r.SkillCharges, err = decodeRequirements(value, parseSkillRequirement)
	}
	if err != nil {
		return err
	}

	r.order = append(r.order, constraintRef{field: field})
	return nil
}

func (p parser) statThreshold(r *Rule, key string, value *yaml.Node) error {
	id, found := statAlias(key)
	if !found {
		if id, found = p.tables.Stats.ByName(key); !found {
			return errUnknownKey
		}
	}

	if isNull(value) {
		return nil
	}
	var threshold int
	if err := value.Decode(&threshold); err != nil {
		return err
	}

	r.Stats = append(r.Stats, StatThreshold{Stat: id, Value: threshold})
	r.order = append(r.order, constraintRef{field: FieldStat, index: len(r.Stats) - 1})
	return nil
}

func fieldByKey(key string) (Field, bool) {
	k := normalizeKey(key)
	for f, name := range fieldNames {
		if normalizeKey(name) == k {
			return f, true
		}
	}
	return 0, false
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

func decodePtr[T any](node *yaml.Node, dst **T) error {
	if isNull(node) {
		return nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

// decodeList accepts a list or a single scalar.
func decodeList[T any](node *yaml.Node, parse func(string) (T, error)) ([]T, error) {
	items := []*yaml.Node{node}
	switch node.Kind {
	case yaml.SequenceNode:
		items = node.Content
	case yaml.ScalarNode:
	default:
		return nil, errNotSequence
	}

	out := make([]T, 0, len(items))
	for _, n := range items {
		v, err := parse(n.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeRequirements[T any](node *yaml.Node, parse func(key string, minimum int) (T, error)) ([]T, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}

	out := make([]T, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var minimum int
		if err := node.Content[i+1].Decode(&minimum); err != nil {
			return nil, err
		}
		req, err := parse(node.Content[i].Value, minimum)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func parseTier(name string) (stats.ItemTier, error) {
	if tier, found := tierNames[normalizeKey(name)]; found {
		return tier, nil
	}
	return 0, fmt.Errorf("unknown item tier %q", name)
}

func parseQuality(name string) (item.Quality, error) {
	key := normalizeKey(name)
	for _, q := range knownQualities {
		if normalizeKey(q.ToString()) == key {
			return q, nil
		}
	}
	return 0, fmt.Errorf("unknown item quality %q", name)
}

func isAnyKey(key string) bool {
	return strings.EqualFold(strings.TrimSpace(key), AnyItem)
}

func parseClassRequirement(key string, minimum int) (ClassRequirement, error) {
	if isAnyKey(key) {
		return ClassRequirement{Any: true, Min: minimum}, nil
	}
	class, err := gamedata.ParseClass(key)
	if err != nil {
		return ClassRequirement{}, err
	}
	return ClassRequirement{Class: class, Min: minimum}, nil
}

func parseTreeRequirement(key string, minimum int) (TreeRequirement, error) {
	if isAnyKey(key) {
		return TreeRequirement{Any: true, Min: minimum}, nil
	}
	tree, err := gamedata.ParseSkillTree(key)
	if err != nil {
		return TreeRequirement{}, err
	}
	return TreeRequirement{Tree: tree, Min: minimum}, nil
}

func parseSkillRequirement(key string, minimum int) (SkillRequirement, error) {
	if isAnyKey(key) {
		return SkillRequirement{Any: true, Min: minimum}, nil
	}
	id, err := parseSkill(key)
	if err != nil {
		return SkillRequirement{}, err
	}
	return SkillRequirement{Skill: id, Min: minimum}, nil
}

// parseSkill accepts a skill display name or its numeric id.
func parseSkill(name string) (skill.ID, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(name)); err == nil {
		return skill.ID(n), nil
	}

	key := normalizeKey(name)
	for id, sk := range skill.Skills {
		if sk.Name != "" && normalizeKey(sk.Name) == key {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown skill %q", name)
}

var keyReplacer = strings.NewReplacer(" ", "", "_", "", "'", "", "-", "")

func normalizeKey(key string) string {
	return keyReplacer.Replace(strings.ToLower(strings.TrimSpace(key)))
}
