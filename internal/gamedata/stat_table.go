package gamedata

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/hectorgimenez/d2go/pkg/data/stat"
)

// DescFunc selects how a stat's raw value becomes template arguments.
// Each known descfunc code from ItemStatCost maps to one variant; unknown
// codes render the plain value.
type DescFunc int

const (
	DescFuncValue DescFunc = iota
	DescFuncPercentOf128
	DescFuncRepairRate
	DescFuncClassSkills
	DescFuncSkillTab
	DescFuncChanceToCast
	DescFuncAura
	DescFuncMonsterDamage
	DescFuncMonsterAttack
	DescFuncCharges
	DescFuncSingleSkill
	DescFuncNonClassSkill
)

var descFuncCodes = map[int]DescFunc{
	5:  DescFuncPercentOf128,
	11: DescFuncRepairRate,
	13: DescFuncClassSkills,
	14: DescFuncSkillTab,
	15: DescFuncChanceToCast,
	16: DescFuncAura,
	22: DescFuncMonsterDamage,
	23: DescFuncMonsterAttack,
	24: DescFuncCharges,
	27: DescFuncSingleSkill,
	28: DescFuncNonClassSkill,
}

// DescFuncFromCode resolves the numeric descfunc column.
func DescFuncFromCode(code int) DescFunc {
	if fn, found := descFuncCodes[code]; found {
		return fn
	}
	return DescFuncValue
}

// StatMeta is one ItemStatCost row.
type StatMeta struct {
	ID           stat.ID
	Name         string
	Encode       int
	ValShift     int
	DescPriority int
	DescFunc     DescFunc
	DescStrPos   string
	DescStrNeg   string
	DescGroup    string
	DescStr2     string
}

// StatTable is the read-only stat metadata table.
type StatTable struct {
	rows   []StatMeta
	byID   map[stat.ID]int
	byName map[string]stat.ID
	byStat map[string]stat.ID
	groups map[string][]stat.ID
}

// NewStatTable indexes rows, keeping their order as the table order.
func NewStatTable(rows []StatMeta) *StatTable {
	t := &StatTable{
		rows:   slices.Clone(rows),
		byID:   make(map[stat.ID]int, len(rows)),
		byName: make(map[string]stat.ID, len(rows)*2),
		byStat: make(map[string]stat.ID, len(rows)),
		groups: make(map[string][]stat.ID),
	}

	for i, row := range t.rows {
		if _, dup := t.byID[row.ID]; dup {
			continue
		}
		t.byID[row.ID] = i
		if _, taken := t.byStat[row.Name]; !taken && row.Name != "" {
			t.byStat[row.Name] = row.ID
		}

		for _, name := range []string{row.Name, StatName(row.ID)} {
			key := normalizeName(name)
			if key == "" {
				continue
			}
			if _, taken := t.byName[key]; !taken {
				t.byName[key] = row.ID
			}
		}

		if row.DescGroup != "" {
			t.groups[row.DescGroup] = append(t.groups[row.DescGroup], row.ID)
		}
	}

	return t
}

// ParseStatTable reads ItemStatCost.txt. Rows are identified by the *ID column,
// or by their position when the column is absent.
func ParseStatTable(r io.Reader) (*StatTable, error) {
	records, err := readTSV(r)
	if err != nil {
		return nil, fmt.Errorf("item stat cost: %w", err)
	}

	rows := make([]StatMeta, 0, len(records))
	for idx, rec := range records {
		name := rec.str("Stat")
		if name == "" {
			continue
		}

		id := idx
		if _, found := rec["*ID"]; found {
			if id, err = rec.num("*ID"); err != nil {
				return nil, fmt.Errorf("item stat cost row %d: %w", idx, err)
			}
		}

		meta := StatMeta{
			ID:         stat.ID(id),
			Name:       name,
			DescStrPos: rec.str("descstrpos"),
			DescStrNeg: rec.str("descstrneg"),
			DescGroup:  rec.str("dgrpstrpos"),
			DescStr2:   rec.str("descstr2"),
		}
		descFunc := 0
		for col, dst := range map[string]*int{
			"Encode":       &meta.Encode,
			"ValShift":     &meta.ValShift,
			"descpriority": &meta.DescPriority,
			"descfunc":     &descFunc,
		} {
			if *dst, err = rec.num(col); err != nil {
				return nil, fmt.Errorf("item stat cost row %d (%s): %w", idx, name, err)
			}
		}
		meta.DescFunc = DescFuncFromCode(descFunc)

		rows = append(rows, meta)
	}

	return NewStatTable(rows), nil
}

// Lookup returns the metadata row for id.
func (t *StatTable) Lookup(id stat.ID) (StatMeta, error) {
	idx, found := t.byID[id]
	if !found {
		return StatMeta{}, fmt.Errorf("%w: %d", ErrInvalidStat, id)
	}
	return t.rows[idx], nil
}

// ByName resolves a stat by its ItemStatCost name or d2go identifier,
// ignoring case, spaces and underscores.
func (t *StatTable) ByName(name string) (stat.ID, bool) {
	id, found := t.byName[normalizeName(name)]
	return id, found
}

// byExactName matches the Stat column verbatim, as Properties.txt references it.
func (t *StatTable) byExactName(name string) (stat.ID, bool) {
	id, found := t.byStat[name]
	return id, found
}

// Group returns the stats sharing a descgroup template key, in table order.
func (t *StatTable) Group(key string) []stat.ID {
	return slices.Clone(t.groups[key])
}

// StatName returns the d2go identifier of a stat, or its number for ids the
// d2go enum does not cover.
func StatName(id stat.ID) string {
	if int(id) >= 0 && int(id) < len(stat.StringStats) {
		return stat.StringStats[id]
	}
	return strconv.Itoa(int(id))
}

func (t *StatTable) Len() int {
	return len(t.rows)
}

var nameReplacer = strings.NewReplacer(" ", "", "_", "", "'", "", "-", "")

func normalizeName(name string) string {
	return nameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}
