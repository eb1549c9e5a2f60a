package stats

import (
	"slices"

	"github.com/hectorgimenez/d2go/pkg/data/stat"
	"github.com/hectorgimenez/lootlens/internal/game"
)

// LayerValue is one (layer, value) entry of a stat.
type LayerValue struct {
	Layer int
	Value int
}

// LayerMap is an insertion ordered stat -> layers map. A (stat, layer) pair
// appears at most once and never holds a zero value.
type LayerMap struct {
	order  []stat.ID
	layers map[stat.ID][]LayerValue
}

func NewLayerMap() *LayerMap {
	return &LayerMap{layers: make(map[stat.ID][]LayerValue)}
}

// Aggregate builds the item's blue stats: socketed items first, then the
// item's added stats, then staff mods.
func Aggregate(it game.Item) *LayerMap {
	m := NewLayerMap()
	for _, socket := range it.Sockets {
		m.Merge(socket.Stats)
	}
	m.Merge(it.AddedStats)
	m.Merge(it.StaffMods)
	return m
}

type sourceStat struct {
	id     stat.ID
	layers []LayerValue
}

// groupSource groups a flat stat list by stat id, keeping first appearance
// order and summing repeated layers.
func groupSource(src stat.Stats) []sourceStat {
	var grouped []sourceStat
	index := make(map[stat.ID]int)

	for _, s := range src {
		gi, found := index[s.ID]
		if !found {
			gi = len(grouped)
			index[s.ID] = gi
			grouped = append(grouped, sourceStat{id: s.ID})
		}

		g := &grouped[gi]
		if li := slices.IndexFunc(g.layers, func(lv LayerValue) bool { return lv.Layer == s.Layer }); li >= 0 {
			g.layers[li].Value += s.Value
			continue
		}
		g.layers = append(g.layers, LayerValue{Layer: s.Layer, Value: s.Value})
	}

	return grouped
}

// Merge adds a source to the map. The source's layers are taken in reverse
// order; layers already present keep their position and get the values summed.
// Entries summing to zero are dropped, a stat left without layers is removed.
func (m *LayerMap) Merge(src stat.Stats) {
	for _, s := range groupSource(src) {
		incoming := slices.Clone(s.layers)
		slices.Reverse(incoming)

		existing, found := m.layers[s.id]
		if !found {
			merged := nonZero(incoming)
			if len(merged) == 0 {
				continue
			}
			m.order = append(m.order, s.id)
			m.layers[s.id] = merged
			continue
		}

		merged := slices.Clone(existing)
		for _, add := range incoming {
			if i := slices.IndexFunc(merged, func(lv LayerValue) bool { return lv.Layer == add.Layer }); i >= 0 {
				merged[i].Value += add.Value
				continue
			}
			merged = append(merged, add)
		}

		merged = nonZero(merged)
		if len(merged) == 0 {
			m.Remove(s.id)
			continue
		}
		m.layers[s.id] = merged
	}
}

func nonZero(layers []LayerValue) []LayerValue {
	return slices.DeleteFunc(layers, func(lv LayerValue) bool { return lv.Value == 0 })
}

// Layers returns the layers of id in display order.
func (m *LayerMap) Layers(id stat.ID) ([]LayerValue, bool) {
	layers, found := m.layers[id]
	return layers, found
}

// Value returns the value stored for (id, layer).
func (m *LayerMap) Value(id stat.ID, layer int) (int, bool) {
	for _, lv := range m.layers[id] {
		if lv.Layer == layer {
			return lv.Value, true
		}
	}
	return 0, false
}

func (m *LayerMap) Has(id stat.ID) bool {
	_, found := m.layers[id]
	return found
}

func (m *LayerMap) Remove(id stat.ID) {
	if _, found := m.layers[id]; !found {
		return
	}
	delete(m.layers, id)
	m.order = slices.DeleteFunc(m.order, func(o stat.ID) bool { return o == id })
}

// Index returns the insertion position of id, or -1 when absent.
func (m *LayerMap) Index(id stat.ID) int {
	return slices.Index(m.order, id)
}

// IDs returns the stats in insertion order.
func (m *LayerMap) IDs() []stat.ID {
	return slices.Clone(m.order)
}

func (m *LayerMap) Len() int {
	return len(m.order)
}

// Stats flattens the map back into d2go stat data.
func (m *LayerMap) Stats() stat.Stats {
	var out stat.Stats
	for _, id := range m.order {
		for _, lv := range m.layers[id] {
			out = append(out, stat.Data{ID: id, Layer: lv.Layer, Value: lv.Value})
		}
	}
	return out
}
