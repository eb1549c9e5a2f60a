package game

import (
	"github.com/hectorgimenez/d2go/pkg/data"
	"github.com/hectorgimenez/d2go/pkg/data/item"
	"github.com/hectorgimenez/d2go/pkg/data/stat"
)

// Item is a read-only snapshot of an item unit as produced by the memory reader.
// Stats holds every stat layer the item carries, AddedStats the magic/"added"
// section and StaffMods the staff-type bonus skills.
type Item struct {
	UnitID     int          `yaml:"unitId" json:"unitId"`
	Name       item.Name    `yaml:"name" json:"name"`
	Quality    item.Quality `yaml:"quality" json:"quality"`
	UniqueName string       `yaml:"uniqueName,omitempty" json:"uniqueName,omitempty"`
	SetName    string       `yaml:"setName,omitempty" json:"setName,omitempty"`

	Identified       bool `yaml:"identified" json:"identified"`
	Ethereal         bool `yaml:"ethereal" json:"ethereal"`
	LowQuality       bool `yaml:"lowQuality" json:"lowQuality"`
	Dropped          bool `yaml:"dropped" json:"dropped"`
	AnyPlayerHolding bool `yaml:"anyPlayerHolding" json:"anyPlayerHolding"`
	InStore          bool `yaml:"inStore" json:"inStore"`

	Stats      stat.Stats `yaml:"stats" json:"stats"`
	AddedStats stat.Stats `yaml:"addedStats" json:"addedStats"`
	StaffMods  stat.Stats `yaml:"staffMods" json:"staffMods"`
	Sockets    []Item     `yaml:"sockets" json:"sockets"`
}

// Player is the subset of the player unit the stat engine needs.
type Player struct {
	Level int        `yaml:"level" json:"level"`
	Class data.Class `yaml:"class" json:"class"`
}

// OwnStat returns the first value for id in the item's own stats.
func (i Item) OwnStat(id stat.ID) (int, bool) {
	return firstValue(i.Stats, id)
}

// OwnLayer returns the value stored for (id, layer) in the item's own stats.
func (i Item) OwnLayer(id stat.ID, layer int) (int, bool) {
	for _, s := range i.Stats {
		if s.ID == id && s.Layer == layer {
			return s.Value, true
		}
	}
	return 0, false
}

// OwnLayers returns every layer of id in the item's own stats, in stored order.
func (i Item) OwnLayers(id stat.ID) []stat.Data {
	var layers []stat.Data
	for _, s := range i.Stats {
		if s.ID == id {
			layers = append(layers, s)
		}
	}
	return layers
}

func firstValue(stats stat.Stats, id stat.ID) (int, bool) {
	for _, s := range stats {
		if s.ID == id {
			return s.Value, true
		}
	}
	return 0, false
}

// StatValue looks the stat up in own stats, then added stats, then staff mods.
func (i Item) StatValue(id stat.ID) int {
	if v, found := firstValue(i.Stats, id); found {
		return v
	}
	if v, found := firstValue(i.AddedStats, id); found {
		return v
	}
	if v, found := firstValue(i.StaffMods, id); found {
		return v
	}
	return 0
}
