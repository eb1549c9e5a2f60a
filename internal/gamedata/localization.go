package gamedata

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Language is a D2R string table column, e.g. "enUS".
type Language string

const (
	EnUS Language = "enUS"
	ZhTW Language = "zhTW"
	DeDE Language = "deDE"
	EsES Language = "esES"
	FrFR Language = "frFR"
	ItIT Language = "itIT"
	KoKR Language = "koKR"
	PlPL Language = "plPL"
	EsMX Language = "esMX"
	JaJP Language = "jaJP"
	PtBR Language = "ptBR"
	RuRU Language = "ruRU"
	ZhCN Language = "zhCN"
)

var languages = []Language{EnUS, ZhTW, DeDE, EsES, FrFR, ItIT, KoKR, PlPL, EsMX, JaJP, PtBR, RuRU, ZhCN}

// ParseLanguage accepts a language code in any letter case.
func ParseLanguage(code string) (Language, error) {
	for _, l := range languages {
		if strings.EqualFold(string(l), code) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language code %q", code)
}

// Domain identifies one of the game's string tables.
type Domain string

const (
	DomainItems         Domain = "items"
	DomainRunes         Domain = "runes"
	DomainLevels        Domain = "levels"
	DomainMonsters      Domain = "monsters"
	DomainNpcs          Domain = "npcs"
	DomainShrines       Domain = "shrines"
	DomainObjects       Domain = "objects"
	DomainItemModifiers Domain = "item-modifiers"
)

// LocalizedString is a single string table record.
type LocalizedString struct {
	ID   int
	Key  string
	Text map[Language]string
}

// Localization holds every loaded string table. It is filled once by Add
// during loading and only read afterwards.
type Localization struct {
	domains   map[Domain]map[string]LocalizedString
	runewords map[int]LocalizedString
}

func NewLocalization() *Localization {
	return &Localization{
		domains:   make(map[Domain]map[string]LocalizedString),
		runewords: make(map[int]LocalizedString),
	}
}

// Add registers records for a domain. Rune records whose key starts with
// "Runeword" are indexed by id instead of key.
func (l *Localization) Add(domain Domain, records []LocalizedString) {
	table, found := l.domains[domain]
	if !found {
		table = make(map[string]LocalizedString, len(records))
		l.domains[domain] = table
	}

	for _, rec := range records {
		if domain == DomainRunes && strings.HasPrefix(rec.Key, "Runeword") {
			l.runewords[rec.ID] = rec
			continue
		}
		table[rec.Key] = rec
	}
}

// Lookup returns a stat text template from the item modifiers table.
func (l *Localization) Lookup(key string, lang Language) (string, error) {
	return l.LookupIn(DomainItemModifiers, key, lang)
}

// LookupIn returns the string for key in the given domain.
func (l *Localization) LookupIn(domain Domain, key string, lang Language) (string, error) {
	rec, found := l.domains[domain][key]
	if !found {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingLocalization, domain, key)
	}
	return rec.text(lang)
}

// Runeword returns the localized runeword name by its string id.
func (l *Localization) Runeword(id int, lang Language) (string, error) {
	rec, found := l.runewords[id]
	if !found {
		return "", fmt.Errorf("%w: runeword %d", ErrMissingLocalization, id)
	}
	return rec.text(lang)
}

// Len returns the number of keyed records in a domain.
func (l *Localization) Len(domain Domain) int {
	return len(l.domains[domain])
}

func (r LocalizedString) text(lang Language) (string, error) {
	text, found := r.Text[lang]
	if !found {
		return "", fmt.Errorf("%w: %s has no %s text", ErrMissingLocalization, r.Key, lang)
	}
	return text, nil
}

// ParseLocalization decodes a D2R string table dump:
// [{"id": 1, "Key": "...", "enUS": "...", ...}, ...]
func ParseLocalization(data []byte) ([]LocalizedString, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding string table: %w", err)
	}

	records := make([]LocalizedString, 0, len(raw))
	for i, entry := range raw {
		key, _ := entry["Key"].(string)
		if key == "" {
			return nil, fmt.Errorf("string table entry %d has no Key", i)
		}

		rec := LocalizedString{Key: key, Text: make(map[Language]string, len(languages))}
		if id, ok := entry["id"].(float64); ok {
			rec.ID = int(id)
		}
		for _, lang := range languages {
			if text, ok := entry[string(lang)].(string); ok {
				rec.Text[lang] = text
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
