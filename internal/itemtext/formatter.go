package itemtext

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/hectorgimenez/d2go/pkg/data/stat"
	"github.com/hectorgimenez/lootlens/internal/game"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
	"github.com/hectorgimenez/lootlens/internal/stats"
)

// Formatter renders an item's blue stats the way the game tooltip does.
// It keeps no state between calls.
type Formatter struct {
	reader *stats.Reader
	tables *gamedata.Tables
	logger *slog.Logger
}

func NewFormatter(reader *stats.Reader, logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Formatter{
		reader: reader,
		tables: reader.Tables(),
		logger: logger,
	}
}

// formatRun holds the per-call working state.
type formatRun struct {
	it     game.Item
	player game.Player
	lang   gamedata.Language
	blue   *stats.LayerMap
	lines  []string
}

// FormatStats returns one localized line per displayed stat, highest
// priority first, followed by the socket/ethereal line when applicable.
func (f *Formatter) FormatStats(it game.Item, player game.Player, lang gamedata.Language) ([]string, error) {
	run := &formatRun{
		it:     it,
		player: player,
		lang:   lang,
		blue:   stats.Aggregate(it),
	}

	ordered, err := f.displayOrder(run.blue)
	if err != nil {
		return nil, err
	}

	for _, meta := range ordered {
		if err := f.formatStat(run, meta); err != nil {
			return nil, err
		}
	}

	if line, found := f.socketEthLine(run); found {
		run.lines = append(run.lines, line)
	}

	return run.lines, nil
}

// displayOrder sorts the present stats by descending priority, ties keep
// their position in the blue stat map.
func (f *Formatter) displayOrder(blue *stats.LayerMap) ([]gamedata.StatMeta, error) {
	ordered := make([]gamedata.StatMeta, 0, blue.Len())
	for _, id := range blue.IDs() {
		meta, err := f.tables.Stats.Lookup(id)
		if err != nil {
			return nil, err
		}
		ordered = append(ordered, meta)
	}

	slices.SortStableFunc(ordered, func(a, b gamedata.StatMeta) int {
		if c := cmp.Compare(b.DescPriority, a.DescPriority); c != 0 {
			return c
		}
		return cmp.Compare(blue.Index(a.ID), blue.Index(b.ID))
	})

	return ordered, nil
}

func (f *Formatter) formatStat(run *formatRun, meta gamedata.StatMeta) error {
	layers, found := run.blue.Layers(meta.ID)
	if !found {
		return nil
	}

	if meta.DescGroup != "" {
		members := f.tables.Stats.Group(meta.DescGroup)
		if len(members) > 1 {
			done, err := f.tryGroup(run, meta.DescGroup, members, true)
			if err != nil || done {
				return err
			}
		}
	}

	for _, g := range groupsContaining(meta.ID) {
		done, err := f.tryGroup(run, g.key, g.variants[0], false)
		if err != nil || done {
			return err
		}
	}

	if meta.DescStrPos == "" {
		return nil
	}

	for _, lv := range layers {
		args, err := f.statArgs(run, meta, lv.Layer, lv.Value)
		if err != nil {
			return err
		}

		key := meta.DescStrPos
		if isNegative(args) && meta.DescStrNeg != "" {
			key = meta.DescStrNeg
		}
		// ItemStatCost points at the wrong string for this stat.
		if meta.ID == stat.ReplenishDurability {
			args = append([]any{1}, args...)
			key = keyReplenishDur
		}

		template := f.text(key, run.lang)
		if meta.DescStr2 != "" {
			template += " " + f.text(meta.DescStr2, run.lang)
		}

		if meta.ID == stat.SingleSkill {
			args = append(args, f.classOnly(args, run.lang))
		}

		run.lines = append(run.lines, Sprintf(template, args...))
	}

	run.blue.Remove(meta.ID)
	return nil
}

// tryGroup renders members as one line when all of them are present.
// Descgroup lines additionally need every member to show the same value.
func (f *Formatter) tryGroup(run *formatRun, key string, members []stat.ID, sameValue bool) (bool, error) {
	var args []any
	for _, id := range members {
		layers, found := run.blue.Layers(id)
		if !found || len(layers) == 0 {
			return false, nil
		}
		meta, err := f.tables.Stats.Lookup(id)
		if err != nil {
			return false, err
		}

		memberArgs, err := f.statArgs(run, meta, layers[0].Layer, layers[0].Value)
		if err != nil {
			return false, err
		}
		if sameValue && len(args) > 0 && !argsEqual(args[0], memberArgs[0]) {
			return false, nil
		}
		args = append(args, memberArgs...)
	}

	if key == keyPoisonRange {
		args = poisonArgs(args)
	}
	if strings.HasSuffix(key, rangeSuffix) && len(args) > 1 && argsEqual(args[0], args[1]) {
		key = strings.TrimSuffix(key, rangeSuffix)
		args = args[1:]
	}

	run.lines = append(run.lines, Sprintf(f.text(key, run.lang), args...))
	for _, id := range members {
		run.blue.Remove(id)
	}

	return true, nil
}

func (f *Formatter) classOnly(args []any, lang gamedata.Language) string {
	for _, a := range args {
		sk, ok := a.(skillArg)
		if !ok {
			continue
		}
		if key, found := sk.classOnlyKey(); found {
			return f.text(key, lang)
		}
		break
	}
	return ""
}

func (f *Formatter) socketEthLine(run *formatRun) (string, bool) {
	sockets, hasSockets := run.it.OwnStat(stat.NumSockets)

	switch {
	case hasSockets && run.it.Ethereal:
		return Sprintf(f.text(keyEthSocketed, run.lang), sockets), true
	case hasSockets:
		return Sprintf(f.text(keySocketed, run.lang), sockets), true
	case run.it.Ethereal:
		return Sprintf(f.text(keyEthereal, run.lang)), true
	default:
		return "", false
	}
}

// text resolves a string key, a missing key renders as empty text.
func (f *Formatter) text(key string, lang gamedata.Language) string {
	text, err := f.tables.Localization.Lookup(key, lang)
	if err != nil {
		if errors.Is(err, gamedata.ErrMissingLocalization) {
			f.logger.Debug("missing stat text", slog.String("key", key), slog.String("lang", string(lang)))
		}
		return ""
	}
	return text
}

// ItemName returns the localized unique or set name of an item, falling back
// to its base name when the string table has no entry for it.
func (f *Formatter) ItemName(it game.Item, lang gamedata.Language) string {
	key := string(it.Name)
	switch {
	case it.UniqueName != "":
		key = it.UniqueName
	case it.SetName != "":
		key = it.SetName
	}
	name, err := f.tables.Localization.LookupIn(gamedata.DomainItems, key, lang)
	if err != nil {
		return key
	}
	return name
}
