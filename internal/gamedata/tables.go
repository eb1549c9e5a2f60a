package gamedata

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/hectorgimenez/lootlens/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Tables bundles every read-only lookup table. It is built once and then
// shared by reference, it must not be modified after construction.
type Tables struct {
	Stats        *StatTable
	Divisors     Divisors
	Localization *Localization
	Catalog      *Catalog
}

// Sources names the files Load reads from its filesystem.
type Sources struct {
	ItemStatCost string
	Properties   string
	Catalog      string
	Localization map[Domain]string
}

// Load reads all tables from fsys. String tables are decoded concurrently;
// Properties.txt is parsed once the stat table is available since it resolves
// stat names against it.
func Load(ctx context.Context, fsys fs.FS, src Sources, logger *slog.Logger) (*Tables, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tables := &Tables{Localization: NewLocalization()}
	var locMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f, err := fsys.Open(src.ItemStatCost)
		if err != nil {
			return fmt.Errorf("opening item stat cost: %w", err)
		}
		defer f.Close()

		stats, err := ParseStatTable(f)
		if err != nil {
			return err
		}
		tables.Stats = stats

		if src.Properties == "" {
			tables.Divisors = Divisors{}
			return nil
		}
		pf, err := fsys.Open(src.Properties)
		if err != nil {
			return fmt.Errorf("opening properties: %w", err)
		}
		defer pf.Close()

		divisors, err := ParseDivisors(pf, stats)
		if err != nil {
			return err
		}
		tables.Divisors = divisors
		return nil
	})

	g.Go(func() error {
		if src.Catalog == "" {
			tables.Catalog = NewCatalog(nil, nil, nil, nil)
			return nil
		}
		raw, err := fs.ReadFile(fsys, src.Catalog)
		if err != nil {
			return fmt.Errorf("reading catalog: %w", err)
		}
		catalog, err := ParseCatalog(raw)
		if err != nil {
			return err
		}
		tables.Catalog = catalog
		return nil
	})

	for domain, path := range src.Localization {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := utils.GetJsonData(fsys, path)
			if err != nil {
				return fmt.Errorf("reading %s strings: %w", domain, err)
			}
			records, err := ParseLocalization(raw)
			if err != nil {
				return fmt.Errorf("%s strings: %w", domain, err)
			}

			locMu.Lock()
			tables.Localization.Add(domain, records)
			locMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("game data loaded",
		slog.Int("stats", tables.Stats.Len()),
		slog.Int("perLevelStats", len(tables.Divisors)),
		slog.Int("itemClasses", len(tables.Catalog.ItemClasses())),
		slog.Int("statStrings", tables.Localization.Len(DomainItemModifiers)),
	)

	return tables, nil
}
