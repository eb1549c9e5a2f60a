package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	sloggger "github.com/hectorgimenez/lootlens/cmd/lootlens/log"
	"github.com/hectorgimenez/lootlens/internal/config"
	"github.com/hectorgimenez/lootlens/internal/game"
	"github.com/hectorgimenez/lootlens/internal/gamedata"
	"github.com/hectorgimenez/lootlens/internal/itemtext"
	"github.com/hectorgimenez/lootlens/internal/lootfilter"
	"github.com/hectorgimenez/lootlens/internal/stats"
	"gopkg.in/yaml.v3"
)

// snapshot is the item dump the CLI evaluates.
type snapshot struct {
	Player    game.Player `yaml:"player"`
	AreaLevel int         `yaml:"areaLevel"`
	Items     []game.Item `yaml:"items"`
}

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "path to the lootlens yaml config")
	itemsPath := flag.String("items", "", "yaml item snapshot to evaluate")
	lang := flag.String("lang", "", "string table language, overrides the config")
	flag.Parse()

	if err := config.Load(*cfgPath); err != nil {
		log.Fatalf("Error loading configuration: %s", err.Error())
	}
	cfg := config.Get()

	logger, err := sloggger.NewLogger(cfg.Debug.Log, cfg.LogSaveDirectory, "")
	if err != nil {
		log.Fatalf("Error starting logger: %s", err.Error())
	}
	defer sloggger.FlushAndClose()
	logger.Info("lootlens starting", slog.String("version", config.Version))

	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("fatal error detected, lootlens will close with the following error: %v\n Stacktrace: %s", r, debug.Stack()))
			sloggger.FlushAndClose()
			os.Exit(1)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *itemsPath, *lang, logger); err != nil {
		logger.Error("lootlens failed", slog.Any("error", err))
		sloggger.FlushAndClose()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.LensCfg, itemsPath, langOverride string, logger *slog.Logger) error {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return err
	}

	tables, err := gamedata.Load(ctx, os.DirFS(dataDir), cfg.Sources(), logger)
	if err != nil {
		return fmt.Errorf("loading game data: %w", err)
	}

	lang := cfg.LanguageCode()
	if langOverride != "" {
		if lang, err = gamedata.ParseLanguage(langOverride); err != nil {
			return err
		}
	}

	var filter *lootfilter.Filter
	if cfg.LootFilterPath != "" {
		filter, err = lootfilter.LoadFile(cfg.LootFilterPath, tables, logger)
		if err != nil {
			return err
		}
		logger.Info("loot filter loaded", slog.String("path", cfg.LootFilterPath))
	}

	if itemsPath == "" {
		logger.Info("no item snapshot given, nothing to evaluate")
		return nil
	}

	snap, err := readSnapshot(itemsPath)
	if err != nil {
		return err
	}

	reader := stats.NewReader(tables)
	formatter := itemtext.NewFormatter(reader, logger)

	for _, it := range snap.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		lines, err := formatter.FormatStats(it, snap.Player, lang)
		if err != nil {
			return fmt.Errorf("formatting %s: %w", it.Name, err)
		}

		logger.Debug("aggregated stats", slog.String("item", string(it.Name)), slog.Any("stats", stats.Aggregate(it).Stats()))

		fmt.Printf("%s [%s, %s]\n", formatter.ItemName(it, lang), it.Quality.ToString(), reader.ItemTier(it))
		for _, line := range lines {
			fmt.Printf("  %s\n", line)
		}

		if filter == nil {
			continue
		}
		matched, rule := filter.Evaluate(it, snap.AreaLevel, snap.Player.Level)
		switch {
		case matched && rule != nil:
			fmt.Printf("  -> kept by rule %s (%s)\n", rule.ID, rule.Item)
		case matched:
			fmt.Printf("  -> kept\n")
		default:
			fmt.Printf("  -> ignored\n")
		}
		sloggger.FlushLog()
	}

	return nil
}

func readSnapshot(path string) (snapshot, error) {
	var snap snapshot

	r, err := os.Open(path)
	if err != nil {
		return snap, fmt.Errorf("error opening item snapshot: %w", err)
	}
	defer r.Close()

	if err = yaml.NewDecoder(r).Decode(&snap); err != nil {
		return snap, fmt.Errorf("error reading item snapshot %s: %w", path, err)
	}
	if snap.Player.Level == 0 {
		snap.Player.Level = 1
	}
	return snap, nil
}
