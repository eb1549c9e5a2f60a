package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/hectorgimenez/lootlens/internal/gamedata"
	"gopkg.in/yaml.v3"
)

var (
	cfgMux  sync.RWMutex
	Lens    *LensCfg
	Version = "dev"
)

const DefaultPath = "config/lootlens.yaml"

type LensCfg struct {
	Debug struct {
		Log bool `yaml:"log"`
	} `yaml:"debug"`
	LogSaveDirectory string `yaml:"logSaveDirectory"`
	Language         string `yaml:"language"`
	DataDirectory    string `yaml:"dataDirectory"`
	Data             struct {
		ItemStatCost string            `yaml:"itemStatCost"`
		Properties   string            `yaml:"properties"`
		Catalog      string            `yaml:"catalog"`
		Localization map[string]string `yaml:"localization"`
	} `yaml:"data"`
	LootFilterPath string `yaml:"lootFilterPath"`
}

// Get returns the loaded configuration, nil before Load.
func Get() *LensCfg {
	cfgMux.RLock()
	defer cfgMux.RUnlock()
	return Lens
}

// Load reads the yaml config at path, relative paths are taken from the
// working directory.
func Load(path string) error {
	cfgMux.Lock()
	defer cfgMux.Unlock()

	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Getwd(); err != nil {
		return fmt.Errorf("error getting current working directory: %w", err)
	}

	cfgPath := getAbsPath(path)
	r, err := os.Open(cfgPath)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", filepath.Base(cfgPath), err)
	}
	defer r.Close()

	cfg := &LensCfg{}
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err = d.Decode(cfg); err != nil {
		return fmt.Errorf("error reading config %s: %w", cfgPath, err)
	}

	cfg.applyDefaults()
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}

	Lens = cfg
	return nil
}

func (c *LensCfg) applyDefaults() {
	if c.Language == "" {
		c.Language = string(gamedata.EnUS)
	}
	if c.DataDirectory == "" {
		c.DataDirectory = "data"
	}
	if c.LogSaveDirectory == "" {
		c.LogSaveDirectory = "logs"
	}
	if c.Data.ItemStatCost == "" {
		c.Data.ItemStatCost = "ItemStatCost.txt"
	}
}

func (c *LensCfg) Validate() error {
	if _, err := gamedata.ParseLanguage(c.Language); err != nil {
		return err
	}
	for domain := range c.Data.Localization {
		if !knownDomain(gamedata.Domain(domain)) {
			return fmt.Errorf("unknown localization domain %q", domain)
		}
	}
	if c.DataDirectory == "" {
		return errors.New("dataDirectory cannot be empty")
	}
	return nil
}

// LanguageCode returns the configured string table language.
func (c *LensCfg) LanguageCode() gamedata.Language {
	lang, err := gamedata.ParseLanguage(c.Language)
	if err != nil {
		return gamedata.EnUS
	}
	return lang
}

// Sources maps the data section onto loader inputs, relative to DataDirectory.
func (c *LensCfg) Sources() gamedata.Sources {
	src := gamedata.Sources{
		ItemStatCost: c.Data.ItemStatCost,
		Properties:   c.Data.Properties,
		Catalog:      c.Data.Catalog,
		Localization: make(map[gamedata.Domain]string, len(c.Data.Localization)),
	}
	for domain, path := range c.Data.Localization {
		src.Localization[gamedata.Domain(domain)] = path
	}
	return src
}

// DataDir returns the absolute directory game data files are read from.
func (c *LensCfg) DataDir() (string, error) {
	dir := c.DataDirectory
	if !filepath.IsAbs(dir) {
		dir = getAbsPath(dir)
	}
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("data directory %s: %w", dir, err)
	}
	return dir, nil
}

var domains = []gamedata.Domain{
	gamedata.DomainItems,
	gamedata.DomainRunes,
	gamedata.DomainLevels,
	gamedata.DomainMonsters,
	gamedata.DomainNpcs,
	gamedata.DomainShrines,
	gamedata.DomainObjects,
	gamedata.DomainItemModifiers,
}

func knownDomain(d gamedata.Domain) bool {
	return slices.Contains(domains, d)
}

func getAbsPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		//Error should be checked in the Load function before any calls
		return relPath
	}
	return filepath.Join(cwd, relPath)
}
