// Package config loads the admin showcase file (shops.yaml). The file is
// re-read on every reload so operators can edit it live.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skytopia/Shoptopia/internal/shop"
)

type Config struct {
	AdminShowcases []ShowcaseSpec `yaml:"admin_showcases"`
}

type ShowcaseSpec struct {
	X          int        `yaml:"x"`
	Y          int        `yaml:"y"`
	Z          int        `yaml:"z"`
	Restricted bool       `yaml:"restricted"`
	Icon       string     `yaml:"icon"`
	Buy        *OfferSpec `yaml:"buy,omitempty"`
	Sell       *OfferSpec `yaml:"sell,omitempty"`
}

type OfferSpec struct {
	Item   string  `yaml:"item"`
	Amount int     `yaml:"amount"`
	Price  float64 `yaml:"price"`
}

func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("shops.yaml: %w", err)
	}
	return cfg, nil
}

// Source adapts the file on disk to the registry's hydrate step.
type Source struct {
	path string
	log  *log.Logger
}

func NewSource(path string, logger *log.Logger) *Source {
	if logger == nil {
		logger = log.Default()
	}
	return &Source{path: path, log: logger}
}

// LoadAdminShowcases re-reads the file and converts every well-formed spec.
// A missing file is not an error: a server can run with player shops only.
// Malformed specs are skipped with a diagnostic so one bad entry does not
// take down the rest.
func (s *Source) LoadAdminShowcases() ([]shop.AdminRecord, error) {
	cfg, err := Load(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Printf("shops.yaml not found at %s, no admin showcases", s.path)
			return nil, nil
		}
		return nil, err
	}
	out := make([]shop.AdminRecord, 0, len(cfg.AdminShowcases))
	for i, spec := range cfg.AdminShowcases {
		rec, err := spec.record()
		if err != nil {
			s.log.Printf("shops.yaml: skipping admin_showcases[%d]: %v", i, err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (spec ShowcaseSpec) record() (shop.AdminRecord, error) {
	icon, err := shop.ParseItem(spec.Icon, 1)
	if err != nil {
		return shop.AdminRecord{}, fmt.Errorf("icon: %w", err)
	}
	rec := shop.AdminRecord{
		X:          spec.X,
		Y:          spec.Y,
		Z:          spec.Z,
		Restricted: spec.Restricted,
		Icon:       icon,
	}
	if spec.Buy != nil {
		offer, err := spec.Buy.offer()
		if err != nil {
			return shop.AdminRecord{}, fmt.Errorf("buy: %w", err)
		}
		rec.Buy = offer
	}
	if spec.Sell != nil {
		offer, err := spec.Sell.offer()
		if err != nil {
			return shop.AdminRecord{}, fmt.Errorf("sell: %w", err)
		}
		rec.Sell = offer
	}
	if rec.Buy == nil && rec.Sell == nil {
		return shop.AdminRecord{}, fmt.Errorf("neither buy nor sell offer present")
	}
	return rec, nil
}

func (spec OfferSpec) offer() (*shop.Offer, error) {
	stock, err := shop.ParseItem(spec.Item, spec.Amount)
	if err != nil {
		return nil, err
	}
	return shop.NewOffer(stock, spec.Price)
}
