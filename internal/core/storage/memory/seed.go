package memory

import (
	"fmt"
	"os"

	"github.com/aevon-lab/stockpulse/internal/core/inventory"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML fixture format accepted by LoadSeed.
type Seed struct {
	Products       []inventory.Product       `yaml:"products"`
	PurchaseOrders []inventory.PurchaseOrder `yaml:"purchase_orders"`
	Lines          []inventory.OrderLine     `yaml:"lines"`
}

// LoadSeedFile reads a YAML seed file into a new Source.
func LoadSeedFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return LoadSeed(data)
}

// LoadSeed parses YAML seed data into a new Source.
func LoadSeed(data []byte) (*Source, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	src := NewSource()
	for _, p := range seed.Products {
		if err := src.PutProduct(p); err != nil {
			return nil, fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}
	for _, po := range seed.PurchaseOrders {
		if err := src.PutPurchaseOrder(po); err != nil {
			return nil, fmt.Errorf("seed purchase order %d: %w", po.ID, err)
		}
	}
	for _, line := range seed.Lines {
		if err := src.AddLine(line); err != nil {
			return nil, fmt.Errorf("seed line: %w", err)
		}
	}
	return src, nil
}
