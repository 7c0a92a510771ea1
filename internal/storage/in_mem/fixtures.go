package in_mem

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"gopkg.in/yaml.v3"
)

// Fixtures is a catalog snapshot loaded from YAML.
type Fixtures struct {
	Businesses []domain.Business `yaml:"businesses"`
	Listings   []domain.Listing  `yaml:"listings"`
}

// DecodeFixtures reads fixtures from r. Unknown keys are rejected.
func DecodeFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	return &f, nil
}

func LoadFixtures(path string) (*Fixtures, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures %s: %w", path, err)
	}
	defer file.Close()

	return DecodeFixtures(file)
}

// Seed saves f into s, businesses first.
func (f *Fixtures) Seed(ctx context.Context, s storage.Storer) error {
	if err := s.SaveBusinesses(ctx, f.Businesses); err != nil {
		return fmt.Errorf("failed to seed businesses: %w", err)
	}
	if err := s.SaveListings(ctx, f.Listings); err != nil {
		return fmt.Errorf("failed to seed listings: %w", err)
	}
	return nil
}
