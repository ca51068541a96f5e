package mongo

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

//go:embed seed/catalog.json
var embeddedSeed []byte

// Seed is the reference data loaded at start-up: the privilege catalog and
// the subscription plans. Both are upserted by name.
type Seed struct {
	Privileges []*domain.Privilege `json:"privileges"`
	Plans      []*domain.Plan      `json:"plans"`
}

// LoadSeed reads the seed at path, or the embedded one when path is empty.
func LoadSeed(path string) (*Seed, error) {
	data := embeddedSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seen := make(map[string]bool, len(s.Privileges))
	for _, p := range s.Privileges {
		if p.Name == "" {
			return nil, errors.New("seed: privilege without a name")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("seed: duplicate privilege %q", p.Name)
		}
		seen[p.Name] = true
	}

	plans := make(map[string]bool, len(s.Plans))
	for _, p := range s.Plans {
		if p.Name == "" {
			return nil, errors.New("seed: plan without a name")
		}
		if plans[p.Name] {
			return nil, fmt.Errorf("seed: duplicate plan %q", p.Name)
		}
		if p.DurationDays <= 0 || p.MaxBeneficiaries < 0 || p.MaxEmployees < 0 {
			return nil, fmt.Errorf("seed: plan %q has invalid limits", p.Name)
		}
		plans[p.Name] = true
	}
	return &s, nil
}
