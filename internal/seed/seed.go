// Package seed loads the default exercise catalog into the database.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/validation"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed catalog.yaml
var catalogYAML []byte

type CatalogEntry struct {
	Name      string `yaml:"name"`
	Muscle    string `yaml:"muscle"`
	Equipment string `yaml:"equipment"`
}

type catalogFile struct {
	Exercises []CatalogEntry `yaml:"exercises"`
}

// Regions that name a muscle group of their own; everything else collapses
// onto the label before the parenthesis.
var muscleAliases = map[string]string{
	"Back (Lats)":       "Lats",
	"Back (Traps)":      "Traps",
	"Legs (Calves)":     "Calves",
	"Legs (Glutes)":     "Glutes",
	"Legs (Hamstrings)": "Hamstrings",
	"Legs (Quads)":      "Quads",
}

var equipmentAliases = map[string]string{
	"Band": "Resistance Band",
}

// Catalog parses the embedded catalog and normalizes every entry onto the
// validated muscle group and equipment lists.
func Catalog() ([]CatalogEntry, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(data []byte) ([]CatalogEntry, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	entries := make([]CatalogEntry, 0, len(f.Exercises))
	for i, e := range f.Exercises {
		name, err := validation.CheckString(e.Name, "Name", 0, 255)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		muscle, err := validation.CheckMuscleGroup(normalizeMuscle(e.Muscle))
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", name, err)
		}
		equipment, err := validation.CheckEquipment(normalizeEquipment(e.Equipment))
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", name, err)
		}
		entries = append(entries, CatalogEntry{Name: name, Muscle: muscle, Equipment: equipment})
	}
	return entries, nil
}

func normalizeMuscle(label string) string {
	label = strings.TrimSpace(label)
	if m, ok := muscleAliases[label]; ok {
		return m
	}
	if i := strings.Index(label, "("); i > 0 {
		return strings.TrimSpace(label[:i])
	}
	return label
}

func normalizeEquipment(label string) string {
	label = strings.TrimSpace(label)
	if e, ok := equipmentAliases[label]; ok {
		return e
	}
	return label
}

// Exercises inserts every catalog entry whose name is not already present as
// a default exercise. It is safe to run repeatedly and returns the number of
// rows created.
func Exercises(ctx context.Context, db *gorm.DB) (int, error) {
	entries, err := Catalog()
	if err != nil {
		return 0, err
	}
	return insertExercises(ctx, db, entries)
}

func insertExercises(ctx context.Context, db *gorm.DB, entries []CatalogEntry) (int, error) {
	seeded := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			var existing models.Exercise
			err := tx.Where("name = ? AND user_made = ?", e.Name, false).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			ex := models.Exercise{Name: e.Name, Muscle: e.Muscle, Equipment: e.Equipment, UserMade: false}
			if err := tx.Create(&ex).Error; err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if seeded > 0 {
		slog.Info("seeded default exercises", "new", seeded, "total", len(entries))
	}
	return seeded, nil
}
