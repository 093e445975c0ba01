package importer

import (
	"fmt"

	"github.com/alexanderramin/farmquest/internal/domain"
)

// ValidateCatalogSchema checks the catalogue for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error

	errs = append(errs, validateDefaults(schema.Defaults)...)

	if len(schema.Missions) == 0 {
		errs = append(errs, fmt.Errorf("missions: at least one mission is required"))
	}

	ids := make(map[string]bool)
	for i := range schema.Missions {
		errs = append(errs, validateMission(fmt.Sprintf("missions[%d]", i), &schema.Missions[i], ids)...)
	}
	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.XPReward != nil && *d.XPReward < 0 {
		errs = append(errs, fmt.Errorf("defaults.xp_reward must not be negative"))
	}
	if d.EstimatedDuration != nil && *d.EstimatedDuration <= 0 {
		errs = append(errs, fmt.Errorf("defaults.estimated_duration must be positive"))
	}
	return errs
}

func validateMission(prefix string, m *MissionImport, ids map[string]bool) []error {
	var errs []error

	if m.ID != "" {
		if ids[m.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, m.ID))
		}
		ids[m.ID] = true
	}
	if m.Title == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if m.Category == "" {
		errs = append(errs, fmt.Errorf("%s.category is required", prefix))
	} else if !domain.ValidCategories[m.Category] {
		errs = append(errs, fmt.Errorf("%s.category: invalid value %q", prefix, m.Category))
	}
	if m.XPReward != nil && *m.XPReward < 0 {
		errs = append(errs, fmt.Errorf("%s.xp_reward must not be negative", prefix))
	}
	if m.EstimatedDuration != nil && *m.EstimatedDuration <= 0 {
		errs = append(errs, fmt.Errorf("%s.estimated_duration must be positive", prefix))
	}
	for j, crop := range m.TargetCrops {
		if crop == "" {
			errs = append(errs, fmt.Errorf("%s.target_crops[%d] must not be empty", prefix, j))
		}
	}

	if len(m.Cards) == 0 {
		errs = append(errs, fmt.Errorf("%s.cards: at least one card is required", prefix))
	}
	for j, c := range m.Cards {
		if err := c.toDomain().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s.cards[%d]: %w", prefix, j, err))
		}
	}
	return errs
}
