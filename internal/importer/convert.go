package importer

import (
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/google/uuid"
)

const (
	defaultXPReward          = 50
	defaultEstimatedDuration = 10
)

// Convert transforms a validated CatalogSchema into missions ready for
// persistence. Call ValidateCatalogSchema first; Convert assumes the schema
// is valid.
func Convert(schema *CatalogSchema) []*domain.Mission {
	now := time.Now().UTC()

	xpDefault := defaultXPReward
	durationDefault := defaultEstimatedDuration
	if schema.Defaults != nil {
		xpDefault = domain.Deref(schema.Defaults.XPReward, xpDefault)
		durationDefault = domain.Deref(schema.Defaults.EstimatedDuration, durationDefault)
	}

	missions := make([]*domain.Mission, 0, len(schema.Missions))
	for _, mi := range schema.Missions {
		id := mi.ID
		if id == "" {
			id = uuid.New().String()
		}

		cards := make([]domain.ContentCard, 0, len(mi.Cards))
		for _, c := range mi.Cards {
			cards = append(cards, c.toDomain())
		}

		crops := make([]string, 0, len(mi.TargetCrops))
		for _, c := range mi.TargetCrops {
			crops = append(crops, strings.TrimSpace(c))
		}

		missions = append(missions, &domain.Mission{
			ID:                id,
			Title:             mi.Title,
			Description:       mi.Description,
			Category:          domain.MissionCategory(mi.Category),
			EstimatedDuration: domain.Deref(mi.EstimatedDuration, durationDefault),
			XPReward:          domain.Deref(mi.XPReward, xpDefault),
			TargetCrops:       crops,
			Cards:             cards,
			IsActive:          domain.Deref(mi.Active, true),
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return missions
}

func (c CardImport) toDomain() domain.ContentCard {
	card := domain.ContentCard{
		Type:        domain.CardType(c.Type),
		Title:       c.Title,
		Content:     c.Content,
		ImageURL:    c.ImageURL,
		QuizOptions: slices.Clone(c.QuizOptions),
	}
	if c.CorrectOption != nil {
		v := *c.CorrectOption
		card.CorrectOption = &v
	}
	return card
}
