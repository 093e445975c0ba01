package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/farmquest/internal/db"
	"github.com/alexanderramin/farmquest/internal/importer"
	"github.com/alexanderramin/farmquest/internal/repository"
)

// purger is implemented by mission repos that cache reads.
type purger interface {
	Purge()
}

type importService struct {
	missions repository.MissionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService builds the catalogue importer. missions is only used to
// drop cached reads after a successful import; writes go through uow.
func NewImportService(missions repository.MissionRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		missions: missions,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportCatalog(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadCatalogSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

// importSchema upserts every mission in one transaction. Missions keep their
// IDs across imports so existing progress stays attached.
func (s *importService) importSchema(ctx context.Context, schema *importer.CatalogSchema) (result *ImportResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import-catalog", time.Now(), fields, &err)

	if errs := importer.ValidateCatalogSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	missions := importer.Convert(schema)
	result = &ImportResult{}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteMissionRepo(tx)
		for _, m := range missions {
			existing, err := repo.GetByID(ctx, m.ID)
			switch {
			case err == nil:
				m.CreatedAt = existing.CreatedAt
				if err := repo.Update(ctx, m); err != nil {
					return fmt.Errorf("updating mission %q: %w", m.Title, err)
				}
				result.Updated++
			case errors.Is(err, repository.ErrNotFound):
				if err := repo.Create(ctx, m); err != nil {
					return fmt.Errorf("creating mission %q: %w", m.Title, err)
				}
				result.Created++
			default:
				return err
			}
			result.Cards += len(m.Cards)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p, ok := s.missions.(purger); ok {
		p.Purge()
	}
	fields["created"] = result.Created
	fields["updated"] = result.Updated
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("catalogue validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
