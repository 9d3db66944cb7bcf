package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/inventario-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/inventario-backend/pkg/errors"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
	"gorm.io/gorm"
)

// Journal appends entries inside the transaction of the mutation they describe.
type Journal struct {
	repo *Repository
	logg *logger.Logger
	now  func() time.Time
}

func NewJournal(repo *Repository, logg *logger.Logger) *Journal {
	return &Journal{repo: repo, logg: logg, now: time.Now}
}

// Record writes one entry through tx; it is an error to call it outside a transaction.
func (j *Journal) Record(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if strings.TrimSpace(entry.Username) == "" || strings.TrimSpace(entry.Action) == "" || entry.Location == "" {
		return fmt.Errorf("history entry requires username, action and location")
	}
	at := entry.At
	if at.IsZero() {
		at = j.now()
	}
	row := &models.HistoryEntry{
		Username:  entry.Username,
		Action:    entry.Action,
		Location:  entry.Location,
		CreatedAt: at.UTC(),
	}
	if err := j.repo.Insert(ctx, tx, row); err != nil {
		return err
	}
	if j.logg != nil {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"history_id": row.ID,
			"location":   row.Location,
		})
		j.logg.Info(logCtx, "history entry recorded")
	}
	return nil
}

// Service exposes history reads.
type Service interface {
	List(ctx context.Context, location string) ([]EntryDTO, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, location string) ([]EntryDTO, error) {
	rows, err := s.repo.ListByLocation(ctx, location)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list history")
	}
	out := make([]EntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}
