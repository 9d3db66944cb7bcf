package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/inventario-backend/internal/history"
	"github.com/angelmondragon/inventario-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/inventario-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	mutationAdd  = "add"
	mutationEdit = "edit"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type journal interface {
	Record(ctx context.Context, tx *gorm.DB, entry history.Entry) error
}

type mutationCounter interface {
	IncMutation(location, kind string)
}

// Service exposes location-scoped inventory operations.
type Service interface {
	Add(ctx context.Context, input AddProductInput) (*ItemDTO, error)
	List(ctx context.Context, location string) ([]ItemDTO, error)
	Edit(ctx context.Context, input EditInventoryInput) (int64, error)
	ProductNames(ctx context.Context, location string) ([]string, error)
}

type service struct {
	repo    *Repository
	tx      txRunner
	journal journal
	metrics mutationCounter
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build an inventory service.
type ServiceParams struct {
	Repo    *Repository
	Tx      txRunner
	Journal journal
	Metrics mutationCounter
}

// NewService builds an inventory service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Journal == nil {
		return nil, fmt.Errorf("history journal required")
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		journal: params.Journal,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

func (s *service) Add(ctx context.Context, input AddProductInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.ProductName)
	if name == "" {
		return nil, pkgerrors.Validation("product_name", "is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.Validation("quantity", "must not be negative")
	}
	if input.Location == "" || input.Actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "location and actor are required")
	}

	now := s.now().UTC()
	item := &models.InventoryItem{
		ProductName: name,
		Quantity:    input.Quantity,
		Location:    input.Location,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert inventory item")
		}
		entry := history.Entry{
			Username: input.Actor,
			Action:   fmt.Sprintf("added %s with quantity %d", name, input.Quantity),
			Location: input.Location,
			At:       now,
		}
		if err := s.journal.Record(ctx, tx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.count(input.Location, mutationAdd)
	dto := FromModel(*item)
	return &dto, nil
}

func (s *service) List(ctx context.Context, location string) ([]ItemDTO, error) {
	rows, err := s.repo.ListByLocation(ctx, location)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory")
	}
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// Edit applies both deltas to every matching row and returns the number of rows changed.
func (s *service) Edit(ctx context.Context, input EditInventoryInput) (int64, error) {
	name := strings.TrimSpace(input.ProductName)
	if name == "" {
		return 0, pkgerrors.Validation("product_name", "is required")
	}
	if input.QuantityDelta == 0 && input.SentDelta == 0 {
		return 0, pkgerrors.Validation("quantity_delta", "or sent_delta must be non-zero")
	}
	if input.Location == "" || input.Actor == "" {
		return 0, pkgerrors.New(pkgerrors.CodeInternal, "location and actor are required")
	}

	now := s.now().UTC()
	var affected int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).Adjust(ctx, input.Location, name, input.QuantityDelta, input.SentDelta, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adjust inventory")
		}
		if n == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found at location").
				WithDetails(map[string]string{"product_name": name})
		}
		affected = n
		entry := history.Entry{
			Username: input.Actor,
			Action:   describeEdit(name, input.QuantityDelta, input.SentDelta),
			Location: input.Location,
			At:       now,
		}
		if err := s.journal.Record(ctx, tx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record history")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.count(input.Location, mutationEdit)
	return affected, nil
}

func (s *service) ProductNames(ctx context.Context, location string) ([]string, error) {
	names, err := s.repo.ProductNames(ctx, location)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product names")
	}
	return names, nil
}

func (s *service) count(location, kind string) {
	if s.metrics != nil {
		s.metrics.IncMutation(location, kind)
	}
}

func describeEdit(name string, quantityDelta, sentDelta int) string {
	parts := make([]string, 0, 2)
	if quantityDelta != 0 {
		parts = append(parts, fmt.Sprintf("quantity %+d", quantityDelta))
	}
	if sentDelta != 0 {
		parts = append(parts, fmt.Sprintf("sent %+d", sentDelta))
	}
	return fmt.Sprintf("adjusted %s: %s", name, strings.Join(parts, ", "))
}
