package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

var ErrNotFound = errors.New("result not found")

type Filter struct {
	Limit       int
	Offset      int
	Since       *time.Time
	SiteID      *string
	MinSeverity *models.SeverityLevel // >= this tier (e.g. High includes High and Catastrophic)
}

type ResultRepository interface {
	Add(ctx context.Context, r *models.SavedResult) error
	GetByID(ctx context.Context, id string) (*models.SavedResult, error)
	ListResults(ctx context.Context, opts Filter) ([]models.SavedResult, error)
	Delete(ctx context.Context, id string) error
}
