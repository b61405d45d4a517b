package app

import (
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

type CreateActivityRequest struct {
	Name        string
	Description string
	Color       string
	Config      domain.StructuralConfig
	CreatedDate time.Time // defaults to today
}

// UpdateDetailsRequest changes cosmetic fields only. Nil fields are left as is.
type UpdateDetailsRequest struct {
	ActivityID  string
	Name        *string
	Description *string
	Color       *string
}

// EditStructuralRequest replaces an activity's structural config.
type EditStructuralRequest struct {
	ActivityID string
	Config     domain.StructuralConfig
	Policy     domain.EditPolicy
	EditDate   time.Time // first day the new config applies; defaults to today
}

type EditResult struct {
	Activity *domain.Activity
	Snapshot *domain.ConfigSnapshot // nil when history was rewritten
	Warnings []string
}
