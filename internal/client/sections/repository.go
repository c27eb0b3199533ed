// Package sections holds the client-side state for forum sections: the
// current page, the enabled-sections cache, the selected detail, pagination
// and filters, plus the CRUD operations that reconcile server results into
// that state.
package sections

import (
	"context"

	"github.com/open436/forumctl/internal/client/models"
)

// Repository is the section backend capability. Two implementations exist:
// api.SectionAPI against the real service and MockRepository for offline
// development. The choice is made once at startup from configuration.
type Repository interface {
	List(ctx context.Context, query models.ListQuery) (*models.Page, error)
	AllEnabled(ctx context.Context) ([]models.Section, error)
	Get(ctx context.Context, idOrSlug string) (*models.Section, error)
	Create(ctx context.Context, in models.SectionInput) (*models.Section, error)
	Update(ctx context.Context, id int64, in models.SectionInput) (*models.Section, error)
	Delete(ctx context.Context, id int64, force bool) error
	SetStatus(ctx context.Context, id int64, enabled bool) (*models.Section, error)
	Reorder(ctx context.Context, ids []int64) error
	Statistics(ctx context.Context) (*models.Statistics, error)
	Validate(ctx context.Context, id int64) (bool, error)
	IncrementPosts(ctx context.Context, id int64, delta int64) (*models.Section, error)
}
