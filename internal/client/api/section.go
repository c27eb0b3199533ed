package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/open436/forumctl/internal/client/models"
)

// SectionAPI wraps the section-service endpoints (/api/sections/*) and the
// internal endpoints other services use. It satisfies sections.Repository.
type SectionAPI struct {
	c *Client
}

func NewSectionAPI(c *Client) *SectionAPI {
	return &SectionAPI{c: c}
}

// orderingFor maps a sort field to the ordering query param. Ties are
// always broken by id so pages are stable.
func orderingFor(sortBy string) string {
	switch sortBy {
	case "name", "posts_count":
		return sortBy + ",id"
	default:
		return "sort_order,id"
	}
}

// List fetches one page of sections.
func (s *SectionAPI) List(ctx context.Context, query models.ListQuery) (*models.Page, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("ordering", orderingFor(query.SortBy))
	if query.Enabled != nil {
		q.Set("is_enabled", strconv.FormatBool(*query.Enabled))
	}
	if query.Search != "" {
		q.Set("search", query.Search)
	}

	var result models.Page
	if err := s.c.Get(ctx, "/api/sections", q, &result); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return &result, nil
}

// AllEnabled fetches every enabled section in display order, with a page
// size large enough to be effectively unpaginated. Used by selection
// widgets.
func (s *SectionAPI) AllEnabled(ctx context.Context) ([]models.Section, error) {
	page, err := s.List(ctx, models.ListQuery{PageSize: 100, Enabled: models.Bool(true)})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Get fetches one section by numeric id or string slug.
func (s *SectionAPI) Get(ctx context.Context, idOrSlug string) (*models.Section, error) {
	var sec models.Section
	if err := s.c.Get(ctx, "/api/sections/"+url.PathEscape(idOrSlug), nil, &sec); err != nil {
		return nil, fmt.Errorf("get section %s: %w", idOrSlug, err)
	}
	return &sec, nil
}

// Create adds a section. The server rejects duplicate slugs or names with a
// conflict.
func (s *SectionAPI) Create(ctx context.Context, in models.SectionInput) (*models.Section, error) {
	if err := in.Validate(true); err != nil {
		return nil, err
	}

	var sec models.Section
	if err := s.c.Post(ctx, "/api/sections", in, &sec); err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return &sec, nil
}

// Update modifies a section by id. Slug is immutable; the server ignores it
// if sent, so it is stripped here.
func (s *SectionAPI) Update(ctx context.Context, id int64, in models.SectionInput) (*models.Section, error) {
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	in.Slug = ""

	var sec models.Section
	if err := s.c.Put(ctx, "/api/sections/"+strconv.FormatInt(id, 10), in, &sec); err != nil {
		return nil, fmt.Errorf("update section %d: %w", id, err)
	}
	return &sec, nil
}

// Delete removes a section. force=false only disables it (soft delete);
// force=true removes the record permanently.
func (s *SectionAPI) Delete(ctx context.Context, id int64, force bool) error {
	q := url.Values{}
	q.Set("force", strconv.FormatBool(force))

	if err := s.c.Delete(ctx, "/api/sections/"+strconv.FormatInt(id, 10), q); err != nil {
		return fmt.Errorf("delete section %d: %w", id, err)
	}
	return nil
}

// SetStatus enables or disables a section.
func (s *SectionAPI) SetStatus(ctx context.Context, id int64, enabled bool) (*models.Section, error) {
	body := map[string]bool{"is_enabled": enabled}

	var sec models.Section
	if err := s.c.Put(ctx, "/api/sections/"+strconv.FormatInt(id, 10)+"/status", body, &sec); err != nil {
		return nil, fmt.Errorf("set section %d status: %w", id, err)
	}
	return &sec, nil
}

// Reorder submits the full display sequence; the server assigns
// sort_order = index+1 for each id.
func (s *SectionAPI) Reorder(ctx context.Context, ids []int64) error {
	body := map[string][]int64{"order": ids}

	if err := s.c.Put(ctx, "/api/sections/reorder", body, nil); err != nil {
		return fmt.Errorf("reorder sections: %w", err)
	}
	return nil
}

// Statistics fetches the aggregate snapshot.
func (s *SectionAPI) Statistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if err := s.c.Get(ctx, "/api/sections/statistics", nil, &stats); err != nil {
		return nil, fmt.Errorf("section statistics: %w", err)
	}
	return &stats, nil
}

// Validate reports whether a section exists. Internal endpoint, used by the
// content service before attaching posts.
func (s *SectionAPI) Validate(ctx context.Context, id int64) (bool, error) {
	var res struct {
		Exists bool `json:"exists"`
	}
	if err := s.c.Get(ctx, "/internal/sections/"+strconv.FormatInt(id, 10)+"/validate", nil, &res); err != nil {
		return false, fmt.Errorf("validate section %d: %w", id, err)
	}
	return res.Exists, nil
}

// IncrementPosts adjusts a section's post counter by a signed delta.
// Internal endpoint.
func (s *SectionAPI) IncrementPosts(ctx context.Context, id int64, delta int64) (*models.Section, error) {
	body := map[string]int64{"value": delta}

	var sec models.Section
	if err := s.c.Post(ctx, "/internal/sections/"+strconv.FormatInt(id, 10)+"/increment-posts", body, &sec); err != nil {
		return nil, fmt.Errorf("increment posts for section %d: %w", id, err)
	}
	return &sec, nil
}
