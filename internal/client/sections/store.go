package sections

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/open436/forumctl/internal/client/models"
	"github.com/open436/forumctl/internal/logging"
)

// DefaultPageSize matches the section service default.
const DefaultPageSize = 20

// Pagination describes the current page window.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// Filters are the list filter settings. EnabledOnly=true restricts the list
// to enabled sections; false lists everything including disabled ones.
type Filters struct {
	Search      string
	SortBy      string
	EnabledOnly bool
}

// FiltersPatch is a partial filter update; nil fields keep their value.
type FiltersPatch struct {
	Search      *string
	SortBy      *string
	EnabledOnly *bool
}

func defaultFilters() Filters {
	return Filters{SortBy: "sort_order", EnabledOnly: true}
}

// Store keeps the section state for the UI. All fields are transient;
// nothing here is persisted across runs.
//
// Overlapping calls to the same operation are not serialized: the response
// that resolves last wins, and the loading flag tracks the most recently
// completed transition rather than a reference count.
type Store struct {
	mu sync.RWMutex

	sections   []models.Section
	enabled    []models.Section
	current    *models.Section
	loading    bool
	pagination Pagination
	filters    Filters
	statistics *models.Statistics

	repo Repository
	log  logging.Logger
}

func NewStore(repo Repository, log logging.Logger) *Store {
	return &Store{
		repo:       repo,
		log:        log,
		pagination: Pagination{Page: 1, PageSize: DefaultPageSize},
		filters:    defaultFilters(),
	}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// buildQuery assembles the list query from the current filters and
// pagination.
func (s *Store) buildQuery() models.ListQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := models.ListQuery{
		Page:     s.pagination.Page,
		PageSize: s.pagination.PageSize,
		Search:   s.filters.Search,
		SortBy:   s.filters.SortBy,
	}
	if s.filters.EnabledOnly {
		q.Enabled = models.Bool(true)
	}
	return q
}

// FetchList loads the page described by the current filters and pagination.
// Overrides are applied to the assembled query last, so explicit parameters
// win over stored state.
func (s *Store) FetchList(ctx context.Context, overrides ...func(*models.ListQuery)) error {
	s.setLoading(true)
	defer s.setLoading(false)

	q := s.buildQuery()
	for _, o := range overrides {
		o(&q)
	}

	page, err := s.repo.List(ctx, q)
	if err != nil {
		s.log.Error(ctx, "failed to fetch sections", "error", err)
		return err
	}

	s.mu.Lock()
	s.sections = page.Results
	s.pagination.Page = q.Page
	s.pagination.PageSize = q.PageSize
	s.pagination.Total = page.Count
	s.pagination.TotalPages = int((page.Count + int64(q.PageSize) - 1) / int64(q.PageSize))
	s.mu.Unlock()

	return nil
}

// FetchEnabled refreshes the enabled-sections cache used by selection
// widgets. Independent of the paged list.
func (s *Store) FetchEnabled(ctx context.Context) error {
	list, err := s.repo.AllEnabled(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to fetch enabled sections", "error", err)
		return err
	}

	s.mu.Lock()
	s.enabled = list
	s.mu.Unlock()
	return nil
}

// FetchDetail loads one section by numeric id or slug into the current
// detail slot.
func (s *Store) FetchDetail(ctx context.Context, idOrSlug string) (*models.Section, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	sec, err := s.repo.Get(ctx, idOrSlug)
	if err != nil {
		s.log.Error(ctx, "failed to fetch section detail", "section", idOrSlug, "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.current = sec
	s.mu.Unlock()
	return sec, nil
}

// Create adds a section and prepends it to the in-memory page. The list is
// not re-sorted by sort_order; the newest entry shows first until the next
// fetch.
func (s *Store) Create(ctx context.Context, in models.SectionInput) (*models.Section, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	sec, err := s.repo.Create(ctx, in)
	if err != nil {
		s.log.Error(ctx, "failed to create section", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.sections = append([]models.Section{*sec}, s.sections...)
	s.mu.Unlock()
	return sec, nil
}

// Update modifies a section and reconciles the result into the page and,
// when it is the viewed detail, the current slot. Sections outside the
// current page are updated server-side only.
func (s *Store) Update(ctx context.Context, id int64, in models.SectionInput) (*models.Section, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	sec, err := s.repo.Update(ctx, id, in)
	if err != nil {
		s.log.Error(ctx, "failed to update section", "id", id, "error", err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.sections {
		if s.sections[i].ID == id {
			s.sections[i] = *sec
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = sec
	}
	s.mu.Unlock()
	return sec, nil
}

// Delete removes or disables a section. A permanent delete drops the row
// from the page; a soft delete only marks it disabled locally, mirroring
// what the server actually did.
func (s *Store) Delete(ctx context.Context, id int64, permanent bool) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.repo.Delete(ctx, id, permanent); err != nil {
		s.log.Error(ctx, "failed to delete section", "id", id, "permanent", permanent, "error", err)
		return err
	}

	s.mu.Lock()
	if permanent {
		kept := s.sections[:0]
		for _, sec := range s.sections {
			if sec.ID != id {
				kept = append(kept, sec)
			}
		}
		s.sections = kept
		if s.current != nil && s.current.ID == id {
			s.current = nil
		}
	} else {
		for i := range s.sections {
			if s.sections[i].ID == id {
				s.sections[i].IsEnabled = false
				break
			}
		}
		if s.current != nil && s.current.ID == id {
			cur := *s.current
			cur.IsEnabled = false
			s.current = &cur
		}
	}
	s.mu.Unlock()
	return nil
}

// ToggleStatus enables or disables a section, updating local state only
// after the server confirms. There is no optimistic flip to roll back.
func (s *Store) ToggleStatus(ctx context.Context, id int64, enabled bool) error {
	sec, err := s.repo.SetStatus(ctx, id, enabled)
	if err != nil {
		s.log.Error(ctx, "failed to toggle section status", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	for i := range s.sections {
		if s.sections[i].ID == id {
			s.sections[i] = *sec
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = sec
	}
	s.mu.Unlock()
	return nil
}

// Reorder submits a new display sequence and then refetches the list: the
// server assigns sort_order = index+1, so a fetch is simpler and safer than
// reordering locally.
func (s *Store) Reorder(ctx context.Context, ids []int64) error {
	s.setLoading(true)

	err := func() error {
		defer s.setLoading(false)
		if err := s.repo.Reorder(ctx, ids); err != nil {
			s.log.Error(ctx, "failed to reorder sections", "error", err)
			return err
		}
		return nil
	}()
	if err != nil {
		return err
	}

	return s.FetchList(ctx)
}

// ReorderEntries accepts the {id, sort_order} form and normalizes it to an
// id sequence before transmission.
func (s *Store) ReorderEntries(ctx context.Context, entries []models.OrderEntry) error {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return s.Reorder(ctx, ids)
}

// FetchStatistics refreshes the aggregate snapshot. Entirely
// server-computed; nothing is derived locally.
func (s *Store) FetchStatistics(ctx context.Context) error {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to fetch section statistics", "error", err)
		return err
	}

	s.mu.Lock()
	s.statistics = stats
	s.mu.Unlock()
	return nil
}

// SetFilters applies a partial filter update. Pure local mutation.
func (s *Store) SetFilters(patch FiltersPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Search != nil {
		s.filters.Search = *patch.Search
	}
	if patch.SortBy != nil {
		s.filters.SortBy = *patch.SortBy
	}
	if patch.EnabledOnly != nil {
		s.filters.EnabledOnly = *patch.EnabledOnly
	}
}

// SetPage moves the pagination cursor. Pure local mutation.
func (s *Store) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.pagination.Page = page
	s.mu.Unlock()
}

// ResetFilters restores the default filters and returns to the first page.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	s.filters = defaultFilters()
	s.pagination.Page = 1
	s.mu.Unlock()
}

// ClearCurrent drops the section detail.
func (s *Store) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Sections returns a copy of the current page.
func (s *Store) Sections() []models.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// SortedSections returns the current page ordered by ascending sort_order,
// ties broken by id.
func (s *Store) SortedSections() []models.Section {
	out := s.Sections()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// EnabledSections returns a copy of the enabled-sections cache.
func (s *Store) EnabledSections() []models.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Section, len(s.enabled))
	copy(out, s.enabled)
	return out
}

// Current returns a copy of the section detail, if one is loaded.
func (s *Store) Current() (models.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Section{}, false
	}
	return *s.current, true
}

// ByID finds a section in the current page.
func (s *Store) ByID(id int64) (models.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sec := range s.sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return models.Section{}, false
}

// BySlug finds a section in the current page.
func (s *Store) BySlug(slug string) (models.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sec := range s.sections {
		if sec.Slug == slug {
			return sec, true
		}
	}
	return models.Section{}, false
}

// Resolve finds a section in the current page by id or slug.
func (s *Store) Resolve(idOrSlug string) (models.Section, bool) {
	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		return s.ByID(id)
	}
	return s.BySlug(idOrSlug)
}

// HasMore reports whether pages remain after the current one.
func (s *Store) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination.Page < s.pagination.TotalPages
}

// CurrentPagination returns the pagination snapshot.
func (s *Store) CurrentPagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// CurrentFilters returns the filter snapshot.
func (s *Store) CurrentFilters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Statistics returns the last fetched aggregate snapshot, if any.
func (s *Store) Statistics() (models.Statistics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.statistics == nil {
		return models.Statistics{}, false
	}
	return *s.statistics, true
}

// Loading reports whether an operation is in flight. With overlapping
// operations this reflects the last completed transition only.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
