package sections

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/open436/forumctl/internal/client/models"
	"github.com/open436/forumctl/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo implements Repository with canned responses for store tests.
type fakeRepo struct {
	mu          sync.Mutex
	ListFn      func(ctx context.Context, q models.ListQuery) (*models.Page, error)
	lastQuery   models.ListQuery
	ReorderIDs  []int64
	DeleteCalls []struct {
		ID    int64
		Force bool
	}

	CreateRet *models.Section
	CreateErr error
	UpdateRet *models.Section
	UpdateErr error
	StatusRet *models.Section
	StatsRet  *models.Statistics
	GetRet    *models.Section
	GetErr    error
}

func (f *fakeRepo) List(ctx context.Context, q models.ListQuery) (*models.Page, error) {
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	if f.ListFn != nil {
		return f.ListFn(ctx, q)
	}
	return &models.Page{}, nil
}

func (f *fakeRepo) LastQuery() models.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func (f *fakeRepo) AllEnabled(ctx context.Context) ([]models.Section, error) {
	return []models.Section{{ID: 1, Slug: "tech", IsEnabled: true}}, nil
}

func (f *fakeRepo) Get(ctx context.Context, idOrSlug string) (*models.Section, error) {
	return f.GetRet, f.GetErr
}

func (f *fakeRepo) Create(ctx context.Context, in models.SectionInput) (*models.Section, error) {
	return f.CreateRet, f.CreateErr
}

func (f *fakeRepo) Update(ctx context.Context, id int64, in models.SectionInput) (*models.Section, error) {
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeRepo) Delete(ctx context.Context, id int64, force bool) error {
	f.DeleteCalls = append(f.DeleteCalls, struct {
		ID    int64
		Force bool
	}{id, force})
	return nil
}

func (f *fakeRepo) SetStatus(ctx context.Context, id int64, enabled bool) (*models.Section, error) {
	return f.StatusRet, nil
}

func (f *fakeRepo) Reorder(ctx context.Context, ids []int64) error {
	f.ReorderIDs = ids
	return nil
}

func (f *fakeRepo) Statistics(ctx context.Context) (*models.Statistics, error) {
	return f.StatsRet, nil
}

func (f *fakeRepo) Validate(ctx context.Context, id int64) (bool, error) { return true, nil }

func (f *fakeRepo) IncrementPosts(ctx context.Context, id int64, delta int64) (*models.Section, error) {
	return nil, nil
}

func newTestStore(repo Repository) *Store {
	return NewStore(repo, logging.NewTextLogger("error"))
}

func pageOf(count int64, sections ...models.Section) *models.Page {
	return &models.Page{Count: count, Results: sections}
}

func TestFetchList_PaginationMath(t *testing.T) {
	repo := &fakeRepo{ListFn: func(ctx context.Context, q models.ListQuery) (*models.Page, error) {
		return pageOf(45, models.Section{ID: 1}), nil
	}}
	s := newTestStore(repo)

	require.NoError(t, s.FetchList(context.Background()))

	p := s.CurrentPagination()
	assert.Equal(t, int64(45), p.Total)
	assert.Equal(t, 3, p.TotalPages, "45 rows at 20 per page")
	assert.True(t, s.HasMore())
}

func TestFetchList_EnabledOnlyMapsToQuery(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo)

	require.NoError(t, s.FetchList(context.Background()))
	require.NotNil(t, repo.LastQuery().Enabled, "default filters restrict to enabled")
	assert.True(t, *repo.LastQuery().Enabled)

	s.SetFilters(FiltersPatch{EnabledOnly: models.Bool(false)})
	require.NoError(t, s.FetchList(context.Background()))
	assert.Nil(t, repo.LastQuery().Enabled, "enabled-only off means no filter at all")
}

func TestFetchList_OverridesWinOverState(t *testing.T) {
	repo := &fakeRepo{ListFn: func(ctx context.Context, q models.ListQuery) (*models.Page, error) {
		return pageOf(100), nil
	}}
	s := newTestStore(repo)

	require.NoError(t, s.FetchList(context.Background(), func(q *models.ListQuery) { q.Page = 4 }))
	assert.Equal(t, 4, repo.LastQuery().Page)
	assert.Equal(t, 4, s.CurrentPagination().Page, "the page actually fetched is recorded")
}

func TestFetchList_OverlappingLastResolveWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	repo := &fakeRepo{}
	repo.ListFn = func(ctx context.Context, q models.ListQuery) (*models.Page, error) {
		if q.Page == 1 {
			// Slow request: block until the fast one has finished.
			close(started)
			<-release
			return pageOf(1, models.Section{ID: 1, Name: "stale"}), nil
		}
		return pageOf(1, models.Section{ID: 2, Name: "fresh"}), nil
	}
	s := newTestStore(repo)

	done := make(chan error, 1)
	go func() { done <- s.FetchList(context.Background()) }()
	<-started

	require.NoError(t, s.FetchList(context.Background(), func(q *models.ListQuery) { q.Page = 2 }))
	close(release)
	require.NoError(t, <-done)

	// The slow request resolved last, so its result is what sticks.
	list := s.Sections()
	require.Len(t, list, 1)
	assert.Equal(t, "stale", list[0].Name)
}

func TestFetchList_ErrorLeavesStateUntouched(t *testing.T) {
	repo := &fakeRepo{ListFn: func(ctx context.Context, q models.ListQuery) (*models.Page, error) {
		return pageOf(1, models.Section{ID: 7}), nil
	}}
	s := newTestStore(repo)
	require.NoError(t, s.FetchList(context.Background()))

	repo.ListFn = func(ctx context.Context, q models.ListQuery) (*models.Page, error) {
		return nil, errors.New("boom")
	}
	require.Error(t, s.FetchList(context.Background()))

	list := s.Sections()
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].ID)
	assert.False(t, s.Loading())
}

func TestCreate_PrependsToPage(t *testing.T) {
	repo := &fakeRepo{CreateRet: &models.Section{ID: 9, Slug: "newest"}}
	s := newTestStore(repo)
	s.mu.Lock()
	s.sections = []models.Section{{ID: 1}, {ID: 2}}
	s.mu.Unlock()

	sec, err := s.Create(context.Background(), models.SectionInput{Slug: "newest", Name: "Newest"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), sec.ID)

	list := s.Sections()
	require.Len(t, list, 3)
	assert.Equal(t, int64(9), list[0].ID, "new section shows first until the next fetch")
}

func TestCreate_ConflictLeavesPageUnmodified(t *testing.T) {
	repo := &fakeRepo{CreateErr: errors.New("name already taken")}
	s := newTestStore(repo)
	s.mu.Lock()
	s.sections = []models.Section{{ID: 1}}
	s.mu.Unlock()

	_, err := s.Create(context.Background(), models.SectionInput{Slug: "dup", Name: "Dup"})
	require.Error(t, err)
	assert.Len(t, s.Sections(), 1)
}

func TestUpdate_ReplacesRowAndCurrent(t *testing.T) {
	repo := &fakeRepo{UpdateRet: &models.Section{ID: 2, Name: "Renamed"}}
	s := newTestStore(repo)
	s.mu.Lock()
	s.sections = []models.Section{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	cur := models.Section{ID: 2, Name: "B"}
	s.current = &cur
	s.mu.Unlock()

	_, err := s.Update(context.Background(), 2, models.SectionInput{Name: "Renamed"})
	require.NoError(t, err)

	got, ok := s.ByID(2)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Name)

	c, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Renamed", c.Name)
}

func TestDelete_SoftMarksDisabledLocally(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo)
	s.mu.Lock()
	s.sections = []models.Section{{ID: 3, IsEnabled: true}}
	s.mu.Unlock()

	require.NoError(t, s.Delete(context.Background(), 3, false))

	require.Len(t, repo.DeleteCalls, 1)
	assert.False(t, repo.DeleteCalls[0].Force)

	got, ok := s.ByID(3)
	require.True(t, ok, "soft delete keeps the row visible")
	assert.False(t, got.IsEnabled)
}

func TestDelete_PermanentRemovesRow(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo)
	s.mu.Lock()
	s.sections = []models.Section{{ID: 3}, {ID: 4}}
	cur := models.Section{ID: 3}
	s.current = &cur
	s.mu.Unlock()

	require.NoError(t, s.Delete(context.Background(), 3, true))

	_, ok := s.ByID(3)
	assert.False(t, ok)
	_, ok = s.Current()
	assert.False(t, ok, "deleting the viewed section clears the detail")
}

func TestToggleStatus_AppliesServerResult(t *testing.T) {
	repo := &fakeRepo{StatusRet: &models.Section{ID: 5, IsEnabled: false}}
	s := newTestStore(repo)
	s.mu.Lock()
	s.sections = []models.Section{{ID: 5, IsEnabled: true}}
	s.mu.Unlock()

	require.NoError(t, s.ToggleStatus(context.Background(), 5, false))

	got, ok := s.ByID(5)
	require.True(t, ok)
	assert.False(t, got.IsEnabled)
}

func TestReorder_SubmitsThenRefetches(t *testing.T) {
	listCalls := 0
	repo := &fakeRepo{}
	repo.ListFn = func(ctx context.Context, q models.ListQuery) (*models.Page, error) {
		listCalls++
		return pageOf(2, models.Section{ID: 2, SortOrder: 1}, models.Section{ID: 1, SortOrder: 2}), nil
	}
	s := newTestStore(repo)

	require.NoError(t, s.Reorder(context.Background(), []int64{2, 1}))

	assert.Equal(t, []int64{2, 1}, repo.ReorderIDs)
	assert.Equal(t, 1, listCalls, "reorder refetches instead of patching locally")
	list := s.Sections()
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID, "list reflects the server order")
}

func TestReorderEntries_NormalizesToIDs(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo)

	entries := []models.OrderEntry{{ID: 7, SortOrder: 3}, {ID: 4, SortOrder: 1}}
	require.NoError(t, s.ReorderEntries(context.Background(), entries))
	assert.Equal(t, []int64{7, 4}, repo.ReorderIDs, "sequence is what counts, not the sort_order values")
}

func TestFetchStatistics(t *testing.T) {
	repo := &fakeRepo{StatsRet: &models.Statistics{TotalSections: 7, EnabledSections: 6}}
	s := newTestStore(repo)

	require.NoError(t, s.FetchStatistics(context.Background()))
	stats, ok := s.Statistics()
	require.True(t, ok)
	assert.Equal(t, int64(7), stats.TotalSections)
}

func TestFilters_PatchAndReset(t *testing.T) {
	s := newTestStore(&fakeRepo{})

	search := "go"
	s.SetFilters(FiltersPatch{Search: &search})
	s.SetPage(3)

	f := s.CurrentFilters()
	assert.Equal(t, "go", f.Search)
	assert.Equal(t, "sort_order", f.SortBy, "untouched fields keep their value")
	assert.Equal(t, 3, s.CurrentPagination().Page)

	s.ResetFilters()
	assert.Equal(t, defaultFilters(), s.CurrentFilters())
	assert.Equal(t, 1, s.CurrentPagination().Page)
}

func TestSortedSections_OrderAndTiebreak(t *testing.T) {
	s := newTestStore(&fakeRepo{})
	s.mu.Lock()
	s.sections = []models.Section{
		{ID: 3, SortOrder: 2},
		{ID: 2, SortOrder: 1},
		{ID: 1, SortOrder: 2},
	}
	s.mu.Unlock()

	sorted := s.SortedSections()
	require.Len(t, sorted, 3)
	assert.Equal(t, int64(2), sorted[0].ID)
	assert.Equal(t, int64(1), sorted[1].ID, "equal sort_order falls back to id")
	assert.Equal(t, int64(3), sorted[2].ID)
}

func TestResolve_ByIDAndSlug(t *testing.T) {
	s := newTestStore(&fakeRepo{})
	s.mu.Lock()
	s.sections = []models.Section{{ID: 12, Slug: "tech"}}
	s.mu.Unlock()

	got, ok := s.Resolve("12")
	require.True(t, ok)
	assert.Equal(t, "tech", got.Slug)

	got, ok = s.Resolve("tech")
	require.True(t, ok)
	assert.Equal(t, int64(12), got.ID)

	_, ok = s.Resolve("missing")
	assert.False(t, ok)
}

func TestFetchEnabled_PopulatesCache(t *testing.T) {
	s := newTestStore(&fakeRepo{})
	require.NoError(t, s.FetchEnabled(context.Background()))
	require.Len(t, s.EnabledSections(), 1)
}
