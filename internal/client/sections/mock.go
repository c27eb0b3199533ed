package sections

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/open436/forumctl/internal/client/api"
	"github.com/open436/forumctl/internal/client/models"
)

// MockRepository is an in-memory section backend for offline development.
// It reproduces the service contract closely enough for the store and CLI
// to behave as they would against the real thing: same pagination shape,
// same filters, same conflict and not-found failures.
type MockRepository struct {
	mu       sync.Mutex
	sections []models.Section
	nextID   int64
}

// NewMockRepository seeds the fixture set the section service ships with.
func NewMockRepository() *MockRepository {
	now := time.Now().UTC()
	seed := func(id int64, slug, name, desc, icon, color string, order int, enabled bool, posts int64) models.Section {
		return models.Section{
			ID: id, Slug: slug, Name: name, Description: desc,
			Icon: icon, Color: color, SortOrder: order,
			IsEnabled: enabled, PostsCount: posts,
			CreatedAt: now.Add(-time.Duration(id) * 24 * time.Hour),
			UpdatedAt: now,
		}
	}

	return &MockRepository{
		nextID: 8,
		sections: []models.Section{
			seed(1, "tech", "Technology", "Programming, hardware and everything between", "cpu", "#409EFF", 1, true, 152),
			seed(2, "design", "Design", "UI, UX and visual craft", "brush", "#67C23A", 2, true, 87),
			seed(3, "discuss", "General Discussion", "Anything that fits nowhere else", "chat", "#E6A23C", 3, true, 240),
			seed(4, "question", "Questions", "Ask the community for help", "help", "#F56C6C", 4, true, 63),
			seed(5, "share", "Sharing", "Show what you built or found", "gift", "#909399", 5, true, 45),
			seed(6, "announce", "Announcements", "Official news from the team", "bell", "#9C27B0", 6, true, 12),
			seed(7, "test_disabled", "Hidden Test Area", "Disabled fixture for status flows", "lock", "#606266", 99, false, 0),
		},
	}
}

func notFound() error {
	return api.NewError(0, "section not found", 404)
}

func conflict() error {
	return api.NewError(40901001, "", 409)
}

// matches applies the list filters to one section.
func matches(sec models.Section, q models.ListQuery) bool {
	if q.Enabled != nil && sec.IsEnabled != *q.Enabled {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(sec.Name), needle) &&
			!strings.Contains(strings.ToLower(sec.Description), needle) &&
			!strings.Contains(strings.ToLower(sec.Slug), needle) {
			return false
		}
	}
	return true
}

// order sorts like the service: sort_order and name ascending, posts_count
// descending, all with id as the tiebreak.
func order(list []models.Section, sortBy string) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch sortBy {
		case "name":
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case "posts_count":
			if a.PostsCount != b.PostsCount {
				return a.PostsCount > b.PostsCount
			}
		default:
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
		}
		return a.ID < b.ID
	})
}

func (m *MockRepository) List(ctx context.Context, q models.ListQuery) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var filtered []models.Section
	for _, sec := range m.sections {
		if matches(sec, q) {
			filtered = append(filtered, sec)
		}
	}
	order(filtered, q.SortBy)

	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}

	start := (page - 1) * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	results := make([]models.Section, end-start)
	copy(results, filtered[start:end])

	p := &models.Page{Count: int64(len(filtered)), Results: results}
	if end < len(filtered) {
		p.Next = "?page=" + strconv.Itoa(page+1)
	}
	if page > 1 {
		p.Previous = "?page=" + strconv.Itoa(page-1)
	}
	return p, nil
}

func (m *MockRepository) AllEnabled(ctx context.Context) ([]models.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Section
	for _, sec := range m.sections {
		if sec.IsEnabled {
			out = append(out, sec)
		}
	}
	order(out, "sort_order")
	return out, nil
}

// locate returns the index of a section by id, or -1.
func (m *MockRepository) locate(id int64) int {
	for i := range m.sections {
		if m.sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MockRepository) Get(ctx context.Context, idOrSlug string) (*models.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		if i := m.locate(id); i >= 0 {
			sec := m.sections[i]
			return &sec, nil
		}
		return nil, notFound()
	}
	for _, sec := range m.sections {
		if sec.Slug == idOrSlug {
			out := sec
			return &out, nil
		}
	}
	return nil, notFound()
}

func (m *MockRepository) Create(ctx context.Context, in models.SectionInput) (*models.Section, error) {
	if err := in.Validate(true); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sec := range m.sections {
		if sec.Slug == in.Slug || sec.Name == in.Name {
			return nil, conflict()
		}
	}

	now := time.Now().UTC()
	sec := models.Section{
		ID:          m.nextID,
		Slug:        in.Slug,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
		SortOrder:   in.SortOrder,
		IsEnabled:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.SortOrder == 0 {
		sec.SortOrder = len(m.sections) + 1
	}
	if in.IsEnabled != nil {
		sec.IsEnabled = *in.IsEnabled
	}
	m.nextID++
	m.sections = append(m.sections, sec)

	out := sec
	return &out, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, in models.SectionInput) (*models.Section, error) {
	if err := in.Validate(false); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.locate(id)
	if i < 0 {
		return nil, notFound()
	}
	for _, sec := range m.sections {
		if sec.ID != id && sec.Name == in.Name {
			return nil, conflict()
		}
	}

	sec := &m.sections[i]
	// Slug is immutable; whatever the caller sent is ignored.
	sec.Name = in.Name
	sec.Description = in.Description
	if in.Icon != "" {
		sec.Icon = in.Icon
	}
	if in.Color != "" {
		sec.Color = in.Color
	}
	if in.SortOrder != 0 {
		sec.SortOrder = in.SortOrder
	}
	if in.IsEnabled != nil {
		sec.IsEnabled = *in.IsEnabled
	}
	sec.UpdatedAt = time.Now().UTC()

	out := *sec
	return &out, nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64, force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.locate(id)
	if i < 0 {
		return notFound()
	}
	if force {
		m.sections = append(m.sections[:i], m.sections[i+1:]...)
		return nil
	}
	m.sections[i].IsEnabled = false
	m.sections[i].UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockRepository) SetStatus(ctx context.Context, id int64, enabled bool) (*models.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.locate(id)
	if i < 0 {
		return nil, notFound()
	}
	m.sections[i].IsEnabled = enabled
	m.sections[i].UpdatedAt = time.Now().UTC()

	out := m.sections[i]
	return &out, nil
}

func (m *MockRepository) Reorder(ctx context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if m.locate(id) < 0 {
			return notFound()
		}
	}
	now := time.Now().UTC()
	for pos, id := range ids {
		i := m.locate(id)
		m.sections[i].SortOrder = pos + 1
		m.sections[i].UpdatedAt = now
	}
	return nil
}

func (m *MockRepository) Statistics(ctx context.Context) (*models.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats models.Statistics
	for _, sec := range m.sections {
		stats.TotalSections++
		if sec.IsEnabled {
			stats.EnabledSections++
		} else {
			stats.DisabledSections++
		}
		stats.TotalPosts += sec.PostsCount
	}
	if stats.TotalSections > 0 {
		stats.AveragePosts = float64(stats.TotalPosts) / float64(stats.TotalSections)
	}
	return &stats, nil
}

func (m *MockRepository) Validate(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.locate(id)
	return i >= 0 && m.sections[i].IsEnabled, nil
}

func (m *MockRepository) IncrementPosts(ctx context.Context, id int64, delta int64) (*models.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.locate(id)
	if i < 0 {
		return nil, notFound()
	}
	m.sections[i].PostsCount += delta
	if m.sections[i].PostsCount < 0 {
		m.sections[i].PostsCount = 0
	}
	m.sections[i].UpdatedAt = time.Now().UTC()

	out := m.sections[i]
	return &out, nil
}
