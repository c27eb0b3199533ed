package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/open436/forumctl/internal/client/sections"
)

// List fetches and prints the current page.
func (a *App) List(ctx context.Context) error {
	if err := a.sections.FetchList(ctx); err != nil {
		fmt.Println(err)
		return err
	}
	a.printList()
	return nil
}

func (a *App) printList() {
	list := a.sections.Sections()
	if len(list) == 0 {
		fmt.Println("No sections.")
		return
	}

	fmt.Printf("%-5s %-16s %-24s %-6s %-8s %s\n", "ID", "SLUG", "NAME", "ORDER", "POSTS", "STATUS")
	for _, sec := range list {
		status := "enabled"
		if !sec.IsEnabled {
			status = "disabled"
		}
		fmt.Printf("%-5d %-16s %-24s %-6d %-8d %s\n",
			sec.ID, sec.Slug, sec.Name, sec.SortOrder, sec.PostsCount, status)
	}

	p := a.sections.CurrentPagination()
	f := a.sections.CurrentFilters()
	line := fmt.Sprintf("page %d/%d, %d total", p.Page, p.TotalPages, p.Total)
	if f.Search != "" {
		line += fmt.Sprintf(", search %q", f.Search)
	}
	if !f.EnabledOnly {
		line += ", including disabled"
	}
	fmt.Println(line)
}

// Search sets the text filter and refetches from page one. No argument
// clears the filter.
func (a *App) Search(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	a.sections.SetFilters(sections.FiltersPatch{Search: &text})
	a.sections.SetPage(1)
	return a.List(ctx)
}

// Sort sets the ordering field and refetches.
func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: sort <sort_order|name|posts_count>")
		return nil
	}
	field := args[0]
	switch field {
	case "sort_order", "name", "posts_count":
	default:
		fmt.Println("Unknown sort field:", field)
		return nil
	}
	a.sections.SetFilters(sections.FiltersPatch{SortBy: &field})
	return a.List(ctx)
}

// All widens the list to include disabled sections.
func (a *App) All(ctx context.Context) error {
	enabledOnly := false
	a.sections.SetFilters(sections.FiltersPatch{EnabledOnly: &enabledOnly})
	a.sections.SetPage(1)
	return a.List(ctx)
}

// Page jumps to the given page.
func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: page <n>")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Println("Page must be a positive number.")
		return nil
	}
	a.sections.SetPage(n)
	return a.List(ctx)
}

// Reset restores default filters and pagination.
func (a *App) Reset(ctx context.Context) error {
	a.sections.ResetFilters()
	return a.List(ctx)
}

// Stats prints the aggregate snapshot.
func (a *App) Stats(ctx context.Context) error {
	if err := a.sections.FetchStatistics(ctx); err != nil {
		fmt.Println(err)
		return err
	}
	stats, _ := a.sections.Statistics()
	fmt.Printf("sections: %d (%d enabled, %d disabled)\nposts: %d (%.1f per section)\n",
		stats.TotalSections, stats.EnabledSections, stats.DisabledSections,
		stats.TotalPosts, stats.AveragePosts)
	return nil
}
