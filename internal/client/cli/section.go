package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/open436/forumctl/internal/client/models"
)

// requireAdmin gates mutating commands client-side. The server enforces the
// same rule; this only saves a round trip and gives a clearer message.
func (a *App) requireAdmin() bool {
	if a.session.IsAdmin() {
		return true
	}
	fmt.Println("Administrator privileges required.")
	return false
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%q is not a section id", arg)
	}
	return id, nil
}

func printSection(sec models.Section) {
	status := "enabled"
	if !sec.IsEnabled {
		status = "disabled"
	}
	fmt.Printf("#%d %s (%s)\n", sec.ID, sec.Name, sec.Slug)
	if sec.Description != "" {
		fmt.Println(sec.Description)
	}
	fmt.Printf("status: %s\norder: %d\nposts: %d\n", status, sec.SortOrder, sec.PostsCount)
	if sec.Icon != "" {
		fmt.Printf("icon: %s\n", sec.Icon)
	}
	if sec.Color != "" {
		fmt.Printf("color: %s\n", sec.Color)
	}
	fmt.Printf("created: %s\nupdated: %s\n",
		sec.CreatedAt.Format("2006-01-02 15:04"), sec.UpdatedAt.Format("2006-01-02 15:04"))
}

// Show fetches one section by id or slug and prints it.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: show <id|slug>")
		return nil
	}
	sec, err := a.sections.FetchDetail(ctx, args[0])
	if err != nil {
		fmt.Println(err)
		return err
	}
	printSection(*sec)
	return nil
}

// Create runs the interactive create form.
func (a *App) Create(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}
	in, err := a.sectionForm(models.SectionInput{}, true)
	if err != nil {
		return err
	}

	sec, err := a.sections.Create(ctx, in)
	if err != nil {
		fmt.Println(err)
		return err
	}
	fmt.Printf("Created section #%d (%s).\n", sec.ID, sec.Slug)
	return nil
}

// Edit runs the interactive edit form, prefilled with the current values.
// Pressing Enter keeps a field as is.
func (a *App) Edit(ctx context.Context, args []string) error {
	if !a.requireAdmin() {
		return nil
	}
	if len(args) != 1 {
		fmt.Println("Usage: edit <id>")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}

	base, ok := a.sections.ByID(id)
	if !ok {
		fetched, err := a.sections.FetchDetail(ctx, args[0])
		if err != nil {
			fmt.Println(err)
			return err
		}
		base = *fetched
	}

	in, err := a.sectionForm(models.SectionInput{
		Name:        base.Name,
		Description: base.Description,
		Icon:        base.Icon,
		Color:       base.Color,
		SortOrder:   base.SortOrder,
	}, false)
	if err != nil {
		return err
	}

	sec, err := a.sections.Update(ctx, id, in)
	if err != nil {
		fmt.Println(err)
		return err
	}
	fmt.Printf("Updated section #%d.\n", sec.ID)
	return nil
}

// sectionForm collects the section fields interactively. With forCreate the
// slug is asked first; on edit it is immutable and skipped.
func (a *App) sectionForm(base models.SectionInput, forCreate bool) (models.SectionInput, error) {
	in := base
	var err error

	if forCreate {
		in.Slug, err = getSimpleText(a.reader, "Slug (lowercase letters, digits, underscores)", os.Stdout)
		if err != nil {
			return in, err
		}
	}

	if in.Name, err = GetOptionalText(a.reader, "Name", base.Name, os.Stdout); err != nil {
		return in, err
	}
	if in.Description, err = GetOptionalText(a.reader, "Description", base.Description, os.Stdout); err != nil {
		return in, err
	}
	if in.Icon, err = GetOptionalText(a.reader, "Icon", base.Icon, os.Stdout); err != nil {
		return in, err
	}
	if in.Color, err = GetOptionalText(a.reader, "Color (#RRGGBB)", base.Color, os.Stdout); err != nil {
		return in, err
	}

	orderText, err := GetOptionalText(a.reader, "Sort order", strconv.Itoa(base.SortOrder), os.Stdout)
	if err != nil {
		return in, err
	}
	order, err := strconv.Atoi(orderText)
	if err != nil {
		return in, fmt.Errorf("sort order must be a number")
	}
	in.SortOrder = order

	return in, nil
}

// Delete disables a section, or removes it permanently with -f. Permanent
// deletion asks for confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.requireAdmin() {
		return nil
	}
	var (
		id        int64
		permanent bool
	)
	for _, arg := range args {
		if arg == "-f" || arg == "--force" {
			permanent = true
			continue
		}
		parsed, err := parseID(arg)
		if err != nil {
			fmt.Println(err)
			return nil
		}
		id = parsed
	}
	if id == 0 {
		fmt.Println("Usage: delete <id> [-f]")
		return nil
	}

	if permanent {
		answer, err := getSimpleText(a.reader,
			fmt.Sprintf("Permanently delete section %d? This cannot be undone. (y/N)", id), os.Stdout)
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := a.sections.Delete(ctx, id, permanent); err != nil {
		fmt.Println(err)
		return err
	}
	if permanent {
		fmt.Printf("Section %d deleted.\n", id)
	} else {
		fmt.Printf("Section %d disabled.\n", id)
	}
	return nil
}

// SetEnabled flips a section's enabled flag.
func (a *App) SetEnabled(ctx context.Context, args []string, enabled bool) error {
	if !a.requireAdmin() {
		return nil
	}
	if len(args) != 1 {
		fmt.Println("Usage: enable|disable <id>")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}

	if err := a.sections.ToggleStatus(ctx, id, enabled); err != nil {
		fmt.Println(err)
		return err
	}
	if enabled {
		fmt.Printf("Section %d enabled.\n", id)
	} else {
		fmt.Printf("Section %d disabled.\n", id)
	}
	return nil
}

// Reorder sets the display sequence to the given ids and shows the result.
func (a *App) Reorder(ctx context.Context, args []string) error {
	if !a.requireAdmin() {
		return nil
	}
	if len(args) == 0 {
		fmt.Println("Usage: reorder <id> <id> ...")
		return nil
	}
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			fmt.Println(err)
			return nil
		}
		ids = append(ids, id)
	}

	if err := a.sections.Reorder(ctx, ids); err != nil {
		fmt.Println(err)
		return err
	}
	a.printList()
	return nil
}
