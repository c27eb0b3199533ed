package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Refresh(ctx context.Context) error
	Passwd(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	SetEnabled(ctx context.Context, args []string, enabled bool) error
	Reorder(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	All(ctx context.Context) error
	Page(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
}

const loggedInHelp = `Available commands:
  list                  show the current page of sections
  show <id|slug>        show one section in detail
  create                create a section (interactive form)
  edit <id>             edit a section (interactive form)
  delete <id> [-f]      disable a section; -f removes it permanently
  enable <id>           enable a section
  disable <id>          disable a section
  reorder <id> <id>...  set the display order
  stats                 show aggregate statistics
  search <text>         filter the list by text (empty to clear)
  sort <field>          order by sort_order, name or posts_count
  all                   include disabled sections in the list
  page <n>              jump to page n
  reset                 reset filters and pagination
  whoami                show the signed-in user
  refresh               re-fetch the profile from the server
  passwd                change the password
  logout                sign out
  exit                  leave`

// runREPL reads lines from scanner and dispatches commands until EOF or
// exit. Handler errors are already reported to the user by the handlers;
// the loop ignores them to stay alive.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		fmt.Printf("forumctl %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				printlnFn("Available commands: login, exit")
			case "login":
				_ = a.Login(ctx)
			case "exit", "quit":
				printlnFn("Bye!")
				return
			default:
				printlnFn("Unknown command (sign in first):", cmd)
			}
			continue
		}

		switch cmd {
		case "help":
			printlnFn(loggedInHelp)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.Whoami(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "passwd":
			_ = a.Passwd(ctx)
		case "l", "list":
			_ = a.List(ctx)
		case "show":
			_ = a.Show(ctx, args)
		case "create":
			_ = a.Create(ctx)
		case "edit":
			_ = a.Edit(ctx, args)
		case "delete":
			_ = a.Delete(ctx, args)
		case "enable":
			_ = a.SetEnabled(ctx, args, true)
		case "disable":
			_ = a.SetEnabled(ctx, args, false)
		case "reorder":
			_ = a.Reorder(ctx, args)
		case "stats":
			_ = a.Stats(ctx)
		case "search":
			_ = a.Search(ctx, args)
		case "sort":
			_ = a.Sort(ctx, args)
		case "all":
			_ = a.All(ctx)
		case "page":
			_ = a.Page(ctx, args)
		case "reset":
			_ = a.Reset(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
