package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open436/forumctl/internal/client/api"
	"github.com/open436/forumctl/internal/client/config"
	"github.com/open436/forumctl/internal/client/mockauth"
	"github.com/open436/forumctl/internal/client/models"
	"github.com/open436/forumctl/internal/client/sections"
	"github.com/open436/forumctl/internal/client/session"
	"github.com/open436/forumctl/internal/client/storage"
	"github.com/open436/forumctl/internal/filex"
	"github.com/open436/forumctl/internal/logging"

	_ "modernc.org/sqlite"
)

// AuthBackend is the auth surface the CLI drives. api.AuthAPI implements it
// against the live gateway; mockauth.Service implements it in memory.
type AuthBackend interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	Logout(ctx context.Context) error
	Verify(ctx context.Context, token string) (*models.UserProfile, error)
	CurrentUser(ctx context.Context) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error
}

// App wires the config, session, section store and auth backend into the
// interactive shell.
type App struct {
	config   *config.Config
	auth     AuthBackend
	session  *session.Store
	sections *sections.Store
	log      logging.Logger
	reader   *bufio.Reader
}

// NewApp builds the full client stack. With UseMock set, the in-memory auth
// and section backends replace the HTTP ones and no network access happens;
// everything above the repository boundary stays identical.
func NewApp(cfg *config.Config) (*App, error) {
	log := logging.NewTextLogger(cfg.LogLevel)

	stateDir := cfg.StateDir
	if stateDir == "" {
		var err error
		stateDir, err = filex.StateDir("forumctl")
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
	}

	db, err := storage.Open(filepath.Join(stateDir, "state.db"))
	if err != nil {
		return nil, err
	}
	kv := storage.New(db, storage.Namespace, log)

	httpClient := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, kv, log)

	var (
		auth AuthBackend
		repo sections.Repository
	)
	if cfg.UseMock {
		auth = mockauth.NewService(kv, log)
		repo = sections.NewMockRepository()
	} else {
		auth = api.NewAuthAPI(httpClient)
		repo = api.NewSectionAPI(httpClient)
	}

	sess := session.New(db, kv, auth, log)
	httpClient.SetUnauthorizedHandler(func() {
		sess.Invalidate(context.Background())
		fmt.Println("Session expired, please sign in again.")
	})

	return &App{
		config:   cfg,
		auth:     auth,
		session:  sess,
		sections: sections.NewStore(repo, log),
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the interactive shell and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Println("forumctl (type 'help' for commands)")
	if a.config.UseMock {
		fmt.Println("Running against the in-memory mock backend (admin / admin123).")
	}
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

// status renders the prompt suffix: the signed-in user, or nothing.
func (a *App) status() string {
	p, ok := a.session.Profile()
	if !ok {
		return ""
	}
	s := p.Username
	if a.session.IsAdmin() {
		s += "*"
	}
	return "(" + s + ")"
}
