package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	userapi "github.com/TeuzLins/UsersApi"
)

type App struct {
	config *userapi.AppConfig
	bunDB  *bun.DB
	repo   userapi.RepositoryManager
	auth   *userapi.Auther
	srv    *fiber.App
	logger *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("userapi"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := userapi.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// A missing signing key is fatal here: the service must never boot
	// and then fail token issuance lazily per request.
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := userapi.SeedDefaults(ctx, app.repo, cfg, app.GetLogger("seed")); err != nil {
		log.Fatal(err)
	}

	if err := WithHTTPServer(app); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := app.srv.Listen(cfg.ServerAddr); err != nil {
			log.Fatal(err)
		}
	}()

	WaitExitSignal()

	if err := app.srv.Shutdown(); err != nil {
		app.GetLogger("server").Error("shutdown error", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.DSN)
	if err != nil {
		return err
	}

	persistence.RegisterModel((*userapi.UserRole)(nil))
	persistence.RegisterModel((*userapi.User)(nil))
	persistence.RegisterModel((*userapi.Role)(nil))

	client, err := persistence.New(app.config.GetPersistence(), db, sqlitedialect.New())
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(userapi.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = userapi.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func WithHTTPServer(app *App) error {
	userProvider := userapi.NewUserProvider(app.repo.Users())
	userProvider.WithLogger(app.GetLogger("auth:prv"))

	roleProvider := userapi.NewStoredRoleSetProvider(app.repo.Roles())

	app.auth = userapi.NewAuthenticator(userProvider, roleProvider, app.config).
		WithLogger(app.GetLogger("auth:authn"))

	app.srv = fiber.New(fiber.Config{
		AppName:       "users-api",
		StrictRouting: false,
	})

	controller := userapi.NewAPIController(func(c *userapi.APIController) *userapi.APIController {
		c.Debug = app.config.Debug
		c.Repo = app.repo
		c.Auther = app.auth
		c.Config = app.config
		return c.WithLogger(app.GetLogger("auth:ctrl"))
	})

	userapi.RegisterRoutes(app.srv, controller)

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
