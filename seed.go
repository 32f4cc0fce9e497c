package userapi

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// SeedDefaults ensures the default roles exist and optionally bootstraps a
// one-time admin account from ADMIN_USER/ADMIN_PASS. Safe to run on every
// startup: role creation is idempotent and an existing admin is left alone.
func SeedDefaults(ctx context.Context, repo RepositoryManager, cfg *AppConfig, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	for _, name := range []string{RoleAdmin, RoleUser} {
		if _, err := repo.Roles().EnsureRole(ctx, name); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed role").
				WithMetadata(map[string]any{"role": name})
		}
	}

	adminUser := strings.TrimSpace(cfg.AdminUser)
	adminPass := strings.TrimSpace(cfg.AdminPass)
	if adminUser == "" || adminPass == "" {
		return nil
	}

	if _, err := repo.Users().GetByUsername(ctx, adminUser); err == nil {
		logger.Debug("admin seed skipped, user exists", "username", adminUser)
		return nil
	} else if !repository.IsRecordNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for admin user")
	}

	err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(adminPass)
		if err != nil {
			return err
		}

		admin := &User{
			Username:     adminUser,
			Email:        fmt.Sprintf("%s@local", adminUser),
			PasswordHash: hash,
		}

		if admin, err = repo.Users().RegisterTx(ctx, tx, admin); err != nil {
			return err
		}

		role, err := repo.Roles().EnsureRoleTx(ctx, tx, RoleAdmin)
		if err != nil {
			return err
		}

		return repo.Roles().AssignTx(ctx, tx, admin.ID, role.ID)
	})

	if err != nil {
		// Another instance may have won the bootstrap race.
		if goerrors.Is(err, ErrDuplicateUser) {
			logger.Debug("admin seed skipped, user created concurrently", "username", adminUser)
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed admin user")
	}

	logger.Info("seeded bootstrap admin user", "username", adminUser)
	return nil
}
