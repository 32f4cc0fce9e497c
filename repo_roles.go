package userapi

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Roles interface {
	repository.Repository[*Role]

	EnsureRole(ctx context.Context, name string) (*Role, error)
	EnsureRoleTx(ctx context.Context, tx bun.IDB, name string) (*Role, error)
	Assign(ctx context.Context, userID, roleID uuid.UUID) error
	AssignTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	RolesForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]string, error)
}

type roles struct {
	repository.Repository[*Role]
	db *bun.DB
}

var (
	_ Roles                        = (*roles)(nil)
	_ repository.Repository[*Role] = (*roles)(nil)
)

func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &roles{
		Repository: repo,
		db:         db,
	}
}

func (a *roles) EnsureRole(ctx context.Context, name string) (*Role, error) {
	return a.EnsureRoleTx(ctx, a.db, name)
}

// EnsureRoleTx lazily creates the role on first reference. The insert
// ignores conflicts on the name so concurrent callers converge on the same
// row without either one failing.
func (a *roles) EnsureRoleTx(ctx context.Context, tx bun.IDB, name string) (*Role, error) {
	role := &Role{
		ID:   uuid.New(),
		Name: name,
	}

	_, err := tx.NewInsert().
		Model(role).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	record := &Role{}
	err = tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (a *roles) Assign(ctx context.Context, userID, roleID uuid.UUID) error {
	return a.AssignTx(ctx, a.db, userID, roleID)
}

// AssignTx grants a role to a user. Re-granting an already held role is a
// no-op success.
func (a *roles) AssignTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error {
	assignment := &UserRole{
		UserID: userID,
		RoleID: roleID,
	}

	_, err := tx.NewInsert().
		Model(assignment).
		On("CONFLICT (user_id, role_id) DO NOTHING").
		Exec(ctx)

	return err
}

func (a *roles) RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return a.RolesForUserTx(ctx, a.db, userID)
}

// RolesForUserTx returns the user's current role names
func (a *roles) RolesForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]string, error) {
	var names []string

	err := tx.NewSelect().
		Model((*UserRole)(nil)).
		Column("rol.name").
		Join("JOIN roles AS rol ON rol.id = ?TableAlias.role_id").
		Where("?TableAlias.user_id = ?", userID).
		Scan(ctx, &names)
	if err != nil {
		return nil, err
	}

	return names, nil
}
