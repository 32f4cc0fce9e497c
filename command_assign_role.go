package userapi

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type AssignRoleMessage struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (e AssignRoleMessage) Type() string { return "user.assign_role" }

type AssignRoleResponse struct {
	User string `json:"user"`
	Role string `json:"role"`
}

type AssignRoleHandler struct {
	repo RepositoryManager
}

func NewAssignRoleHandler(repo RepositoryManager) *AssignRoleHandler {
	return &AssignRoleHandler{repo: repo}
}

// Execute grants a role to an existing user, lazily creating the role on
// first reference. Granting an already held role succeeds without change.
func (h *AssignRoleHandler) Execute(ctx context.Context, event AssignRoleMessage) (*AssignRoleResponse, error) {
	if strings.TrimSpace(event.Username) == "" || strings.TrimSpace(event.Role) == "" {
		return nil, goerrors.New("username and role are required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var user *User

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = h.repo.Users().GetByUsernameTx(ctx, tx, event.Username)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user")
		}

		role, err := h.repo.Roles().EnsureRoleTx(ctx, tx, event.Role)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not resolve role")
		}

		if err := h.repo.Roles().AssignTx(ctx, tx, user.ID, role.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not assign role")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "role assignment transaction failed")
	}

	return &AssignRoleResponse{
		User: user.Username,
		Role: event.Role,
	}, nil
}
