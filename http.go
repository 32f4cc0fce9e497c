package userapi

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// APIController wires the auth and user endpoints into a fiber app
type APIController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Auther Authenticator
	Config Config
}

type APIControllerOption func(*APIController) *APIController

func NewAPIController(opts ...APIControllerOption) *APIController {
	c := &APIController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in api controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in api controller...")
	}

	if c.Config == nil {
		panic("Missing Config in api controller...")
	}

	return c
}

func (a *APIController) WithLogger(l Logger) *APIController {
	if l != nil {
		a.Logger = l
	}
	return a
}

// RegisterRoutes mounts the HTTP surface:
//
//	POST /auth/register
//	POST /auth/login
//	POST /auth/assign-role   (Admin)
//	GET  /users/me           (any authenticated principal)
//	GET  /users/admin-only   (Admin)
func RegisterRoutes(app *fiber.App, controller *APIController) {
	authGroup := app.Group("/auth")
	authGroup.Post("/register", controller.Register)
	authGroup.Post("/login", controller.Login)
	authGroup.Post("/assign-role",
		controller.RequireAuth(),
		controller.RequireRoles(RoleAdmin),
		controller.AssignRole,
	)

	usersGroup := app.Group("/users", controller.RequireAuth())
	usersGroup.Get("/me", controller.Me)
	usersGroup.Get("/admin-only",
		controller.RequireRoles(RoleAdmin),
		controller.AdminOnly,
	)
}

// RegisterRequest payload
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, is.Email),
	)
}

func (a *APIController) Register(ctx *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload", "error", err)
		return a.renderError(ctx, goerrors.New(err.Error(), goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest))
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	res, err := registerUser.Execute(ctx.UserContext(), RegisterUserMessage{
		Username: payload.Username,
		Password: payload.Password,
		Email:    payload.Email,
		Role:     payload.Role,
	})
	if err != nil {
		a.Logger.Error("register user error", "error", err)
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

// LoginRequest payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *APIController) Login(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		// Keep the login failure generic so the response never reveals
		// whether the username exists.
		return a.renderError(ctx, ErrInvalidCredentials)
	}

	token, err := a.Auther.Login(ctx.UserContext(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Error("login error", "error", err, "username", payload.Username)
		return a.renderError(ctx, ErrInvalidCredentials)
	}

	return ctx.JSON(fiber.Map{"token": token})
}

func (a *APIController) AssignRole(ctx *fiber.Ctx) error {
	username := ctx.Query("username")
	role := ctx.Query("role")

	assignRole := NewAssignRoleHandler(a.Repo)
	res, err := assignRole.Execute(ctx.UserContext(), AssignRoleMessage{
		Username: username,
		Role:     role,
	})
	if err != nil {
		a.Logger.Error("assign role error", "error", err, "username", username, "role", role)
		return a.renderError(ctx, err)
	}

	return ctx.JSON(res)
}

func (a *APIController) Me(ctx *fiber.Ctx) error {
	principal := GetPrincipal(ctx, a.Config.GetContextKey())
	if principal == nil {
		return a.renderError(ctx, ErrUnauthenticated)
	}

	return ctx.JSON(fiber.Map{"user": principal.Username})
}

func (a *APIController) AdminOnly(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"message": "Access restricted to Admin."})
}

// RequireAuth extracts the bearer token, validates it, and stores the
// request principal in locals. All verification failures collapse to 401;
// the specific cause is only logged.
func (a *APIController) RequireAuth() fiber.Handler {
	contextKey := a.Config.GetContextKey()
	authScheme := a.Config.GetAuthScheme()

	return func(ctx *fiber.Ctx) error {
		raw, err := tokenFromHeader(ctx.Get(fiber.HeaderAuthorization), authScheme)
		if err != nil {
			return a.renderError(ctx, ErrUnauthenticated)
		}

		principal, err := a.Auther.PrincipalFromToken(raw)
		if err != nil {
			a.Logger.Warn("token rejected", "error", err)
			return a.renderError(ctx, ErrUnauthenticated)
		}

		ctx.Locals(contextKey, principal)

		return ctx.Next()
	}
}

// RequireRoles enforces the role guard for the wrapped handlers. Must run
// after RequireAuth.
func (a *APIController) RequireRoles(roles ...string) fiber.Handler {
	contextKey := a.Config.GetContextKey()

	return func(ctx *fiber.Ctx) error {
		principal := GetPrincipal(ctx, contextKey)

		if decision := Authorize(principal, roles...); !decision.Allowed {
			a.Logger.Warn("authorization denied",
				"reason", decision.Reason,
				"required", roles,
			)
			return a.renderError(ctx, decision.Err())
		}

		return ctx.Next()
	}
}

// GetPrincipal recovers the request principal stored by RequireAuth
func GetPrincipal(ctx *fiber.Ctx, contextKey string) *Principal {
	principal, _ := ctx.Locals(contextKey).(*Principal)
	return principal
}

func (a *APIController) renderError(ctx *fiber.Ctx, err error) error {
	status := statusForError(err)
	message := fiber.ErrInternalServerError.Message

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && status < fiber.StatusInternalServerError {
		message = richErr.Message
	}

	return ctx.Status(status).JSON(fiber.Map{"error": message})
}

func statusForError(err error) int {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return fiber.StatusInternalServerError
	}

	switch richErr.Category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return fiber.StatusBadRequest
	case goerrors.CategoryAuth:
		if richErr.TextCode == TextCodeInsufficientRole {
			return fiber.StatusForbidden
		}
		return fiber.StatusUnauthorized
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	}

	return fiber.StatusInternalServerError
}

func tokenFromHeader(header, authScheme string) (string, error) {
	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:]), nil
	}
	return "", ErrTokenMalformed
}
