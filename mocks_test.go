package userapi_test

import (
	"context"
	"database/sql"
	"sync"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"

	userapi "github.com/TeuzLins/UsersApi"
)

// MockIdentity implements userapi.Identity
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements userapi.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockIdentityProvider implements userapi.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, username, password string) (userapi.Identity, error) {
	args := m.Called(ctx, username, password)
	if identity, ok := args.Get(0).(userapi.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByUsername(ctx context.Context, username string) (userapi.Identity, error) {
	args := m.Called(ctx, username)
	if identity, ok := args.Get(0).(userapi.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRoleSetProvider implements userapi.RoleSetProvider
type MockRoleSetProvider struct {
	mock.Mock
}

func (m *MockRoleSetProvider) FindRoles(ctx context.Context, identity userapi.Identity) ([]string, error) {
	args := m.Called(ctx, identity)
	if roles, ok := args.Get(0).([]string); ok {
		return roles, args.Error(1)
	}
	return nil, args.Error(1)
}

// testConfig implements userapi.Config
type testConfig struct {
	signingKey string
	expiration int
	issuer     string
	audience   []string
}

func (c testConfig) GetSigningKey() string {
	return c.signingKey
}

func (c testConfig) GetTokenExpiration() int {
	return c.expiration
}

func (c testConfig) GetIssuer() string {
	return c.issuer
}

func (c testConfig) GetAudience() []string {
	return c.audience
}

func (c testConfig) GetContextKey() string {
	return "principal"
}

func (c testConfig) GetAuthScheme() string {
	return "Bearer"
}

// memStore is a map-backed stand-in for the database so command and HTTP
// tests can run without a live connection.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*userapi.User
	roles       map[string]*userapi.Role
	assignments map[uuid.UUID]map[uuid.UUID]string
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]*userapi.User{},
		roles:       map[string]*userapi.Role{},
		assignments: map[uuid.UUID]map[uuid.UUID]string{},
	}
}

// memUsers overrides the store methods the handlers use. Everything else
// panics through the nil embedded interface, which is what we want: an
// unexpected call should fail loudly.
type memUsers struct {
	userapi.Users
	store *memStore
}

func (m *memUsers) Register(ctx context.Context, user *userapi.User) (*userapi.User, error) {
	return m.RegisterTx(ctx, nil, user)
}

func (m *memUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *userapi.User) (*userapi.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.users[user.Username]; ok {
		return nil, userapi.ErrDuplicateUser
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	stored := *user
	m.store.users[user.Username] = &stored

	return user, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*userapi.User, error) {
	return m.GetByUsernameTx(ctx, nil, username)
}

func (m *memUsers) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*userapi.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	user, ok := m.store.users[username]
	if !ok {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"username": username})
	}

	record := *user
	return &record, nil
}

type memRoles struct {
	userapi.Roles
	store *memStore
}

func (m *memRoles) EnsureRole(ctx context.Context, name string) (*userapi.Role, error) {
	return m.EnsureRoleTx(ctx, nil, name)
}

func (m *memRoles) EnsureRoleTx(ctx context.Context, tx bun.IDB, name string) (*userapi.Role, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if role, ok := m.store.roles[name]; ok {
		record := *role
		return &record, nil
	}

	role := &userapi.Role{ID: uuid.New(), Name: name}
	m.store.roles[name] = role

	record := *role
	return &record, nil
}

func (m *memRoles) Assign(ctx context.Context, userID, roleID uuid.UUID) error {
	return m.AssignTx(ctx, nil, userID, roleID)
}

func (m *memRoles) AssignTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	held, ok := m.store.assignments[userID]
	if !ok {
		held = map[uuid.UUID]string{}
		m.store.assignments[userID] = held
	}

	for _, role := range m.store.roles {
		if role.ID == roleID {
			held[roleID] = role.Name
			return nil
		}
	}

	held[roleID] = ""
	return nil
}

func (m *memRoles) RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return m.RolesForUserTx(ctx, nil, userID)
}

func (m *memRoles) RolesForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]string, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var names []string
	for _, name := range m.store.assignments[userID] {
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

type memRepoManager struct {
	store *memStore
	users *memUsers
	roles *memRoles
}

func newMemRepoManager() *memRepoManager {
	store := newMemStore()
	return &memRepoManager{
		store: store,
		users: &memUsers{store: store},
		roles: &memRoles{store: store},
	}
}

func (m *memRepoManager) Validate() error {
	return nil
}

func (m *memRepoManager) MustValidate() {}

func (m *memRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *memRepoManager) Users() userapi.Users {
	return m.users
}

func (m *memRepoManager) Roles() userapi.Roles {
	return m.roles
}

var _ userapi.RepositoryManager = (*memRepoManager)(nil)
