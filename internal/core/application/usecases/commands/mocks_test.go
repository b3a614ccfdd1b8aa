package commands_test

import (
	"context"
	"testing"
	"time"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone kernel.Phone) (*user.User, error) {
	args := m.Called(ctx, phone)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func userOrNil(v any) *user.User {
	if v == nil {
		return nil
	}
	return v.(*user.User)
}

// MockUoW implements every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUserUoWFactory struct{ mock.Mock }

func (m *MockUserUoWFactory) Create() commands.UserUoW {
	args := m.Called()
	return args.Get(0).(commands.UserUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockImageStorage struct{ mock.Mock }

func (m *MockImageStorage) Store(ctx context.Context, kind ports.ImageKind, upload ports.Upload) (string, error) {
	args := m.Called(ctx, kind, upload)
	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockImageStorage) List(ctx context.Context) ([]ports.StoredImage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ports.StoredImage), args.Error(1)
}

type MockHasher struct{ mock.Mock }

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) Issue(subject kernel.UUID, role user.Role) (ports.Token, error) {
	args := m.Called(subject, role)
	return args.Get(0).(ports.Token), args.Error(1)
}

func (m *MockTokenIssuer) Verify(token string) (ports.Claims, error) {
	args := m.Called(token)
	return args.Get(0).(ports.Claims), args.Error(1)
}

type MockDenylist struct{ mock.Mock }

func (m *MockDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	args := m.Called(ctx, tokenID, until)
	return args.Error(0)
}

func (m *MockDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// fixtures

var lifecycle = services.NewOrderLifecycle(time.Now)

func newActor(t *testing.T, role user.Role) services.Actor {
	t.Helper()
	a, err := services.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newPhone(t *testing.T, raw string) kernel.Phone {
	t.Helper()
	p, err := kernel.NewPhone(raw)
	require.NoError(t, err)
	return p
}

func newContact(t *testing.T, role, phone string) order.Contact {
	t.Helper()
	c, err := order.NewContact(role, "Name "+role, newPhone(t, phone))
	require.NoError(t, err)
	return c
}

func newMoney(t *testing.T, raw string) kernel.Money {
	t.Helper()
	m, err := kernel.ParseMoney(raw)
	require.NoError(t, err)
	return m
}

func newAccount(t *testing.T, role user.Role, phone string) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), "Account", newPhone(t, phone), "", "stored-hash", "Cairo", time.Now())
	require.NoError(t, err)
	require.NoError(t, u.ChangeRole(role, time.Now()))
	return u
}

func newOrder(t *testing.T, creatorID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), creatorID,
		newContact(t, "sender", "01000000001"), newContact(t, "receiver", "01000000002"),
		"12 Nile St", "box", 1, "", order.NoCollection(), time.Now())
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

// expectTx registers Begin and a deferred Rollback on uow.
func expectTx(ctx context.Context, uow *MockUoW, commitErr error) {
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(commitErr).Maybe()
	uow.On("Rollback", ctx).Return(nil).Maybe()
}
