package dashboard

import (
	"context"
	"time"

	"agrimarket/internal/crop"
	"agrimarket/internal/media"
	"agrimarket/internal/model"
	"agrimarket/internal/notify"
	"agrimarket/internal/order"
	"agrimarket/internal/session"
	"agrimarket/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockGateway) ListCrops(ctx context.Context) ([]model.Crop, error) {
	return m.crops(m.Called(ctx))
}

func (m *MockGateway) PendingCrops(ctx context.Context) ([]model.Crop, error) {
	return m.crops(m.Called(ctx))
}

func (m *MockGateway) CropsByFarmer(ctx context.Context, farmerID string) ([]model.Crop, error) {
	return m.crops(m.Called(ctx, farmerID))
}

func (m *MockGateway) ListOrders(ctx context.Context) ([]model.Order, error) {
	return m.orders(m.Called(ctx))
}

func (m *MockGateway) OrdersByFarmer(ctx context.Context, farmerID string) ([]model.Order, error) {
	return m.orders(m.Called(ctx, farmerID))
}

func (m *MockGateway) OrdersByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	return m.orders(m.Called(ctx, buyerID))
}

func (m *MockGateway) crops(args mock.Arguments) ([]model.Crop, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Crop), args.Error(1)
}

func (m *MockGateway) orders(args mock.Arguments) ([]model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) Place(ctx context.Context, buyer model.User, p order.Placement) (*model.Order, error) {
	args := m.Called(ctx, buyer, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrders) UpdateStatus(ctx context.Context, actor model.User, o model.Order, to model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, actor, o, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

type MockCrops struct {
	mock.Mock
}

func (m *MockCrops) Add(ctx context.Context, farmer model.User, in crop.Input, image *media.File) (*model.Crop, error) {
	return m.crop(m.Called(ctx, farmer, in, image))
}

func (m *MockCrops) Update(ctx context.Context, actor model.User, c model.Crop, in crop.Input) (*model.Crop, error) {
	return m.crop(m.Called(ctx, actor, c, in))
}

func (m *MockCrops) Delete(ctx context.Context, actor model.User, c model.Crop) error {
	return m.Called(ctx, actor, c).Error(0)
}

func (m *MockCrops) SetStatus(ctx context.Context, actor model.User, c model.Crop, to model.CropStatus) (*model.Crop, error) {
	return m.crop(m.Called(ctx, actor, c, to))
}

func (m *MockCrops) Approve(ctx context.Context, admin model.User, c model.Crop) (*model.Crop, error) {
	return m.crop(m.Called(ctx, admin, c))
}

func (m *MockCrops) crop(args mock.Arguments) (*model.Crop, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crop), args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Login(ctx context.Context, email, password string) (model.User, string, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *MockUsers) Signup(ctx context.Context, in user.SignupInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockUsers) UpdateProfile(ctx context.Context, current model.User, in user.ProfileInput) (model.User, error) {
	args := m.Called(ctx, current, in)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUsers) Verify(ctx context.Context, admin, farmer model.User) (*model.User, error) {
	args := m.Called(ctx, admin, farmer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsers) Delete(ctx context.Context, admin, target model.User) error {
	return m.Called(ctx, admin, target).Error(0)
}

func (m *MockUsers) VerifiedFarmers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

type fixture struct {
	gw       *MockGateway
	orders   *MockOrders
	crops    *MockCrops
	users    *MockUsers
	sessions session.Store
	notices  *notify.Center
	deps     Deps
}

func newFixture() *fixture {
	f := &fixture{
		gw:       new(MockGateway),
		orders:   new(MockOrders),
		crops:    new(MockCrops),
		users:    new(MockUsers),
		sessions: session.NewMemoryStore(),
		notices:  notify.NewCenter(time.Minute),
	}
	f.deps = Deps{
		Gateway:  f.gw,
		Orders:   f.orders,
		Crops:    f.crops,
		Users:    f.users,
		Sessions: f.sessions,
		Notices:  f.notices,
	}
	return f
}

// notice returns the visible message for sid, or "".
func (f *fixture) notice(sid string) (notify.Kind, string) {
	n, ok := f.notices.Current(sid)
	if !ok {
		return "", ""
	}
	return n.Kind, n.Message
}
