package order

import (
	"context"
	"errors"
	"testing"

	"agrimarket/internal/audit"
	"agrimarket/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, payload any) (*model.Order, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockGateway) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	return m.Called(ctx, routingKey, data).Error(0)
}

func (m *MockPublisher) Close() error { return nil }

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, e audit.Entry) {
	m.Called(ctx, e)
}

var (
	buyer  = model.User{ID: "b1", Name: "Asha", Role: model.RoleBuyer}
	farmer = model.User{ID: "f1", Name: "Ravi", Role: model.RoleSeller}
	admin  = model.User{ID: "a1", Name: "Admin", Role: model.RoleAdmin}
	rice   = model.Crop{ID: "c2", Name: "Organic Rice", Price: decimal.NewFromInt(20), Quantity: 5}
)

func TestTotal(t *testing.T) {
	assert.True(t, Total(decimal.NewFromInt(20), 5).Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "62.5", Total(decimal.RequireFromString("12.5"), 5).String())
}

func TestValidatePlacement(t *testing.T) {
	tests := []struct {
		name string
		p    Placement
		want string
	}{
		{"zero quantity", Placement{Crop: rice, Quantity: 0, DeliveryAddress: "x"}, "Please enter a valid quantity."},
		{"over stock", Placement{Crop: rice, Quantity: 6, DeliveryAddress: "x"}, "Only 5 kg available."},
		{"blank address", Placement{Crop: rice, Quantity: 5, DeliveryAddress: "   "}, "Please enter a delivery address."},
		{"quantity checked first", Placement{Crop: rice, Quantity: -1}, "Please enter a valid quantity."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlacement(tt.p)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.want, vErr.Message)
		})
	}

	assert.NoError(t, ValidatePlacement(Placement{Crop: rice, Quantity: 5, DeliveryAddress: "Rampur"}))
}

func TestService_Place(t *testing.T) {
	t.Run("Success computes total", func(t *testing.T) {
		gw := new(MockGateway)
		pub := new(MockPublisher)
		svc := NewService(gw, pub, nil)

		gw.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req createRequest) bool {
			return req.TotalAmount.Equal(decimal.NewFromInt(100)) &&
				req.Quantity == 5 && req.BuyerID == "b1" && req.CropID == "c2" &&
				req.DeliveryAddress == "Rampur"
		})).Return(&model.Order{ID: "o1", TotalAmount: decimal.NewFromInt(100)}, nil)
		pub.On("Publish", mock.Anything, "order.placed", mock.Anything).Return(nil)

		o, err := svc.Place(context.Background(), buyer, Placement{Crop: rice, Quantity: 5, DeliveryAddress: " Rampur "})
		require.NoError(t, err)
		assert.Equal(t, "o1", o.ID)
		gw.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("Over stock never reaches backend", func(t *testing.T) {
		gw := new(MockGateway)
		svc := NewService(gw, nil, nil)

		_, err := svc.Place(context.Background(), buyer, Placement{Crop: rice, Quantity: 6, DeliveryAddress: "Rampur"})
		require.Error(t, err)
		assert.Equal(t, "Only 5 kg available.", err.Error())
		gw.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Anonymous buyer", func(t *testing.T) {
		_, err := NewService(new(MockGateway), nil, nil).Place(context.Background(), model.User{}, Placement{Crop: rice, Quantity: 1, DeliveryAddress: "x"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Backend failure", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, errors.New("Insufficient stock"))

		_, err := NewService(gw, nil, nil).Place(context.Background(), buyer, Placement{Crop: rice, Quantity: 2, DeliveryAddress: "x"})
		assert.EqualError(t, err, "Insufficient stock")
	})
}

func TestService_UpdateStatus(t *testing.T) {
	pending := model.Order{ID: "o1", Status: model.OrderPending, Farmer: model.Ref{ID: "f1"}}

	t.Run("Farmer confirms own order", func(t *testing.T) {
		gw := new(MockGateway)
		aud := new(MockAuditor)
		svc := NewService(gw, nil, aud)

		gw.On("UpdateOrderStatus", mock.Anything, "o1", model.OrderConfirmed).
			Return(&model.Order{ID: "o1", Status: model.OrderConfirmed}, nil)
		aud.On("Record", mock.Anything, mock.MatchedBy(func(e audit.Entry) bool {
			return e.Action == audit.ActionOrderStatusChanged && e.Detail == "pending -> confirmed"
		})).Return()

		o, err := svc.UpdateStatus(context.Background(), farmer, pending, model.OrderConfirmed)
		require.NoError(t, err)
		assert.Equal(t, model.OrderConfirmed, o.Status)
		gw.AssertExpectations(t)
		aud.AssertExpectations(t)
	})

	t.Run("Other farmer refused", func(t *testing.T) {
		gw := new(MockGateway)
		other := model.User{ID: "f2", Role: model.RoleSeller}
		_, err := NewService(gw, nil, nil).UpdateStatus(context.Background(), other, pending, model.OrderConfirmed)
		assert.ErrorIs(t, err, ErrUnauthorized)
		gw.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Buyer refused", func(t *testing.T) {
		_, err := NewService(new(MockGateway), nil, nil).UpdateStatus(context.Background(), buyer, pending, model.OrderCancelled)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Skipping a step is refused", func(t *testing.T) {
		gw := new(MockGateway)
		_, err := NewService(gw, nil, nil).UpdateStatus(context.Background(), admin, pending, model.OrderDelivered)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		gw.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Terminal order is immutable", func(t *testing.T) {
		done := model.Order{ID: "o2", Status: model.OrderDelivered}
		_, err := NewService(new(MockGateway), nil, nil).UpdateStatus(context.Background(), admin, done, model.OrderCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestActions(t *testing.T) {
	labels := func(s model.OrderStatus) []string {
		var out []string
		for _, a := range Actions(s) {
			out = append(out, a.Label)
		}
		return out
	}

	assert.Equal(t, []string{"Confirm Order", "Cancel Order"}, labels(model.OrderPending))
	assert.Equal(t, []string{"Mark as Shipped", "Cancel Order"}, labels(model.OrderConfirmed))
	assert.Equal(t, []string{"Mark as Delivered"}, labels(model.OrderShipped))
	assert.Empty(t, Actions(model.OrderDelivered))
	assert.Empty(t, Actions(model.OrderCancelled))

	assert.True(t, CanTransition(model.OrderConfirmed, model.OrderCancelled))
	assert.False(t, CanTransition(model.OrderShipped, model.OrderCancelled))
}
