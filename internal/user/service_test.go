package user

import (
	"context"
	"errors"
	"testing"

	"agrimarket/internal/audit"
	"agrimarket/internal/gateway"
	"agrimarket/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

func (m *MockGateway) Signup(ctx context.Context, payload any) (*gateway.AuthResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.AuthResponse), args.Error(1)
}

func (m *MockGateway) Login(ctx context.Context, creds gateway.Credentials) (*gateway.AuthResponse, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.AuthResponse), args.Error(1)
}

func (m *MockGateway) UpdateUser(ctx context.Context, id string, patch any) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockGateway) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, e audit.Entry) {
	m.Called(ctx, e)
}

var (
	admin  = model.User{ID: "a1", Role: model.RoleAdmin}
	farmer = model.User{ID: "f1", Role: model.RoleSeller, Email: "ravi@farm.in"}
)

func TestHomePath(t *testing.T) {
	assert.Equal(t, "/farmer", HomePath(model.RoleSeller))
	assert.Equal(t, "/farmer", HomePath("farmer"))
	assert.Equal(t, "/admin", HomePath(model.RoleAdmin))
	assert.Equal(t, "/buyer", HomePath(model.RoleBuyer))
}

func TestService_Login(t *testing.T) {
	t.Run("Routes by role", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Login", mock.Anything, gateway.Credentials{Email: "r@x.in", Password: "secret1"}).
			Return(&gateway.AuthResponse{User: &model.User{ID: "f1", Role: model.RoleSeller}}, nil)

		u, path, err := NewService(gw, nil, nil).Login(context.Background(), " r@x.in ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "f1", u.ID)
		assert.Equal(t, "/farmer", path)
	})

	t.Run("Missing credentials", func(t *testing.T) {
		gw := new(MockGateway)
		_, _, err := NewService(gw, nil, nil).Login(context.Background(), "", "")
		var vErr *ValidationError
		assert.True(t, errors.As(err, &vErr))
		gw.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("Backend rejects", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("Invalid credentials"))
		_, _, err := NewService(gw, nil, nil).Login(context.Background(), "a@b.c", "x")
		assert.EqualError(t, err, "Invalid credentials")
	})

	t.Run("Empty user", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Login", mock.Anything, mock.Anything).Return(&gateway.AuthResponse{}, nil)
		_, _, err := NewService(gw, nil, nil).Login(context.Background(), "a@b.c", "x")
		assert.ErrorIs(t, err, ErrNoUserInResponse)
	})
}

func TestSignupInput_Validate(t *testing.T) {
	valid := SignupInput{Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Password: "secret1", AcceptTerms: true}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*SignupInput)
		want   string
	}{
		{"name", func(in *SignupInput) { in.Name = " " }, "Please fill out the Full Name field."},
		{"email", func(in *SignupInput) { in.Email = "not-an-email" }, "Please enter a valid email address."},
		{"phone", func(in *SignupInput) { in.Phone = "12345" }, "Please enter a valid 10-digit phone number."},
		{"password", func(in *SignupInput) { in.Password = "abc" }, "Password must be at least 6 characters long."},
		{"terms", func(in *SignupInput) { in.AcceptTerms = false }, "You must agree to the Terms and Conditions to sign up."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			assert.EqualError(t, in.Validate(), tt.want)
		})
	}
}

func TestService_Signup(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Signup", mock.Anything, mock.MatchedBy(func(r signupRequest) bool {
		return r.Role == model.RoleBuyer && r.Email == "asha@example.com"
	})).Return(&gateway.AuthResponse{Message: "User created successfully!"}, nil)

	msg, err := NewService(gw, nil, nil).Signup(context.Background(), SignupInput{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Password: "secret1", AcceptTerms: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "User created successfully!", msg)
}

func TestService_UpdateProfile(t *testing.T) {
	current := model.User{ID: "b1", Name: "Asha", Role: model.RoleBuyer}

	t.Run("Bad phone never reaches backend", func(t *testing.T) {
		gw := new(MockGateway)
		_, err := NewService(gw, nil, nil).UpdateProfile(context.Background(), current, ProfileInput{Phone: "98765"})
		assert.EqualError(t, err, "Please enter a valid 10-digit phone number.")
		gw.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Returns backend user", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("UpdateUser", mock.Anything, "b1", mock.AnythingOfType("user.profileRequest")).
			Return(&model.User{Name: "Asha K", Phone: "9876543210", Role: model.RoleBuyer}, nil)

		u, err := NewService(gw, nil, nil).UpdateProfile(context.Background(), current, ProfileInput{Name: "Asha K", Phone: "9876543210"})
		require.NoError(t, err)
		assert.Equal(t, "b1", u.ID)
		assert.Equal(t, "Asha K", u.Name)
	})

	t.Run("Anonymous", func(t *testing.T) {
		_, err := NewService(new(MockGateway), nil, nil).UpdateProfile(context.Background(), model.User{}, ProfileInput{Phone: "9876543210"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_Verify(t *testing.T) {
	gw := new(MockGateway)
	aud := new(MockAuditor)
	svc := NewService(gw, nil, aud)

	gw.On("UpdateUser", mock.Anything, "f1", verifyRequest{IsVerified: true}).
		Return(&model.User{ID: "f1", Role: model.RoleSeller, IsVerified: true}, nil)
	aud.On("Record", mock.Anything, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action == audit.ActionFarmerVerified && e.TargetID == "f1"
	})).Return()

	u, err := svc.Verify(context.Background(), admin, farmer)
	require.NoError(t, err)
	assert.True(t, u.IsVerified)
	aud.AssertExpectations(t)

	_, err = svc.Verify(context.Background(), farmer, farmer)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Verify(context.Background(), admin, model.User{ID: "b1", Role: model.RoleBuyer})
	assert.ErrorIs(t, err, ErrNotAFarmer)
}

func TestService_Delete(t *testing.T) {
	gw := new(MockGateway)
	svc := NewService(gw, nil, nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), admin, model.User{ID: "a2", Role: model.RoleAdmin}), ErrCannotDeleteAdmin)
	assert.ErrorIs(t, svc.Delete(context.Background(), farmer, model.User{ID: "b1"}), ErrUnauthorized)
	gw.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)

	gw.On("DeleteUser", mock.Anything, "b1").Return(nil)
	require.NoError(t, svc.Delete(context.Background(), admin, model.User{ID: "b1", Role: model.RoleBuyer}))
	gw.AssertExpectations(t)
}

func TestService_VerifiedFarmers(t *testing.T) {
	gw := new(MockGateway)
	gw.On("ListUsers", mock.Anything).Return([]model.User{
		{ID: "f1", Role: model.RoleSeller, IsVerified: true},
		{ID: "f2", Role: model.RoleSeller},
		{ID: "b1", Role: model.RoleBuyer, IsVerified: true},
	}, nil)

	out, err := NewService(gw, nil, nil).VerifiedFarmers(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "f1", out[0].ID)
}

func TestHelpers(t *testing.T) {
	users := []model.User{{ID: "f1", Role: model.RoleSeller}, {ID: "b1", Role: model.RoleBuyer}}
	assert.Len(t, FilterFarmers(users), 1)

	u, ok := Find(users, "b1")
	assert.True(t, ok)
	assert.Equal(t, model.RoleBuyer, u.Role)

	_, ok = Find(users, "zz")
	assert.False(t, ok)
}
