package crop

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"agrimarket/internal/audit"
	"agrimarket/internal/media"
	"agrimarket/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCrop(ctx context.Context, payload any) (*model.Crop, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crop), args.Error(1)
}

func (m *MockGateway) UpdateCrop(ctx context.Context, id string, patch any) (*model.Crop, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crop), args.Error(1)
}

func (m *MockGateway) DeleteCrop(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, f media.File) (string, error) {
	args := m.Called(ctx, f)
	return args.String(0), args.Error(1)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, e audit.Entry) {
	m.Called(ctx, e)
}

var (
	farmer = model.User{ID: "f1", Name: "Ravi", Role: model.RoleSeller, Address: &model.Address{Village: "Rampur"}}
	admin  = model.User{ID: "a1", Role: model.RoleAdmin}
	input  = Input{Name: " Carrots ", Category: "Vegetables", Price: decimal.NewFromInt(80), Quantity: 10}
)

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want string
	}{
		{"name", Input{}, "Please enter a crop name."},
		{"category", Input{Name: "x"}, "Please select a category."},
		{"price", Input{Name: "x", Category: "y"}, "Please enter a valid price."},
		{"quantity", Input{Name: "x", Category: "y", Price: decimal.NewFromInt(1)}, "Please enter a valid quantity."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.in.Validate(), tt.want)
		})
	}
	assert.NoError(t, input.Validate())
}

func TestService_Add(t *testing.T) {
	t.Run("Upload then create", func(t *testing.T) {
		gw, up := new(MockGateway), new(MockUploader)
		svc := NewService(gw, up, nil, nil)

		up.On("Upload", mock.Anything, media.File{Name: "c.jpg", Data: []byte("img")}).Return("https://cdn/c.jpg", nil)
		gw.On("CreateCrop", mock.Anything, mock.MatchedBy(func(r createRequest) bool {
			return r.Name == "Carrots" && r.Category == "vegetables" && r.ImageURL == "https://cdn/c.jpg" &&
				r.Location == "Rampur" && r.FarmerID == "f1" && r.Quality == "standard"
		})).Return(&model.Crop{ID: "c1", Status: model.CropPending}, nil)

		c, err := svc.Add(context.Background(), farmer, input, &media.File{Name: "c.jpg", Data: []byte("img")})
		require.NoError(t, err)
		assert.Equal(t, "c1", c.ID)
		gw.AssertExpectations(t)
		up.AssertExpectations(t)
	})

	t.Run("Upload failure aborts before create", func(t *testing.T) {
		gw, up := new(MockGateway), new(MockUploader)
		svc := NewService(gw, up, nil, nil)

		up.On("Upload", mock.Anything, mock.Anything).Return("", fmt.Errorf("%w: %s", media.ErrUploadFailed, "Invalid image file"))

		_, err := svc.Add(context.Background(), farmer, input, &media.File{Name: "c.jpg", Data: []byte("img")})
		require.Error(t, err)
		assert.Equal(t, "Image upload failed: Invalid image file", err.Error())
		assert.ErrorIs(t, err, media.ErrUploadFailed)
		gw.AssertNotCalled(t, "CreateCrop", mock.Anything, mock.Anything)
	})

	t.Run("No image and no village", func(t *testing.T) {
		gw := new(MockGateway)
		svc := NewService(gw, new(MockUploader), nil, nil)
		plain := model.User{ID: "f2", Role: model.RoleSeller}

		gw.On("CreateCrop", mock.Anything, mock.MatchedBy(func(r createRequest) bool {
			return r.Location == "Farm Location" && r.ImageURL == ""
		})).Return(&model.Crop{ID: "c2"}, nil)

		_, err := svc.Add(context.Background(), plain, input, nil)
		require.NoError(t, err)
	})

	t.Run("Buyers cannot add", func(t *testing.T) {
		_, err := NewService(new(MockGateway), nil, nil, nil).Add(context.Background(), model.User{ID: "b", Role: model.RoleBuyer}, input, nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Invalid input never uploads", func(t *testing.T) {
		up := new(MockUploader)
		_, err := NewService(new(MockGateway), up, nil, nil).Add(context.Background(), farmer, Input{}, &media.File{Name: "x", Data: []byte("x")})
		var vErr *ValidationError
		assert.True(t, errors.As(err, &vErr))
		up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})
}

func TestService_UpdateDelete(t *testing.T) {
	own := model.Crop{ID: "c1", Farmer: model.Ref{ID: "f1"}, Status: model.CropAvailable}
	foreign := model.Crop{ID: "c9", Farmer: model.Ref{ID: "f9"}}

	gw := new(MockGateway)
	aud := new(MockAuditor)
	svc := NewService(gw, nil, nil, aud)

	gw.On("UpdateCrop", mock.Anything, "c1", mock.AnythingOfType("crop.updateRequest")).Return(&model.Crop{ID: "c1", Name: "Carrots"}, nil)
	c, err := svc.Update(context.Background(), farmer, own, input)
	require.NoError(t, err)
	assert.Equal(t, "Carrots", c.Name)

	_, err = svc.Update(context.Background(), farmer, foreign, input)
	assert.ErrorIs(t, err, ErrUnauthorized)

	gw.On("DeleteCrop", mock.Anything, "c1").Return(nil)
	require.NoError(t, svc.Delete(context.Background(), farmer, own))
	aud.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)

	gw.On("DeleteCrop", mock.Anything, "c9").Return(nil)
	aud.On("Record", mock.Anything, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action == audit.ActionCropDeleted && e.TargetID == "c9"
	})).Return()
	require.NoError(t, svc.Delete(context.Background(), admin, foreign))
	aud.AssertExpectations(t)

	assert.ErrorIs(t, svc.Delete(context.Background(), farmer, foreign), ErrUnauthorized)
}

func TestService_SetStatus(t *testing.T) {
	pending := model.Crop{ID: "c1", Farmer: model.Ref{ID: "f1"}, Status: model.CropPending}
	available := model.Crop{ID: "c2", Farmer: model.Ref{ID: "f1"}, Status: model.CropAvailable}

	t.Run("Farmer cannot approve own pending crop", func(t *testing.T) {
		gw := new(MockGateway)
		_, err := NewService(gw, nil, nil, nil).SetStatus(context.Background(), farmer, pending, model.CropAvailable)
		assert.ErrorIs(t, err, ErrAdminApprovalRequired)
		gw.AssertNotCalled(t, "UpdateCrop", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Farmer toggles sold out", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("UpdateCrop", mock.Anything, "c2", statusRequest{Status: model.CropSoldOut}).
			Return(&model.Crop{ID: "c2", Status: model.CropSoldOut}, nil)

		c, err := NewService(gw, nil, nil, nil).SetStatus(context.Background(), farmer, available, model.CropSoldOut)
		require.NoError(t, err)
		assert.Equal(t, model.CropSoldOut, c.Status)
	})

	t.Run("Farmer cannot reject", func(t *testing.T) {
		_, err := NewService(new(MockGateway), nil, nil, nil).SetStatus(context.Background(), farmer, available, model.CropRejected)
		assert.ErrorIs(t, err, ErrStatusNotAllowed)
	})

	t.Run("Admin approves and is audited", func(t *testing.T) {
		gw := new(MockGateway)
		aud := new(MockAuditor)
		gw.On("UpdateCrop", mock.Anything, "c1", statusRequest{Status: model.CropAvailable}).
			Return(&model.Crop{ID: "c1", Status: model.CropAvailable}, nil)
		aud.On("Record", mock.Anything, mock.MatchedBy(func(e audit.Entry) bool {
			return e.Action == audit.ActionCropApproved && e.Detail == "pending -> available"
		})).Return()

		c, err := NewService(gw, nil, nil, aud).Approve(context.Background(), admin, pending)
		require.NoError(t, err)
		assert.Equal(t, model.CropAvailable, c.Status)
		aud.AssertExpectations(t)
	})

	t.Run("No-op change refused", func(t *testing.T) {
		_, err := NewService(new(MockGateway), nil, nil, nil).SetStatus(context.Background(), admin, available, model.CropAvailable)
		assert.ErrorIs(t, err, ErrStatusNotAllowed)
	})

	t.Run("Backend error surfaces", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("UpdateCrop", mock.Anything, "c1", mock.Anything).Return(nil, errors.New("boom"))
		_, err := NewService(gw, nil, nil, nil).SetStatus(context.Background(), admin, pending, model.CropRejected)
		assert.EqualError(t, err, "boom")
	})
}
