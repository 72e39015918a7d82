package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_Unmarshal(t *testing.T) {
	t.Run("BareID", func(t *testing.T) {
		var c Crop
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"c1","name":"Rice","price":20,"farmer":"f1"}`), &c))
		assert.Equal(t, "f1", c.Farmer.ID)
		assert.Empty(t, c.Farmer.Name)
		assert.Equal(t, "20", c.Price.String())
	})

	t.Run("Populated", func(t *testing.T) {
		var c Crop
		raw := `{"_id":"c1","name":"Rice","price":"20.50","farmer":{"_id":"f1","name":"Ravi","phone":"9876543210"},"farmerName":"Old"}`
		require.NoError(t, json.Unmarshal([]byte(raw), &c))
		assert.Equal(t, "f1", c.Farmer.ID)
		assert.Equal(t, "Ravi", c.FarmerDisplayName())
		assert.Equal(t, "20.5", c.Price.String())
	})

	t.Run("Null", func(t *testing.T) {
		var c Crop
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"c1","farmer":null,"farmerName":"Snap"}`), &c))
		assert.True(t, c.Farmer.IsZero())
		assert.Equal(t, "Snap", c.FarmerDisplayName())
	})
}

func TestRef_Marshal(t *testing.T) {
	b, err := json.Marshal(Ref{ID: "f1"})
	require.NoError(t, err)
	assert.JSONEq(t, `"f1"`, string(b))

	b, err = json.Marshal(Ref{ID: "f1", Name: "Ravi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"f1","name":"Ravi"}`, string(b))
}

func TestUser_Unmarshal(t *testing.T) {
	t.Run("LoginShape", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","name":"Asha","role":"farmer"}`), &u))
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, RoleSeller, u.Role)
		assert.True(t, u.IsFarmer())
	})

	t.Run("ListShape", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"u2","name":"Admin","role":"admin"}`), &u))
		assert.Equal(t, "u2", u.ID)
		assert.True(t, u.IsAdmin())
	})
}

func TestUser_Derived(t *testing.T) {
	u := User{
		Role:    RoleSeller,
		Address: &Address{Village: "Rampur", District: "Nashik", State: "MH", Pincode: "422001"},
		FarmerDetails: &FarmerDetails{
			AadharCardURL: "https://cdn/a.jpg",
		},
	}
	assert.False(t, u.DocumentsComplete())
	u.FarmerDetails.LandDocumentsURL = "https://cdn/l.pdf"
	assert.True(t, u.DocumentsComplete())
	assert.Equal(t, "Rampur", u.Village())
	assert.Equal(t, "Rampur, Nashik, MH - 422001", u.FullAddress())
	assert.Equal(t, ", ,  - ", User{}.FullAddress())
}

func TestOrder_ShortID(t *testing.T) {
	o := Order{ID: "65f0c2a9e1b2c3d4e5f60718"}
	assert.Equal(t, "e5f60718", o.ShortID())
	assert.Equal(t, "abc", ShortID("abc"))
}

func TestOrderStatus(t *testing.T) {
	assert.True(t, OrderPending.Open())
	assert.True(t, OrderShipped.Open())
	assert.False(t, OrderDelivered.Open())
	assert.True(t, OrderCancelled.Terminal())
	assert.False(t, OrderConfirmed.Terminal())
}
