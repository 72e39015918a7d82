package gateway

import (
	"context"

	"agrimarket/internal/model"
)

const usersPath = "/api/users"

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token,omitempty"`
	User    *model.User `json:"user,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.FetchCollection(ctx, usersPath, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Signup(ctx context.Context, payload any) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.Create(ctx, usersPath+"/signup", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.Create(ctx, usersPath+"/login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateUser sends a partial payload; the backend answers {"user": {...}}.
func (c *Client) UpdateUser(ctx context.Context, id string, patch any) (*model.User, error) {
	res := envelope[model.User]{key: "user"}
	if err := c.Update(ctx, usersPath+"/"+escape(id), patch, &res); err != nil {
		return nil, err
	}
	return &res.record, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.Delete(ctx, usersPath+"/"+escape(id))
}
