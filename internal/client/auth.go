package client

import (
	"context"
	"net/http"

	"autoparts-store/internal/domain"
)

// AuthResult is returned by login and register
type AuthResult struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
}

type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type AuthAPI struct {
	c *Client
}

func (a *AuthAPI) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	return a.send(ctx, authRequest{Action: "login", Username: username, Password: password})
}

func (a *AuthAPI) Register(ctx context.Context, username, password, email string) (*AuthResult, error) {
	return a.send(ctx, authRequest{Action: "register", Username: username, Password: password, Email: email})
}

func (a *AuthAPI) send(ctx context.Context, req authRequest) (*AuthResult, error) {
	var result AuthResult
	if err := a.c.do(ctx, http.MethodPost, a.c.endpoints.Auth, req, false, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
