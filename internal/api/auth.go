package api

import (
	"context"
	"strings"

	"github.com/udx-labs/userdesk/internal/cryptox"
	"github.com/udx-labs/userdesk/internal/models"
	"github.com/udx-labs/userdesk/internal/users"
)

// The demo credential pair succeeds regardless of stored data, even against
// an empty collection.
const (
	DemoEmail    = "admin@demo.com"
	DemoPassword = "demo123"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     models.Role   `json:"role"`
	Status   models.Status `json:"status"`
	Notes    string        `json:"notes"`
}

// LoginData is the payload of successful login/register responses.
type LoginData struct {
	User    models.User    `json:"user"`
	Session models.Session `json:"session"`
}

func (c *Client) handleAuth(ctx context.Context, method, endpoint string, payload any) (*Response, error) {
	switch {
	case method == "POST" && strings.HasSuffix(endpoint, "/auth/login"):
		return c.login(ctx, payload)
	case method == "POST" && strings.HasSuffix(endpoint, "/auth/logout"):
		c.sessions.Logout(ctx)
		return &Response{Success: true, Message: "Logged out successfully"}, nil
	case method == "POST" && strings.HasSuffix(endpoint, "/auth/register"):
		return c.register(ctx, payload)
	}
	return nil, notFound("endpoint not found: " + endpoint)
}

// login authenticates by email. Users registered through the API carry a
// password hash and get a real credential check; seeded demo users carry
// none and are accepted by email and active status alone.
func (c *Client) login(ctx context.Context, payload any) (*Response, error) {
	req, apiErr := decodePayload[LoginRequest](payload)
	if apiErr != nil {
		return nil, apiErr
	}

	if strings.EqualFold(req.Email, DemoEmail) && req.Password == DemoPassword {
		return c.startSession(ctx, c.demoUser(ctx))
	}

	u := c.users.GetByEmail(ctx, req.Email)
	if u == nil || u.Status != models.StatusActive {
		return nil, unauthorized("invalid credentials")
	}

	if u.PasswordHash != "" {
		ok, err := cryptox.VerifyPassword(req.Password, u.PasswordHash)
		if err != nil || !ok {
			return nil, unauthorized("invalid credentials")
		}
	}

	return c.startSession(ctx, *u)
}

func (c *Client) register(ctx context.Context, payload any) (*Response, error) {
	req, apiErr := decodePayload[RegisterRequest](payload)
	if apiErr != nil {
		return nil, apiErr
	}

	if c.users.GetByEmail(ctx, req.Email) != nil {
		return nil, conflict("email already registered")
	}

	var hash string
	if req.Password != "" {
		var err error
		hash, err = cryptox.HashPassword(req.Password, nil)
		if err != nil {
			c.log.Error(ctx, "password hashing failed", "error", err)
			return nil, internal("registration failed")
		}
	}

	user := c.users.CreateUser(ctx, users.NewUser{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		Status:       req.Status,
		Notes:        req.Notes,
		PasswordHash: hash,
	})

	resp, err := c.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	resp.Message = "Registration successful"
	return resp, nil
}

func (c *Client) startSession(ctx context.Context, user models.User) (*Response, error) {
	sess, err := c.sessions.SetCurrentUser(ctx, user)
	if err != nil {
		c.log.Error(ctx, "session creation failed", "error", err)
		return nil, internal("login failed")
	}

	sess.User = sanitize(sess.User)
	return &Response{
		Success: true,
		Message: "Login successful",
		Data:    LoginData{User: sanitize(user), Session: sess},
	}, nil
}

// demoUser resolves the hard-coded demo account: the stored record when one
// exists, a synthetic admin snapshot otherwise.
func (c *Client) demoUser(ctx context.Context) models.User {
	if u := c.users.GetByEmail(ctx, DemoEmail); u != nil {
		return *u
	}
	return models.User{
		ID:     0,
		Name:   "Demo Admin",
		Email:  DemoEmail,
		Role:   models.RoleAdmin,
		Status: models.StatusActive,
	}
}

// sanitize strips the password hash before a record leaves the API layer.
func sanitize(u models.User) models.User {
	u.PasswordHash = ""
	return u
}
