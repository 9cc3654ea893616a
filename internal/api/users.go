package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/udx-labs/userdesk/internal/models"
	"github.com/udx-labs/userdesk/internal/users"
)

type CreateUserRequest struct {
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Role   models.Role   `json:"role"`
	Status models.Status `json:"status"`
	Notes  string        `json:"notes"`
}

// UpdateUserRequest is a partial update; absent fields stay as they are.
type UpdateUserRequest struct {
	Name   *string        `json:"name"`
	Email  *string        `json:"email"`
	Role   *models.Role   `json:"role"`
	Status *models.Status `json:"status"`
	Notes  *string        `json:"notes"`
}

// Bulk operations accepted by POST /users/bulk.
const (
	BulkDelete     = "delete"
	BulkActivate   = "activate"
	BulkDeactivate = "deactivate"
)

type BulkRequest struct {
	Operation string `json:"operation"`
	UserIDs   []int  `json:"userIds"`
}

// BulkResult reports how many of the requested ids actually existed and
// were affected. Missing ids are skipped, never an error.
type BulkResult struct {
	Operation string `json:"operation"`
	Requested int    `json:"requested"`
	Affected  int    `json:"affected"`
}

type UserListData struct {
	Users []models.User `json:"users"`
	Count int           `json:"count"`
}

func (c *Client) handleUsers(ctx context.Context, method, endpoint string, payload any) (*Response, error) {
	if err := c.requireAuth(ctx); err != nil {
		return nil, err
	}

	switch {
	case method == "GET" && endpoint == "/users":
		return c.listUsers(ctx)
	case method == "POST" && endpoint == "/users":
		return c.createUser(ctx, payload)
	case method == "POST" && endpoint == "/users/bulk":
		return c.bulkUsers(ctx, payload)
	case (method == "PUT" || method == "DELETE") && strings.HasPrefix(endpoint, "/users/"):
		id, err := strconv.Atoi(strings.TrimPrefix(endpoint, "/users/"))
		if err != nil {
			return nil, badRequest("invalid user id")
		}
		if method == "PUT" {
			return c.updateUser(ctx, id, payload)
		}
		return c.deleteUser(ctx, id)
	}

	return nil, notFound("endpoint not found: " + endpoint)
}

func (c *Client) listUsers(ctx context.Context) (*Response, error) {
	all := c.users.GetUsers(ctx)
	out := make([]models.User, len(all))
	for i, u := range all {
		out[i] = sanitize(u)
	}
	return &Response{Success: true, Data: UserListData{Users: out, Count: len(out)}}, nil
}

// createUser enforces email uniqueness; the repository itself does not.
func (c *Client) createUser(ctx context.Context, payload any) (*Response, error) {
	req, apiErr := decodePayload[CreateUserRequest](payload)
	if apiErr != nil {
		return nil, apiErr
	}

	if c.users.GetByEmail(ctx, req.Email) != nil {
		return nil, conflict("email already registered")
	}

	user := c.users.CreateUser(ctx, users.NewUser{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
		Notes:  req.Notes,
	})

	return &Response{Success: true, Message: "User created successfully", Data: sanitize(user)}, nil
}

func (c *Client) updateUser(ctx context.Context, id int, payload any) (*Response, error) {
	req, apiErr := decodePayload[UpdateUserRequest](payload)
	if apiErr != nil {
		return nil, apiErr
	}

	updated := c.users.UpdateUser(ctx, id, users.Patch{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if updated == nil {
		return nil, notFound(fmt.Sprintf("user %d not found", id))
	}

	return &Response{Success: true, Message: "User updated successfully", Data: sanitize(*updated)}, nil
}

func (c *Client) deleteUser(ctx context.Context, id int) (*Response, error) {
	if !c.users.DeleteUser(ctx, id) {
		return nil, notFound(fmt.Sprintf("user %d not found", id))
	}
	return &Response{Success: true, Message: "User deleted successfully"}, nil
}

// bulkUsers applies one operation per id, counting only the ids that
// existed. Unknown operation tags fail before anything is touched.
func (c *Client) bulkUsers(ctx context.Context, payload any) (*Response, error) {
	req, apiErr := decodePayload[BulkRequest](payload)
	if apiErr != nil {
		return nil, apiErr
	}

	result := BulkResult{Operation: req.Operation, Requested: len(req.UserIDs)}

	switch req.Operation {
	case BulkDelete:
		result.Affected = c.users.DeleteUsers(ctx, req.UserIDs)
	case BulkActivate, BulkDeactivate:
		status := models.StatusActive
		if req.Operation == BulkDeactivate {
			status = models.StatusInactive
		}
		for _, id := range req.UserIDs {
			if c.users.UpdateUser(ctx, id, users.Patch{Status: &status}) != nil {
				result.Affected++
			}
		}
	default:
		return nil, badRequest("unknown bulk operation: " + req.Operation)
	}

	msg := fmt.Sprintf("Bulk %s completed: %d of %d", req.Operation, result.Affected, result.Requested)
	return &Response{Success: true, Message: msg, Data: result}, nil
}
