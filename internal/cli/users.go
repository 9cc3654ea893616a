package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/udx-labs/userdesk/internal/api"
	"github.com/udx-labs/userdesk/internal/models"
	"github.com/udx-labs/userdesk/internal/users"
)

func (a *App) List(ctx context.Context) error {
	resp, err := a.api.Request(ctx, "GET", "/users", nil)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer a.touch(ctx)

	data, ok := resp.Data.(api.UserListData)
	if !ok {
		return fmt.Errorf("unexpected response shape %T", resp.Data)
	}

	if data.Count == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	for _, u := range data.Users {
		a.printUser(u)
	}
	fmt.Fprintf(a.out, "%d user(s)\n", data.Count)
	return nil
}

func (a *App) Create(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	role, err := GetSimpleText(a.reader, "Enter role (admin/user/moderator/guest, empty for user)", a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.Request(ctx, "POST", "/users",
		api.CreateUserRequest{Name: name, Email: email, Role: models.Role(role)})
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer a.touch(ctx)

	fmt.Fprintln(a.out, resp.Message)
	if u, ok := resp.Data.(models.User); ok {
		a.printUser(u)
	}
	return nil
}

func (a *App) Update(ctx context.Context) error {
	id, err := a.promptID()
	if err != nil {
		return err
	}

	var req api.UpdateUserRequest
	if v, err := GetSimpleText(a.reader, "New name (empty to keep)", a.out); err != nil {
		return err
	} else if v != "" {
		req.Name = &v
	}
	if v, err := GetSimpleText(a.reader, "New status (empty to keep)", a.out); err != nil {
		return err
	} else if v != "" {
		st := models.Status(v)
		req.Status = &st
	}
	if v, err := GetSimpleText(a.reader, "New notes (empty to keep)", a.out); err != nil {
		return err
	} else if v != "" {
		req.Notes = &v
	}

	resp, err := a.api.Request(ctx, "PUT", fmt.Sprintf("/users/%d", id), req)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer a.touch(ctx)

	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := a.promptID()
	if err != nil {
		return err
	}

	resp, err := a.api.Request(ctx, "DELETE", fmt.Sprintf("/users/%d", id), nil)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer a.touch(ctx)

	fmt.Fprintln(a.out, resp.Message)
	return nil
}

// Search queries the local collection directly; search has no simulated
// endpoint of its own.
func (a *App) Search(ctx context.Context) error {
	query, err := GetSimpleText(a.reader, "Search query", a.out)
	if err != nil {
		return err
	}
	role, err := GetSimpleText(a.reader, "Filter role (empty for any)", a.out)
	if err != nil {
		return err
	}
	status, err := GetSimpleText(a.reader, "Filter status (empty for any)", a.out)
	if err != nil {
		return err
	}

	matched := a.users.Search(ctx, query, users.Filters{
		Role:   models.Role(role),
		Status: models.Status(status),
	})
	defer a.touch(ctx)

	for _, u := range matched {
		a.printUser(u)
	}
	fmt.Fprintf(a.out, "%d match(es)\n", len(matched))
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	resp, err := a.api.Request(ctx, "GET", "/metrics/users", nil)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer a.touch(ctx)

	s, ok := resp.Data.(models.Stats)
	if !ok {
		return fmt.Errorf("unexpected response shape %T", resp.Data)
	}

	fmt.Fprintf(a.out, "total=%d active=%d inactive=%d admins=%d regular=%d recent=%d\n",
		s.Total, s.Active, s.Inactive, s.Admins, s.RegularUsers, s.RecentRegistrations)
	return nil
}

func (a *App) promptID() (int, error) {
	text, err := GetSimpleText(a.reader, "Enter user id", a.out)
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(text)
	if err != nil {
		fmt.Fprintln(a.out, "Not a number:", text)
		return 0, err
	}
	return id, nil
}

func (a *App) printUser(u models.User) {
	last := "never"
	if u.LastLogin != nil {
		last = u.LastLogin.Format("2006-01-02 15:04")
	}
	fmt.Fprintf(a.out, "#%d %s <%s> %s/%s registered=%s lastLogin=%s\n",
		u.ID, u.Name, u.Email, u.Role, u.Status, u.RegisteredDate.String(), last)
}
