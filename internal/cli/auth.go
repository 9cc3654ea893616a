package cli

import (
	"context"
	"fmt"

	"github.com/udx-labs/userdesk/internal/api"
)

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	resp, err := a.api.Request(ctx, "POST", "/auth/login",
		api.LoginRequest{Email: email, Password: password})
	if err != nil {
		fmt.Fprintf(a.out, "Login failed: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.Request(ctx, "POST", "/auth/register",
		api.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		fmt.Fprintf(a.out, "Registration failed: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	resp, err := a.api.Request(ctx, "POST", "/auth/logout", nil)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	sess := a.sessions.Current(ctx)
	if sess == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> role=%s session=%s since=%s\n",
		sess.User.Name, sess.User.Email, sess.User.Role,
		sess.SessionID, sess.LoginTime.Format("2006-01-02 15:04:05"))
	return nil
}
