package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/client/client"
	"github.com/dmitrijs2005/sconn-admin/internal/client/session"
	"github.com/dmitrijs2005/sconn-admin/internal/common"
)

// getSimpleText, getPassword and getConfirmation are swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

func (a *App) Login(ctx context.Context) error {
	if a.session.IsAuthenticated() {
		printlnFn("Already logged in, use 'logout' first")
		return nil
	}

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rememberMe, err := getConfirmation(a.reader, "Remember me for 30 days?", a.out)
	if err != nil {
		return err
	}

	err = a.session.Login(ctx, session.Credentials{
		Username:   username,
		Password:   string(password),
		RememberMe: rememberMe,
	})
	if err != nil {
		printlnFn("Login failed:", describe(err))
		return err
	}

	printlnFn("Logged in as", a.session.User().Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout incomplete", "error", err)
	}
	printlnFn("Logged out")
	return nil
}

// Me asks the server who the current token belongs to.
func (a *App) Me(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		printlnFn("Not logged in")
		return session.ErrNotAuthenticated
	}

	u, err := a.profile.Me(ctx)
	if err != nil {
		if !errors.Is(err, client.ErrSessionExpired) {
			printlnFn("Request failed:", describe(err))
		}
		return err
	}

	printUser(u)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}
	printUser(u)
	printlnFn("Access token expires:", a.session.ExpiresAt().Local().Format(time.RFC1123))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		printlnFn("Not logged in")
		return session.ErrNotAuthenticated
	}
	if _, err := a.session.RefreshAccessToken(ctx); err != nil {
		return err
	}
	printlnFn("Access token refreshed, expires:", a.session.ExpiresAt().Local().Format(time.RFC1123))
	return nil
}

func (a *App) Can(ctx context.Context, permission string) error {
	printlnFn(permission+":", yesNo(a.session.HasPermission(permission)))
	return nil
}

func (a *App) Role(ctx context.Context, role string) error {
	printlnFn(role+":", yesNo(a.session.HasRole(role)))
	return nil
}

func printUser(u *client.User) {
	if u.Email != "" {
		printlnFn("User:       ", u.Username, "<"+u.Email+">")
	} else {
		printlnFn("User:       ", u.Username)
	}
	printlnFn("ID:         ", u.ID)
	printlnFn("Roles:      ", strings.Join(u.Roles, ", "))
	printlnFn("Permissions:", strings.Join(u.Permissions, ", "))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// describe renders an error for the user, preferring the server message.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	}
	return err.Error()
}
