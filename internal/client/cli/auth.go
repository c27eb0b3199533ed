package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials, authenticates and installs the session.
// On success the first page of sections is prefetched so the user lands on
// a populated list.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.auth.Login(ctx, username, password)
	if err != nil {
		fmt.Println(err)
		return err
	}

	a.session.Login(ctx, res.Token, res.User, res.ExpiresIn)
	fmt.Printf("Signed in as %s.\n", res.User.Username)

	if err := a.sections.FetchList(ctx); err == nil {
		a.printList()
	}
	return nil
}

// Logout ends the session, invalidating the token server-side best-effort.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx, true)
	fmt.Println("Signed out.")
	return nil
}

// Whoami prints the signed-in profile.
func (a *App) Whoami(ctx context.Context) error {
	p, ok := a.session.Profile()
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s (id %d)\nrole: %s\nstatus: %s\ntoken expires in: %ds\n",
		p.Username, p.ID, a.session.Role(), a.session.Status(), a.session.ExpiresIn())
	return nil
}

// Refresh re-fetches the profile from the server and merges it in.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.session.FetchProfile(ctx); err != nil {
		fmt.Println(err)
		return err
	}
	fmt.Println("Profile refreshed.")
	return a.Whoami(ctx)
}

// Passwd runs the change-password form. Other sessions of the account are
// revoked server-side; this one keeps its token.
func (a *App) Passwd(ctx context.Context) error {
	oldPassword, err := getPassword("Current password", os.Stdout)
	if err != nil {
		return err
	}
	newPassword, err := getPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Repeat new password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.ChangePassword(ctx, oldPassword, newPassword, confirm); err != nil {
		fmt.Println(err)
		return err
	}
	fmt.Println("Password changed.")
	return nil
}
