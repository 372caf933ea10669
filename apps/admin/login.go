package main

import (
	"context"
	"fmt"

	"github.com/nsscell/portal/core/user"
)

// login opens a role-scoped portal session on top of the session store.
// Legacy faculty sessions are migrated to the unit key on the way in.
func (cli *commandLine) login(uname, pwd, role string) error {
	auth, err := user.NewAuthenticator(cli.usrSvc, cli.sessions)
	if err != nil {
		return err
	}

	ok, err := auth.Login(context.Background(), role, uname, pwd)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no active %s account matches these credentials", role)
	}

	s, _, err := auth.Current()
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", s.User.Email, s.Role)
	return nil
}

func (cli *commandLine) logout() error {
	auth, err := user.NewAuthenticator(cli.usrSvc, cli.sessions)
	if err != nil {
		return err
	}
	if err := auth.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}
