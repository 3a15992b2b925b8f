package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sitelink.com/sitelink/screens"
)

var errMissingCredentials = errors.New("username and password are required")

func (a *App) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				in := bufio.NewScanner(cmd.InOrStdin())
				if username == "" {
					fmt.Fprint(a.Out, "Username: ")
					if in.Scan() {
						username = strings.TrimSpace(in.Text())
					}
				}
				if password == "" {
					fmt.Fprint(a.Out, "Password: ")
					if in.Scan() {
						password = strings.TrimSpace(in.Text())
					}
				}
			}
			if username == "" || password == "" {
				return screens.Local(errMissingCredentials)
			}

			resp, err := a.client.Auth.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := a.session.Login(resp.User, resp.Token); err != nil {
				return screens.Local(err)
			}
			a.printf("Logged in as %s (%s)\n", resp.User.DisplayName(), resp.User.Role)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password, read from stdin when omitted")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			a.quietLogout = true
			if err := a.session.Logout(); err != nil {
				return screens.Local(err)
			}
			a.printf("Logged out\n")
			return nil
		}),
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			w := a.table()
			fmt.Fprintf(w, "User\t%s\n", u.Username)
			fmt.Fprintf(w, "Name\t%s\n", strings.TrimSpace(u.FirstName+" "+u.LastName))
			fmt.Fprintf(w, "Role\t%s\n", u.Role)
			fmt.Fprintf(w, "Email\t%s\n", u.Email)
			return w.Flush()
		}),
	}
}
