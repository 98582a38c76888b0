package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pesio-ai/be-lit-backoffice/internal/service"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage login accounts",
}

var (
	newUserEmail    string
	newUserName     string
	newUserUsername string
	newUserPassword string
	newUserPersonID int64
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a login account",
	Long: `Create a login account. The password is read from standard input when
--password is not given. The username defaults to the email's local part.`,
	RunE: runUserCreate,
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&newUserEmail, "email", "", "email address (required)")
	f.StringVar(&newUserName, "name", "", "display name")
	f.StringVar(&newUserUsername, "username", "", "login name")
	f.StringVar(&newUserPassword, "password", "", "password, at least 8 characters")
	f.Int64Var(&newUserPersonID, "person-id", 0, "link the account to a person record")
	_ = userCreateCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.openStore(cmd.Context()); err != nil {
		return err
	}

	password := newUserPassword
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	in := service.UserInput{
		Email:    service.Val(newUserEmail),
		Password: service.Val(password),
	}
	if newUserName != "" {
		in.Name = service.Val(newUserName)
	}
	if newUserUsername != "" {
		in.Username = service.Val(newUserUsername)
	}
	if newUserPersonID > 0 {
		in.PersonID = service.Val(newUserPersonID)
	}

	svc := service.New(a.store, nil, a.log, a.authConfig())
	u, err := svc.Users.Create(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created user %q (id %d)\n", u.Username, u.ID)
	return nil
}
