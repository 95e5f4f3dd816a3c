package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"shopdash/internal/domain"
	"shopdash/internal/repos"
	"shopdash/internal/validate"
)

type userCreateOptions struct {
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
}

// NewUserCommand groups account management subcommands.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard accounts",
	}
	cmd.AddCommand(newUserCreateCommand(rootOpts))
	return cmd
}

func newUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &userCreateOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := createUser(rootOpts, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, %s)\n", u.ID, u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (required)")
	cmd.Flags().StringVar(&opts.Role, "role", string(domain.RoleAdmin), "admin|seller|customer|user")
	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func createUser(rootOpts *RootOptions, opts *userCreateOptions) (*domain.User, error) {
	email, ok := validate.Email(opts.Email)
	if !ok {
		return nil, fmt.Errorf("invalid email %q", opts.Email)
	}
	role := domain.Role(opts.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", opts.Role)
	}
	if !validate.Password(opts.Password) {
		return nil, errors.New("password must be 8-72 characters with upper, lower, digit and symbol")
	}

	db, err := repos.OpenDB(rootOpts.Config.DBDriver, rootOpts.Config.DBDSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	users := repos.NewUserRepo(db)
	if _, err := users.ByEmail(email); err == nil {
		return nil, fmt.Errorf("user %s already exists", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return users.Create(&domain.User{
		Email: email, FirstName: opts.FirstName, LastName: opts.LastName,
		Hash: string(hash), Role: role, IsVerified: true,
	})
}
