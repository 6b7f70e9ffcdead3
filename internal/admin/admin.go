// Package admin implements authctl, the operator CLI that creates accounts
// and switches their activation flag directly against the user store.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/dmitrijs2005/authkeeper/internal/server/validation"
)

// ErrUsage is returned for an unknown command or missing arguments.
var ErrUsage = errors.New("usage")

const usage = `Usage: authctl [flags] <command> [args]

Commands:
  create-user [email]   create an active account, prompting for missing data
  deactivate <email>    block logins for the account
  activate <email>      allow logins again
  help                  show this text

Flags are the server's: -d MongoDB URI, -b bcrypt rounds, -e environment, -c config file.
`

// UserAdmin is the part of services.UserService the CLI needs.
type UserAdmin interface {
	Register(ctx context.Context, email, password, name string) (*services.AuthResult, error)
	SetActive(ctx context.Context, email string, active bool) (*models.PublicUser, error)
}

type App struct {
	users  UserAdmin
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(users UserAdmin, in io.Reader, out io.Writer) *App {
	return &App{users: users, reader: bufio.NewReader(in), out: out}
}

// Run executes one command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	case "create-user":
		return a.createUser(ctx, rest)
	case "deactivate":
		return a.setActive(ctx, rest, false)
	case "activate":
		return a.setActive(ctx, rest, true)
	default:
		fmt.Fprintf(a.out, "Unknown command: %s\n\n%s", cmd, usage)
		return ErrUsage
	}
}

func (a *App) createUser(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	in := validation.Registration{Email: email}
	in.Normalize()
	if err := validation.Join(validation.CheckFields(&in, "Email")); err != nil {
		return err
	}

	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	in.Name = name
	in.Normalize()
	if err := validation.Join(validation.CheckFields(&in, "Name")); err != nil {
		return err
	}

	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	in.Password = string(password)
	if err := validation.Join(validation.Check(&in)); err != nil {
		return err
	}

	res, err := a.users.Register(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return fmt.Errorf("user %s already exists", in.Email)
		}
		return err
	}

	fmt.Fprintf(a.out, "Created user %s (%s)\n", res.User.Email, res.User.ID)
	return nil
}

func (a *App) readNewPassword() ([]byte, error) {
	pw, err := GetPassword("Password: ", a.out)
	if err != nil {
		return nil, err
	}
	if err := validation.Join(validation.CheckFields(&validation.Registration{Password: string(pw)}, "Password")); err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}

	confirm, err := GetPassword("Repeat password: ", a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}

func (a *App) setActive(ctx context.Context, args []string, active bool) error {
	if len(args) != 1 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}
	email := validation.NormalizeEmail(args[0])

	u, err := a.users.SetActive(ctx, email, active)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("no user with email %s", email)
		}
		return err
	}

	state := "deactivated"
	if u.IsActive {
		state = "activated"
	}
	fmt.Fprintf(a.out, "User %s %s\n", u.Email, state)
	return nil
}
