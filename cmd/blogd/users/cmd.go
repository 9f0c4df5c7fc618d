package users

import (
	"bufio"
	"errors"
	"strings"

	"github.com/andrebq/blogd/auth"
	"github.com/andrebq/blogd/internal/cmdflags"
	"github.com/andrebq/blogd/internal/logutil"
	"github.com/andrebq/blogd/store"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var st *store.Store
	var dbFile string
	var cost int
	return &cli.Command{
		Name:  "users",
		Usage: "Manage blog users directly on the database",
		Flags: []cli.Flag{
			cmdflags.Database(&dbFile),
			cmdflags.BcryptCost(&cost),
		},
		Before: func(ctx *cli.Context) error {
			var err error
			st, err = store.Open(ctx.Context, dbFile)
			return err
		},
		After: func(ctx *cli.Context) error {
			if st == nil {
				return nil
			}
			return st.Close()
		},
		Subcommands: []*cli.Command{
			registerCmd(&st, &cost),
		},
	}
}

func registerCmd(st **store.Store, cost *int) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Usage:       "Name of the user to register",
				Destination: &username,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(ctx.App.Reader)
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return err
				}
				return errors.New("missing password from stdin")
			}
			password := auth.PlainText(strings.TrimSpace(sc.Text()))
			defer password.Zero()
			id, err := auth.Register(ctx.Context, *st, auth.Hasher{Cost: *cost}, auth.PlainText(username), password)
			if err != nil {
				return err
			}
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().Str("username", username).Int64("user.id", id).Msg("User registered")
			return nil
		},
	}
}
