package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"

	"github.com/andrebq/blogd/cmd/blogd/serve"
	"github.com/andrebq/blogd/cmd/blogd/users"
	"github.com/andrebq/blogd/internal/logutil"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	envFile := ".env"
	logLevel := zerolog.InfoLevel.String()
	app := &cli.App{
		Name:  "blogd",
		Usage: "A tiny authenticated blogging backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "env-file",
				Usage:       "Optional dotenv file loaded before anything else (existing variables are kept)",
				Value:       envFile,
				Destination: &envFile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Minimum level of log messages",
				EnvVars:     []string{"BLOGD_LOG_LEVEL"},
				Value:       logLevel,
				Destination: &logLevel,
			},
		},
		Before: func(ctx *cli.Context) error {
			err := godotenv.Load(envFile)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			lvl, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := log.Logger.Level(lvl)
			ctx.Context = logutil.WithLogger(ctx.Context, logger)
			return nil
		},
		Commands: []*cli.Command{
			serve.Cmd(),
			users.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
