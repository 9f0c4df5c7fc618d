package cmdflags

import (
	"github.com/andrebq/blogd/auth"
	"github.com/urfave/cli/v2"
)

func Database(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = "database.db"
	}
	return &cli.StringFlag{
		Name:        "database",
		Aliases:     []string{"d", "db"},
		Usage:       "Path to the sqlite database (created if missing)",
		EnvVars:     []string{"BLOGD_DATABASE"},
		Destination: out,
		Value:       *out,
	}
}

func SecretEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = auth.SecretEnvVar
	}
	return &cli.StringFlag{
		Name:        "secret-envvar-name",
		Usage:       "Name of the environment variable that holds the token signing secret. The secret itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}

func BcryptCost(out *int) cli.Flag {
	if *out == 0 {
		*out = auth.DefaultCost
	}
	return &cli.IntFlag{
		Name:        "bcrypt-cost",
		Usage:       "Work factor used when hashing new passwords",
		EnvVars:     []string{"BLOGD_BCRYPT_COST"},
		Value:       *out,
		Destination: out,
	}
}
