package auth

import (
	"errors"
	"fmt"
	"os"
)

const (
	SecretEnvVar = "BLOGD_JWT_SECRET"
)

var (
	errEmptySecret = errors.New("auth: signing secret cannot be empty")
)

// SecretFromEnv reads the signing secret from varname and clears the
// variable afterwards, so child processes never see it.
func SecretFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) ([]byte, error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	if err := setfn(varname, ""); err != nil {
		return nil, fmt.Errorf("auth: unable to clear %v, cause %w", varname, err)
	}
	if len(val) == 0 {
		return nil, fmt.Errorf("auth: environment variable %v, cause %w", varname, errEmptySecret)
	}
	return []byte(val), nil
}
