package store

import "fmt"

type (
	UserNotFound struct {
		Username string
	}

	UsernameTaken struct {
		Username string
	}
)

func (u UserNotFound) Error() string {
	return fmt.Sprintf("user %v not found", u.Username)
}

func (u UsernameTaken) Error() string {
	return fmt.Sprintf("username %v already exists", u.Username)
}
