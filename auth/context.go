package auth

import "context"

type (
	key byte
)

var (
	usernameKey = key(1)
)

func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// UsernameFrom returns the username attached by the authorization gate.
func UsernameFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(usernameKey).(string)
	return v, ok && len(v) > 0
}
