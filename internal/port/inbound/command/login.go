package command

import (
	"context"
)

// Login verifies a credential and opens a session for its account.
type Login struct {
	Email    string
	Password string
}

func (c Login) CommandName() string {
	return "blog.login"
}

// LoginResult carries the bearer token of the new session.
type LoginResult struct {
	Token     string
	SubjectID string
}

// LoginHandler handles the Login command.
type LoginHandler interface {
	Handle(ctx context.Context, cmd Login) (LoginResult, error)
}
