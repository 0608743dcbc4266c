package command

import (
	"context"
	"strings"

	"github.com/0xsj/overwatch-blog/internal/app/service"
	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/port/inbound/command"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/credential"
)

// loginHandler implements command.LoginHandler.
type loginHandler struct {
	verifier credential.Verifier
	sessions service.SessionManager
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(verifier credential.Verifier, sessions service.SessionManager) command.LoginHandler {
	return &loginHandler{
		verifier: verifier,
		sessions: sessions,
	}
}

func (h *loginHandler) Handle(ctx context.Context, cmd command.Login) (command.LoginResult, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" || cmd.Password == "" {
		return command.LoginResult{}, domainerror.ErrCredentialsRequired
	}

	subjectID, claims, err := h.verifier.Verify(ctx, email, cmd.Password)
	if err != nil {
		return command.LoginResult{}, err
	}

	// Replaces any session the account already had.
	token, err := h.sessions.CreateSession(ctx, subjectID, claims)
	if err != nil {
		return command.LoginResult{}, err
	}

	return command.LoginResult{
		Token:     token,
		SubjectID: subjectID,
	}, nil
}

var _ command.Handler[command.Login, command.LoginResult] = (*loginHandler)(nil)
