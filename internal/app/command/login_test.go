package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/0xsj/overwatch-blog/internal/adapter/outbound/memory"
	"github.com/0xsj/overwatch-blog/internal/app/command"
	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	portcommand "github.com/0xsj/overwatch-blog/internal/port/inbound/command"
	"github.com/0xsj/overwatch-blog/internal/testutil"
	"github.com/0xsj/overwatch-blog/internal/testutil/mocks"
)

func TestLoginHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a token that validates until logout", func(t *testing.T) {
		verifier := mocks.NewCredentialVerifier()
		subjectID := verifier.AddAccount("writer@example.com", "secret")
		svc := testutil.NewServices(nil)
		handler := command.NewLoginHandler(verifier, svc.Sessions)

		result, err := handler.Handle(ctx, portcommand.Login{
			Email:    "writer@example.com",
			Password: "secret",
		})
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if result.SubjectID != subjectID {
			t.Errorf("SubjectID = %q, want %q", result.SubjectID, subjectID)
		}

		session, err := svc.Sessions.ValidateSession(ctx, result.Token)
		if err != nil {
			t.Fatalf("ValidateSession() error = %v", err)
		}
		if email, _ := session.Claim("email"); email != "writer@example.com" {
			t.Errorf("email claim = %v, want writer@example.com", email)
		}

		if err := svc.Sessions.InvalidateSession(ctx, subjectID); err != nil {
			t.Fatalf("InvalidateSession() error = %v", err)
		}
		if _, err := svc.Sessions.ValidateSession(ctx, result.Token); err != domainerror.ErrUnauthenticated {
			t.Errorf("ValidateSession() after logout error = %v, want %v", err, domainerror.ErrUnauthenticated)
		}
	})

	t.Run("repeat login keeps the account signed in", func(t *testing.T) {
		verifier := mocks.NewCredentialVerifier()
		verifier.AddAccount("writer@example.com", "secret")
		svc := testutil.NewServices(nil)
		handler := command.NewLoginHandler(verifier, svc.Sessions)

		login := portcommand.Login{Email: "writer@example.com", Password: "secret"}
		if _, err := handler.Handle(ctx, login); err != nil {
			t.Fatalf("first Handle() error = %v", err)
		}
		second, err := handler.Handle(ctx, login)
		if err != nil {
			t.Fatalf("second Handle() error = %v", err)
		}
		if _, err := svc.Sessions.ValidateSession(ctx, second.Token); err != nil {
			t.Errorf("ValidateSession(second) error = %v", err)
		}
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		verifier := mocks.NewCredentialVerifier()
		verifier.AddAccount("writer@example.com", "secret")
		svc := testutil.NewServices(nil)
		handler := command.NewLoginHandler(verifier, svc.Sessions)

		_, err := handler.Handle(ctx, portcommand.Login{Email: "writer@example.com", Password: "guess"})
		if err != domainerror.ErrInvalidCredentials {
			t.Errorf("Handle() error = %v, want %v", err, domainerror.ErrInvalidCredentials)
		}
	})

	t.Run("rejects blank credentials without calling the verifier", func(t *testing.T) {
		verifier := mocks.NewCredentialVerifier()
		svc := testutil.NewServices(nil)
		handler := command.NewLoginHandler(verifier, svc.Sessions)

		_, err := handler.Handle(ctx, portcommand.Login{Email: "  ", Password: "secret"})
		if err != domainerror.ErrCredentialsRequired {
			t.Errorf("Handle() error = %v, want %v", err, domainerror.ErrCredentialsRequired)
		}
		if verifier.Calls.Verify != 0 {
			t.Errorf("Calls.Verify = %d, want 0", verifier.Calls.Verify)
		}
	})

	t.Run("store outage fails the login", func(t *testing.T) {
		verifier := mocks.NewCredentialVerifier()
		verifier.AddAccount("writer@example.com", "secret")
		store := memory.NewStore()
		svc := testutil.NewServices(store)
		store.Close()
		handler := command.NewLoginHandler(verifier, svc.Sessions)

		_, err := handler.Handle(ctx, portcommand.Login{Email: "writer@example.com", Password: "secret"})
		if !errors.Is(err, domainerror.ErrStoreUnavailable) {
			t.Errorf("Handle() error = %v, want %v", err, domainerror.ErrStoreUnavailable)
		}
	})
}
