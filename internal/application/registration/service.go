package registration

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"authgate/internal/domain/user"
	"authgate/internal/infrastructure/mail"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Input is the transient registration request.
type Input struct {
	Username string
	Email    string
	Name     string
	Password string
}

// Service runs the ordered registration sequence: username check, email
// check, account creation, activation mail. Steps never reorder; the first
// failure aborts the rest.
type Service struct {
	users            user.Repository
	mailer           mail.Dispatcher
	baseURL          string
	defaultAvatarURL string
}

func NewService(users user.Repository, mailer mail.Dispatcher, baseURL, defaultAvatarURL string) *Service {
	return &Service{
		users:            users,
		mailer:           mailer,
		baseURL:          baseURL,
		defaultAvatarURL: defaultAvatarURL,
	}
}

// Register creates an account for in. On KindNotificationFailed the account
// already exists and is returned together with the error; everything else
// returns a nil user and performed no persistence write past the failed step.
//
// The uniqueness pre-checks race with concurrent registrations; the UNIQUE
// constraints on the users table are the actual guard, and a conflict slipping
// past the checks surfaces from Create as KindCreationFailed.
func (s *Service) Register(ctx context.Context, in Input) (*user.User, error) {
	if err := validate(in); err != nil {
		return nil, failure(KindInvalidInput, err)
	}

	// Step 1: username uniqueness.
	taken, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, failure(KindCheckFailed, fmt.Errorf("check username: %w", err))
	}
	if taken {
		return nil, failure(KindUsernameTaken, nil)
	}

	// Step 2: email uniqueness.
	taken, err = s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, failure(KindCheckFailed, fmt.Errorf("check email: %w", err))
	}
	if taken {
		return nil, failure(KindEmailTaken, nil)
	}

	// Step 3: account creation.
	token, err := generateActivationToken()
	if err != nil {
		return nil, failure(KindCreationFailed, err)
	}
	u, err := s.users.Create(ctx, user.CreateParams{
		Username:        in.Username,
		Email:           in.Email,
		Name:            in.Name,
		Password:        in.Password,
		AvatarURL:       s.defaultAvatarURL,
		ActivationToken: token,
	})
	if err != nil {
		return nil, failure(KindCreationFailed, err)
	}

	// Step 4: activation mail. The account stays created even when delivery
	// fails; the caller gets both the identity and the failure.
	msg := mail.Message{
		To:      u.Email,
		Subject: fmt.Sprintf("New account created at %s", s.baseURL),
		HTML: fmt.Sprintf(
			`<p>New account created for %s at %s.</p><p>Here is your activation token: %s</p><p><a href="%s/auth/activate?token=%s">Activate your account</a></p>`,
			u.Username, s.baseURL, token, s.baseURL, token),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return u, failure(KindNotificationFailed, err)
	}

	return u, nil
}

// Activate consumes an activation token from the confirmation mail.
func (s *Service) Activate(ctx context.Context, token string) error {
	if token == "" {
		return failure(KindInvalidInput, errors.New("missing token"))
	}
	return s.users.Activate(ctx, token)
}

func validate(in Input) error {
	if !emailPattern.MatchString(in.Email) {
		return user.ErrInvalidEmail
	}
	if len(in.Username) < 3 {
		return user.ErrInvalidUsername
	}
	if len(in.Password) < 6 {
		return user.ErrInvalidPassword
	}
	return nil
}

func generateActivationToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
