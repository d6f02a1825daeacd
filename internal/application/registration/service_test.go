package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/domain/user"
	"authgate/internal/infrastructure/mail"
)

// --- fakes ---

type fakeUserRepo struct {
	usernames map[string]bool
	emails    map[string]bool

	usernameErr error
	emailErr    error
	createErr   error
	activateErr error

	created     []user.CreateParams
	activated   []string
	emailChecks int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usernames: map[string]bool{},
		emails:    map[string]bool{},
	}
}

func (f *fakeUserRepo) VerifyCredentials(ctx context.Context, email, password string) (*user.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	if f.usernameErr != nil {
		return false, f.usernameErr
	}
	return f.usernames[username], nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	f.emailChecks++
	if f.emailErr != nil {
		return false, f.emailErr
	}
	return f.emails[email], nil
}

func (f *fakeUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, params)
	return &user.User{
		ID:        "u-new",
		Username:  params.Username,
		Email:     params.Email,
		Name:      params.Name,
		AvatarURL: params.AvatarURL,
	}, nil
}

func (f *fakeUserRepo) Activate(ctx context.Context, token string) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	f.activated = append(f.activated, token)
	return nil
}

type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func validInput() Input {
	return Input{
		Username: "bob",
		Email:    "bob@x.com",
		Name:     "Bob",
		Password: "secret1",
	}
}

const (
	testBaseURL   = "http://localhost:8005"
	testAvatarURL = "https://localhost/images/blank.jpg"
)

func newTestService(repo *fakeUserRepo, mailer *fakeMailer) *Service {
	return NewService(repo, mailer, testBaseURL, testAvatarURL)
}

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	var regErr *Error
	require.ErrorAs(t, err, &regErr)
	return regErr.Kind
}

// --- tests ---

func TestRegisterSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "bob", u.Username)
	assert.Equal(t, testAvatarURL, u.AvatarURL)

	require.Len(t, repo.created, 1)
	assert.NotEmpty(t, repo.created[0].ActivationToken)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "bob@x.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].HTML, repo.created[0].ActivationToken)
}

func TestRegisterUsernameTakenStopsSequence(t *testing.T) {
	repo := newFakeUserRepo()
	repo.usernames["bob"] = true
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	u, err := svc.Register(context.Background(), validInput())
	assert.Nil(t, u)
	assert.Equal(t, KindUsernameTaken, kindOf(t, err))

	// Nothing past step 1 ran.
	assert.Zero(t, repo.emailChecks)
	assert.Empty(t, repo.created)
	assert.Empty(t, mailer.sent)
}

func TestRegisterEmailTaken(t *testing.T) {
	repo := newFakeUserRepo()
	repo.emails["bob@x.com"] = true
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	u, err := svc.Register(context.Background(), validInput())
	assert.Nil(t, u)
	assert.Equal(t, KindEmailTaken, kindOf(t, err))
	assert.Empty(t, repo.created)
	assert.Empty(t, mailer.sent)
}

func TestRegisterCheckFailedIsNotAConflict(t *testing.T) {
	repo := newFakeUserRepo()
	repo.usernameErr = errors.New("connection refused")
	svc := newTestService(repo, &fakeMailer{})

	u, err := svc.Register(context.Background(), validInput())
	assert.Nil(t, u)
	assert.Equal(t, KindCheckFailed, kindOf(t, err))
	assert.Empty(t, repo.created)
}

func TestRegisterCreationFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = user.ErrDuplicate // the constraint caught a race
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	u, err := svc.Register(context.Background(), validInput())
	assert.Nil(t, u)
	assert.Equal(t, KindCreationFailed, kindOf(t, err))
	assert.ErrorIs(t, err, user.ErrDuplicate)
	assert.Empty(t, mailer.sent)
}

func TestRegisterMailFailureKeepsAccount(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{sendErr: errors.New("smtp unavailable")}
	svc := newTestService(repo, mailer)

	u, err := svc.Register(context.Background(), validInput())
	require.NotNil(t, u)
	assert.Equal(t, "bob", u.Username)
	assert.Equal(t, KindNotificationFailed, kindOf(t, err))

	// The row stayed; only delivery failed.
	assert.Len(t, repo.created, 1)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeMailer{})

	cases := []struct {
		name string
		in   Input
	}{
		{"bad email", Input{Username: "bob", Email: "not-an-email", Name: "Bob", Password: "secret1"}},
		{"short username", Input{Username: "ab", Email: "bob@x.com", Name: "Bob", Password: "secret1"}},
		{"short password", Input{Username: "bob", Email: "bob@x.com", Name: "Bob", Password: "pw"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := svc.Register(context.Background(), tc.in)
			assert.Nil(t, u)
			assert.Equal(t, KindInvalidInput, kindOf(t, err))
		})
	}
}

func TestActivate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeMailer{})

	require.NoError(t, svc.Activate(context.Background(), "tok-1"))
	assert.Equal(t, []string{"tok-1"}, repo.activated)

	err := svc.Activate(context.Background(), "")
	assert.Equal(t, KindInvalidInput, kindOf(t, err))
}
