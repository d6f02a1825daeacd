package registration

import "fmt"

// Kind names the registration step that failed.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindUsernameTaken      Kind = "username_taken"
	KindEmailTaken         Kind = "email_taken"
	KindCheckFailed        Kind = "check_failed"
	KindCreationFailed     Kind = "creation_failed"
	KindNotificationFailed Kind = "notification_failed"
)

// Error reports which step of the registration sequence failed. A conflict
// (KindUsernameTaken, KindEmailTaken) and a failed check (KindCheckFailed) are
// deliberately distinct: "could not verify" is never reported as "taken".
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registration %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("registration %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func failure(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
