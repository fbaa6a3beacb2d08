// Package validation checks user-supplied registration and post input and
// reports problems as a list of client-facing messages.
package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Client-facing validation messages.
const (
	MsgEmailInvalid     = "Email is invalid."
	MsgPasswordTooShort = "Password is too short."
	MsgContentTooShort  = "Content is too short."
	MsgTitleTooShort    = "Title is too short."
)

// Length limits, counted in characters rather than bytes.
const (
	MinPasswordLength = 3
	MinPostTextLength = 5
)

// Message is one validation failure as presented to API clients.
type Message struct {
	Field   string `json:"-"`
	Message string `json:"message"`
}

// registrationInput field order determines message order.
type registrationInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=3"`
}

type postInput struct {
	Content string `validate:"required,min=5"`
	Title   string `validate:"required,min=5"`
}

var fieldMessages = map[string]string{
	"Email":    MsgEmailInvalid,
	"Password": MsgPasswordTooShort,
	"Content":  MsgContentTooShort,
	"Title":    MsgTitleTooShort,
}

var validate = validator.New()

// Registration validates the email address and password of a new account.
// Every failing field is reported; an empty result means the input is valid.
func Registration(email, password string) []Message {
	return check(registrationInput{Email: email, Password: password})
}

// Post validates the title and content of a post being created or updated.
// Content is reported before title.
func Post(title, content string) []Message {
	return check(postInput{Content: content, Title: title})
}

func check(input any) []Message {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Message{{Message: err.Error()}}
	}

	// A field fails at most one tag, so each field yields one message.
	msgs := make([]Message, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, Message{Field: fe.Field(), Message: fieldMessages[fe.Field()]})
	}
	return msgs
}
