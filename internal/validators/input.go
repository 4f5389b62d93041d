package validators

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-list-feed/models"
)

// Field names accepted by InputValidator.Validate.
const (
	FieldLogin    = "login"
	FieldPassword = "password"
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldItems    = "items"
	FieldListID   = "list_id"
	FieldBody     = "body"
)

const (
	MaxLoginLength = 64
	// MaxPasswordLength is the bcrypt input limit.
	MaxPasswordLength  = 72
	MaxListTitleLength = 200
	MaxListItems       = 500
	MaxCommentLength   = 2000
)

// InputValidator validates the request payloads of the feed API:
// models.User credentials, models.NewList and models.NewComment.
// Text fields are checked after trimming surrounding spaces.
type InputValidator struct{}

func NewInputValidator() Validator {
	return &InputValidator{}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted. Without fields every field of the type is checked.
func (v *InputValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.User:
		return v.validateUser(value, fields...)
	case *models.User:
		return v.validateUser(*value, fields...)

	case models.NewList:
		return v.validateList(value, fields...)
	case *models.NewList:
		return v.validateList(*value, fields...)

	case models.NewComment:
		return v.validateComment(value, fields...)
	case *models.NewComment:
		return v.validateComment(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *InputValidator) validateUser(user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			login := strings.TrimSpace(user.Login)
			if login == "" || len(login) > MaxLoginLength {
				return ErrInvalidLogin
			}
		case FieldPassword:
			if user.Password == "" || len(user.Password) > MaxPasswordLength {
				return ErrInvalidPassword
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *InputValidator) validateList(list models.NewList, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldCategory, FieldItems}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			title := strings.TrimSpace(list.Title)
			if title == "" || len(title) > MaxListTitleLength {
				return ErrInvalidTitle
			}
		case FieldCategory:
			// "all" is a filter value, never a stored category
			if list.Category == models.CategoryAll || !slices.Contains(models.Categories, list.Category) {
				return ErrInvalidCategory
			}
		case FieldItems:
			if len(list.Items) > MaxListItems {
				return ErrTooManyItems
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *InputValidator) validateComment(comment models.NewComment, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldListID, FieldBody}
	}

	for _, f := range fields {
		switch f {
		case FieldListID:
			if comment.ListID == "" {
				return ErrEmptyListID
			}
		case FieldBody:
			body := strings.TrimSpace(comment.Body)
			if body == "" {
				return ErrEmptyBody
			}
			if utf8.RuneCountInString(body) > MaxCommentLength {
				return ErrBodyTooLong
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}
