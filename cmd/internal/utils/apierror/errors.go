package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "Malformed request body")
	FormJSONRequiredError = NewSimple(http.StatusBadRequest, "Multipart forms must carry a 'json_payload' field")
	InvalidMediaTypeError = NewSimple(http.StatusUnsupportedMediaType, "Unsupported media type")
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Internal server error")

	NotFoundError     = NewSimple(http.StatusNotFound, "Resource not found")
	UnauthorizedError = NewSimple(http.StatusUnauthorized, "Authentication required")
	AdminOnlyError    = NewSimple(http.StatusForbidden, "Administrator access required")
	GatewayOnlyError  = NewSimple(http.StatusForbidden, "Only the websocket gateway can call this route")
	NotOwnerError     = NewSimple(http.StatusForbidden, "Only the owner or an administrator can do this")

	MissingAvatarFileError = NewSimple(http.StatusBadRequest, "Missing 'avatar' file")
	MissingFileNameError   = NewSimple(http.StatusBadRequest, "File name cannot be empty")

	AlreadyRsvpdError       = NewSimple(http.StatusConflict, "You have already RSVP'd to this event")
	EventNotOpenError       = NewSimple(http.StatusConflict, "This event is not open for RSVPs")
	AlreadyReviewedError    = NewSimple(http.StatusConflict, "This submission was already reviewed")
	ProfileImmuneError      = NewSimple(http.StatusForbidden, "Administrator profiles cannot be deleted")
	SelfDeleteError         = NewSimple(http.StatusForbidden, "You cannot delete your own profile")
	TooManyCardsError       = NewSimple(http.StatusBadRequest, "At most 4 cards can be printed at once")
	ProfileNotVerifiedError = NewSimple(http.StatusForbidden, "Your profile has not been verified yet")

	/*
	 * Used for authentications
	 */
	UserAlreadyExistsError      = NewSimple(http.StatusConflict, "An account with this email already exists")
	UserAlreadyConfirmedError   = NewSimple(http.StatusBadRequest, "User is already confirmed")
	InvalidAuthTokenError       = NewSimple(http.StatusUnauthorized, "Invalid or expired session")
	IDPInvalidPasswordError     = NewSimple(http.StatusBadRequest, "Provided password does not meet requirements")
	IDPExistingEmailError       = NewSimple(http.StatusBadRequest, "Email already exists")
	IDPUserNotFoundError        = NewSimple(http.StatusNotFound, "User not found")
	IDPUserNotConfirmedError    = NewSimple(http.StatusBadRequest, "User is not confirmed yet")
	IDPCredentialsMismatchError = NewSimple(http.StatusBadRequest, "Credentials mismatch")
	IDPConfirmCodeMismatchError = NewSimple(http.StatusBadRequest, "Confirmation code mismatch")
	IDPConfirmCodeExpiredError  = NewSimple(http.StatusBadRequest, "Confirmation code has expired")
	IDPInvalidParameterError    = NewSimple(http.StatusBadRequest, "Invalid parameters provided, the user is likely already verified")
	IDPTooManyRequestsError     = NewSimple(http.StatusTooManyRequests, "Too many attempts, try again later")
)

func FromValidationError(err error) ErrorResponse {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return MalformedBodyError
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "hasspecial":
			problems[field] = append(problems[field], "Value must have at least one special character")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "url", "http_url":
			problems[field] = append(problems[field], "Value must be a valid URL")
		case "gradyear":
			problems[field] = append(problems[field], "Value must be a four digit year")
		case "phone":
			problems[field] = append(problems[field], "Value must be a valid phone number")
		case "datetime":
			problems[field] = append(problems[field], "Value must match the format "+fe.Param())

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Missing required parameter '%s'", name)
}

func NewInvalidFileExtError(ext string) *APIError {
	return NewSimple(http.StatusBadRequest, "File extension '%s' is not allowed", ext)
}

func NewFileTooLargeError(max int64) *APIError {
	return NewSimple(http.StatusRequestEntityTooLarge, "File is too large, max: %d bytes", max)
}
