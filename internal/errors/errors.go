package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when signing up with an already registered email.
	ErrEmailTaken = errors.New("email already exists, please use a different one")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so responses carry no enumeration signal.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when a session token is missing, malformed
	// or fails signature verification.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken is returned when a session token is past its expiry.
	ErrExpiredToken = errors.New("session token expired")
	// ErrMissingFields is returned when a required input field is empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrInvalidEmail is returned when the email fails format validation.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrPasswordTooShort is returned when the password is under 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrSelfFriendRequest is returned when a user friend-requests themselves.
	ErrSelfFriendRequest = errors.New("you can't send a friend request to yourself")
	// ErrAlreadyFriends is returned when the recipient is already a friend.
	ErrAlreadyFriends = errors.New("you are already friends with this user")
	// ErrFriendRequestExists is returned when a pending request already exists
	// in either direction.
	ErrFriendRequestExists = errors.New("a friend request already exists between you and this user")
	// ErrFriendRequestNotFound is returned when the request id is unknown.
	ErrFriendRequestNotFound = errors.New("friend request not found")
	// ErrNotRequestRecipient is returned when someone other than the
	// recipient tries to accept a request.
	ErrNotRequestRecipient = errors.New("you are not authorized to accept this request")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrSelfFriendRequest),
		errors.Is(err, ErrAlreadyFriends),
		errors.Is(err, ErrFriendRequestExists):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrExpiredToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrNotRequestRecipient):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrFriendRequestNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
