package services

import "github.com/Dias221467/Language_Exchange/pkg/apperror"

// Client-facing failures. Compare with errors.Is.
var (
	ErrMissingFields      = apperror.Validation("All fields are required")
	ErrPasswordTooShort   = apperror.Validation("Password must be at least 6 characters")
	ErrPasswordTooLong    = apperror.Validation("Password must be at most 72 bytes")
	ErrInvalidEmail       = apperror.Validation("Invalid email format")
	ErrEmailTaken         = apperror.Conflict("Email already exists, please use a different one")
	ErrInvalidCredentials = apperror.Unauthorized("Invalid email or password")

	ErrInvalidSession  = apperror.Unauthorized("Unauthorized - Invalid token")
	ErrSessionUserGone = apperror.Unauthorized("Unauthorized - User not found")
	ErrUserNotFound    = apperror.NotFound("User not found")

	ErrSelfRequest       = apperror.Validation("You can't send friend request to yourself")
	ErrRecipientNotFound = apperror.NotFound("Recipient not found")
	ErrAlreadyFriends    = apperror.Validation("You are already friends with this user")
	ErrDuplicateRequest  = apperror.Conflict("A friend request already exists between you and this user")
	ErrRequestNotFound   = apperror.NotFound("Friend request not found")
	ErrNotRecipient      = apperror.Forbidden("You are not authorized to accept this request")
)
