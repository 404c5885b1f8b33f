package types

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCauseNotFound      = errors.New("cause not found")
	ErrRequestNotFound    = errors.New("request not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrDonationNotFound   = errors.New("donation not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrStoryNotFound      = errors.New("story not found")

	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrDuplicateUser    = errors.New("name or email already in use")
)
