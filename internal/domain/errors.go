package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrMissingField     = errors.New("required information missing")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordRequired = errors.New("password required")
	ErrWrongPassword    = errors.New("password incorrect")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSenderOverdraft     = errors.New("sender would overdraw balance")
	ErrReceiverOverdraft   = errors.New("receiver would overdraw balance")
	ErrAlreadyResolved     = errors.New("transaction already accepted or denied")

	// Board errors
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")

	// Course errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseUserNotFound = errors.New("user not found")
	ErrInvalidEnrollment  = errors.New("enrollment type must be student or instructor")
)
