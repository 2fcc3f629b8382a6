package services

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrProfileNotFound    = errors.New("profile not found")
	ErrExperienceNotFound = errors.New("experience entry not found")
	ErrEducationNotFound  = errors.New("education entry not found")

	ErrPostNotFound    = errors.New("post not found")
	ErrNotPostOwner    = errors.New("not the post owner")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotYetLiked     = errors.New("post has not yet been liked")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the comment owner")
	ErrNoGithubProfile = errors.New("no github profile found")
)
