package services

import "errors"

var (
	ErrMovieNotFound        = errors.New("movie not found")
	ErrUnknownViewer        = errors.New("unknown viewer")
	ErrEmptyQuery           = errors.New("search query is empty")
	ErrEmptyTodo            = errors.New("todo text is empty")
	ErrTodoNotFound         = errors.New("todo not found")
	ErrInvalidCategory      = errors.New("invalid todo category")
	ErrKeyNotFound          = errors.New("key not found")
	ErrNoPoster             = errors.New("movie has no poster")
	ErrPosterHostNotAllowed = errors.New("poster host not allowed")
	ErrPosterTooLarge       = errors.New("poster too large")
)
