package logic

import "errors"

// Sentinel errors returned by controller commands. A rejected command never
// changes session state; callers may log it and carry on.
var (
	ErrInvalidCommand = errors.New("command not accepted in current state")
	ErrNotReservable  = errors.New("recipe cannot be reserved")
	ErrUnknownRecipe  = errors.New("unknown recipe")
)
