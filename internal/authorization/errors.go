package authorization

import "errors"

var (
	ErrNotOwner      = errors.New("not_owner")
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidAction = errors.New("invalid_action")
)
