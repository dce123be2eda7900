package service

import "errors"

var (
	ErrValidation     = errors.New("validation")      // 400
	ErrNotFound       = errors.New("not found")       // 400, per the endpoint contract
	ErrBadCredentials = errors.New("bad credentials") // 400
	ErrNoSession      = errors.New("no session")      // 400, covers missing/expired/forged refresh alike
)
