package rvucode

import "errors"

var (
	ErrCodeNotFound = errors.New("rvu code not found")
)
