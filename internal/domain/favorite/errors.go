package favorite

import "errors"

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrHcpcsRequired    = errors.New("hcpcs is required")
)
