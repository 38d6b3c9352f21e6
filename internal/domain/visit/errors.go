package visit

import "errors"

var (
	ErrVisitNotFound       = errors.New("visit not found")
	ErrDateRequired        = errors.New("visit date is required")
	ErrProceduresRequired  = errors.New("at least one procedure is required")
	ErrNoShowHasProcedures = errors.New("a no-show visit cannot have procedures")
	ErrInvalidProcedure    = errors.New("procedure is missing required fields")
)
