package models

import "errors"

var ErrInvalidQuery = errors.New("invalid table query")
