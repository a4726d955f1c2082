package service

import "errors"

// ErrPromotionNotFound is returned when a promotion cannot be found by id.
var ErrPromotionNotFound = errors.New("promotion not found")
