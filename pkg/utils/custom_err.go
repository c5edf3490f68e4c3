package utils

import "errors"

var (
	ErrInvalidTripSpec   = errors.New("invalid trip specification")
	ErrDraftGeneration   = errors.New("draft generation failed")
	ErrPlanNotProduced   = errors.New("no plan produced")
	ErrMissingCredential = errors.New("required credential missing")
)
