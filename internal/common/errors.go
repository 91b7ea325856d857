// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Prediction errors.
	ErrNotFitted        = errors.New("pipeline is not fitted")
	ErrNoTrainingData   = errors.New("no training data")
	ErrUnknownAttribute = errors.New("unknown feature attribute")

	// Importer errors.
	ErrUnrecognizedFile = errors.New("file not recognized by importer")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)
