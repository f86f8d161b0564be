package openai

import "errors"

// ErrEmptyResponse is returned when the model produces no choices.
var ErrEmptyResponse = errors.New("model returned no choices")
