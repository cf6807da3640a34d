package domain

import "errors"

// ErrPromptRequired is returned before any external call when the prompt is empty.
var ErrPromptRequired = errors.New("prompt is required")
