package service

// ValidationError reports a malformed or incomplete request
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SizeLimitError reports media rejected by the size policy
type SizeLimitError struct {
	Decision SizeDecision
}

func (e *SizeLimitError) Error() string {
	return e.Decision.Message
}
