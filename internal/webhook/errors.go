package webhook

import "errors"

var (
	// ErrSignatureInvalid covers every signature failure mode so responses
	// never leak which check rejected the request.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrMalformedPayload means the event body could not be decoded.
	ErrMalformedPayload = errors.New("malformed event payload")
)
