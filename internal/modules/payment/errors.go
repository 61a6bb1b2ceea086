package payment

import "errors"

var (
	ErrNotYetDetermined = errors.New("required date is not set yet")
	ErrGateway          = errors.New("payment gateway failure")
	ErrUnknownSession   = errors.New("unknown payment session")
	ErrSessionNotPaid   = errors.New("session is not paid")
)
