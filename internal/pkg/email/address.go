package email

import "net/mail"

// envelopeAddress extracts the bare address from a display form such as
// "Dayflow <no-reply@dayflow.com>".
func envelopeAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return from
	}
	return addr.Address
}
