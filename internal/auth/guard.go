package auth

import "errors"

type GuardState int

const (
	// GuardDecoded means a valid session was recovered from the request.
	GuardDecoded GuardState = iota
	// GuardNoSession means the request carried no usable token. Treated the same
	// whether the token was absent, malformed, tampered, or expired.
	GuardNoSession
	// GuardUnavailable means the auth subsystem itself failed. The guard degrades
	// to a header-only pass-through rather than taking the site down.
	GuardUnavailable
)

// GuardResult is the typed outcome of resolving a request's session. Keeping
// "no session" and "subsystem broken" distinct keeps the degraded path
// inspectable instead of hiding it behind a caught exception.
type GuardResult struct {
	State   GuardState
	Session *Session
}

// Resolve turns a raw cookie value into a GuardResult. A nil codec means the
// subsystem was never wired (for example a missing signing secret at startup).
func Resolve(codec TokenCodec, raw string) (result GuardResult) {
	if codec == nil {
		return GuardResult{State: GuardUnavailable}
	}

	defer func() {
		if r := recover(); r != nil {
			result = GuardResult{State: GuardUnavailable}
		}
	}()

	session, err := codec.Decode(raw)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return GuardResult{State: GuardNoSession}
		}
		return GuardResult{State: GuardUnavailable}
	}
	return GuardResult{State: GuardDecoded, Session: &session}
}
