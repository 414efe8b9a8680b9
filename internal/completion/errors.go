package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies a failed completion call.
type Kind int

const (
	// KindUnexpected covers failures before the request left the process.
	KindUnexpected Kind = iota
	// KindTimeout means no response arrived within the client timeout.
	KindTimeout
	// KindConnection means the service could not be reached.
	KindConnection
	// KindService means the service answered with an error status or an unusable body.
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindService:
		return "service"
	default:
		return "unexpected"
	}
}

// MaxExcerpt bounds the diagnostic text carried by an Error.
const MaxExcerpt = 200

// Error is the only error type returned by Client.Chat.
type Error struct {
	Kind    Kind
	Status  int
	Excerpt string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "completion %s error", e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Excerpt != "" {
		b.WriteString(": ")
		b.WriteString(e.Excerpt)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindUnexpected when err is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnexpected
}

// transportError classifies a failure from the HTTP round trip or body read.
func transportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindConnection, Err: err}
}

// Excerpt collapses whitespace and cuts s to at most limit runes.
func Excerpt(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
