package gateway

type ErrorKind int

const (
	// KindTransport covers network failures, timeouts, unexpected status
	// codes and malformed response bodies.
	KindTransport ErrorKind = iota
	// KindServer is a failure the remote store reported itself inside a
	// well-formed envelope.
	KindServer
)

// RemoteError classifies a failed read against the remote store.
type RemoteError struct {
	Kind   ErrorKind
	Reason string
}

func (e *RemoteError) Error() string {
	return e.Reason
}

func NewTransportError(reason string) *RemoteError {
	return &RemoteError{Kind: KindTransport, Reason: reason}
}

func NewServerError(reason string) *RemoteError {
	return &RemoteError{Kind: KindServer, Reason: reason}
}
