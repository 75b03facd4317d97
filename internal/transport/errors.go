package transport

// Phases of a client connection, used to label failures.
const (
	OpConnect = "connect"
	OpSend    = "send"
	OpRecv    = "recv"
	OpClose   = "close"
)

// OpError tags a transport failure with the phase it happened in.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *OpError) Unwrap() error { return e.Err }
