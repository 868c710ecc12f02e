package xmlcodec

// FramingScanner is a small state machine that scans a byte stream for
// the NETCONF 1.0 end-of-message sentinel "]]>]]>", the framing used
// before a session negotiates RFC 6242 chunked framing. It is byte at
// a time so it can sit in front of any io.Reader without buffering
// more than the sentinel itself.
type FramingScanner struct {
	matched int
}

const sentinel = "]]>]]>"

// NewFramingScanner returns a scanner ready to watch for the first
// occurrence of the end-of-message sentinel.
func NewFramingScanner() *FramingScanner { return &FramingScanner{} }

// Scan feeds a single byte to the scanner. It returns true once the
// byte completes the sentinel; the caller should treat everything fed
// to Scan up to and including that byte, minus the sentinel itself, as
// one complete message. Reset prepares the scanner to watch for the
// next message's sentinel.
func (s *FramingScanner) Scan(b byte) bool {
	// fail[m] is the length of the longest proper prefix of the
	// sentinel that is also a suffix of its first m bytes.
	fail := [...]int{0, 0, 1, 0, 1, 2}
	for s.matched > 0 && b != sentinel[s.matched] {
		s.matched = fail[s.matched]
	}
	if b == sentinel[s.matched] {
		s.matched++
	}
	if s.matched == len(sentinel) {
		s.matched = 0
		return true
	}
	return false
}

// Reset returns the scanner to its initial state, discarding any
// partial match in progress.
func (s *FramingScanner) Reset() { s.matched = 0 }

// SentinelLen is the byte length of the NETCONF 1.0 framing sentinel.
const SentinelLen = len(sentinel)
