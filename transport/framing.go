package transport

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/andaru/netconfd/xmlcodec"
)

// FrameWriter writes complete NETCONF messages to an underlying
// io.Writer, framed per whichever mode EnableChunkedFraming has (or
// has not) selected. It implements RFC6242Framer so a Session can
// switch it mid-stream once capability negotiation completes.
type FrameWriter struct {
	w       io.Writer
	chunked bool
}

// NewFrameWriter returns a FrameWriter in NETCONF 1.0 end-of-message
// framing mode.
func NewFrameWriter(w io.Writer) *FrameWriter { return &FrameWriter{w: w} }

// EnableChunkedFraming switches to RFC 6242 chunked framing.
func (f *FrameWriter) EnableChunkedFraming() error {
	f.chunked = true
	return nil
}

// WriteMessage frames and writes one complete message.
func (f *FrameWriter) WriteMessage(msg []byte) error {
	if !f.chunked {
		if _, err := f.w.Write(msg); err != nil {
			return errors.WithStack(err)
		}
		_, err := f.w.Write([]byte("]]>]]>"))
		return errors.WithStack(err)
	}
	if _, err := io.WriteString(f.w, "\n#"+strconv.Itoa(len(msg))+"\n"); err != nil {
		return errors.WithStack(err)
	}
	if _, err := f.w.Write(msg); err != nil {
		return errors.WithStack(err)
	}
	_, err := io.WriteString(f.w, "\n##\n")
	return errors.WithStack(err)
}

var _ RFC6242Framer = &FrameWriter{}

// FrameReader reads complete NETCONF messages from an underlying
// io.Reader, descrambling whichever framing mode is active. The
// NETCONF 1.0 mode uses xmlcodec.FramingScanner to detect the legacy
// "]]>]]>" sentinel; chunked mode implements RFC 6242 section 4.2.
type FrameReader struct {
	r       *bufio.Reader
	scanner *xmlcodec.FramingScanner
	chunked bool
}

// NewFrameReader returns a FrameReader in NETCONF 1.0 end-of-message
// framing mode.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r), scanner: xmlcodec.NewFramingScanner()}
}

// EnableChunkedFraming switches to RFC 6242 chunked framing.
func (f *FrameReader) EnableChunkedFraming() error {
	f.chunked = true
	return nil
}

// ReadMessage reads and returns one complete message, with framing
// removed.
func (f *FrameReader) ReadMessage() ([]byte, error) {
	if f.chunked {
		return f.readChunked()
	}
	return f.readEndOfMessage()
}

func (f *FrameReader) readEndOfMessage() ([]byte, error) {
	var out []byte
	f.scanner.Reset()
	for {
		b, err := f.r.ReadByte()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
		if f.scanner.Scan(b) {
			return out[:len(out)-xmlcodec.SentinelLen], nil
		}
	}
}

func (f *FrameReader) readChunked() ([]byte, error) {
	var out []byte
	for {
		if err := f.expect('\n'); err != nil {
			return nil, err
		}
		if err := f.expect('#'); err != nil {
			return nil, err
		}
		b, err := f.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == '#' {
			if err := f.expect('\n'); err != nil {
				return nil, err
			}
			return out, nil
		}
		size := []byte{b}
		for {
			d, err := f.r.ReadByte()
			if err != nil {
				return nil, err
			}
			if d == '\n' {
				break
			}
			size = append(size, d)
		}
		n, err := strconv.Atoi(string(size))
		if err != nil || n < 0 {
			return nil, errors.Errorf("transport: malformed chunk size %q", size)
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(f.r, chunk); err != nil {
			return nil, errors.WithStack(err)
		}
		out = append(out, chunk...)
	}
}

func (f *FrameReader) expect(want byte) error {
	b, err := f.r.ReadByte()
	if err != nil {
		return err
	}
	if b != want {
		return errors.Errorf("transport: expected %q, got %q", want, b)
	}
	return nil
}

var _ RFC6242Framer = &FrameReader{}
