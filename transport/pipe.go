package transport

import (
	"io"
	"net"
)

// pipeTransport adapts a net.Conn half of an in-memory net.Pipe to
// the Transport interface for tests that need a working
// ServerTransport/ClientTransport pair without a real socket.
type pipeTransport struct {
	net.Conn
	username string
}

func (p *pipeTransport) CloseWrite() error { return nil }
func (p *pipeTransport) Error() io.ReadWriter {
	return nil
}
func (p *pipeTransport) Username() string { return p.username }

// NewPipe returns a connected pair of transports backed by an
// in-memory net.Pipe: a client transport and a server transport (with
// username attached, since every ServerTransport must report one).
func NewPipe(username string) (client ClientTransport, server ServerTransport) {
	c, s := net.Pipe()
	return &pipeTransport{Conn: c}, &pipeTransport{Conn: s, username: username}
}

var (
	_ Transport       = &pipeTransport{}
	_ ServerTransport = &pipeTransport{}
	_ ClientTransport = &pipeTransport{}
)
