// Package netconf holds the wire-level NETCONF types: the <hello>
// message, the <rpc>/<rpc-reply> envelopes and the <rpc-error> error
// catalog from RFC 6241 appendix A.3. Unlike a typical encoding/xml
// struct binding (the shape used by nemith-netconf and
// akam1o-arca-router), these are expressed over dom.Node so a reply
// can carry arbitrary bound YANG data rather than a fixed Go struct.
package netconf

import "fmt"

// ErrType is the NETCONF <error-type> enumeration.
type ErrType string

// ErrType values, RFC 6241 A.3.
const (
	ErrTypeTransport ErrType = "transport"
	ErrTypeRPC       ErrType = "rpc"
	ErrTypeProtocol  ErrType = "protocol"
	ErrTypeApp       ErrType = "application"
)

// ErrTag is the NETCONF <error-tag> enumeration.
type ErrTag string

// ErrTag values, RFC 6241 A.3.
const (
	ErrTagInUse                 ErrTag = "in-use"
	ErrTagInvalidValue          ErrTag = "invalid-value"
	ErrTagTooBig                ErrTag = "too-big"
	ErrTagMissingAttribute      ErrTag = "missing-attribute"
	ErrTagBadAttribute          ErrTag = "bad-attribute"
	ErrTagUnknownAttribute      ErrTag = "unknown-attribute"
	ErrTagMissingElement        ErrTag = "missing-element"
	ErrTagBadElement            ErrTag = "bad-element"
	ErrTagUnknownElement        ErrTag = "unknown-element"
	ErrTagUnknownNamespace      ErrTag = "unknown-namespace"
	ErrTagAccessDenied          ErrTag = "access-denied"
	ErrTagLockDenied            ErrTag = "lock-denied"
	ErrTagResourceDenied        ErrTag = "resource-denied"
	ErrTagRollbackFailed        ErrTag = "rollback-failed"
	ErrTagDataExists            ErrTag = "data-exists"
	ErrTagDataMissing           ErrTag = "data-missing"
	ErrTagOperationNotSupported ErrTag = "operation-not-supported"
	ErrTagOperationFailed       ErrTag = "operation-failed"
	ErrTagPartialOperation      ErrTag = "partial-operation"
	ErrTagMalformedMessage      ErrTag = "malformed-message"
)

// ErrSeverity is the NETCONF <error-severity> enumeration.
type ErrSeverity string

// ErrSeverity values.
const (
	SevError   ErrSeverity = "error"
	SevWarning ErrSeverity = "warning"
)

// RPCError is a single <rpc-error> entry. It implements error so it
// can travel through ordinary Go error-handling paths (e.g. returned
// from bind.Validate) before being rendered to XML by ToNode.
type RPCError struct {
	Type     ErrType
	Tag      ErrTag
	Severity ErrSeverity
	AppTag   string
	Path     string
	Message  string
	// Info, if non-empty, is pre-rendered <error-info> child XML
	// content (e.g. <bad-element>) to include verbatim.
	Info string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("netconf error: %s/%s: %s", e.Type, e.Tag, e.Message)
}

// NewAppError returns an application-layer RPCError (the common case
// for bind/xmlcodec validation failures), severity "error".
func NewAppError(tag ErrTag, message string) *RPCError {
	return &RPCError{Type: ErrTypeApp, Tag: tag, Severity: SevError, Message: message}
}

// NewProtocolError returns a protocol-layer RPCError (framing,
// malformed XML, missing <rpc>), severity "error".
func NewProtocolError(tag ErrTag, message string) *RPCError {
	return &RPCError{Type: ErrTypeProtocol, Tag: tag, Severity: SevError, Message: message}
}

// MissingMandatory returns the *RPCError spec.md 4.C requires when a
// CONTAINER/LIST is missing a mandatory child leaf.
func MissingMandatory(path, childName string) *RPCError {
	e := NewAppError(ErrTagMissingElement, fmt.Sprintf("missing mandatory element %q", childName))
	e.Path = path
	return e
}

// InvalidValue returns the *RPCError spec.md 4.C requires when a
// leaf's body fails type/range/length/pattern validation.
func InvalidValue(path, reason string) *RPCError {
	e := NewAppError(ErrTagInvalidValue, reason)
	e.Path = path
	return e
}
