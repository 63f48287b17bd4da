// Package mdbp adapts the value model to the Muldis Database Protocol.  A
// host obtains a Machine from Info, then moves values across the boundary
// with Machine.Import and the Export methods of Value.
package mdbp

import (
	"github.com/lthibault/log"
	"github.com/pkg/errors"

	"github.com/muldis/mre/pkg/catalog"
	"github.com/muldis/mre/pkg/mem"
)

// ProtocolVersion is the only protocol version supported by this provider.
var ProtocolVersion = [3]string{"Muldis_Database_Protocol", "http://muldis.com", "0.201.0"}

var (
	// ErrUnhandledShape is returned when a host value has no Muldis D
	// equivalent.
	ErrUnhandledShape = errors.WithMessage(mem.ErrContractViolation, "unhandled host value shape")

	// ErrNilPayload is returned when a qualified host value carries a nil
	// payload under a key that does not permit one.
	ErrNilPayload = errors.WithMessage(mem.ErrContractViolation, "nil payload")

	// ErrOverflow is returned when an Integer does not fit the requested
	// host type.
	ErrOverflow = errors.WithMessage(mem.ErrDomain, "integer overflow")
)

// Info is the entry point of the protocol.
type Info struct {
	Log     log.Logger
	Pool    *mem.Pool
	Catalog *catalog.Catalog
}

// ProvidesProtocol reports whether i implements the Muldis Database Protocol.
func (Info) ProvidesProtocol() bool { return true }

// WantMachine returns a Machine implementing the requested protocol
// version, or nil if the version is not supported.
func (i Info) WantMachine(version []string) *Machine {
	if len(version) != len(ProtocolVersion) {
		return nil
	}

	for n, v := range version {
		if v != ProtocolVersion[n] {
			return nil
		}
	}

	return New(i.Pool, i.Catalog, i.Log)
}

// Machine moves values between the host and a Pool.
type Machine struct {
	log     log.Logger
	pool    *mem.Pool
	catalog *catalog.Catalog
}

// New machine.  If l is nil, a default logger is used.
func New(p *mem.Pool, c *catalog.Catalog, l log.Logger) *Machine {
	if l == nil {
		l = log.New(log.WithLevel(log.FatalLevel))
	}

	return &Machine{
		log:     l,
		pool:    p,
		catalog: c,
	}
}

// Pool returns the pool that backs the machine.
func (m *Machine) Pool() *mem.Pool { return m.pool }

// Wrap returns v as a protocol value bound to m.
func (m *Machine) Wrap(v *mem.Value) *Value {
	return &Value{m: m, v: v}
}
