package mem

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/muldis/mre/pkg/wkt"
)

// HandleType distinguishes the kinds of handle.
type HandleType uint8

const (
	HandleVariable HandleType = iota
	HandleProcess
	HandleStream
	HandleExternal
)

func (t HandleType) String() string {
	switch t {
	case HandleVariable:
		return "Variable"
	case HandleProcess:
		return "Process"
	case HandleStream:
		return "Stream"
	case HandleExternal:
		return "External"
	}

	return "HandleType(?)"
}

// HandleStruct is an opaque reference to something outside the value model.
// Handles are equal only to themselves.
type HandleStruct struct {
	typ     HandleType
	id      uuid.UUID
	current atomic.Pointer[Value]
	payload any
}

// Type returns the kind of handle.
func (h *HandleStruct) Type() HandleType { return h.typ }

// ID returns a unique identifier for the handle, for display purposes.
func (h *HandleStruct) ID() uuid.UUID { return h.id }

// Current returns the current value of a Variable.
func (h *HandleStruct) Current() (*Value, error) {
	if h.typ != HandleVariable {
		return nil, errors.WithMessagef(ErrWrongKind, "%s is not a Variable", h.typ)
	}

	return h.current.Load(), nil
}

// Assign replaces the current value of a Variable.
func (h *HandleStruct) Assign(v *Value) error {
	if h.typ != HandleVariable {
		return errors.WithMessagef(ErrWrongKind, "%s is not a Variable", h.typ)
	}
	if v == nil {
		return argError("v", ErrNilValue)
	}

	h.current.Store(v)
	return nil
}

// Payload returns the host payload of an External.
func (h *HandleStruct) Payload() (any, error) {
	if h.typ != HandleExternal {
		return nil, errors.WithMessagef(ErrWrongKind, "%s is not an External", h.typ)
	}

	return h.payload, nil
}

func newHandle(t HandleType, types wkt.TypeSet) (*Value, *HandleStruct) {
	h := &HandleStruct{typ: t, id: uuid.New()}
	return newValue(KindHandle, types, h), h
}

// Variable returns a new Variable whose current value is initial.  It
// panics if initial is nil.
func (p *Pool) Variable(initial *Value) *Value {
	if initial == nil {
		panic(argError("initial", ErrNilValue))
	}

	v, h := newHandle(HandleVariable, wkt.Of(wkt.Handle, wkt.Variable))
	h.current.Store(initial)
	return v
}

// Process returns a new Process handle.
func (p *Pool) Process() *Value {
	v, _ := newHandle(HandleProcess, wkt.Of(wkt.Handle, wkt.Process))
	return v
}

// Stream returns a new Stream handle.
func (p *Pool) Stream() *Value {
	v, _ := newHandle(HandleStream, wkt.Of(wkt.Handle, wkt.Stream))
	return v
}

// External returns a new External handle wrapping a host payload.
func (p *Pool) External(payload any) *Value {
	v, h := newHandle(HandleExternal, wkt.Of(wkt.Handle, wkt.External))
	h.payload = payload
	return v
}
