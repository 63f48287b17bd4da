package mdbp

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/muldis/mre/pkg/mem"
	"github.com/muldis/mre/pkg/wkt"
)

// Value is a Muldis D value, bound to the Machine that produced it.
type Value struct {
	m *Machine
	v *mem.Value
}

// Machine returns the machine that produced v.
func (v *Value) Machine() *Machine { return v.m }

// Mem returns the underlying value.
func (v *Value) Mem() *mem.Value { return v.v }

func (v *Value) String() string { return v.v.String() }

// ExportBoolean returns the truth value of a Boolean.
func (v *Value) ExportBoolean() (bool, error) {
	return v.v.Boolean()
}

// ExportBigInt returns the value of an Integer.
func (v *Value) ExportBigInt() (*big.Int, error) {
	return v.v.Integer()
}

// ExportInt64 returns the value of an Integer that fits in an int64.
func (v *Value) ExportInt64() (int64, error) {
	i, err := v.v.Integer()
	if err != nil {
		return 0, err
	}
	if !i.IsInt64() {
		return 0, errors.WithMessagef(ErrOverflow, "%s does not fit in int64", i)
	}

	return i.Int64(), nil
}

// ExportInt32 returns the value of an Integer that fits in an int32.
func (v *Value) ExportInt32() (int32, error) {
	i, err := v.ExportInt64()
	if err != nil {
		return 0, err
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, errors.WithMessagef(ErrOverflow, "%d does not fit in int32", i)
	}

	return int32(i), nil
}

// ExportRat returns the value of a Fraction.
func (v *Value) ExportRat() (*big.Rat, error) {
	return v.v.Fraction()
}

// ExportBits returns the members of a Bits value.
func (v *Value) ExportBits() ([]bool, error) {
	b, err := v.v.Bits()
	if err != nil {
		return nil, err
	}
	return b.Bools(), nil
}

// ExportBlob returns a copy of the members of a Blob value.
func (v *Value) ExportBlob() ([]byte, error) {
	return v.v.Blob()
}

// ExportText returns a Text value as a Go string.  Texts that are not
// sequences of Unicode scalar values cannot be exported.
func (v *Value) ExportText() (string, error) {
	c, err := v.v.Text()
	if err != nil {
		return "", err
	}
	if !c.Valid() {
		return "", errors.WithMessage(mem.ErrMalformedText, "text is not valid Unicode")
	}

	return c.String(), nil
}

// ExportExternal returns the host payload of an External.
func (v *Value) ExportExternal() (any, error) {
	h, err := v.v.Handle()
	if err != nil {
		return nil, err
	}

	return h.Payload()
}

// Current returns the current value of a Variable.
func (v *Value) Current() (*Value, error) {
	h, err := v.v.Handle()
	if err != nil {
		return nil, err
	}

	cur, err := h.Current()
	if err != nil {
		return nil, err
	}

	return v.m.Wrap(cur), nil
}

// Assign replaces the current value of a Variable.
func (v *Value) Assign(current *Value) error {
	if current == nil {
		return errors.WithMessage(mem.ErrNilValue, "current")
	}

	h, err := v.v.Handle()
	if err != nil {
		return err
	}

	return h.Assign(current.v)
}

// ExportTree returns a host value that Import maps back to v.  Handles are
// exported as themselves.
func (v *Value) ExportTree() (any, error) {
	return v.m.exportTree(v.v)
}

func (m *Machine) exportTree(v *mem.Value) (any, error) {
	switch v.Kind() {
	case mem.KindBoolean:
		return v.Boolean()

	case mem.KindInteger:
		i, err := v.Integer()
		if err == nil && i.IsInt64() {
			return i.Int64(), nil
		}
		return i, err

	case mem.KindFraction:
		r, err := v.Fraction()
		return Qualified{Key: "Fraction", Value: r}, err

	case mem.KindBits:
		return m.Wrap(v).ExportBits()

	case mem.KindBlob:
		return v.Blob()

	case mem.KindText:
		return m.Wrap(v).ExportText()

	case mem.KindArray, mem.KindSet:
		members, err := m.members(v)
		if err != nil {
			return nil, err
		}
		return Qualified{Key: v.Kind().String(), Value: members}, nil

	case mem.KindBag:
		members, err := m.members(v)
		if err != nil {
			return nil, err
		}
		return Qualified{Key: "Bag", Value: members}, nil

	case mem.KindTuple:
		attrs, err := m.attrs(v)
		if err != nil {
			return nil, err
		}
		return Qualified{Key: "Tuple", Value: attrs}, nil

	case mem.KindCapsule:
		return m.exportCapsule(v)
	}

	return v, nil
}

// members returns the members of an Array, Set or Bag, repeating each Bag
// member according to its multiplicity.
func (m *Machine) members(v *mem.Value) ([]any, error) {
	var vs []*mem.Value
	if v.Kind() == mem.KindArray {
		var err error
		if vs, err = m.pool.ArrayMembers(v); err != nil {
			return nil, err
		}
	} else {
		bag, err := v.Bag()
		if err != nil {
			return nil, err
		}
		bag.Each(func(mm mem.MultipliedMember) bool {
			for i := int64(0); i < mm.Multiplicity; i++ {
				vs = append(vs, mm.Member)
			}
			return true
		})
	}

	out := make([]any, len(vs))
	for i, member := range vs {
		x, err := m.exportTree(member)
		if err != nil {
			return nil, errors.Wrapf(err, "member %d", i)
		}
		out[i] = x
	}
	return out, nil
}

func (m *Machine) attrs(v *mem.Value) (map[string]any, error) {
	t, err := v.Tuple()
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, t.Degree())
	for _, a := range t.Attrs() {
		if !a.Name.Valid() {
			return nil, errors.WithMessagef(mem.ErrMalformedText, "attribute name %v", a.Name.Runes())
		}

		x, err := m.exportTree(a.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %q", a.Name)
		}
		out[a.Name.String()] = x
	}
	return out, nil
}

func (m *Machine) exportCapsule(v *mem.Value) (any, error) {
	c, err := v.Capsule()
	if err != nil {
		return nil, err
	}

	var label any
	if c.Label().Is(wkt.AttrName) {
		name, err := m.pool.AttrNameAsCodepoints(c.Label())
		if err != nil {
			return nil, err
		}
		label = name.String()
	} else if label, err = m.exportTree(c.Label()); err != nil {
		return nil, errors.Wrap(err, "label")
	}

	attrs, err := m.exportTree(c.Attrs())
	if err != nil {
		return nil, errors.Wrap(err, "attrs")
	}

	return Article{Label: label, Attrs: attrs}, nil
}
