package mem

import (
	"unicode/utf8"

	"github.com/muldis/mre/pkg/wkt"
)

// CapsuleStruct is a labelled tuple.
type CapsuleStruct struct {
	label *Value
	attrs *Value
}

// Label returns the capsule label.
func (c *CapsuleStruct) Label() *Value { return c.label }

// Attrs returns the capsule attributes, which are always a Tuple.
func (c *CapsuleStruct) Attrs() *Value { return c.attrs }

// Capsule returns a capsule with the given label and attributes.  The
// attributes must be a Tuple.
func (p *Pool) Capsule(label, attrs *Value) (*Value, error) {
	switch {
	case label == nil:
		return nil, argError("label", ErrNilValue)
	case attrs == nil:
		return nil, argError("attrs", ErrNilValue)
	case attrs.kind != KindTuple:
		return nil, argError("attrs", wrongKind(attrs, KindTuple))
	}

	if label == p.falseV && attrs == p.nullaryTuple {
		return p.falseNullaryCapsule, nil
	}

	types := wkt.Of(wkt.Capsule)
	if Same(label, p.excuseLabel) {
		types.Add(wkt.Excuse)
	}

	return newValue(KindCapsule, types, &CapsuleStruct{label: label, attrs: attrs}), nil
}

// Excuse returns an Excuse with the given attributes.
func (p *Pool) Excuse(attrs *Value) (*Value, error) {
	return p.Capsule(p.excuseLabel, attrs)
}

// SimpleExcuse returns the Excuse whose only attribute is the Attr_Name
// name.  The well-known excuses are interned.
func (p *Pool) SimpleExcuse(name string) (*Value, error) {
	if !utf8.ValidString(name) {
		return nil, argErrorf("name", ErrMalformedText, "%q", name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.excuses[name]; ok {
		return v, nil
	}
	return p.simpleExcuse(name), nil
}

// simpleExcuse must be called while holding p.mu.
func (p *Pool) simpleExcuse(name string) *Value {
	attrs := p.tuple(newTupleStruct([3]*Value{p.attrName(p.codepointsOf(name))}, nil))
	return newValue(KindCapsule, wkt.Of(wkt.Capsule, wkt.Excuse),
		&CapsuleStruct{label: p.excuseLabel, attrs: attrs})
}

// TupleArray returns a Tuple_Array, that is, an Array of tuples that all
// have the given heading.
func (p *Pool) TupleArray(heading, body *Value) (*Value, error) {
	return p.relational(wkt.TupleArray, KindArray, heading, body)
}

// Relation returns a Relation, that is, a Set of tuples that all have the
// given heading.
func (p *Pool) Relation(heading, body *Value) (*Value, error) {
	return p.relational(wkt.Relation, KindSet, heading, body)
}

// TupleBag returns a Tuple_Bag, that is, a Bag of tuples that all have the
// given heading.
func (p *Pool) TupleBag(heading, body *Value) (*Value, error) {
	return p.relational(wkt.TupleBag, KindBag, heading, body)
}

// TupleArrayFromBody returns a Tuple_Array whose heading is inferred from
// the members of body, which must be non-empty.
func (p *Pool) TupleArrayFromBody(body *Value) (*Value, error) {
	return p.relationalFromBody(wkt.TupleArray, KindArray, body)
}

// RelationFromBody returns a Relation whose heading is inferred from the
// members of body, which must be non-empty.
func (p *Pool) RelationFromBody(body *Value) (*Value, error) {
	return p.relationalFromBody(wkt.Relation, KindSet, body)
}

// TupleBagFromBody returns a Tuple_Bag whose heading is inferred from the
// members of body, which must be non-empty.
func (p *Pool) TupleBagFromBody(body *Value) (*Value, error) {
	return p.relationalFromBody(wkt.TupleBag, KindBag, body)
}

func (p *Pool) relationalFromBody(t wkt.Type, k Kind, body *Value) (*Value, error) {
	if body == nil {
		return nil, argError("body", ErrNilValue)
	}
	if body.kind != k {
		return nil, argError("body", wrongKind(body, k))
	}

	first, ok := p.firstMember(body)
	if !ok {
		return nil, argError("body", ErrEmptyBody)
	}

	heading, err := p.HeadingOf(first)
	if err != nil {
		return nil, argErrorf("body", ErrNotSameHeading, "member is %s", first.kind)
	}

	return p.relational(t, k, heading, body)
}

func (p *Pool) relational(t wkt.Type, k Kind, heading, body *Value) (*Value, error) {
	switch {
	case heading == nil:
		return nil, argError("heading", ErrNilValue)
	case body == nil:
		return nil, argError("body", ErrNilValue)
	case !heading.Is(wkt.Heading):
		return nil, argError("heading", ErrNotHeading)
	case body.kind != k:
		return nil, argError("body", wrongKind(body, k))
	}

	if err := p.checkBody(heading, body); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	label := p.attrName(p.codepointsOf(t.String()))
	attrs := p.tuple(newTupleStruct([3]*Value{}, []Attr{
		{Name: p.codepointsOf("heading"), Value: heading},
		{Name: p.codepointsOf("body"), Value: body},
	}))

	return newValue(KindCapsule, wkt.Of(wkt.Capsule, t),
		&CapsuleStruct{label: label, attrs: attrs}), nil
}

// checkBody verifies that every member of body is a tuple with the given
// heading.
func (p *Pool) checkBody(heading, body *Value) (err error) {
	want := heading.payload.(*TupleStruct).headingKey()
	check := func(v *Value) bool {
		t, ok := v.payload.(*TupleStruct)
		if !ok || t.headingKey() != want {
			err = argErrorf("body", ErrNotSameHeading, "member %s", v)
			return false
		}
		return true
	}

	switch n := body.payload.(type) {
	case *ArrayNode:
		n.each(func(e element) bool {
			if e.v == nil {
				err = argErrorf("body", ErrNotSameHeading, "member %d is not a tuple", e.code)
				return false
			}
			return check(e.v)
		})

	case *BagNode:
		n.Each(func(m MultipliedMember) bool {
			return check(m.Member)
		})
	}

	return
}

func (p *Pool) firstMember(body *Value) (*Value, bool) {
	switch n := body.payload.(type) {
	case *ArrayNode:
		if n.count > 0 {
			return p.materialize(n.at(0)), true
		}

	case *BagNode:
		if n.uniqueCount > 0 {
			return n.arrayed().members[0].Member, true
		}
	}

	return nil, false
}
