package mem

import (
	"encoding/binary"
	"sort"
	"unicode/utf8"

	"go.uber.org/multierr"

	"github.com/muldis/mre/pkg/wkt"
)

// positional attribute names, U+0000 through U+0002.
var positionalNames = [3]CodepointArray{
	newCodepointArray([]rune{0}),
	newCodepointArray([]rune{1}),
	newCodepointArray([]rune{2}),
}

// Attr is a named tuple attribute.
type Attr struct {
	Name  CodepointArray
	Value *Value
}

// TupleAttrs is the raw layout of a tuple.  A0, A1 and A2 hold the
// attributes named U+0000, U+0001 and U+0002.  Every other attribute goes in
// OnlyOA or MultiOA, which must not hold positional or duplicate names.
type TupleAttrs struct {
	A0, A1, A2 *Value
	OnlyOA     *Attr
	MultiOA    []Attr
}

// TupleStruct holds the attributes of a tuple.
type TupleStruct struct {
	slots   [3]*Value
	onlyOA  *Attr
	multiOA map[string]Attr
	degree  int
}

// Degree returns the number of attributes.
func (t *TupleStruct) Degree() int { return t.degree }

// Has reports whether t has an attribute with the given name.
func (t *TupleStruct) Has(name CodepointArray) bool {
	_, ok := t.lookup(name)
	return ok
}

// Attr returns the value of the named attribute.
func (t *TupleStruct) Attr(name CodepointArray) (*Value, error) {
	if v, ok := t.lookup(name); ok {
		return v, nil
	}

	return nil, argErrorf("name", ErrNoSuchAttrName, "%q", name.String())
}

func (t *TupleStruct) lookup(name CodepointArray) (*Value, bool) {
	if i := name.positional(); i >= 0 {
		return t.slots[i], t.slots[i] != nil
	}

	if t.onlyOA != nil && t.onlyOA.Name.Equal(name) {
		return t.onlyOA.Value, true
	}

	a, ok := t.multiOA[name.Key()]
	return a.Value, ok
}

// Each calls fn for every attribute until fn returns false.  Attributes are
// visited in ascending order of their canonical name key.
func (t *TupleStruct) Each(fn func(Attr) bool) {
	for _, a := range t.Attrs() {
		if !fn(a) {
			return
		}
	}
}

// Attrs returns every attribute, in ascending order of canonical name key.
func (t *TupleStruct) Attrs() []Attr {
	attrs := make([]Attr, 0, t.degree)
	for i, v := range t.slots {
		if v != nil {
			attrs = append(attrs, Attr{Name: positionalNames[i], Value: v})
		}
	}

	n := len(attrs)
	if t.onlyOA != nil {
		attrs = append(attrs, *t.onlyOA)
	}
	for _, a := range t.multiOA {
		attrs = append(attrs, a)
	}

	overflow := attrs[n:]
	sort.Slice(overflow, func(i, j int) bool {
		return overflow[i].Name.Key() < overflow[j].Name.Key()
	})

	return attrs
}

// Names returns every attribute name, in ascending order of canonical key.
func (t *TupleStruct) Names() []CodepointArray {
	attrs := t.Attrs()
	names := make([]CodepointArray, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}

func (t *TupleStruct) allTrue() bool {
	for _, a := range t.Attrs() {
		if !a.Value.isTrue() {
			return false
		}
	}
	return true
}

// headingKey returns a lossless key for the set of attribute names.
func (t *TupleStruct) headingKey() string {
	var buf []byte
	for _, a := range t.Attrs() {
		k := a.Name.Key()
		buf = binary.AppendUvarint(buf, uint64(len(k)))
		buf = append(buf, k...)
	}
	return string(buf)
}

func newTupleStruct(slots [3]*Value, overflow []Attr) *TupleStruct {
	t := &TupleStruct{slots: slots}
	for _, v := range slots {
		if v != nil {
			t.degree++
		}
	}

	switch len(overflow) {
	case 0:
	case 1:
		t.onlyOA = &overflow[0]
	default:
		t.multiOA = make(map[string]Attr, len(overflow))
		for _, a := range overflow {
			t.multiOA[a.Name.Key()] = a
		}
	}

	t.degree += len(overflow)
	return t
}

// Tuple returns the tuple with the given attributes.  Attribute names and
// small headings are interned.
func (p *Pool) Tuple(attrs TupleAttrs) (*Value, error) {
	var overflow []Attr
	if attrs.OnlyOA != nil {
		overflow = append(overflow, *attrs.OnlyOA)
	}
	overflow = append(overflow, attrs.MultiOA...)

	seen := make(map[string]struct{}, len(overflow))
	for _, a := range overflow {
		if a.Value == nil {
			return nil, argErrorf("attrs", ErrNilValue, "attribute %q", a.Name.String())
		}
		if a.Name.positional() >= 0 {
			return nil, argErrorf("attrs", ErrMisplacedAttrName, "%U", a.Name.At(0))
		}
		if _, dup := seen[a.Name.Key()]; dup {
			return nil, argErrorf("attrs", ErrDuplicateAttrName, "%q", a.Name.String())
		}
		seen[a.Name.Key()] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.tuple(newTupleStruct([3]*Value{attrs.A0, attrs.A1, attrs.A2}, overflow)), nil
}

// TupleFromAttrs returns the tuple with the given attributes, laying them out
// according to their names.
func (p *Pool) TupleFromAttrs(attrs []Attr) (*Value, error) {
	var (
		slots    [3]*Value
		overflow = make([]Attr, 0, len(attrs))
		seen     = make(map[string]struct{}, len(attrs))
	)

	for _, a := range attrs {
		if a.Value == nil {
			return nil, argErrorf("attrs", ErrNilValue, "attribute %q", a.Name.String())
		}
		if _, dup := seen[a.Name.Key()]; dup {
			return nil, argErrorf("attrs", ErrDuplicateAttrName, "%q", a.Name.String())
		}
		seen[a.Name.Key()] = struct{}{}

		if i := a.Name.positional(); i >= 0 {
			slots[i] = a.Value
		} else {
			overflow = append(overflow, a)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.tuple(newTupleStruct(slots, overflow)), nil
}

// TupleOf returns the tuple whose attributes are the entries of attrs.  Every
// malformed name is reported.
func (p *Pool) TupleOf(attrs map[string]*Value) (*Value, error) {
	var err error
	as := make([]Attr, 0, len(attrs))
	for name, v := range attrs {
		if !utf8.ValidString(name) {
			err = multierr.Append(err, argErrorf("attrs", ErrMalformedText, "name %q", name))
			continue
		}
		as = append(as, Attr{Name: newCodepointArray([]rune(name)), Value: v})
	}

	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	for i := range as {
		as[i].Name = p.codepoints(as[i].Name)
	}
	p.mu.Unlock()

	return p.TupleFromAttrs(as)
}

// Heading returns the Heading with the given attribute names.
func (p *Pool) Heading(names ...string) (*Value, error) {
	attrs := make(map[string]*Value, len(names))
	for _, name := range names {
		attrs[name] = p.trueV
	}
	return p.TupleOf(attrs)
}

// HeadingOf returns the Heading of a tuple, that is, its attribute names.
func (p *Pool) HeadingOf(tuple *Value) (*Value, error) {
	t, err := tuple.Tuple()
	if err != nil {
		return nil, argError("tuple", err)
	}
	if tuple.Is(wkt.Heading) {
		return tuple, nil
	}

	attrs := t.Attrs()
	for i := range attrs {
		attrs[i].Value = p.trueV
	}
	return p.TupleFromAttrs(attrs)
}

// AttrName returns the Attr_Name with the given name, that is, the unary
// Heading whose only attribute is named name.
func (p *Pool) AttrName(name CodepointArray) *Value {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.attrName(name)
}

// AttrNameOf returns the Attr_Name with the given name.
func (p *Pool) AttrNameOf(name string) (*Value, error) {
	if !utf8.ValidString(name) {
		return nil, argErrorf("name", ErrMalformedText, "%q", name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.attrName(p.codepointsOf(name)), nil
}

// AttrNameAsCodepoints returns the name held by an Attr_Name.
func (p *Pool) AttrNameAsCodepoints(v *Value) (CodepointArray, error) {
	if !v.Is(wkt.AttrName) {
		return CodepointArray{}, argError("v", ErrNotAttrName)
	}

	return v.payload.(*TupleStruct).Names()[0], nil
}

// attrName must be called while holding p.mu.
func (p *Pool) attrName(name CodepointArray) *Value {
	if p.mayCache(name) {
		if v, ok := p.attrNameCache.lookup(name.Key()); ok {
			return v
		}
	}

	var slots [3]*Value
	var overflow []Attr
	if i := name.positional(); i >= 0 {
		slots[i] = p.trueV
	} else {
		overflow = []Attr{{Name: name, Value: p.trueV}}
	}

	return p.tuple(newTupleStruct(slots, overflow))
}

// tuple interns headings and attribute names.  It must be called while
// holding p.mu.
func (p *Pool) tuple(t *TupleStruct) *Value {
	switch {
	case t.degree == 0:
		return p.nullaryTuple

	case !t.allTrue():
		return newValue(KindTuple, wkt.Of(wkt.Tuple), t)

	case t.degree == 1:
		name := t.Names()[0]
		cacheable := p.mayCache(name)
		if cacheable {
			if v, ok := p.attrNameCache.lookup(name.Key()); ok {
				return v
			}
		}

		v := newValue(KindTuple, wkt.Of(wkt.Tuple, wkt.Heading, wkt.AttrName), t)
		if cacheable {
			p.attrNameCache.admit(name.Key(), v)
		}
		return v
	}

	cacheable := t.degree <= p.limits.MaxHeadingDegree
	for _, name := range t.Names() {
		cacheable = cacheable && p.mayCache(name)
	}

	var key string
	if cacheable {
		key = t.headingKey()
		if v, ok := p.headingCache.lookup(key); ok {
			return v
		}
	}

	v := newValue(KindTuple, wkt.Of(wkt.Tuple, wkt.Heading), t)
	if cacheable {
		p.headingCache.admit(key, v)
	}
	return v
}
