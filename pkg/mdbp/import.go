package mdbp

import (
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/muldis/mre/pkg/mem"
	"github.com/muldis/mre/pkg/wkt"
)

// Qualified pairs a host value with the name of the Muldis D type that it
// denotes.
type Qualified struct {
	Key   string
	Value any
}

// Ratio is the host shape of a Fraction.  Num and Den must both be host
// integers, *big.Int or Integer values.
type Ratio struct {
	Num, Den any
}

// Article is the host shape of a Capsule.  Label is an attribute name
// (string), a list of attribute names ([]string) or any importable value.
type Article struct {
	Label any
	Attrs any
}

// keys that are not the names of well-known types
const (
	keyArticle     = "Article"
	keyNewVariable = "New_Variable"
	keyNewProcess  = "New_Process"
	keyNewStream   = "New_Stream"
	keyNewExternal = "New_External"
)

// Import returns the Muldis D value denoted by a host value.  Host values
// are either unqualified (nil, bool, Go integers, *big.Int, *big.Rat, []bool,
// []byte, string, *Value, *mem.Value) or Qualified.
func (m *Machine) Import(host any) (*Value, error) {
	v, err := m.importTree(host)
	if err != nil {
		m.log.WithError(err).Debug("import failed")
		return nil, err
	}

	return m.Wrap(v), nil
}

func (m *Machine) importTree(host any) (*mem.Value, error) {
	if nilPointer(host) {
		return nil, errors.WithMessagef(ErrNilPayload, "%T", host)
	}

	switch x := host.(type) {
	case *Value:
		return x.v, nil
	case *mem.Value:
		return x, nil
	case Qualified:
		return m.importQualified(x)
	case Article:
		return m.importArticle(x)
	}

	return m.importUnqualified(host)
}

func (m *Machine) importUnqualified(host any) (*mem.Value, error) {
	if host == nil {
		return m.pool.SimpleExcuse("No_Reason")
	}

	if i, ok := hostInteger(host); ok {
		return m.pool.Integer(i), nil
	}

	switch x := host.(type) {
	case bool:
		return m.pool.Boolean(x), nil
	case *big.Rat:
		return m.pool.Rat(x), nil
	case []bool:
		return m.pool.Bits(mem.NewBits(x)), nil
	case []byte:
		return m.pool.Blob(x), nil
	case string:
		return m.pool.TextOf(x)
	}

	return nil, errors.WithMessagef(ErrUnhandledShape, "%T", host)
}

func (m *Machine) importQualified(q Qualified) (*mem.Value, error) {
	if err := m.checkKey(q.Key); err != nil {
		return nil, err
	}

	if q.Value == nil {
		switch q.Key {
		case "Excuse":
			return m.pool.SimpleExcuse("No_Reason")
		case keyNewProcess:
			return m.pool.Process(), nil
		case keyNewStream:
			return m.pool.Stream(), nil
		case keyNewExternal:
			return m.pool.External(nil), nil
		}

		return nil, errors.WithMessagef(ErrNilPayload, "key '%s'", q.Key)
	}

	if nilPointer(q.Value) {
		return nil, errors.WithMessagef(ErrNilPayload, "key '%s' with %T", q.Key, q.Value)
	}

	switch q.Key {
	case "Boolean":
		if b, ok := q.Value.(bool); ok {
			return m.pool.Boolean(b), nil
		}

	case "Integer":
		if i, ok := hostInteger(q.Value); ok {
			return m.pool.Integer(i), nil
		}

	case "Fraction":
		return m.importFraction(q.Value)

	case "Bits":
		if bs, ok := q.Value.([]bool); ok {
			return m.pool.Bits(mem.NewBits(bs)), nil
		}

	case "Blob":
		if b, ok := q.Value.([]byte); ok {
			return m.pool.Blob(b), nil
		}

	case "Text":
		if s, ok := q.Value.(string); ok {
			return m.pool.TextOf(s)
		}

	case "Array", "Set", "Bag":
		if members, ok := q.Value.([]any); ok {
			return m.importCollection(q.Key, members)
		}

	case "Tuple":
		return m.importTuple(q.Value)

	case "Heading":
		return m.importHeading(q.Value)

	case "Tuple_Array", "Relation", "Tuple_Bag":
		return m.importRelational(q.Key, q.Value)

	case keyArticle:
		if a, ok := q.Value.(Article); ok {
			return m.importArticle(a)
		}

	case keyNewVariable:
		initial, err := m.importTree(q.Value)
		if err != nil {
			return nil, err
		}
		return m.pool.Variable(initial), nil

	case keyNewProcess, keyNewStream:
		// payload must be nil

	case keyNewExternal:
		return m.pool.External(q.Value), nil

	case "Excuse":
		if s, ok := q.Value.(string); ok {
			return m.pool.SimpleExcuse(s)
		}

	case "Attr_Name":
		if s, ok := q.Value.(string); ok {
			return m.pool.AttrNameOf(s)
		}

	case "Attr_Name_List":
		if ss, ok := q.Value.([]string); ok {
			return m.importAttrNameList(ss)
		}
	}

	return nil, errors.WithMessagef(ErrUnhandledShape, "key '%s' with %T", q.Key, q.Value)
}

// checkKey verifies that key names either a well-known type or one of the
// special selectors.
func (m *Machine) checkKey(key string) error {
	switch key {
	case keyArticle, keyNewVariable, keyNewProcess, keyNewStream, keyNewExternal:
		return nil
	}

	if m.catalog != nil {
		if _, ok := m.catalog.Type(key); !ok {
			return errors.WithMessagef(ErrUnhandledShape, "unknown key '%s'", key)
		}
	} else if _, ok := wkt.Parse(key); !ok {
		return errors.WithMessagef(ErrUnhandledShape, "unknown key '%s'", key)
	}

	return nil
}

func (m *Machine) importFraction(host any) (*mem.Value, error) {
	switch x := host.(type) {
	case *big.Rat:
		return m.pool.Rat(x), nil

	case string:
		if num, den, ok := strings.Cut(x, "/"); ok {
			n, okNum := new(big.Int).SetString(strings.TrimSpace(num), 10)
			d, okDen := new(big.Int).SetString(strings.TrimSpace(den), 10)
			if !okNum || !okDen {
				return nil, errors.WithMessagef(ErrUnhandledShape, "fraction %q", x)
			}
			return m.pool.Fraction(n, d)
		}

		r, ok := new(big.Rat).SetString(x)
		if !ok {
			return nil, errors.WithMessagef(ErrUnhandledShape, "fraction %q", x)
		}
		return m.pool.Rat(r), nil

	case Ratio:
		num, err := m.ratioTerm(x.Num)
		if err != nil {
			return nil, err
		}
		den, err := m.ratioTerm(x.Den)
		if err != nil {
			return nil, err
		}
		return m.pool.Fraction(num, den)
	}

	return nil, errors.WithMessagef(ErrUnhandledShape, "fraction %T", host)
}

func (m *Machine) ratioTerm(host any) (*big.Int, error) {
	if host == nil || nilPointer(host) {
		return nil, errors.WithMessage(ErrNilPayload, "ratio term")
	}

	if i, ok := hostInteger(host); ok {
		return i, nil
	}

	var v *mem.Value
	switch x := host.(type) {
	case *Value:
		v = x.v
	case *mem.Value:
		v = x
	default:
		return nil, errors.WithMessagef(ErrUnhandledShape, "ratio term %T", host)
	}

	return v.Integer()
}

func (m *Machine) importCollection(key string, hosts []any) (*mem.Value, error) {
	members := make([]*mem.Value, len(hosts))
	for i, h := range hosts {
		v, err := m.importTree(h)
		if err != nil {
			return nil, errors.Wrapf(err, "member %d", i)
		}
		members[i] = v
	}

	switch key {
	case "Set":
		return m.pool.Set(members), nil

	case "Bag":
		ms := make([]mem.MultipliedMember, len(members))
		for i, v := range members {
			ms[i] = mem.MultipliedMember{Member: v, Multiplicity: 1}
		}
		return m.pool.Bag(ms, false)
	}

	return m.pool.Array(members, false), nil
}

func (m *Machine) importTuple(host any) (*mem.Value, error) {
	switch x := host.(type) {
	case []any:
		attrs := make([]mem.Attr, len(x))
		for i, h := range x {
			v, err := m.importTree(h)
			if err != nil {
				return nil, errors.Wrapf(err, "attribute %d", i)
			}
			attrs[i] = mem.Attr{Name: m.pool.Codepoints([]rune{rune(i)}), Value: v}
		}
		return m.pool.TupleFromAttrs(attrs)

	case map[string]any:
		attrs := make(map[string]*mem.Value, len(x))
		for name, h := range x {
			v, err := m.importTree(h)
			if err != nil {
				return nil, errors.Wrapf(err, "attribute %q", name)
			}
			attrs[name] = v
		}
		return m.pool.TupleOf(attrs)
	}

	return nil, errors.WithMessagef(ErrUnhandledShape, "tuple %T", host)
}

func (m *Machine) importHeading(host any) (*mem.Value, error) {
	var names []string
	switch x := host.(type) {
	case []bool:
		for i, b := range x {
			if b {
				names = append(names, string(rune(i)))
			}
		}

	case []string:
		names = x

	case map[string]bool:
		for name, b := range x {
			if b {
				names = append(names, name)
			}
		}

	default:
		return nil, errors.WithMessagef(ErrUnhandledShape, "heading %T", host)
	}

	if err := checkNames(names); err != nil {
		return nil, err
	}

	return m.pool.Heading(names...)
}

func (m *Machine) importRelational(key string, host any) (*mem.Value, error) {
	v, err := m.importTree(host)
	if err != nil {
		return nil, err
	}

	if v.Is(wkt.Heading) {
		switch key {
		case "Tuple_Array":
			return m.pool.TupleArray(v, m.pool.EmptyArray())
		case "Relation":
			return m.pool.Relation(v, m.pool.EmptySet())
		default:
			return m.pool.TupleBag(v, m.pool.EmptyBag())
		}
	}

	switch key {
	case "Tuple_Array":
		return m.pool.TupleArrayFromBody(v)
	case "Relation":
		return m.pool.RelationFromBody(v)
	default:
		return m.pool.TupleBagFromBody(v)
	}
}

func (m *Machine) importArticle(a Article) (*mem.Value, error) {
	if a.Attrs == nil {
		return nil, errors.WithMessage(ErrNilPayload, "article attrs")
	}

	attrs, err := m.importTree(a.Attrs)
	if err != nil {
		return nil, err
	}
	if attrs.Kind() != mem.KindTuple {
		return nil, errors.WithMessagef(mem.ErrWrongKind, "article attrs is %s", attrs.Kind())
	}

	var label *mem.Value
	switch x := a.Label.(type) {
	case string:
		label, err = m.pool.AttrNameOf(x)
	case []string:
		label, err = m.importAttrNameList(x)
	case nil:
		err = errors.WithMessage(ErrNilPayload, "article label")
	default:
		label, err = m.importTree(x)
	}
	if err != nil {
		return nil, err
	}

	return m.pool.Capsule(label, attrs)
}

func (m *Machine) importAttrNameList(names []string) (*mem.Value, error) {
	if err := checkNames(names); err != nil {
		return nil, err
	}

	members := make([]*mem.Value, len(names))
	for i, name := range names {
		v, err := m.pool.AttrNameOf(name)
		if err != nil {
			return nil, err
		}
		members[i] = v
	}

	return m.pool.Array(members, false), nil
}

// checkNames reports every malformed name.
func checkNames(names []string) (err error) {
	for _, name := range names {
		if !utf8.ValidString(name) {
			err = multierr.Append(err, errors.WithMessagef(mem.ErrMalformedText, "name %q", name))
		}
	}
	return
}

// nilPointer reports whether host is a nil pointer of a shape that Import
// would otherwise dereference.
func nilPointer(host any) bool {
	switch x := host.(type) {
	case *Value:
		return x == nil || x.v == nil
	case *mem.Value:
		return x == nil
	case *big.Int:
		return x == nil
	case *big.Rat:
		return x == nil
	}

	return false
}

func hostInteger(host any) (*big.Int, bool) {
	switch x := host.(type) {
	case int:
		return big.NewInt(int64(x)), true
	case int8:
		return big.NewInt(int64(x)), true
	case int16:
		return big.NewInt(int64(x)), true
	case int32:
		return big.NewInt(int64(x)), true
	case int64:
		return big.NewInt(x), true
	case uint:
		return new(big.Int).SetUint64(uint64(x)), true
	case uint8:
		return big.NewInt(int64(x)), true
	case uint16:
		return big.NewInt(int64(x)), true
	case uint32:
		return big.NewInt(int64(x)), true
	case uint64:
		return new(big.Int).SetUint64(x), true
	case *big.Int:
		return x, x != nil
	}

	return nil, false
}
