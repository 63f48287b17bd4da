package mem

import (
	"math/big"
	"sync"
	"unicode/utf8"

	"github.com/lthibault/log"

	"github.com/muldis/mre/pkg/wkt"
)

// Pool produces values, and interns those that are statistically common.
// All methods are safe for concurrent use.
type Pool struct {
	log     log.Logger
	metrics Metrics
	limits  Limits

	mu             sync.Mutex
	integerCache   *cache[int64, *Value]
	codepointCache *cache[string, CodepointArray]
	textCache      *cache[string, *Value]
	attrNameCache  *cache[string, *Value]
	headingCache   *cache[string, *Value]
	excuses        map[string]*Value

	falseV, trueV       *Value
	emptyBits           *Value
	emptyBlob           *Value
	emptyText           *Value
	emptyArray          *Value
	emptySet, emptyBag  *Value
	nullaryTuple        *Value
	falseNullaryCapsule *Value
	excuseLabel         *Value
}

// New pool.
func New(opt ...Option) *Pool {
	p := new(Pool)
	for _, option := range withDefault(opt) {
		option(p)
	}

	p.integerCache = newCache[int64, *Value](p, "integer")
	p.codepointCache = newCache[string, CodepointArray](p, "codepoint")
	p.textCache = newCache[string, *Value](p, "text")
	p.attrNameCache = newCache[string, *Value](p, "attr_name")
	p.headingCache = newCache[string, *Value](p, "heading")
	p.excuses = make(map[string]*Value)

	p.seed()
	return p
}

func (p *Pool) seed() {
	p.falseV = newValue(KindBoolean, wkt.Of(wkt.Boolean), boolean(false))
	p.trueV = newValue(KindBoolean, wkt.Of(wkt.Boolean), boolean(true))

	for c := int64(-1); c <= 1; c++ {
		p.cachedInt64(c)
	}

	p.codepointCache.admit("", CodepointArray{})
	for r := rune(0); r < 0x80; r++ {
		p.codepointCache.admit(string(r), newCodepointArray([]rune{r}))
	}

	p.emptyBits = newValue(KindBits, wkt.Of(wkt.Bits), emptyArrayNode)
	p.emptyBlob = newValue(KindBlob, wkt.Of(wkt.Blob), emptyArrayNode)
	p.emptyText = newValue(KindText, wkt.Of(wkt.Text, wkt.TextUnicode, wkt.TextASCII), emptyArrayNode)
	p.emptyArray = newValue(KindArray, wkt.Of(wkt.Array, wkt.String, wkt.AttrNameList), emptyArrayNode)
	p.emptySet = newValue(KindSet, wkt.Of(wkt.Set), emptyBagNode)
	p.emptyBag = newValue(KindBag, wkt.Of(wkt.Bag), emptyBagNode)
	p.nullaryTuple = newValue(KindTuple, wkt.Of(wkt.Tuple, wkt.Heading), newTupleStruct([3]*Value{}, nil))
	p.falseNullaryCapsule = newValue(KindCapsule, wkt.Of(wkt.Capsule),
		&CapsuleStruct{label: p.falseV, attrs: p.nullaryTuple})

	for _, name := range positionalNames {
		p.attrName(name)
	}
	for _, name := range wkt.SeededAttrNames() {
		p.attrName(p.codepointsOf(name))
	}

	p.excuseLabel = p.attrName(p.codepointsOf(wkt.Excuse.String()))
	for _, name := range wkt.WellKnownExcuses() {
		p.excuses[name] = p.simpleExcuse(name)
	}
}

// Stats reports the number of entries in each cache.
type Stats struct {
	Integers   int
	Codepoints int
	Texts      int
	AttrNames  int
	Headings   int
}

// Stats returns a snapshot of the cache sizes.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Integers:   p.integerCache.len(),
		Codepoints: p.codepointCache.len(),
		Texts:      p.textCache.len(),
		AttrNames:  p.attrNameCache.len(),
		Headings:   p.headingCache.len(),
	}
}

// Loggable returns the cache sizes as log fields.
func (p *Pool) Loggable() map[string]any {
	s := p.Stats()
	return map[string]any{
		"integers":   s.Integers,
		"codepoints": s.Codepoints,
		"texts":      s.Texts,
		"attr_names": s.AttrNames,
		"headings":   s.Headings,
	}
}

// Limits returns the cache limits of the pool.
func (p *Pool) Limits() Limits { return p.limits }

// Boolean returns False or True.
func (p *Pool) Boolean(b bool) *Value {
	if b {
		return p.trueV
	}
	return p.falseV
}

// False returns the Boolean False.
func (p *Pool) False() *Value { return p.falseV }

// True returns the Boolean True.
func (p *Pool) True() *Value { return p.trueV }

// EmptyArray returns the empty Array, which is also the empty String.
func (p *Pool) EmptyArray() *Value { return p.emptyArray }

// EmptySet returns the empty Set.
func (p *Pool) EmptySet() *Value { return p.emptySet }

// EmptyBag returns the empty Bag.
func (p *Pool) EmptyBag() *Value { return p.emptyBag }

// NullaryTuple returns the Tuple with no attributes.
func (p *Pool) NullaryTuple() *Value { return p.nullaryTuple }

// Integer returns the Integer with the value of x, which is copied.
func (p *Pool) Integer(x *big.Int) *Value {
	if x.IsInt64() {
		return p.Int64(x.Int64())
	}

	return newValue(KindInteger, integerTypes(x.Sign()), integer{v: new(big.Int).Set(x)})
}

// Int64 returns the Integer with the value c.
func (p *Pool) Int64(c int64) *Value {
	if c < -p.limits.IntegerBound || c > p.limits.IntegerBound {
		return newValue(KindInteger, integerTypes(sign(c)), integer{v: big.NewInt(c)})
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cachedInt64(c)
}

// cachedInt64 must be called while holding p.mu, with c in the cacheable range.
func (p *Pool) cachedInt64(c int64) *Value {
	if v, ok := p.integerCache.lookup(c); ok {
		return v
	}

	v := newValue(KindInteger, integerTypes(sign(c)), integer{v: big.NewInt(c)})
	p.integerCache.admit(c, v)
	return v
}

func integerTypes(sign int) wkt.TypeSet {
	types := wkt.Of(wkt.Integer)
	if sign >= 0 {
		types.Add(wkt.IntegerNN)
	}
	if sign > 0 {
		types.Add(wkt.IntegerP)
	}
	return types
}

func sign(c int64) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}

// Fraction returns the Fraction num/den, in lowest terms.  Both arguments
// are copied.
func (p *Pool) Fraction(num, den *big.Int) (*Value, error) {
	switch {
	case num == nil:
		return nil, argError("num", ErrNilValue)
	case den == nil:
		return nil, argError("den", ErrNilValue)
	case den.Sign() == 0:
		return nil, argError("den", ErrZeroDenominator)
	}

	return p.Rat(new(big.Rat).SetFrac(num, den)), nil
}

// Rat returns the Fraction with the value of r, which is copied.
func (p *Pool) Rat(r *big.Rat) *Value {
	return newValue(KindFraction, wkt.Of(wkt.Fraction), fraction{v: new(big.Rat).Set(r)})
}

// Codepoints returns a CodepointArray holding a copy of cps.
func (p *Pool) Codepoints(cps []rune) CodepointArray {
	c := newCodepointArray(append([]rune(nil), cps...))

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.codepoints(c)
}

// CodepointsOf returns the codepoints of s, which must be valid UTF-8.
func (p *Pool) CodepointsOf(s string) (CodepointArray, error) {
	if !utf8.ValidString(s) {
		return CodepointArray{}, argErrorf("s", ErrMalformedText, "%q", s)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.codepointsOf(s), nil
}

// codepointsOf must be called while holding p.mu, with valid UTF-8.
func (p *Pool) codepointsOf(s string) CodepointArray {
	if utf8.RuneCountInString(s) <= p.limits.MaxCodepoints {
		if c, ok := p.codepointCache.lookup(s); ok {
			return c
		}
	}

	return p.codepoints(newCodepointArray([]rune(s)))
}

// codepoints interns c.  It must be called while holding p.mu.
func (p *Pool) codepoints(c CodepointArray) CodepointArray {
	if !p.mayCache(c) {
		return c
	}

	if cached, ok := p.codepointCache.lookup(c.key); ok {
		return cached
	}

	p.codepointCache.admit(c.key, c)
	return c
}

// mayCache reports whether c is short enough to intern, and losslessly
// representable as a Go string.
func (p *Pool) mayCache(c CodepointArray) bool {
	return c.Len() <= p.limits.MaxCodepoints && c.Valid()
}

// Bits returns the Bits value with the given members.
func (p *Pool) Bits(b Bits) *Value {
	if b.Len() == 0 {
		return p.emptyBits
	}
	return newValue(KindBits, wkt.Of(wkt.Bits), newLeaf(bitMembers(b), 1))
}

// Blob returns the Blob value holding a copy of b.
func (p *Pool) Blob(b []byte) *Value {
	if len(b) == 0 {
		return p.emptyBlob
	}
	return newValue(KindBlob, wkt.Of(wkt.Blob), newLeaf(append(octetMembers(nil), b...), 1))
}

// Text returns the Text value with the given codepoints.
func (p *Pool) Text(c CodepointArray) *Value {
	if c.Len() == 0 {
		return p.emptyText
	}

	if !p.mayCache(c) {
		return newText(c)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.textCache.lookup(c.key); ok {
		return v
	}

	v := newText(p.codepoints(c))
	p.textCache.admit(c.key, v)
	return v
}

// TextOf returns the Text value of s, which must be valid UTF-8.
func (p *Pool) TextOf(s string) (*Value, error) {
	c, err := p.CodepointsOf(s)
	if err != nil {
		return nil, err
	}

	return p.Text(c), nil
}

func newText(c CodepointArray) *Value {
	types := wkt.Of(wkt.Text)
	if c.Valid() {
		types.Add(wkt.TextUnicode)
	}
	if c.ASCII() {
		types.Add(wkt.TextASCII)
	}

	return newValue(KindText, types, newLeaf(codepointMembers(c), 1))
}
