package mem

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"

	"github.com/muldis/mre/pkg/wkt"
)

// String renders v in a Muldis D Plain Text-like notation.  The rendering is
// intended for diagnostics.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}

	var b strings.Builder
	render(&b, v)
	return b.String()
}

func render(b *strings.Builder, v *Value) {
	switch x := v.payload.(type) {
	case boolean:
		if x {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}

	case integer:
		b.WriteString(x.v.String())

	case fraction:
		b.WriteString(x.v.RatString())
		if x.v.IsInt() {
			b.WriteString("/1")
		}

	case *ArrayNode:
		renderArray(b, v.kind, x)

	case *BagNode:
		renderBag(b, v.kind, x)

	case *TupleStruct:
		b.WriteByte('(')
		renderAttrs(b, x)
		b.WriteByte(')')

	case *CapsuleStruct:
		b.WriteByte('(')
		if x.label.Is(wkt.AttrName) {
			renderName(b, x.label.payload.(*TupleStruct).Names()[0])
		} else {
			render(b, x.label)
		}
		b.WriteString(" : ")
		render(b, x.attrs)
		b.WriteByte(')')

	case *HandleStruct:
		b.WriteString(x.typ.String())
		b.WriteByte('#')
		b.WriteString(x.id.String())
	}
}

func renderArray(b *strings.Builder, k Kind, n *ArrayNode) {
	switch k {
	case KindBits:
		b.WriteString("0bb")
		n.each(func(e element) bool {
			b.WriteByte(byte('0' + e.code))
			return true
		})

	case KindBlob:
		buf := make([]byte, 0, n.count)
		n.each(func(e element) bool {
			buf = append(buf, byte(e.code))
			return true
		})
		b.WriteString("0xx")
		b.WriteString(strings.ToUpper(hex.EncodeToString(buf)))

	case KindText:
		cps := make([]rune, 0, n.count)
		n.each(func(e element) bool {
			cps = append(cps, rune(e.code))
			return true
		})
		renderText(b, cps)

	default:
		b.WriteByte('[')
		i := 0
		n.each(func(e element) bool {
			if i > 0 {
				b.WriteString(", ")
			}
			i++
			if e.v == nil {
				b.WriteString(strconv.FormatInt(e.code, 10))
			} else {
				render(b, e.v)
			}
			return true
		})
		b.WriteByte(']')
	}
}

func renderBag(b *strings.Builder, k Kind, n *BagNode) {
	b.WriteByte('{')
	i := 0
	n.Each(func(m MultipliedMember) bool {
		if i > 0 {
			b.WriteString(", ")
		}
		i++
		render(b, m.Member)
		if k == KindBag {
			b.WriteString(" : ")
			b.WriteString(strconv.FormatInt(m.Multiplicity, 10))
		}
		return true
	})
	b.WriteByte('}')
}

func renderAttrs(b *strings.Builder, t *TupleStruct) {
	for i, a := range t.Attrs() {
		if i > 0 {
			b.WriteString(", ")
		}
		renderName(b, a.Name)
		b.WriteString(" : ")
		render(b, a.Value)
	}
}

func renderName(b *strings.Builder, name CodepointArray) {
	if name.Len() == 1 && name.At(0) >= 0 && name.At(0) < 0x20 {
		b.WriteString(strconv.Itoa(int(name.At(0))))
		return
	}

	if name.Len() > 0 && name.Valid() && isIdentifier(name.cps) {
		b.WriteString(name.key)
		return
	}

	renderQuoted(b, '\'', name.cps)
}

func renderText(b *strings.Builder, cps []rune) {
	renderQuoted(b, '"', cps)
}

func renderQuoted(b *strings.Builder, q rune, cps []rune) {
	b.WriteRune(q)
	for _, r := range cps {
		switch {
		case r == q || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 0x20 && r < 0x7F:
			b.WriteRune(r)
		default:
			b.WriteString(`\(0u`)
			b.WriteString(strings.ToUpper(strconv.FormatInt(int64(r), 16)))
			b.WriteByte(')')
		}
	}
	b.WriteRune(q)
}

func isIdentifier(cps []rune) bool {
	for i, r := range cps {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
