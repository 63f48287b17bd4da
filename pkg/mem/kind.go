package mem

// Kind identifies the foundation type of a Value, which in turn selects the
// payload variant that the value carries.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindInteger
	KindFraction
	KindBits
	KindBlob
	KindText
	KindArray
	KindSet
	KindBag
	KindTuple
	KindCapsule
	KindHandle
)

var kindNames = [...]string{
	KindBoolean:  "Boolean",
	KindInteger:  "Integer",
	KindFraction: "Fraction",
	KindBits:     "Bits",
	KindBlob:     "Blob",
	KindText:     "Text",
	KindArray:    "Array",
	KindSet:      "Set",
	KindBag:      "Bag",
	KindTuple:    "Tuple",
	KindCapsule:  "Capsule",
	KindHandle:   "Handle",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(?)"
}

// arrayed reports whether values of kind k carry an *ArrayNode payload.
func (k Kind) arrayed() bool {
	switch k {
	case KindBits, KindBlob, KindText, KindArray:
		return true
	}

	return false
}

// bagged reports whether values of kind k carry a *BagNode payload.
func (k Kind) bagged() bool {
	return k == KindSet || k == KindBag
}
