// Package wkt enumerates the Muldis D types that are well-known to the engine.
//
// A value is typically a member of several well-known types at once (every
// Attr_Name is also a Heading and a Tuple).  Membership is memoized on each
// value as a TypeSet, which is populated once while the value is constructed and
// is never recomputed from the payload afterwards.
//
// The Muldis D "Any" type is omitted, since it implicitly always applies.
package wkt

import (
	"math/bits"
	"strconv"
	"strings"
)

// Type is a well-known type.
type Type uint8

const (
	Excuse Type = iota
	Boolean
	Integer
	IntegerNN
	IntegerP
	Fraction
	Bits
	Blob
	Text
	TextUnicode
	TextASCII
	Array
	String
	Set
	Bag
	Tuple
	TupleArray
	Relation
	TupleBag
	Interval
	Capsule
	Handle
	Variable
	Process
	Stream
	External
	Package
	Function
	Procedure
	Signature
	SignatureConjunction
	SignatureDisjunction
	SignatureTupleAttrsMatchSimple
	SignatureTupleAttrsMatch
	SignatureCapsuleMatch
	Expression
	Literal
	Args
	Evaluates
	ArraySelector
	SetSelector
	BagSelector
	TupleSelector
	CapsuleSelector
	IfThenElseExpr
	AndThen
	OrElse
	GivenWhenDefaultExpr
	Guard
	Factorization
	Expansion
	Vars
	New
	Current
	Statement
	Declare
	Performs
	IfThenElseStmt
	GivenWhenDefaultStmt
	Block
	Leave
	Iterate
	Heading
	AttrName
	AttrNameList
	LocalName
	AbsoluteName
	RoutineCall
	FunctionCall
	FunctionCallBut0
	FunctionCallBut01
	ProcedureCall

	numTypes
)

var names = [numTypes]string{
	Excuse:                         "Excuse",
	Boolean:                        "Boolean",
	Integer:                        "Integer",
	IntegerNN:                      "Integer_NN",
	IntegerP:                       "Integer_P",
	Fraction:                       "Fraction",
	Bits:                           "Bits",
	Blob:                           "Blob",
	Text:                           "Text",
	TextUnicode:                    "Text__Unicode",
	TextASCII:                      "Text__ASCII",
	Array:                          "Array",
	String:                         "String",
	Set:                            "Set",
	Bag:                            "Bag",
	Tuple:                          "Tuple",
	TupleArray:                     "Tuple_Array",
	Relation:                       "Relation",
	TupleBag:                       "Tuple_Bag",
	Interval:                       "Interval",
	Capsule:                        "Capsule",
	Handle:                         "Handle",
	Variable:                       "Variable",
	Process:                        "Process",
	Stream:                         "Stream",
	External:                       "External",
	Package:                        "Package",
	Function:                       "Function",
	Procedure:                      "Procedure",
	Signature:                      "Signature",
	SignatureConjunction:           "Signature__Conjunction",
	SignatureDisjunction:           "Signature__Disjunction",
	SignatureTupleAttrsMatchSimple: "Signature__Tuple_Attrs_Match_Simple",
	SignatureTupleAttrsMatch:       "Signature__Tuple_Attrs_Match",
	SignatureCapsuleMatch:          "Signature__Capsule_Match",
	Expression:                     "Expression",
	Literal:                        "Literal",
	Args:                           "Args",
	Evaluates:                      "Evaluates",
	ArraySelector:                  "Array_Selector",
	SetSelector:                    "Set_Selector",
	BagSelector:                    "Bag_Selector",
	TupleSelector:                  "Tuple_Selector",
	CapsuleSelector:                "Capsule_Selector",
	IfThenElseExpr:                 "If_Then_Else_Expr",
	AndThen:                        "And_Then",
	OrElse:                         "Or_Else",
	GivenWhenDefaultExpr:           "Given_When_Default_Expr",
	Guard:                          "Guard",
	Factorization:                  "Factorization",
	Expansion:                      "Expansion",
	Vars:                           "Vars",
	New:                            "New",
	Current:                        "Current",
	Statement:                      "Statement",
	Declare:                        "Declare",
	Performs:                       "Performs",
	IfThenElseStmt:                 "If_Then_Else_Stmt",
	GivenWhenDefaultStmt:           "Given_When_Default_Stmt",
	Block:                          "Block",
	Leave:                          "Leave",
	Iterate:                        "Iterate",
	Heading:                        "Heading",
	AttrName:                       "Attr_Name",
	AttrNameList:                   "Attr_Name_List",
	LocalName:                      "Local_Name",
	AbsoluteName:                   "Absolute_Name",
	RoutineCall:                    "Routine_Call",
	FunctionCall:                   "Function_Call",
	FunctionCallBut0:               "Function_Call_But_0",
	FunctionCallBut01:              "Function_Call_But_0_1",
	ProcedureCall:                  "Procedure_Call",
}

var byName = func() map[string]Type {
	m := make(map[string]Type, numTypes)
	for t, name := range names {
		m[name] = Type(t)
	}
	return m
}()

// All returns every well-known type, in declaration order.
func All() []Type {
	ts := make([]Type, numTypes)
	for i := range ts {
		ts[i] = Type(i)
	}
	return ts
}

// Parse returns the well-known type with the given Muldis D name.
func Parse(name string) (t Type, ok bool) {
	t, ok = byName[name]
	return
}

func (t Type) String() string {
	if t < numTypes {
		return names[t]
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t designates a well-known type.
func (t Type) Valid() bool { return t < numTypes }

// TypeSet is a set of well-known types.  The zero value is the empty set.
type TypeSet struct{ bits [2]uint64 }

// Of returns a set containing the given types.
func Of(ts ...Type) (s TypeSet) {
	for _, t := range ts {
		s.Add(t)
	}
	return
}

// Add t to the set.
func (s *TypeSet) Add(t Type) {
	s.bits[t>>6] |= 1 << (t & 63)
}

// Has reports whether t is a member of the set.
func (s TypeSet) Has(t Type) bool {
	return t < numTypes && s.bits[t>>6]&(1<<(t&63)) != 0
}

// Len returns the number of members.
func (s TypeSet) Len() int {
	return bits.OnesCount64(s.bits[0]) + bits.OnesCount64(s.bits[1])
}

// Union returns the members of either set.
func (s TypeSet) Union(other TypeSet) TypeSet {
	return TypeSet{bits: [2]uint64{
		s.bits[0] | other.bits[0],
		s.bits[1] | other.bits[1],
	}}
}

// Types returns the members in ascending order.
func (s TypeSet) Types() []Type {
	ts := make([]Type, 0, s.Len())
	for t := Type(0); t < numTypes; t++ {
		if s.Has(t) {
			ts = append(ts, t)
		}
	}
	return ts
}

func (s TypeSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, t := range s.Types() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteByte('}')
	return b.String()
}
