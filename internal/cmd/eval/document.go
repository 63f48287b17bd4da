package eval

import (
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/muldis/mre/pkg/mdbp"
	"github.com/muldis/mre/pkg/mem"
)

/*
	Documents are YAML (or JSON) trees.  Scalars, sequences and mappings
	denote Booleans, Integers, Fractions, Texts, Arrays and Tuples.  Any
	other shape is qualified, either with a local tag or with a mapping
	whose only key is the type name prefixed with '$':

		!Set [1, 2, 3]
		{$Set: [1, 2, 3]}
*/

const qualifier = "$"

// host returns the host value denoted by a document node.
func host(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return host(n.Content[0])

	case yaml.AliasNode:
		return host(n.Alias)
	}

	if key, ok := localTag(n); ok {
		return qualified(key, n)
	}

	switch n.Kind {
	case yaml.SequenceNode:
		members, err := sequence(n)
		return mdbp.Qualified{Key: "Array", Value: members}, err

	case yaml.MappingNode:
		if len(n.Content) == 2 && strings.HasPrefix(n.Content[0].Value, qualifier) {
			return qualified(strings.TrimPrefix(n.Content[0].Value, qualifier), n.Content[1])
		}

		attrs, err := mapping(n)
		return mdbp.Qualified{Key: "Tuple", Value: attrs}, err
	}

	return scalar(n)
}

func localTag(n *yaml.Node) (string, bool) {
	tag := n.ShortTag()
	if len(tag) > 1 && tag[0] == '!' && tag[1] != '!' {
		return tag[1:], true
	}
	return "", false
}

func scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil

	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err

	case "!!int":
		i, ok := new(big.Int).SetString(n.Value, 0)
		if !ok {
			return nil, errorf(n, "malformed integer %q", n.Value)
		}
		return i, nil

	case "!!float":
		// integers beyond uint64 resolve as floats
		if i, ok := new(big.Int).SetString(n.Value, 0); ok {
			return i, nil
		}

		r, ok := new(big.Rat).SetString(n.Value)
		if !ok {
			return nil, errorf(n, "%q is not a rational number", n.Value)
		}
		return r, nil

	case "!!binary":
		return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
	}

	return n.Value, nil
}

func sequence(n *yaml.Node) ([]any, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errorf(n, "expected a sequence")
	}

	members := make([]any, len(n.Content))
	for i, c := range n.Content {
		v, err := host(c)
		if err != nil {
			return nil, err
		}
		members[i] = v
	}
	return members, nil
}

func mapping(n *yaml.Node) (map[string]any, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "expected a mapping")
	}

	attrs := make(map[string]any, len(n.Content)/2)
	for i := 0; i < len(n.Content); i += 2 {
		v, err := host(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		attrs[n.Content[i].Value] = v
	}
	return attrs, nil
}

func strs(n *yaml.Node) ([]string, error) {
	var ss []string
	if err := n.Decode(&ss); err != nil {
		return nil, errorf(n, "expected a sequence of names")
	}
	return ss, nil
}

// qualified returns the host value of n, qualified by key.  The payload
// shape depends on the key.
func qualified(key string, n *yaml.Node) (any, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	var (
		v   any
		err error
	)

	switch key {
	case "Integer":
		if v, err = scalar(n); err == nil {
			if _, ok := v.(*big.Int); !ok {
				v, err = integer(n)
			}
		}

	case "Fraction", "Text", "Attr_Name", "Excuse", "New_External":
		if n.ShortTag() != "!!null" {
			v = n.Value
		}

	case "Bits":
		v, err = bits(n)

	case "Blob":
		v, err = hex.DecodeString(n.Value)

	case "Heading", "Attr_Name_List":
		v, err = strs(n)

	case "Array", "Set", "Bag":
		v, err = sequence(n)

	case "Tuple":
		if n.Kind == yaml.SequenceNode {
			v, err = sequence(n)
		} else {
			v, err = mapping(n)
		}

	case "Article":
		v, err = article(n)

	case "Tuple_Array", "Relation", "Tuple_Bag":
		if n.Kind == yaml.SequenceNode {
			var members []any
			if members, err = sequence(n); err == nil {
				v = mdbp.Qualified{Key: bodies[key], Value: members}
			}
		} else {
			v, err = untagged(n)
		}

	default:
		// Boolean and the handle constructors
		v, err = untagged(n)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "%s", key)
	}

	if key == "Article" {
		return v, nil
	}
	return mdbp.Qualified{Key: key, Value: v}, nil
}

// bodies maps relational types to the collection type of their body.
var bodies = map[string]string{
	"Tuple_Array": "Array",
	"Relation":    "Set",
	"Tuple_Bag":   "Bag",
}

// untagged returns the host value of n, ignoring its local tag.
func untagged(n *yaml.Node) (any, error) {
	c := *n
	c.Tag = ""
	return host(&c)
}

func integer(n *yaml.Node) (*big.Int, error) {
	i, ok := new(big.Int).SetString(n.Value, 0)
	if !ok {
		return nil, errorf(n, "malformed integer %q", n.Value)
	}
	return i, nil
}

func bits(n *yaml.Node) ([]bool, error) {
	if n.Kind == yaml.SequenceNode {
		var bs []bool
		if err := n.Decode(&bs); err != nil {
			return nil, errorf(n, "expected a sequence of booleans")
		}
		return bs, nil
	}

	bs := make([]bool, len(n.Value))
	for i, r := range n.Value {
		switch r {
		case '0':
		case '1':
			bs[i] = true
		default:
			return nil, errorf(n, "%q is not a bit string", n.Value)
		}
	}
	return bs, nil
}

func article(n *yaml.Node) (mdbp.Article, error) {
	var a struct {
		Label yaml.Node `yaml:"label"`
		Attrs yaml.Node `yaml:"attrs"`
	}
	if err := n.Decode(&a); err != nil {
		return mdbp.Article{}, errorf(n, "expected a mapping of label and attrs")
	}

	var (
		art mdbp.Article
		err error
	)

	switch {
	case a.Label.Kind == 0:
		return art, errorf(n, "article has no label")
	case a.Label.Kind == yaml.ScalarNode && a.Label.ShortTag() == "!!str":
		art.Label = a.Label.Value
	case a.Label.Kind == yaml.SequenceNode:
		if art.Label, err = strs(&a.Label); err != nil {
			return art, err
		}
	default:
		if art.Label, err = host(&a.Label); err != nil {
			return art, err
		}
	}

	if a.Attrs.Kind == 0 {
		return art, errorf(n, "article has no attrs")
	}
	art.Attrs, err = host(&a.Attrs)
	return art, err
}

func errorf(n *yaml.Node, format string, args ...any) error {
	return errors.WithMessagef(mdbp.ErrUnhandledShape, "line %d: "+format,
		append([]any{n.Line}, args...)...)
}

// document returns a tree that encodes as a document denoting the same
// value as the exported host tree.  Handles are rendered as text and do
// not survive the round trip.
func document(tree any) any {
	switch x := tree.(type) {
	case *big.Int:
		return map[string]any{qualifier + "Integer": x.String()}

	case []byte:
		return map[string]any{qualifier + "Blob": hex.EncodeToString(x)}

	case []bool:
		var b strings.Builder
		for _, bit := range x {
			if bit {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		return map[string]any{qualifier + "Bits": b.String()}

	case *mem.Value:
		return x.String()

	case mdbp.Article:
		return map[string]any{qualifier + "Article": map[string]any{
			"label": document(x.Label),
			"attrs": document(x.Attrs),
		}}

	case mdbp.Qualified:
		return qualifiedDocument(x)
	}

	return tree
}

func qualifiedDocument(q mdbp.Qualified) any {
	switch v := q.Value.(type) {
	case *big.Rat:
		return map[string]any{qualifier + q.Key: v.RatString()}

	case []any:
		members := make([]any, len(v))
		for i, m := range v {
			members[i] = document(m)
		}
		if q.Key == "Array" {
			return members
		}
		return map[string]any{qualifier + q.Key: members}

	case map[string]any:
		attrs := make(map[string]any, len(v))
		for name, a := range v {
			attrs[name] = document(a)
		}
		if len(attrs) == 1 {
			for name := range attrs {
				if strings.HasPrefix(name, qualifier) {
					return map[string]any{qualifier + q.Key: attrs}
				}
			}
		}
		return attrs
	}

	return map[string]any{qualifier + q.Key: document(q.Value)}
}
