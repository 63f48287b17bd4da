// Package catalog provides an indexed, read-only view of the names that are
// fixed by the engine:  well-known types, foundation functions, name
// qualifiers, well-known excuses and seeded attribute names.
package catalog

import (
	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"

	"github.com/muldis/mre/pkg/wkt"
)

// Type is a well-known type entry.
type Type struct {
	Name string
	Type wkt.Type
}

// Function is a foundation function entry.
type Function struct {
	Name    string
	Arity   int
	Definer bool
}

// Qualifier is a main qualifier of a Local_Name or Absolute_Name.
type Qualifier struct {
	Name     string
	Absolute bool
}

type name struct{ Name string }

// Catalog is safe for concurrent use.
type Catalog struct {
	sched scheduler

	types, functions, qualifiers, excuses, attrNames tableRef
}

// New catalog, populated with every registry in package wkt.
func New() (*Catalog, error) {
	var (
		f factory
		c Catalog
	)

	c.types = f.register(&memdb.TableSchema{
		Name: "types",
		Indexes: map[string]*memdb.IndexSchema{
			"id": nameIndex(),
		},
	})

	c.functions = f.register(&memdb.TableSchema{
		Name: "functions",
		Indexes: map[string]*memdb.IndexSchema{
			"id": nameIndex(),
			"arity": {
				Name:    "arity",
				Indexer: &memdb.IntFieldIndex{Field: "Arity"},
			},
		},
	})

	c.qualifiers = f.register(&memdb.TableSchema{
		Name: "qualifiers",
		Indexes: map[string]*memdb.IndexSchema{
			"id": {
				Name:   "id",
				Unique: true,
				Indexer: &memdb.CompoundIndex{
					Indexes: []memdb.Indexer{
						&memdb.StringFieldIndex{Field: "Name"},
						&memdb.BoolFieldIndex{Field: "Absolute"},
					},
				},
			},
		},
	})

	c.excuses = f.register(&memdb.TableSchema{
		Name:    "excuses",
		Indexes: map[string]*memdb.IndexSchema{"id": nameIndex()},
	})

	c.attrNames = f.register(&memdb.TableSchema{
		Name:    "attr_names",
		Indexes: map[string]*memdb.IndexSchema{"id": nameIndex()},
	})

	var err error
	if c.sched, err = f.newScheduler(); err != nil {
		return nil, errors.Wrap(err, "schema")
	}

	if err = c.populate(); err != nil {
		return nil, errors.Wrap(err, "populate")
	}

	return &c, nil
}

func nameIndex() *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:    "id",
		Unique:  true,
		Indexer: &memdb.StringFieldIndex{Field: "Name"},
	}
}

func (c *Catalog) populate() error {
	tx := c.sched.txn(true)
	defer tx.Abort()

	for _, t := range wkt.All() {
		if err := tx.Insert(c.types, &Type{Name: t.String(), Type: t}); err != nil {
			return err
		}
	}

	for arity, names := range map[int][]string{
		1: wkt.UnaryFunctionNames(),
		2: wkt.BinaryFunctionNames(),
		3: wkt.TernaryFunctionNames(),
	} {
		for _, n := range names {
			if err := tx.Insert(c.functions, &Function{Name: n, Arity: arity}); err != nil {
				return err
			}
		}
	}

	for _, n := range wkt.DefinerFunctionNames() {
		if err := tx.Insert(c.functions, &Function{Name: n, Arity: 1, Definer: true}); err != nil {
			return err
		}
	}

	for absolute, names := range map[bool][]string{
		false: wkt.LocalNameQualifiers(),
		true:  wkt.AbsoluteNameQualifiers(),
	} {
		for _, n := range names {
			if err := tx.Insert(c.qualifiers, &Qualifier{Name: n, Absolute: absolute}); err != nil {
				return err
			}
		}
	}

	for _, n := range wkt.WellKnownExcuses() {
		if err := tx.Insert(c.excuses, &name{Name: n}); err != nil {
			return err
		}
	}

	for _, n := range wkt.SeededAttrNames() {
		if err := tx.Insert(c.attrNames, &name{Name: n}); err != nil {
			return err
		}
	}

	tx.Commit()
	return nil
}

// Type returns the well-known type with the given name.
func (c *Catalog) Type(name string) (wkt.Type, bool) {
	v, ok := c.first(c.types, "id", name)
	if !ok {
		return 0, false
	}

	return v.(*Type).Type, true
}

// Types returns the names of every well-known type, in lexical order.
func (c *Catalog) Types() []string {
	return c.names(c.types, "id")
}

// Function returns the foundation function with the given name.
func (c *Catalog) Function(name string) (Function, bool) {
	v, ok := c.first(c.functions, "id", name)
	if !ok {
		return Function{}, false
	}

	return *v.(*Function), true
}

// IsDefiner reports whether name designates a type-definer function.
func (c *Catalog) IsDefiner(name string) bool {
	f, ok := c.Function(name)
	return ok && f.Definer
}

// FunctionsOfArity returns the names of every foundation function that
// takes n arguments, in lexical order.
func (c *Catalog) FunctionsOfArity(n int) []string {
	return c.names(c.functions, "arity", n)
}

// FunctionsWithPrefix returns the names of every foundation function that
// begins with prefix, in lexical order.
func (c *Catalog) FunctionsWithPrefix(prefix string) []string {
	return c.names(c.functions, "id_prefix", prefix)
}

// IsWellKnownExcuse reports whether name is one of the interned excuses.
func (c *Catalog) IsWellKnownExcuse(name string) bool {
	_, ok := c.first(c.excuses, "id", name)
	return ok
}

// IsQualifier reports whether name is a main qualifier of an Absolute_Name
// (if absolute is set) or of a Local_Name.
func (c *Catalog) IsQualifier(name string, absolute bool) bool {
	_, ok := c.first(c.qualifiers, "id", name, absolute)
	return ok
}

// SeededAttrNames returns the attribute names that every pool interns, in
// lexical order.
func (c *Catalog) SeededAttrNames() []string {
	return c.names(c.attrNames, "id")
}

func (c *Catalog) first(table tableRef, index string, args ...any) (any, bool) {
	tx := c.sched.txn(false)
	defer tx.Abort()

	v, err := tx.First(table, index, args...)
	return v, err == nil && v != nil
}

func (c *Catalog) names(table tableRef, index string, args ...any) []string {
	tx := c.sched.txn(false)
	defer tx.Abort()

	it, err := tx.Get(table, index, args...)
	if err != nil {
		return nil
	}

	var ns []string
	for v := it.Next(); v != nil; v = it.Next() {
		switch x := v.(type) {
		case *Type:
			ns = append(ns, x.Name)
		case *Function:
			ns = append(ns, x.Name)
		case *name:
			ns = append(ns, x.Name)
		}
	}

	return ns
}
