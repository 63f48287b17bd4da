package catalog

import "github.com/hashicorp/go-memdb"

// tableRef designates a table in a scheduler.  The table's name is kept in
// a private field, so that only holders of the ref can address the table.
type tableRef struct {
	name string
}

// factory populates a memdb schema and hands out tableRefs.
type factory struct {
	schema *memdb.DBSchema
}

// Register a table schema.  If a table already exists with the supplied
// name, register panics.
func (f *factory) register(t *memdb.TableSchema) tableRef {
	if f.schema == nil {
		f.schema = &memdb.DBSchema{
			Tables: make(map[string]*memdb.TableSchema, 1),
		}
	}

	if _, exists := f.schema.Tables[t.Name]; exists {
		panic("schema collision")
	}

	f.schema.Tables[t.Name] = t
	return tableRef{name: t.Name}
}

// newScheduler returns a scheduler, initialized with the tables that have
// been registered before the call.
func (f *factory) newScheduler() (s scheduler, err error) {
	s.db, err = memdb.NewMemDB(f.schema)
	return
}

// scheduler provides isolated transactions over the catalog tables.
//
// Objects are not copied, and MUST NOT be modified after insertion.
type scheduler struct {
	db *memdb.MemDB
}

// txn starts a new transaction in either read or write mode.  There can
// only be a single concurrent writer, but any number of readers.
func (s scheduler) txn(write bool) txn {
	return txn{txn: s.db.Txn(write)}
}

// txn is a transaction against a scheduler.
type txn struct {
	txn *memdb.Txn
}

func (t txn) Abort()  { t.txn.Abort() }
func (t txn) Commit() { t.txn.Commit() }

func (t txn) Insert(table tableRef, v any) error {
	return t.txn.Insert(table.name, v)
}

func (t txn) First(table tableRef, index string, args ...any) (any, error) {
	return t.txn.First(table.name, index, args...)
}

func (t txn) Get(table tableRef, index string, args ...any) (memdb.ResultIterator, error) {
	return t.txn.Get(table.name, index, args...)
}
