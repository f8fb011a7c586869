package reql

import p "github.com/reql-go/reql/ql2"

// This file is the generated-term surface: one constructor per ReQL term,
// each a thin shell over constructRootTerm/constructMethodTerm (term.go).
// A full build would add the remaining few hundred mechanically in the same
// shape; these cover a commonly used subset.

// DB selects a database by name.
func DB(name string) Term {
	return constructRootTerm("db", p.Term_DB, []interface{}{name}, nil)
}

// DBCreate creates a database.
func DBCreate(name string) Term {
	return constructRootTerm("dbCreate", p.Term_DB_CREATE, []interface{}{name}, nil)
}

// DBDrop drops a database.
func DBDrop(name string) Term {
	return constructRootTerm("dbDrop", p.Term_DB_DROP, []interface{}{name}, nil)
}

// DBList lists databases.
func DBList() Term {
	return constructRootTerm("dbList", p.Term_DB_LIST, nil, nil)
}

// Args spreads a host slice as a variadic argument list.
func Args(val interface{}) Term {
	return constructRootTerm("args", p.Term_ARGS, []interface{}{val}, nil)
}

// JS evaluates a server-side JavaScript expression.
func JS(js string) Term {
	return constructRootTerm("js", p.Term_JAVASCRIPT, []interface{}{js}, nil)
}

// HTTP issues a server-side HTTP request.
func HTTP(url string) Term {
	return constructRootTerm("http", p.Term_HTTP, []interface{}{url}, nil)
}

// UUID generates a random (or, given a seed, deterministic) UUID.
func UUID(seed ...string) Term {
	args := make([]interface{}, len(seed))
	for i, s := range seed {
		args[i] = s
	}
	return constructRootTerm("uuid", p.Term_UUID, args, nil)
}

// Now returns the server's current time.
func Now() Term {
	return constructRootTerm("now", p.Term_NOW, nil, nil)
}

// ISO8601 parses an ISO8601 timestamp string into a ReQL time.
func ISO8601(t string) Term {
	return constructRootTerm("ISO8601", p.Term_ISO8601, []interface{}{t}, nil)
}

// EpochTime builds a ReQL time from a Unix timestamp.
func EpochTime(seconds float64) Term {
	return constructRootTerm("epochTime", p.Term_EPOCH_TIME, []interface{}{seconds}, nil)
}

// Branch is the ternary conditional term.
func Branch(test, trueBranch, falseBranch interface{}) Term {
	return constructRootTerm("branch", p.Term_BRANCH, []interface{}{test, trueBranch, falseBranch}, nil)
}

// Table selects a table in the default database.
func Table(name string) Term {
	return constructRootTerm("table", p.Term_TABLE, []interface{}{name}, nil)
}

// Table selects a table within db.
func (t Term) Table(name string) Term {
	return constructMethodTerm(t, "table", p.Term_TABLE, []interface{}{name}, nil)
}

// TableCreate creates a table in the default database.
func TableCreate(name string) Term {
	return constructRootTerm("tableCreate", p.Term_TABLE_CREATE, []interface{}{name}, nil)
}

func (t Term) TableCreate(name string) Term {
	return constructMethodTerm(t, "tableCreate", p.Term_TABLE_CREATE, []interface{}{name}, nil)
}

func (t Term) TableDrop(name string) Term {
	return constructMethodTerm(t, "tableDrop", p.Term_TABLE_DROP, []interface{}{name}, nil)
}

func (t Term) TableList() Term {
	return constructMethodTerm(t, "tableList", p.Term_TABLE_LIST, nil, nil)
}

// Get fetches a single document by primary key.
func (t Term) Get(key interface{}) Term {
	return constructMethodTerm(t, "get", p.Term_GET, []interface{}{key}, nil)
}

// GetAll fetches every document whose primary key matches any of keys. Use
// GetAllByIndex to match on a secondary index instead.
func (t Term) GetAll(keys ...interface{}) Term {
	return constructMethodTerm(t, "getAll", p.Term_GET_ALL, keys, nil)
}

func (t Term) GetAllByIndex(index string, keys ...interface{}) Term {
	return constructMethodTerm(t, "getAll", p.Term_GET_ALL, keys, map[string]interface{}{"index": index})
}

// Between selects documents whose primary key (or index value) falls in
// [lower, upper).
func (t Term) Between(lower, upper interface{}) Term {
	return constructMethodTerm(t, "between", p.Term_BETWEEN, []interface{}{lower, upper}, nil)
}

func (t Term) Filter(predicate interface{}) Term {
	return constructMethodTerm(t, "filter", p.Term_FILTER, []interface{}{predicate}, nil)
}

func (t Term) Map(fn interface{}) Term {
	return constructMethodTerm(t, "map", p.Term_MAP, []interface{}{fn}, nil)
}

func (t Term) ConcatMap(fn interface{}) Term {
	return constructMethodTerm(t, "concatMap", p.Term_CONCAT_MAP, []interface{}{fn}, nil)
}

func (t Term) Reduce(fn interface{}) Term {
	return constructMethodTerm(t, "reduce", p.Term_REDUCE, []interface{}{fn}, nil)
}

func (t Term) OrderBy(keys ...interface{}) Term {
	return constructMethodTerm(t, "orderBy", p.Term_ORDER_BY, keys, nil)
}

func Asc(key interface{}) Term {
	return constructRootTerm("asc", p.Term_ASC, []interface{}{key}, nil)
}

func Desc(key interface{}) Term {
	return constructRootTerm("desc", p.Term_DESC, []interface{}{key}, nil)
}

func (t Term) Limit(n interface{}) Term {
	return constructMethodTerm(t, "limit", p.Term_LIMIT, []interface{}{n}, nil)
}

func (t Term) Skip(n interface{}) Term {
	return constructMethodTerm(t, "skip", p.Term_SKIP, []interface{}{n}, nil)
}

func (t Term) Slice(lower, upper interface{}) Term {
	return constructMethodTerm(t, "slice", p.Term_SLICE, []interface{}{lower, upper}, nil)
}

func (t Term) Nth(n interface{}) Term {
	return constructMethodTerm(t, "nth", p.Term_NTH, []interface{}{n}, nil)
}

func (t Term) Distinct() Term {
	return constructMethodTerm(t, "distinct", p.Term_DISTINCT, nil, nil)
}

func (t Term) Count(filter ...interface{}) Term {
	return constructMethodTerm(t, "count", p.Term_COUNT, filter, nil)
}

func (t Term) Union(others ...interface{}) Term {
	return constructMethodTerm(t, "union", p.Term_UNION, others, nil)
}

func (t Term) InnerJoin(other, predicate interface{}) Term {
	return constructMethodTerm(t, "innerJoin", p.Term_INNER_JOIN, []interface{}{other, predicate}, nil)
}

func (t Term) OuterJoin(other, predicate interface{}) Term {
	return constructMethodTerm(t, "outerJoin", p.Term_OUTER_JOIN, []interface{}{other, predicate}, nil)
}

func (t Term) EqJoin(leftField string, other Term) Term {
	return constructMethodTerm(t, "eqJoin", p.Term_EQ_JOIN, []interface{}{leftField, other}, nil)
}

func (t Term) Zip() Term {
	return constructMethodTerm(t, "zip", p.Term_ZIP, nil, nil)
}

func (t Term) Pluck(fields ...interface{}) Term {
	return constructMethodTerm(t, "pluck", p.Term_PLUCK, fields, nil)
}

func (t Term) Without(fields ...interface{}) Term {
	return constructMethodTerm(t, "without", p.Term_WITHOUT, fields, nil)
}

func (t Term) Merge(objs ...interface{}) Term {
	return constructMethodTerm(t, "merge", p.Term_MERGE, objs, nil)
}

func (t Term) Append(val interface{}) Term {
	return constructMethodTerm(t, "append", p.Term_APPEND, []interface{}{val}, nil)
}

func (t Term) Field(name interface{}) Term {
	return constructMethodTerm(t, "getField", p.Term_GETATTR, []interface{}{name}, nil)
}

func (t Term) Contains(vals ...interface{}) Term {
	return constructMethodTerm(t, "contains", p.Term_CONTAINS, vals, nil)
}

func (t Term) CoerceTo(typeName string) Term {
	return constructMethodTerm(t, "coerceTo", p.Term_COERCE_TO, []interface{}{typeName}, nil)
}

func (t Term) TypeOf() Term {
	return constructMethodTerm(t, "typeOf", p.Term_TYPE_OF, nil, nil)
}

func (t Term) Info() Term {
	return constructMethodTerm(t, "info", p.Term_INFO, nil, nil)
}

func (t Term) Match(re string) Term {
	return constructMethodTerm(t, "match", p.Term_MATCH, []interface{}{re}, nil)
}

func (t Term) Split(args ...interface{}) Term {
	return constructMethodTerm(t, "split", p.Term_SPLIT, args, nil)
}

func (t Term) Upcase() Term {
	return constructMethodTerm(t, "upcase", p.Term_UPCASE, nil, nil)
}

func (t Term) Downcase() Term {
	return constructMethodTerm(t, "downcase", p.Term_DOWNCASE, nil, nil)
}

func (t Term) ToISO8601() Term {
	return constructMethodTerm(t, "toISO8601", p.Term_TO_ISO8601, nil, nil)
}

func (t Term) ToEpochTime() Term {
	return constructMethodTerm(t, "toEpochTime", p.Term_TO_EPOCH_TIME, nil, nil)
}

// Insert writes docs into a table. opts may include conflict/durability/
// return_changes.
func (t Term) Insert(docs interface{}, opts ...map[string]interface{}) Term {
	var o map[string]interface{}
	if len(opts) > 0 {
		o = opts[0]
	}
	return constructMethodTerm(t, "insert", p.Term_INSERT, []interface{}{docs}, o)
}

func (t Term) Update(val interface{}, opts ...map[string]interface{}) Term {
	var o map[string]interface{}
	if len(opts) > 0 {
		o = opts[0]
	}
	return constructMethodTerm(t, "update", p.Term_UPDATE, []interface{}{val}, o)
}

func (t Term) Replace(val interface{}, opts ...map[string]interface{}) Term {
	var o map[string]interface{}
	if len(opts) > 0 {
		o = opts[0]
	}
	return constructMethodTerm(t, "replace", p.Term_REPLACE, []interface{}{val}, o)
}

func (t Term) Delete(opts ...map[string]interface{}) Term {
	var o map[string]interface{}
	if len(opts) > 0 {
		o = opts[0]
	}
	return constructMethodTerm(t, "delete", p.Term_DELETE, nil, o)
}

// Changes turns a table/query into a changefeed.
func (t Term) Changes(opts ...map[string]interface{}) Term {
	var o map[string]interface{}
	if len(opts) > 0 {
		o = opts[0]
	}
	return constructMethodTerm(t, "changes", p.Term_CHANGES, nil, o)
}

func (t Term) Group(fields ...interface{}) Term {
	return constructMethodTerm(t, "group", p.Term_GROUP, fields, nil)
}

func (t Term) Ungroup() Term {
	return constructMethodTerm(t, "ungroup", p.Term_UNGROUP, nil, nil)
}

func (t Term) ForEach(fn interface{}) Term {
	return constructMethodTerm(t, "forEach", p.Term_FOR_EACH, []interface{}{fn}, nil)
}

// Do calls fn with t as its argument (FUNCALL with the receiver as the last
// positional argument, matching the wire convention).
func (t Term) Do(fn interface{}) Term {
	return constructRootTerm("do", p.Term_FUNCALL, []interface{}{fn, t}, nil)
}

// Eq, Ne and the other comparison/arithmetic operators are exposed as
// methods so expressions read left-to-right (a.Eq(b) rather than Eq(a, b)).
func (t Term) Eq(others ...interface{}) Term {
	return constructMethodTerm(t, "eq", p.Term_EQ, others, nil)
}

func (t Term) Ne(others ...interface{}) Term {
	return constructMethodTerm(t, "ne", p.Term_NE, others, nil)
}

func (t Term) Lt(others ...interface{}) Term {
	return constructMethodTerm(t, "lt", p.Term_LT, others, nil)
}

func (t Term) Le(others ...interface{}) Term {
	return constructMethodTerm(t, "le", p.Term_LE, others, nil)
}

func (t Term) Gt(others ...interface{}) Term {
	return constructMethodTerm(t, "gt", p.Term_GT, others, nil)
}

func (t Term) Ge(others ...interface{}) Term {
	return constructMethodTerm(t, "ge", p.Term_GE, others, nil)
}

func (t Term) Not() Term {
	return constructMethodTerm(t, "not", p.Term_NOT, nil, nil)
}

func (t Term) Add(others ...interface{}) Term {
	return constructMethodTerm(t, "add", p.Term_ADD, others, nil)
}

func (t Term) Sub(others ...interface{}) Term {
	return constructMethodTerm(t, "sub", p.Term_SUB, others, nil)
}

func (t Term) Mul(others ...interface{}) Term {
	return constructMethodTerm(t, "mul", p.Term_MUL, others, nil)
}

func (t Term) Div(others ...interface{}) Term {
	return constructMethodTerm(t, "div", p.Term_DIV, others, nil)
}

func (t Term) Mod(other interface{}) Term {
	return constructMethodTerm(t, "mod", p.Term_MOD, []interface{}{other}, nil)
}

func (t Term) Or(others ...interface{}) Term {
	return constructMethodTerm(t, "or", p.Term_OR, others, nil)
}

func (t Term) And(others ...interface{}) Term {
	return constructMethodTerm(t, "and", p.Term_AND, others, nil)
}
