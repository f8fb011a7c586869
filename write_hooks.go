package reql

import p "github.com/reql-go/reql/ql2"

// WriteHookFunc is called by the server whenever a document in a table is
// inserted, updated, replaced, or deleted. id, oldVal, and newVal may be
// null terms; branch on them with Branch.
type WriteHookFunc func(id, oldVal, newVal Term) Term

// SetWriteHook installs hookFunc as the table's write hook. Passing nil
// removes an existing hook.
func (t Term) SetWriteHook(hookFunc WriteHookFunc) Term {
	var f interface{}
	if hookFunc != nil {
		f = toReqlAst(hookFunc, newConvertDepth())
	}
	return constructMethodTerm(t, "setWriteHook", p.Term_SET_WRITE_HOOK, []interface{}{f}, nil)
}

// WriteHookInfo is the shape of GetWriteHook's result when a hook exists.
type WriteHookInfo struct {
	Function []byte `reql:"function,omitempty"`
	Query    string `reql:"query,omitempty"`
}

// GetWriteHook reads the write hook associated with the table, if any.
func (t Term) GetWriteHook() Term {
	return constructMethodTerm(t, "getWriteHook", p.Term_GET_WRITE_HOOK, nil, nil)
}
