package reql

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	p "github.com/reql-go/reql/ql2"
)

// Term is a node in the query AST: a term-type tag, an ordered list of
// positional argument terms, and a mapping of option-name to option-value
// terms. A Term tree is built by chaining methods (e.g. DB("x").Table("y"))
// or by passing host values through Expr, which recursively converts them
// via toReqlAst (encode.go).
type Term struct {
	name     string
	rootTerm bool
	termType p.Term_TermType
	data     interface{} // only meaningful when termType == Term_DATUM or Term_BINARY
	args     []Term
	optArgs  map[string]Term
	lastErr  error
}

// build converts the term tree into a JSON-serializable value: the scalar
// for a datum, a map for MAKE_OBJ, the binary pseudo-type object for a raw
// Binary leaf, and [type, args, opts?] for everything else. args is always
// present, even when empty ([type, []]); only opts is omitted when empty.
func (t Term) build() (interface{}, error) {
	if t.lastErr != nil {
		return nil, t.lastErr
	}

	switch t.termType {
	case p.Term_DATUM:
		return t.data, nil
	case p.Term_MAKE_OBJ:
		res := make(map[string]interface{}, len(t.optArgs))
		for k, v := range t.optArgs {
			built, err := v.build()
			if err != nil {
				return nil, err
			}
			res[k] = built
		}
		return res, nil
	case p.Term_BINARY:
		if len(t.args) == 0 {
			return map[string]interface{}{
				"$reql_type$": pseudoTypeBinary,
				"data":        t.data,
			}, nil
		}
	}

	args := make([]interface{}, len(t.args))
	for i, v := range t.args {
		built, err := v.build()
		if err != nil {
			return nil, err
		}
		args[i] = built
	}

	var optArgs map[string]interface{}
	if len(t.optArgs) > 0 {
		optArgs = make(map[string]interface{}, len(t.optArgs))
		for k, v := range t.optArgs {
			built, err := v.build()
			if err != nil {
				return nil, err
			}
			optArgs[k] = built
		}
	}

	ret := []interface{}{int(t.termType), args}
	if len(optArgs) > 0 {
		ret = append(ret, optArgs)
	}
	return ret, nil
}

// String returns a human-readable representation of the query tree, used
// in logging and in opentracing-free debug output. Mirrors the teacher's
// Term.String, trimmed of the tracing-span naming it fed.
func (t Term) String() string {
	switch t.termType {
	case p.Term_MAKE_ARRAY:
		return fmt.Sprintf("[%s]", strings.Join(argsToStrings(t.args), ", "))
	case p.Term_MAKE_OBJ:
		return fmt.Sprintf("{%s}", strings.Join(optArgsToStrings(t.optArgs), ", "))
	case p.Term_FUNC:
		var names []string
		for _, v := range t.args[0].args {
			names = append(names, fmt.Sprintf("var_%v", v.data))
		}
		return fmt.Sprintf("func(%s) r.Term { return %s }", strings.Join(names, ", "), t.args[1].String())
	case p.Term_VAR:
		return fmt.Sprintf("var_%v", t.args[0].data)
	case p.Term_IMPLICIT_VAR:
		return "r.Row"
	case p.Term_DATUM:
		if s, ok := t.data.(string); ok {
			return strconv.Quote(s)
		}
		return fmt.Sprintf("%v", t.data)
	case p.Term_BINARY:
		if len(t.args) == 0 {
			return "r.binary(<data>)"
		}
	}

	if t.rootTerm {
		return fmt.Sprintf("r.%s(%s)", t.name, strings.Join(allArgsToStrings(t.args, t.optArgs), ", "))
	}
	if len(t.args) == 0 {
		return "r"
	}
	return fmt.Sprintf("%s.%s(%s)", t.args[0].String(), t.name, strings.Join(allArgsToStrings(t.args[1:], t.optArgs), ", "))
}

func argsToStrings(args []Term) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.String()
	}
	return out
}

func optArgsToStrings(opts map[string]Term) []string {
	out := make([]string, 0, len(opts))
	for k, v := range opts {
		out = append(out, fmt.Sprintf("%s=%s", k, v.String()))
	}
	return out
}

func allArgsToStrings(args []Term, opts map[string]Term) []string {
	out := argsToStrings(args)
	out = append(out, optArgsToStrings(opts)...)
	return out
}

// constructRootTerm builds a term with no receiver (top-level factories like
// DB, Table, Expr).
func constructRootTerm(name string, termType p.Term_TermType, args []interface{}, optArgs map[string]interface{}) Term {
	return Term{
		name:     name,
		rootTerm: true,
		termType: termType,
		args:     convertTermList(args),
		optArgs:  convertTermObj(optArgs),
	}
}

// constructMethodTerm builds a term whose first positional argument is the
// receiver term t (method-chained factories like t.Filter(...)).
func constructMethodTerm(t Term, name string, termType p.Term_TermType, args []interface{}, optArgs map[string]interface{}) Term {
	return Term{
		name:     name,
		rootTerm: false,
		termType: termType,
		args:     append([]Term{t}, convertTermList(args)...),
		optArgs:  convertTermObj(optArgs),
	}
}

func convertTermList(args []interface{}) []Term {
	if len(args) == 0 {
		return nil
	}
	out := make([]Term, len(args))
	for i, v := range args {
		out[i] = toReqlAst(v, newConvertDepth())
	}
	return out
}

func convertTermObj(optArgs map[string]interface{}) map[string]Term {
	if len(optArgs) == 0 {
		return nil
	}
	out := make(map[string]Term, len(optArgs))
	for k, v := range optArgs {
		out[k] = toReqlAst(v, newConvertDepth())
	}
	return out
}

// funcVarID allocates globally-unique variable identifiers for Func terms,
// so that nested lambdas never collide.
var funcVarID int64

func nextFuncVarID() int64 {
	return atomic.AddInt64(&funcVarID, 1)
}

// Datum constructs a leaf term directly from a JSON-scalar Go value
// (nil, bool, number, string). It does not recurse: composite values should
// go through Expr instead.
func Datum(val interface{}) Term {
	return Term{termType: p.Term_DATUM, data: val}
}

// Row is the implicit-variable term used inside Filter/Map-style predicates
// without an explicit lambda parameter.
var Row = Term{termType: p.Term_IMPLICIT_VAR}
