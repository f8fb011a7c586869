package reql

import (
	"encoding/json"
	"reflect"
	"time"

	p "github.com/reql-go/reql/ql2"
)

// maxConvertDepth bounds the recursion toReqlAst performs while coercing a
// host value into a Term tree (spec.md §4.1). It exists to refuse
// self-referencing host structures, since the AST is a tree by construction
// and nothing else in the driver walks cycles safely.
const maxConvertDepth = 100

type convertDepth struct {
	remaining int
}

func newConvertDepth() convertDepth { return convertDepth{remaining: maxConvertDepth} }

func (d convertDepth) descend() (convertDepth, error) {
	if d.remaining <= 0 {
		return d, newDriverError("reql: term nesting too deep (possible cyclic value)")
	}
	return convertDepth{remaining: d.remaining - 1}, nil
}

// Expr converts an arbitrary Go value into a Term. It is the public entry
// point to the coercion engine described in spec.md §4.1.
func Expr(val interface{}) Term {
	return toReqlAst(val, newConvertDepth())
}

// toReqlAst implements the coercion rules of spec.md §4.1 in priority order:
// an existing Term passes through; JSON scalars become Datum; enumerated
// constants become Datum of their name; times become Iso8601 terms; byte
// slices become Binary terms; 0..4-arity funcs become Func terms; sequences
// become MakeArray; maps become MakeObj; anything else is routed through
// the codec into a map and retried.
func toReqlAst(val interface{}, depth convertDepth) Term {
	switch v := val.(type) {
	case Term:
		return v
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return Datum(v)
	case ReqlConstant:
		return Datum(v.reqlName())
	case time.Time:
		return timeTerm(v)
	case []byte:
		return Term{termType: p.Term_BINARY, data: copyBytes(v)}
	}

	next, err := depth.descend()
	if err != nil {
		return Term{lastErr: err}
	}

	rv := reflect.ValueOf(val)
	if !rv.IsValid() {
		return Datum(nil)
	}

	switch rv.Kind() {
	case reflect.Func:
		return funcTerm(rv, next)
	case reflect.Slice, reflect.Array:
		return sliceTerm(rv, next)
	case reflect.Map:
		return mapTerm(rv, next)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Datum(nil)
		}
		return toReqlAst(rv.Elem().Interface(), next)
	default:
		return codecRoundtripTerm(val, next)
	}
}

// ReqlConstant is implemented by host enumerations that should serialize as
// their canonical name string (spec.md §4.1: "Enumerated constant → Datum
// of its canonical name").
type ReqlConstant interface {
	reqlName() string
}

func timeTerm(t time.Time) Term {
	iso := t.Format("2006-01-02T15:04:05.000") + formatReqlTimezone(t)
	return constructRootTerm("ISO8601", p.Term_ISO8601, []interface{}{iso}, map[string]interface{}{
		"default_timezone": formatReqlTimezone(t),
	})
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// funcTerm converts a 0..4-arity Go function into a Func term: it allocates
// fresh Var ids, invokes fn with Term placeholders bound to those ids, and
// wraps the returned Term as [FUNC, [MAKE_ARRAY varIds], body].
func funcTerm(fn reflect.Value, depth convertDepth) Term {
	ft := fn.Type()
	if ft.NumIn() > 4 {
		return Term{lastErr: newDriverError("reql: functions may take at most 4 arguments, got %d", ft.NumIn())}
	}
	if ft.NumOut() != 1 {
		return Term{lastErr: newDriverError("reql: functions passed to Expr must return exactly one value")}
	}

	varIDs := make([]int64, ft.NumIn())
	args := make([]reflect.Value, ft.NumIn())
	varTerms := make([]Term, ft.NumIn())
	for i := range args {
		id := nextFuncVarID()
		varIDs[i] = id
		varTerms[i] = varTerm(id)
		args[i] = reflect.ValueOf(varTerms[i])
	}

	out := fn.Call(args)
	body := toReqlAst(out[0].Interface(), depth)

	argIDs := make([]interface{}, len(varIDs))
	for i, id := range varIDs {
		argIDs[i] = id
	}

	return Term{
		termType: p.Term_FUNC,
		args: []Term{
			constructRootTerm("MakeArray", p.Term_MAKE_ARRAY, argIDs, nil),
			body,
		},
	}
}

func varTerm(id int64) Term {
	return Term{termType: p.Term_VAR, args: []Term{Datum(id)}}
}

func sliceTerm(rv reflect.Value, depth convertDepth) Term {
	n := rv.Len()
	args := make([]Term, n)
	for i := 0; i < n; i++ {
		args[i] = toReqlAst(rv.Index(i).Interface(), depth)
	}
	return Term{termType: p.Term_MAKE_ARRAY, args: args}
}

func mapTerm(rv reflect.Value, depth convertDepth) Term {
	if rv.Type().Key().Kind() != reflect.String {
		return Term{lastErr: newDriverError("reql: map keys must be strings, got %s", rv.Type().Key())}
	}
	opts := make(map[string]Term, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		opts[iter.Key().String()] = toReqlAst(iter.Value().Interface(), depth)
	}
	return Term{termType: p.Term_MAKE_OBJ, optArgs: opts}
}

// codecRoundtripTerm handles the "other object" case of spec.md §4.1:
// convert to a map via the host JSON codec, then recurse.
func codecRoundtripTerm(val interface{}, depth convertDepth) Term {
	encoded, err := defaultCodec.Marshal(val)
	if err != nil {
		return Term{lastErr: wrapDriverError(err)}
	}
	var generic interface{}
	if err := defaultCodec.Unmarshal(encoded, &generic); err != nil {
		return Term{lastErr: wrapDriverError(err)}
	}
	return toReqlAst(generic, depth)
}
