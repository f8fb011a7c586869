package reql

import p "github.com/reql-go/reql/ql2"

// Bitwise term constructors, adapted from the teacher driver's bitwise
// extension (itself tracking an upstream RethinkDB proposal). BitShl/BitShr
// were left commented out upstream because the server never assigned them
// term types; omitted here for the same reason.

func (t Term) BitAnd(args ...interface{}) Term {
	return constructMethodTerm(t, "bitAnd", p.Term_BIT_AND, args, nil)
}

func BitAnd(args ...interface{}) Term {
	return constructRootTerm("bitAnd", p.Term_BIT_AND, args, nil)
}

func (t Term) BitOr(args ...interface{}) Term {
	return constructMethodTerm(t, "bitOr", p.Term_BIT_OR, args, nil)
}

func BitOr(args ...interface{}) Term {
	return constructRootTerm("bitOr", p.Term_BIT_OR, args, nil)
}

func (t Term) BitXor(args ...interface{}) Term {
	return constructMethodTerm(t, "bitXor", p.Term_BIT_XOR, args, nil)
}

func BitXor(args ...interface{}) Term {
	return constructRootTerm("bitXor", p.Term_BIT_XOR, args, nil)
}

func (t Term) BitNot() Term {
	return constructMethodTerm(t, "bitNot", p.Term_BIT_NOT, nil, nil)
}

func BitNot(arg interface{}) Term {
	return constructRootTerm("bitNot", p.Term_BIT_NOT, []interface{}{arg}, nil)
}

func (t Term) BitSal(args ...interface{}) Term {
	return constructMethodTerm(t, "bitSal", p.Term_BIT_SAL, args, nil)
}

func BitSal(args ...interface{}) Term {
	return constructRootTerm("bitSal", p.Term_BIT_SAL, args, nil)
}

func (t Term) BitSar(args ...interface{}) Term {
	return constructMethodTerm(t, "bitSar", p.Term_BIT_SAR, args, nil)
}

func BitSar(args ...interface{}) Term {
	return constructRootTerm("bitSar", p.Term_BIT_SAR, args, nil)
}
