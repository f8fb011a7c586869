// Package ql2 holds the integer wire constants of the ReQL protocol: term
// types, query types, response types, response notes and runtime error
// types. In the reference driver these are generated from RethinkDB's
// protobuf definitions; here they are hand-written since the protocol shape
// is small and fixed, but they serve the same role: a flat, dependency-free
// constant table consumed by the rest of the driver.
package ql2

// Query_QueryType is the first element of every serialized query.
type Query_QueryType int

const (
	Query_START         Query_QueryType = 1
	Query_CONTINUE      Query_QueryType = 2
	Query_STOP          Query_QueryType = 3
	Query_NOREPLY_WAIT  Query_QueryType = 4
	Query_SERVER_INFO   Query_QueryType = 5
)

func (t Query_QueryType) String() string {
	switch t {
	case Query_START:
		return "START"
	case Query_CONTINUE:
		return "CONTINUE"
	case Query_STOP:
		return "STOP"
	case Query_NOREPLY_WAIT:
		return "NOREPLY_WAIT"
	case Query_SERVER_INFO:
		return "SERVER_INFO"
	default:
		return "UNKNOWN"
	}
}

// Response_ResponseType is the response counterpart.
type Response_ResponseType int

const (
	Response_SUCCESS_ATOM      Response_ResponseType = 1
	Response_SUCCESS_SEQUENCE  Response_ResponseType = 2
	Response_SUCCESS_PARTIAL   Response_ResponseType = 3
	Response_WAIT_COMPLETE     Response_ResponseType = 4
	Response_SERVER_INFO       Response_ResponseType = 5
	Response_CLIENT_ERROR      Response_ResponseType = 16
	Response_COMPILE_ERROR     Response_ResponseType = 17
	Response_RUNTIME_ERROR     Response_ResponseType = 18
)

func (t Response_ResponseType) String() string {
	switch t {
	case Response_SUCCESS_ATOM:
		return "SUCCESS_ATOM"
	case Response_SUCCESS_SEQUENCE:
		return "SUCCESS_SEQUENCE"
	case Response_SUCCESS_PARTIAL:
		return "SUCCESS_PARTIAL"
	case Response_WAIT_COMPLETE:
		return "WAIT_COMPLETE"
	case Response_SERVER_INFO:
		return "SERVER_INFO"
	case Response_CLIENT_ERROR:
		return "CLIENT_ERROR"
	case Response_COMPILE_ERROR:
		return "COMPILE_ERROR"
	case Response_RUNTIME_ERROR:
		return "RUNTIME_ERROR"
	default:
		return "UNKNOWN"
	}
}

// IsError reports whether the response type signals a failed query.
func (t Response_ResponseType) IsError() bool {
	switch t {
	case Response_CLIENT_ERROR, Response_COMPILE_ERROR, Response_RUNTIME_ERROR:
		return true
	default:
		return false
	}
}

// Response_ErrorType further classifies Response_RUNTIME_ERROR.
type Response_ErrorType int

const (
	Response_INTERNAL          Response_ErrorType = 1000000
	Response_RESOURCE_LIMIT    Response_ErrorType = 2000000
	Response_QUERY_LOGIC       Response_ErrorType = 3000000
	Response_NON_EXISTENCE     Response_ErrorType = 3100000
	Response_OP_FAILED         Response_ErrorType = 4100000
	Response_OP_INDETERMINATE  Response_ErrorType = 4200000
	Response_USER              Response_ErrorType = 5000000
	Response_PERMISSION_ERROR  Response_ErrorType = 6000000
)

// Response_ResponseNote is a flag on a response (e.g. "this is a feed").
type Response_ResponseNote int

const (
	Response_SEQUENCE_FEED       Response_ResponseNote = 1
	Response_ATOM_FEED           Response_ResponseNote = 2
	Response_ORDER_BY_LIMIT_FEED Response_ResponseNote = 3
	Response_UNIONED_FEED        Response_ResponseNote = 4
	Response_INCLUDES_STATES     Response_ResponseNote = 5
)

// Term_TermType enumerates AST node kinds. Not exhaustive: only the terms
// this driver's hand-written generated-term exemplars and core machinery
// need are assigned. A full build would add the remaining few hundred
// mechanically, each a one-line shell over constructRootTerm/
// constructMethodTerm (see term.go).
type Term_TermType int

const (
	Term_DATUM        Term_TermType = 1
	Term_MAKE_ARRAY    Term_TermType = 2
	Term_MAKE_OBJ      Term_TermType = 3
	Term_VAR           Term_TermType = 10
	Term_JAVASCRIPT    Term_TermType = 11
	Term_UUID          Term_TermType = 169
	Term_HTTP          Term_TermType = 153
	Term_ERROR         Term_TermType = 12
	Term_IMPLICIT_VAR  Term_TermType = 13
	Term_DB            Term_TermType = 14
	Term_TABLE         Term_TermType = 15
	Term_GET           Term_TermType = 16
	Term_GET_ALL       Term_TermType = 78
	Term_EQ            Term_TermType = 17
	Term_NE            Term_TermType = 18
	Term_LT            Term_TermType = 19
	Term_LE            Term_TermType = 20
	Term_GT            Term_TermType = 21
	Term_GE            Term_TermType = 22
	Term_NOT           Term_TermType = 23
	Term_ADD           Term_TermType = 24
	Term_SUB           Term_TermType = 25
	Term_MUL           Term_TermType = 26
	Term_DIV           Term_TermType = 27
	Term_MOD           Term_TermType = 28
	Term_APPEND        Term_TermType = 29
	Term_SLICE         Term_TermType = 30
	Term_SKIP          Term_TermType = 70
	Term_LIMIT         Term_TermType = 71
	Term_GETATTR       Term_TermType = 31
	Term_CONTAINS      Term_TermType = 32
	Term_PLUCK         Term_TermType = 33
	Term_WITHOUT       Term_TermType = 34
	Term_MERGE         Term_TermType = 35
	Term_BETWEEN_DEPRECATED Term_TermType = 36
	Term_BETWEEN       Term_TermType = 182
	Term_REDUCE        Term_TermType = 37
	Term_MAP           Term_TermType = 38
	Term_FILTER        Term_TermType = 39
	Term_CONCAT_MAP    Term_TermType = 40
	Term_ORDER_BY      Term_TermType = 41
	Term_DISTINCT      Term_TermType = 42
	Term_COUNT         Term_TermType = 43
	Term_UNION         Term_TermType = 44
	Term_NTH           Term_TermType = 45
	Term_BRACKET       Term_TermType = 170
	Term_INNER_JOIN    Term_TermType = 48
	Term_OUTER_JOIN    Term_TermType = 49
	Term_EQ_JOIN       Term_TermType = 50
	Term_ZIP           Term_TermType = 72
	Term_COERCE_TO     Term_TermType = 51
	Term_TYPE_OF       Term_TermType = 52
	Term_UPDATE        Term_TermType = 53
	Term_DELETE        Term_TermType = 54
	Term_REPLACE       Term_TermType = 55
	Term_INSERT        Term_TermType = 56
	Term_DB_CREATE     Term_TermType = 57
	Term_DB_DROP       Term_TermType = 58
	Term_DB_LIST       Term_TermType = 59
	Term_TABLE_CREATE  Term_TermType = 60
	Term_TABLE_DROP    Term_TermType = 61
	Term_TABLE_LIST    Term_TermType = 62
	Term_FUNCALL       Term_TermType = 64
	Term_BRANCH        Term_TermType = 65
	Term_OR            Term_TermType = 66
	Term_AND           Term_TermType = 67
	Term_FOR_EACH      Term_TermType = 68
	Term_FUNC          Term_TermType = 69
	Term_ASC           Term_TermType = 73
	Term_DESC          Term_TermType = 74
	Term_INFO          Term_TermType = 79
	Term_MATCH         Term_TermType = 97
	Term_SPLIT         Term_TermType = 149
	Term_UPCASE        Term_TermType = 141
	Term_DOWNCASE      Term_TermType = 142
	Term_ISO8601       Term_TermType = 99
	Term_TO_ISO8601    Term_TermType = 100
	Term_EPOCH_TIME    Term_TermType = 101
	Term_TO_EPOCH_TIME Term_TermType = 102
	Term_NOW           Term_TermType = 103
	Term_BINARY        Term_TermType = 155
	Term_GROUP         Term_TermType = 144
	Term_UNGROUP       Term_TermType = 150
	Term_CHANGES       Term_TermType = 152
	Term_ARGS          Term_TermType = 154
	Term_BIT_AND       Term_TermType = 187
	Term_BIT_OR        Term_TermType = 188
	Term_BIT_XOR       Term_TermType = 189
	Term_BIT_NOT       Term_TermType = 190
	Term_BIT_SAL       Term_TermType = 191
	Term_BIT_SAR       Term_TermType = 192
	Term_SET_WRITE_HOOK Term_TermType = 198
	Term_GET_WRITE_HOOK Term_TermType = 199
)

func (t Term_TermType) String() string {
	return termTypeNames[t]
}

var termTypeNames = map[Term_TermType]string{
	Term_DATUM: "DATUM", Term_MAKE_ARRAY: "MAKE_ARRAY", Term_MAKE_OBJ: "MAKE_OBJ",
	Term_VAR: "VAR", Term_JAVASCRIPT: "JAVASCRIPT", Term_ERROR: "ERROR",
	Term_IMPLICIT_VAR: "IMPLICIT_VAR", Term_DB: "DB", Term_TABLE: "TABLE",
	Term_GET: "GET", Term_GET_ALL: "GET_ALL", Term_EQ: "EQ", Term_NE: "NE",
	Term_LT: "LT", Term_LE: "LE", Term_GT: "GT", Term_GE: "GE", Term_NOT: "NOT",
	Term_ADD: "ADD", Term_SUB: "SUB", Term_MUL: "MUL", Term_DIV: "DIV", Term_MOD: "MOD",
	Term_APPEND: "APPEND", Term_SLICE: "SLICE", Term_SKIP: "SKIP", Term_LIMIT: "LIMIT",
	Term_GETATTR: "GET_FIELD", Term_CONTAINS: "CONTAINS", Term_PLUCK: "PLUCK",
	Term_WITHOUT: "WITHOUT", Term_MERGE: "MERGE", Term_BETWEEN: "BETWEEN",
	Term_REDUCE: "REDUCE", Term_MAP: "MAP", Term_FILTER: "FILTER",
	Term_CONCAT_MAP: "CONCAT_MAP", Term_ORDER_BY: "ORDER_BY", Term_DISTINCT: "DISTINCT",
	Term_COUNT: "COUNT", Term_UNION: "UNION", Term_NTH: "NTH", Term_BRACKET: "BRACKET",
	Term_INNER_JOIN: "INNER_JOIN", Term_OUTER_JOIN: "OUTER_JOIN", Term_EQ_JOIN: "EQ_JOIN",
	Term_ZIP: "ZIP", Term_COERCE_TO: "COERCE_TO", Term_TYPE_OF: "TYPE_OF",
	Term_UPDATE: "UPDATE", Term_DELETE: "DELETE", Term_REPLACE: "REPLACE",
	Term_INSERT: "INSERT", Term_DB_CREATE: "DB_CREATE", Term_DB_DROP: "DB_DROP",
	Term_DB_LIST: "DB_LIST", Term_TABLE_CREATE: "TABLE_CREATE", Term_TABLE_DROP: "TABLE_DROP",
	Term_TABLE_LIST: "TABLE_LIST", Term_FUNCALL: "FUNCALL", Term_BRANCH: "BRANCH",
	Term_OR: "OR", Term_AND: "AND", Term_FOR_EACH: "FOR_EACH", Term_FUNC: "FUNC",
	Term_ASC: "ASC", Term_DESC: "DESC", Term_INFO: "INFO", Term_MATCH: "MATCH",
	Term_SPLIT: "SPLIT", Term_UPCASE: "UPCASE", Term_DOWNCASE: "DOWNCASE",
	Term_ISO8601: "ISO8601", Term_TO_ISO8601: "TO_ISO8601", Term_EPOCH_TIME: "EPOCH_TIME",
	Term_TO_EPOCH_TIME: "TO_EPOCH_TIME", Term_NOW: "NOW", Term_BINARY: "BINARY",
	Term_GROUP: "GROUP", Term_UNGROUP: "UNGROUP", Term_CHANGES: "CHANGES",
	Term_ARGS: "ARGS", Term_BIT_AND: "BIT_AND", Term_BIT_OR: "BIT_OR",
	Term_BIT_XOR: "BIT_XOR", Term_BIT_NOT: "BIT_NOT", Term_BIT_SAL: "BIT_SAL",
	Term_BIT_SAR: "BIT_SAR", Term_SET_WRITE_HOOK: "SET_WRITE_HOOK",
	Term_GET_WRITE_HOOK: "GET_WRITE_HOOK", Term_UUID: "UUID", Term_HTTP: "HTTP",
}

// Version_Version is the handshake protocol-version magic the client opens
// the connection with. V1_0 is the only version this driver speaks.
type Version_Version int32

const Version_V1_0 Version_Version = 0x34c2bdc3
