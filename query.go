package reql

import p "github.com/reql-go/reql/ql2"

// Query is a triple of query-type, token, and (for START only) root term
// plus global options (spec.md §3).
type Query struct {
	Type  p.Query_QueryType
	Token int64
	Term  *Term
	Opts  map[string]interface{}

	// fetchMode overrides the connection default for this query's Result.
	// It never reaches the wire; it only steers buildResult.
	fetchMode    FetchMode
	hasFetchMode bool

	builtTerm interface{}
}

// build serializes the query payload: [queryType, termJson, {globalOpts}],
// trailing elements omitted when absent.
func (q *Query) build() ([]interface{}, error) {
	res := []interface{}{int(q.Type)}

	if q.Term != nil {
		built, err := q.Term.build()
		if err != nil {
			return nil, err
		}
		q.builtTerm = built
		res = append(res, q.builtTerm)
	}

	if q.Term != nil && len(q.Opts) > 0 {
		res = append(res, q.Opts)
	}

	return res, nil
}

func newStopQuery(token int64) Query {
	return Query{Type: p.Query_STOP, Token: token}
}

func newContinueQuery(token int64) Query {
	return Query{Type: p.Query_CONTINUE, Token: token}
}
