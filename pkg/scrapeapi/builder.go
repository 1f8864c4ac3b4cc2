package scrapeapi

// QueryBuilder accumulates the parameters, headers and body of one request.
// It is not safe for concurrent mutation.
type QueryBuilder struct {
	params  map[string]string
	headers map[string]string
	body    map[string]string
}

// NewQueryBuilder returns an empty builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		params:  make(map[string]string),
		headers: make(map[string]string),
		body:    make(map[string]string),
	}
}

// Set stores value under p, replacing any previous value.
func (q *QueryBuilder) Set(p Param, value string) *QueryBuilder {
	if q.params == nil {
		q.params = make(map[string]string)
	}
	q.params[string(p)] = value
	return q
}

// Get returns the value stored under p. Reading a parameter that was never set
// is a caller bug and yields a *MissingParamError rather than an empty string.
func (q *QueryBuilder) Get(p Param) (string, error) {
	v, ok := q.params[string(p)]
	if !ok {
		return "", &MissingParamError{Param: p}
	}
	return v, nil
}

// Params returns a copy of the parameter mapping.
func (q *QueryBuilder) Params() map[string]string { return copyMap(q.params) }

// SetHeaders replaces the header mapping.
func (q *QueryBuilder) SetHeaders(headers map[string]string) *QueryBuilder {
	q.headers = copyMap(headers)
	return q
}

// Headers returns a copy of the header mapping.
func (q *QueryBuilder) Headers() map[string]string { return copyMap(q.headers) }

// SetBody replaces the body mapping sent as a JSON object by POST and PUT.
func (q *QueryBuilder) SetBody(body map[string]string) *QueryBuilder {
	q.body = copyMap(body)
	return q
}

// Body returns a copy of the body mapping.
func (q *QueryBuilder) Body() map[string]string { return copyMap(q.body) }

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
