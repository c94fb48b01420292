// Package query parses list parameters from a request (pagination, sorting,
// free-text search and PostgREST-style filters) and applies them to GORM.
package query

// Operator is a filter operator in PostgREST format (field=op.value).
type Operator string

const (
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpIn      Operator = "in"
	OpNin     Operator = "nin"
	OpLike    Operator = "like"
	OpIlike   Operator = "ilike"
	OpNull    Operator = "null"
	OpNotNull Operator = "notNull"
)

var operators = map[Operator]bool{
	OpEq: true, OpNeq: true, OpGt: true, OpGte: true, OpLt: true, OpLte: true,
	OpIn: true, OpNin: true, OpLike: true, OpIlike: true, OpNull: true, OpNotNull: true,
}

// IsValid reports whether the operator is known.
func (o Operator) IsValid() bool { return operators[o] }

// Condition is a single filter condition.
type Condition struct {
	Field    string
	Operator Operator
	Value    string
	Values   []string // in, nin
}

// FilterQuery holds parsed filter conditions.
type FilterQuery struct {
	Conditions []Condition
	FreeText   string
}

// Params holds parsed list parameters.
type Params struct {
	Page         int
	PageSize     int
	NoPagination bool
	SortBy       string
	SortOrder    string
	Query        FilterQuery
}

// AddCondition appends a condition to the query.
func (p *Params) AddCondition(field string, op Operator, value string) {
	p.Query.Conditions = append(p.Query.Conditions, Condition{
		Field: field, Operator: op, Value: value,
	})
}

// Pagination metadata returned in paginated results.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Result is one page of T.
type Result[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Config defines which columns a resource exposes to list queries.
// Only fields named here ever reach SQL.
type Config struct {
	SearchFields      []string
	AllowedSortFields []string
	AllowedFilters    []string
	FieldAliases      map[string]string
	DefaultSort       string
}

// ResolveField returns the column for field, using FieldAliases if set.
func (c Config) ResolveField(field string) string {
	if alias, ok := c.FieldAliases[field]; ok {
		return alias
	}
	return field
}
