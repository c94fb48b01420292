package query

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParseFromRequest extracts list params from r.
//
//	?page=2&pageSize=10&sortBy=name&order=desc&search=lamp&organization_id=eq.3
//
// Filters are accepted either as top-level params named in
// config.AllowedFilters or packed into filter=field=op.value&... .
// Unknown fields are ignored.
func ParseFromRequest(r *http.Request, config Config) Params {
	q := r.URL.Query()

	limitStr := q.Get("limit")
	params := Params{
		Page:         intOrDefault(q.Get("page"), 1),
		PageSize:     clamp(intOrDefault(limitStr, DefaultPageSize), 1, MaxPageSize),
		NoPagination: limitStr == "-1" || limitStr == "all",
		SortBy:       q.Get("sortBy"),
		SortOrder:    normalizeSortOrder(q.Get("order")),
		Query: FilterQuery{
			Conditions: []Condition{},
			FreeText:   strings.TrimSpace(q.Get("search")),
		},
	}

	if ps := q.Get("pageSize"); ps != "" {
		if ps == "-1" || ps == "all" {
			params.NoPagination = true
		} else {
			params.PageSize = clamp(intOrDefault(ps, DefaultPageSize), 1, MaxPageSize)
		}
	}

	if filterStr := q.Get("filter"); filterStr != "" {
		params.Query.Conditions = append(params.Query.Conditions,
			parseFilterString(filterStr, config.AllowedFilters)...)
	}

	for _, field := range config.AllowedFilters {
		if v := q.Get(field); v != "" {
			params.Query.Conditions = append(params.Query.Conditions, parseCondition(field, v))
		}
	}
	return params
}

// parseFilterString parses "status=eq.active&priority=gt.3".
func parseFilterString(filterStr string, allowedFields []string) []Condition {
	var conditions []Condition
	for _, part := range strings.Split(filterStr, "&") {
		field, value, ok := strings.Cut(part, "=")
		if !ok || !slices.Contains(allowedFields, field) {
			continue
		}
		conditions = append(conditions, parseCondition(field, value))
	}
	return conditions
}

// parseCondition parses a single condition value (op.value). A value with
// no known operator prefix is an equality match on the whole value.
func parseCondition(field, value string) Condition {
	switch value {
	case "is.null":
		return Condition{Field: field, Operator: OpNull}
	case "not.is.null":
		return Condition{Field: field, Operator: OpNotNull}
	}

	opStr, rawValue, ok := strings.Cut(value, ".")
	op := Operator(opStr)
	if !ok || !op.IsValid() {
		return Condition{Field: field, Operator: OpEq, Value: value}
	}

	if strings.HasPrefix(rawValue, "(") && strings.HasSuffix(rawValue, ")") {
		return Condition{Field: field, Operator: op, Values: parseArrayValues(rawValue[1 : len(rawValue)-1])}
	}
	return Condition{Field: field, Operator: op, Value: unescapeValue(rawValue)}
}

// parseArrayValues splits "a,b\,c" into ["a", "b,c"].
func parseArrayValues(inner string) []string {
	var values []string
	var current strings.Builder
	escaped := false
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			values = append(values, s)
		}
		current.Reset()
	}
	for _, ch := range inner {
		switch {
		case escaped:
			current.WriteRune(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == ',':
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()
	return values
}

func unescapeValue(s string) string {
	var result strings.Builder
	escaped := false
	for _, ch := range s {
		if !escaped && ch == '\\' {
			escaped = true
			continue
		}
		escaped = false
		result.WriteRune(ch)
	}
	return result.String()
}

func intOrDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func clamp(v, lower, upper int) int {
	return max(lower, min(v, upper))
}

func normalizeSortOrder(s string) string {
	if strings.EqualFold(s, "desc") {
		return "desc"
	}
	return "asc"
}
