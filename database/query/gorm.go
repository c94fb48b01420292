package query

import (
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"
)

// ApplyToGorm filters, counts, sorts and pages db into a Result.
// db should already be scoped to the model (db.Model(&T{})).
func ApplyToGorm[T any](db *gorm.DB, params Params, config Config) (*Result[T], error) {
	q := db.Session(&gorm.Session{})

	if params.Query.FreeText != "" && len(config.SearchFields) > 0 {
		q = applySearch(q, params.Query.FreeText, config)
	}
	q = ApplyConditions(q, params.Query.Conditions, config)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	q = applySort(q, params.SortBy, params.SortOrder, config)

	page, pageSize := params.Page, params.PageSize
	if page < 1 {
		page = 1
	}
	if !params.NoPagination {
		if pageSize < 1 {
			pageSize = DefaultPageSize
		}
		q = q.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	data := make([]T, 0)
	if err := q.Find(&data).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	totalPages := 1
	if params.NoPagination {
		pageSize = int(total)
	} else if total > 0 {
		totalPages = (int(total) + pageSize - 1) / pageSize
	}

	return &Result[T]{
		Data: data,
		Pagination: Pagination{
			Page: page, PageSize: pageSize,
			Total: int(total), TotalPages: totalPages,
		},
	}, nil
}

// ApplyConditions applies conditions whose fields the config allows.
func ApplyConditions(db *gorm.DB, conditions []Condition, config Config) *gorm.DB {
	for _, cond := range conditions {
		if !slices.Contains(config.AllowedFilters, cond.Field) {
			continue
		}
		db = applyCondition(db, cond, config)
	}
	return db
}

func applySearch(db *gorm.DB, search string, config Config) *gorm.DB {
	pattern := "%" + strings.ToLower(search) + "%"
	conds := make([]string, 0, len(config.SearchFields))
	args := make([]any, 0, len(config.SearchFields))
	for _, f := range config.SearchFields {
		conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ?", config.ResolveField(f)))
		args = append(args, pattern)
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}

func applyCondition(db *gorm.DB, cond Condition, config Config) *gorm.DB {
	field := config.ResolveField(cond.Field)
	values := cond.Values
	if len(values) == 0 && cond.Value != "" && (cond.Operator == OpIn || cond.Operator == OpNin) {
		values = strings.Split(cond.Value, ",")
	}

	switch cond.Operator {
	case OpEq:
		if len(values) > 0 {
			return db.Where(fmt.Sprintf("%s IN ?", field), values)
		}
		return db.Where(fmt.Sprintf("%s = ?", field), cond.Value)
	case OpNeq:
		if len(values) > 0 {
			return db.Where(fmt.Sprintf("%s NOT IN ?", field), values)
		}
		return db.Where(fmt.Sprintf("%s != ?", field), cond.Value)
	case OpGt:
		return db.Where(fmt.Sprintf("%s > ?", field), cond.Value)
	case OpGte:
		return db.Where(fmt.Sprintf("%s >= ?", field), cond.Value)
	case OpLt:
		return db.Where(fmt.Sprintf("%s < ?", field), cond.Value)
	case OpLte:
		return db.Where(fmt.Sprintf("%s <= ?", field), cond.Value)
	case OpIn:
		if len(values) > 0 {
			return db.Where(fmt.Sprintf("%s IN ?", field), values)
		}
	case OpNin:
		if len(values) > 0 {
			return db.Where(fmt.Sprintf("%s NOT IN ?", field), values)
		}
	case OpLike:
		return db.Where(fmt.Sprintf("%s LIKE ?", field), "%"+cond.Value+"%")
	case OpIlike:
		return db.Where(fmt.Sprintf("LOWER(%s) LIKE ?", field), "%"+strings.ToLower(cond.Value)+"%")
	case OpNull:
		return db.Where(fmt.Sprintf("%s IS NULL", field))
	case OpNotNull:
		return db.Where(fmt.Sprintf("%s IS NOT NULL", field))
	}
	return db
}

func applySort(db *gorm.DB, sortBy, sortOrder string, config Config) *gorm.DB {
	if sortBy != "" && slices.Contains(config.AllowedSortFields, sortBy) {
		order := config.ResolveField(sortBy)
		if sortOrder == "desc" {
			order += " DESC"
		}
		// Tie-break on id so pages are stable.
		return db.Order(order).Order("id")
	}
	if config.DefaultSort != "" {
		return db.Order(config.DefaultSort)
	}
	return db
}
