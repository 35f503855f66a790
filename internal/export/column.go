package export

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

// Column 白名单中的一列；value 从记录取原始值，再交给 Formatter
type Column struct {
	Name   string
	Header string
	value  func(rec any) any
}

// col 按记录类型声明列，记录以 *T 传入
func col[T any](name, header string, get func(*T) any) Column {
	return Column{
		Name:   name,
		Header: header,
		value:  func(rec any) any { return get(rec.(*T)) },
	}
}

// Width 列宽 max(12, min(45, len(header)+6))
func (c Column) Width() float64 {
	return float64(max(12, min(45, utf8.RuneCountInString(c.Header)+6)))
}

// LoadOptions 由策略决定的取数方式
type LoadOptions struct {
	Limit     int
	OrderByID bool
}

type Loader func(ctx context.Context, db *gorm.DB, opts LoadOptions) ([]any, error)

// loadAll 按表的自然顺序（或 id 升序）取全部记录
func loadAll[T any](order string, preload ...string) Loader {
	return func(ctx context.Context, db *gorm.DB, opts LoadOptions) ([]any, error) {
		q := db.WithContext(ctx).Model(new(T))
		for _, p := range preload {
			q = q.Preload(p)
		}
		switch {
		case opts.OrderByID:
			q = q.Order("id ASC")
		case order != "":
			q = q.Order(order)
		}
		if opts.Limit > 0 {
			q = q.Limit(opts.Limit)
		}

		var rows []T
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		out := make([]any, len(rows))
		for i := range rows {
			out[i] = &rows[i]
		}
		return out, nil
	}
}

// Table 目录中的一种记录
type Table struct {
	Key        string
	Label      string
	Permission string
	Columns    []Column
	Load       Loader
}

// selectColumns 丢弃空白项；未请求时导出全部；输出顺序始终按白名单
func selectColumns(all []Column, requested []string) ([]Column, error) {
	want := make(map[string]struct{}, len(requested))
	for _, r := range requested {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		want[r] = struct{}{}
	}
	if len(want) == 0 {
		return all, nil
	}

	out := make([]Column, 0, len(want))
	for _, c := range all {
		if _, ok := want[c.Name]; ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoColumns
	}
	return out, nil
}
