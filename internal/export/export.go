// Package export 把白名单内的记录导出为单表 XLSX。
// 同一个 Exporter 由 Policy 决定目录、格式化、权限、行数上限和文件名。
package export

import (
	"context"
	"fmt"

	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/pkg"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	ErrUnknownTable = fmt.Errorf("unknown table: %w", pkg.ErrInvalidInput)
	ErrNoColumns    = fmt.Errorf("no valid columns selected: %w", pkg.ErrInvalidInput)
	ErrNoPermission = fmt.Errorf("no permission to export this table: %w", pkg.ErrForbidden)
)

type Authorizer func(ctx context.Context, viewer *model.User, t *Table) error

type Policy struct {
	Name      string
	Catalog   []Table
	Format    Formatter
	Authorize Authorizer
	// RowLimit 0 表示不限
	RowLimit  int
	OrderByID bool
	FileName  func(t *Table) string
	SheetName func(t *Table) string
}

type File struct {
	Content     []byte
	FileName    string
	ContentType string
}

type ColumnInfo struct {
	Name   string `json:"name"`
	Header string `json:"header"`
}

type TableInfo struct {
	Key     string       `json:"key"`
	Label   string       `json:"label"`
	Columns []ColumnInfo `json:"columns"`
}

type Exporter struct {
	db     *gorm.DB
	policy Policy
	index  map[string]int
}

func New(db *gorm.DB, p Policy) *Exporter {
	if p.Format == nil {
		p.Format = RawFormatter
	}
	idx := make(map[string]int, len(p.Catalog))
	for i, t := range p.Catalog {
		idx[t.Key] = i
	}
	return &Exporter{db: db, policy: p, index: idx}
}

func (e *Exporter) Name() string {
	return e.policy.Name
}

// Tables 目录描述，给导出表单用
func (e *Exporter) Tables() []TableInfo {
	out := make([]TableInfo, 0, len(e.policy.Catalog))
	for _, t := range e.policy.Catalog {
		info := TableInfo{Key: t.Key, Label: t.Label, Columns: make([]ColumnInfo, 0, len(t.Columns))}
		for _, c := range t.Columns {
			info.Columns = append(info.Columns, ColumnInfo{Name: c.Name, Header: c.Header})
		}
		out = append(out, info)
	}
	return out
}

func (e *Exporter) table(key string) (*Table, bool) {
	i, ok := e.index[key]
	if !ok {
		return nil, false
	}
	return &e.policy.Catalog[i], true
}

// Build 生成一个工作表：表头一行，每条记录一行
func (e *Exporter) Build(ctx context.Context, viewer *model.User, key string, requested []string) (*File, error) {
	const op = "export.Exporter.Build"

	t, ok := e.table(key)
	if !ok {
		return nil, ErrUnknownTable
	}
	if e.policy.Authorize != nil {
		if err := e.policy.Authorize(ctx, viewer, t); err != nil {
			return nil, err
		}
	}

	cols, err := selectColumns(t.Columns, requested)
	if err != nil {
		return nil, err
	}

	rows, err := t.Load(ctx, e.db, LoadOptions{Limit: e.policy.RowLimit, OrderByID: e.policy.OrderByID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	content, err := writeSheet(e.policy.SheetName(t), cols, rows, e.policy.Format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &File{
		Content:     content,
		FileName:    e.policy.FileName(t),
		ContentType: ContentType,
	}, nil
}

func writeSheet(sheet string, cols []Column, rows []any, format Formatter) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, err
	}

	// 流式写入要求先设列宽
	for i, c := range cols {
		if err := sw.SetColWidth(i+1, i+1, c.Width()); err != nil {
			return nil, err
		}
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for r, rec := range rows {
		values := make([]any, len(cols))
		for i, c := range cols {
			v := format(c.value(rec))
			if v == nil {
				v = ""
			}
			values[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
