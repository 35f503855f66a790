package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Volunteer_Service/internal/model"

	"gorm.io/gorm"
)

const (
	PolicyRecords = "records"
	PolicyAdmin   = "admin"

	DefaultAdminRowLimit = 5000
)

// PermissionChecker mysql.PermissionRepository 满足此接口
type PermissionChecker interface {
	HasPerm(ctx context.Context, user *model.User, codename string) (bool, error)
}

func staffOnly(_ context.Context, viewer *model.User, _ *Table) error {
	if !viewer.CanManage() {
		return ErrNoPermission
	}
	return nil
}

// Records 报表导出：原始字段名作表头，值不做格式化
func Records(db *gorm.DB) *Exporter {
	return New(db, Policy{
		Name:      PolicyRecords,
		Catalog:   recordsCatalog(),
		Format:    RawFormatter,
		Authorize: staffOnly,
		FileName:  func(t *Table) string { return fmt.Sprintf("report_%s.xlsx", t.Key) },
		SheetName: func(*Table) string { return "Report" },
	})
}

type AdminOptions struct {
	Locale   string
	Location *time.Location
	RowLimit int
}

// Admin 后台导出：可读表头、本地化格式、按模型的查看权限、按 id 截断
func Admin(db *gorm.DB, perms PermissionChecker, opts AdminOptions) *Exporter {
	if opts.RowLimit <= 0 {
		opts.RowLimit = DefaultAdminRowLimit
	}
	return New(db, Policy{
		Name:    PolicyAdmin,
		Catalog: localizeHeaders(adminCatalog(), opts.Locale),
		Format:  AdminFormatter(opts.Locale, opts.Location),
		Authorize: func(ctx context.Context, viewer *model.User, t *Table) error {
			if err := staffOnly(ctx, viewer, t); err != nil {
				return err
			}
			ok, err := perms.HasPerm(ctx, viewer, t.Permission)
			if err != nil {
				return fmt.Errorf("export.Admin.Authorize: %w", err)
			}
			if !ok {
				return ErrNoPermission
			}
			return nil
		},
		RowLimit:  opts.RowLimit,
		OrderByID: true,
		FileName:  func(*Table) string { return "export.xlsx" },
		SheetName: adminSheetName,
	})
}

// adminSheetName 取 "app.Model" 的模型名，最长 31 个字符
func adminSheetName(t *Table) string {
	name := t.Key
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
