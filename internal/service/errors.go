package service

import (
	"errors"
	"fmt"

	"Volunteer_Service/internal/pkg"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound        = fmt.Errorf("event %w", pkg.ErrNotFound)
	ErrApplicationNotFound  = fmt.Errorf("application %w", pkg.ErrNotFound)
	ErrDuplicateApplication = fmt.Errorf("you have already applied to this event: %w", pkg.ErrDuplicate)
	ErrLoginRequired        = fmt.Errorf("login required: %w", pkg.ErrUnauthenticated)
	ErrInvalidCredentials   = fmt.Errorf("invalid credentials: %w", pkg.ErrUnauthenticated)
	ErrStaffOnly            = fmt.Errorf("staff only: %w", pkg.ErrForbidden)
)

// notFound gorm 未找到转成领域错误，其他错误带上 op
func notFound(op string, err, kind error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return kind
	}
	return fmt.Errorf("%s: %w", op, err)
}
