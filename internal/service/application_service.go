package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Volunteer_Service/internal/model"
	"Volunteer_Service/internal/pkg"
	"Volunteer_Service/internal/repository/mysql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MaxMotivationLength = 5000

var validate = validator.New()

type applyInput struct {
	Motivation string `validate:"required,max=5000"`
}

// ApplyForm 报名表单：活动和字段约束
type ApplyForm struct {
	Event         *model.Event
	MaxMotivation int
}

type ApplyResult struct {
	Application *model.VolunteerApplication
	Event       *model.Event
}

type ApplicationService struct {
	events *mysql.EventRepository
	apps   *mysql.ApplicationRepository
	deps   Deps
}

func NewApplicationService(db *gorm.DB, deps Deps) *ApplicationService {
	return &ApplicationService{
		events: &mysql.EventRepository{DB: db},
		apps:   &mysql.ApplicationRepository{DB: db},
		deps:   deps.withDefaults(),
	}
}

// Form 报名页：已报名时返回已有申请和 ErrDuplicateApplication
func (s *ApplicationService) Form(ctx context.Context, userID, eventID uint64) (*ApplyForm, error) {
	const op = "service.ApplicationService.Form"

	if userID == 0 {
		return nil, ErrLoginRequired
	}
	ev, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, notFound(op, err, ErrEventNotFound)
	}
	form := &ApplyForm{Event: ev, MaxMotivation: MaxMotivationLength}

	existing, err := s.apps.FindByUserEvent(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return form, ErrDuplicateApplication
	}
	return form, nil
}

// Apply 报名。重复报名是软错误：返回已有申请和 ErrDuplicateApplication，不写库。
func (s *ApplicationService) Apply(ctx context.Context, userID, eventID uint64, motivation string) (*ApplyResult, error) {
	const op = "service.ApplicationService.Apply"

	if userID == 0 {
		return nil, ErrLoginRequired
	}
	ev, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, notFound(op, err, ErrEventNotFound)
	}

	existing, err := s.apps.FindByUserEvent(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return &ApplyResult{Application: existing, Event: ev}, ErrDuplicateApplication
	}

	in := applyInput{Motivation: strings.TrimSpace(motivation)}
	if err := validate.Struct(in); err != nil {
		return nil, motivationError(err)
	}

	app := &model.VolunteerApplication{
		UserID:     userID,
		EventID:    eventID,
		Motivation: in.Motivation,
		Status:     model.StatusPending,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发下另一个请求先写入
			existing, _ = s.apps.FindByUserEvent(ctx, userID, eventID)
			return &ApplyResult{Application: existing, Event: ev}, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.deps.Metrics.ApplicationsCreated.Inc()
	publish(ctx, s.deps.Publisher, s.deps.Log, Activity{
		Type:    ActivityApplicationCreated,
		UserID:  userID,
		EventID: eventID,
		Data:    map[string]any{"application_id": app.ID},
	})
	s.deps.Log.Info("application created",
		zap.String("op", op),
		zap.Uint64("user_id", userID),
		zap.Uint64("event_id", eventID),
	)

	return &ApplyResult{Application: app, Event: ev}, nil
}

func motivationError(err error) error {
	fields := pkg.FieldErrors{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Tag() {
			case "required":
				fields["motivation"] = "This field is required."
			case "max":
				fields["motivation"] = fmt.Sprintf("Ensure this value has at most %d characters.", MaxMotivationLength)
			default:
				fields["motivation"] = "Enter a valid value."
			}
		}
	}
	return &pkg.ValidationError{Msg: "please correct the errors below", Fields: fields}
}

// ListMine 当前用户的申请，新的在前
func (s *ApplicationService) ListMine(ctx context.Context, userID uint64) ([]model.VolunteerApplication, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	list, err := s.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ApplicationService.ListMine: %w", err)
	}
	return list, nil
}

// SetStatus 工作人员审核申请
func (s *ApplicationService) SetStatus(ctx context.Context, actor *model.User, appID uint64, status model.ApplicationStatus) (*model.VolunteerApplication, error) {
	const op = "service.ApplicationService.SetStatus"

	if actor == nil {
		return nil, ErrLoginRequired
	}
	if !actor.CanManage() {
		return nil, ErrStaffOnly
	}
	status = model.ApplicationStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, &pkg.ValidationError{
			Msg:    "invalid status",
			Fields: pkg.FieldErrors{"status": fmt.Sprintf("%q is not one of PENDING, APPROVED, REJECTED.", status)},
		}
	}

	app, err := s.apps.UpdateStatus(ctx, appID, status)
	if err != nil {
		return nil, notFound(op, err, ErrApplicationNotFound)
	}

	publish(ctx, s.deps.Publisher, s.deps.Log, Activity{
		Type:    ActivityApplicationStatus,
		UserID:  actor.ID,
		EventID: app.EventID,
		Data:    map[string]any{"application_id": app.ID, "status": string(status)},
	})
	return app, nil
}
