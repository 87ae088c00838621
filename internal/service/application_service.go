package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/reelhouse/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// defaultNotifyTimeout 限制单次后台通知的总时长
const defaultNotifyTimeout = 30 * time.Second

// ApplicationService 保存创作者申请并在后台通知工作人员
type ApplicationService struct {
	db            *gorm.DB
	notifier      Notifier
	notifyTimeout time.Duration
	pending       sync.WaitGroup
}

// ApplicationInput 是公开申请表单
type ApplicationInput struct {
	Name          string
	Email         string
	Role          string
	Location      string
	PortfolioLink string
	Experience    string
	FileURLs      []string
}

// Validate 校验申请字段
func (in ApplicationInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.PortfolioLink, is.URL),
		validation.Field(&in.Experience, validation.Length(0, 5000)),
	)
}

// NewApplicationService 创建 ApplicationService，notifier 为 nil 时不发送通知
func NewApplicationService(gdb *gorm.DB, notifier Notifier) *ApplicationService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ApplicationService{db: gdb, notifier: notifier, notifyTimeout: defaultNotifyTimeout}
}

// WithNotifyTimeout 覆盖后台通知的超时时间
func (s *ApplicationService) WithNotifyTimeout(d time.Duration) *ApplicationService {
	if d > 0 {
		s.notifyTimeout = d
	}
	return s
}

// Submit 先写入申请记录，再在后台投递通知。
// 通知不占用请求时间，失败只记录日志。
func (s *ApplicationService) Submit(ctx context.Context, input ApplicationInput) (*db.CreatorApplication, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.PortfolioLink = strings.TrimSpace(input.PortfolioLink)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	app := db.CreatorApplication{
		Name:          input.Name,
		Email:         input.Email,
		Role:          strings.TrimSpace(input.Role),
		Location:      strings.TrimSpace(input.Location),
		PortfolioLink: input.PortfolioLink,
		Experience:    strings.TrimSpace(input.Experience),
		FileURLs:      datatypes.JSONSlice[string](append([]string{}, input.FileURLs...)),
	}
	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return nil, err
	}

	s.dispatch(app)
	return &app, nil
}

// dispatch 使用独立的 context，请求结束后投递仍可继续
func (s *ApplicationService) dispatch(app db.CreatorApplication) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyApplication(ctx, &app); err != nil {
			log.Printf("[notify] application %d: %v", app.ID, err)
		}
	}()
}

// WaitNotifications 阻塞直到已派发的通知全部结束
func (s *ApplicationService) WaitNotifications() {
	s.pending.Wait()
}

// List 按提交时间倒序返回申请
func (s *ApplicationService) List(page, perPage int) ([]db.CreatorApplication, int64, error) {
	window := newPageWindow(page, perPage, 20)

	var total int64
	if err := s.db.Model(&db.CreatorApplication{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []db.CreatorApplication
	if err := s.db.Order("created_at desc").Order("id desc").
		Scopes(window.scope).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}
