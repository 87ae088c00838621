package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	ErrContactRelayDisabled = errors.New("contact form relay is not configured")
	ErrContactRelayFailed   = errors.New("contact form relay rejected the submission")
)

// ContactInput 是公开联系表单的固定字段集合
type ContactInput struct {
	Name        string `json:"name" form:"name"`
	Company     string `json:"company" form:"company"`
	Email       string `json:"email" form:"email"`
	ProjectType string `json:"projectType" form:"projectType"`
	Timeline    string `json:"timeline" form:"timeline"`
	Budget      string `json:"budget" form:"budget"`
	Message     string `json:"message" form:"message"`
}

// Validate 校验联系表单字段
func (in ContactInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Message, validation.Required, validation.Length(1, 5000)),
	)
}

func (in ContactInput) values() url.Values {
	v := url.Values{}
	v.Set("name", in.Name)
	v.Set("company", in.Company)
	v.Set("email", in.Email)
	v.Set("projectType", in.ProjectType)
	v.Set("timeline", in.Timeline)
	v.Set("budget", in.Budget)
	v.Set("message", in.Message)
	return v
}

// ContactService 将联系表单转发给第三方表单中继
type ContactService struct {
	relayURL string
	client   *http.Client
}

// NewContactService 创建 ContactService，client 可以为 nil
func NewContactService(relayURL string, client *http.Client) *ContactService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ContactService{relayURL: strings.TrimSpace(relayURL), client: client}
}

// Submit 以表单编码提交字段，任意 2xx 视为成功，
// 不解析响应体。
func (s *ContactService) Submit(ctx context.Context, input ContactInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Message = strings.TrimSpace(input.Message)
	if err := input.Validate(); err != nil {
		return err
	}
	if s.relayURL == "" {
		return ErrContactRelayDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.relayURL, strings.NewReader(input.values().Encode()))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrContactRelayFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrContactRelayFailed, resp.StatusCode)
	}
	return nil
}
