package service

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/reelhouse/internal/db"
	"gopkg.in/gomail.v2"
)

// defaultSMTPTimeout 限制整个 SMTP 会话，ctx 未设置截止时间时使用
const defaultSMTPTimeout = 20 * time.Second

// Notifier 通知工作人员有新的创作者申请，投递失败由调用方记录后丢弃
type Notifier interface {
	NotifyApplication(ctx context.Context, app *db.CreatorApplication) error
}

// NopNotifier 丢弃所有通知
type NopNotifier struct{}

func (NopNotifier) NotifyApplication(context.Context, *db.CreatorApplication) error { return nil }

// SMTPConfig 保存中继服务器凭据
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

// SMTPNotifier 通过 SMTP 中继发送纯文本申请摘要
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NewSMTPNotifier 在缺少 host 或收件人时返回 NopNotifier
func NewSMTPNotifier(cfg SMTPConfig) Notifier {
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.To) == "" {
		return NopNotifier{}
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPNotifier{cfg: cfg}
}

// NotifyApplication 组装邮件并在 ctx 的截止时间内完成投递。
// 连接上设置了读写截止时间，中继接受连接后不响应也不会一直挂起。
func (n *SMTPNotifier) NotifyApplication(ctx context.Context, app *db.CreatorApplication) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Reply-To", app.Email)
	m.SetHeader("Subject", fmt.Sprintf("New creator application: %s", app.Name))
	m.SetBody("text/plain", applicationSummary(app))

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultSMTPTimeout)
		defer cancel()
	}

	client, err := n.open(ctx)
	if err != nil {
		return fmt.Errorf("smtp session: %w", err)
	}
	defer client.Close()

	if err := gomail.Send(smtpSender{client}, m); err != nil {
		return err
	}
	return client.Quit()
}

// open 拨号并完成握手、STARTTLS 与认证，连接截止时间取自 ctx
func (n *SMTPNotifier) open(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, err
	}
	// ctx 提前取消时立即打断阻塞中的读写
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	tlsConfig := &tls.Config{ServerName: n.cfg.Host}
	if n.cfg.Port == 465 {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if n.cfg.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				client.Close()
				return nil, err
			}
		}
	}
	if n.cfg.User != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)); err != nil {
				client.Close()
				return nil, err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// smtpSender 让 gomail 在已建立的会话上投递
type smtpSender struct {
	client *smtp.Client
}

func (s smtpSender) Send(from string, to []string, msg io.WriterTo) error {
	if len(to) == 0 {
		return errors.New("no recipients")
	}
	if err := s.client.Mail(from); err != nil {
		return err
	}
	for _, addr := range to {
		if err := s.client.Rcpt(addr); err != nil {
			return err
		}
	}
	w, err := s.client.Data()
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func applicationSummary(app *db.CreatorApplication) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", app.Name)
	fmt.Fprintf(&b, "Email: %s\n", app.Email)
	fmt.Fprintf(&b, "Role: %s\n", app.Role)
	fmt.Fprintf(&b, "Location: %s\n", app.Location)
	fmt.Fprintf(&b, "Portfolio: %s\n", app.PortfolioLink)
	b.WriteString("\nExperience:\n")
	b.WriteString(app.Experience)
	b.WriteString("\n")
	if len(app.FileURLs) > 0 {
		b.WriteString("\nFiles:\n")
		for _, url := range app.FileURLs {
			fmt.Fprintf(&b, "- %s\n", url)
		}
	}
	return b.String()
}
