package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Message is a rendered e-mail ready to hand to a Sender.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// EmailService defines the notifications the application sends.
type EmailService interface {
	SendWelcome(ctx context.Context, data WelcomeData) error
	SendLeaveDecision(ctx context.Context, data LeaveDecisionData) error
}

type WelcomeData struct {
	To                string
	EmployeeName      string
	EmployeeCode      string
	TemporaryPassword string
}

type LeaveDecisionData struct {
	To           string
	EmployeeName string
	LeaveType    string
	StartDate    string
	EndDate      string
	NumberOfDays string
	Status       string
	Comments     string
	ApproverName string
}

type emailServiceImpl struct {
	sender    Sender
	loginURL  string
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(sender Sender, loginURL string) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		sender:    sender,
		loginURL:  loginURL,
		templates: tmpl,
	}, nil
}

type welcomeEmailData struct {
	WelcomeData
	LoginURL string
}

// SendWelcome sends the first-login credentials to a new employee
func (s *emailServiceImpl) SendWelcome(ctx context.Context, data WelcomeData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "welcome.html", welcomeEmailData{WelcomeData: data, LoginURL: s.loginURL}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sender.Send(ctx, Message{
		To:      data.To,
		Subject: "Welcome to Dayflow",
		HTML:    body.String(),
	})
}

// SendLeaveDecision tells the applicant that their request was approved or rejected
func (s *emailServiceImpl) SendLeaveDecision(ctx context.Context, data LeaveDecisionData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_decision.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sender.Send(ctx, Message{
		To:      data.To,
		Subject: fmt.Sprintf("Your leave request was %s", data.Status),
		HTML:    body.String(),
	})
}

// NoopSender drops messages. Used when EMAIL_PROVIDER=none.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, msg Message) error {
	slog.Warn("email provider not configured, skipping email send", "to", msg.To, "subject", msg.Subject)
	return nil
}
