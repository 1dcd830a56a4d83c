package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	messages []Message
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func TestEmailService_SendWelcome(t *testing.T) {
	sender := &recordingSender{}
	svc, err := NewEmailService(sender, "https://app.dayflow.com/login")
	require.NoError(t, err)

	err = svc.SendWelcome(context.Background(), WelcomeData{
		To:                "alice@dayflow.com",
		EmployeeName:      "Alice Johnson",
		EmployeeCode:      "EMP-2026-0002",
		TemporaryPassword: "Ab3$efGh1@kL",
	})
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, "alice@dayflow.com", msg.To)
	assert.Equal(t, "Welcome to Dayflow", msg.Subject)
	assert.Contains(t, msg.HTML, "EMP-2026-0002")
	assert.Contains(t, msg.HTML, "Ab3$efGh1@kL")
	assert.Contains(t, msg.HTML, "https://app.dayflow.com/login")
}

func TestEmailService_SendLeaveDecision(t *testing.T) {
	sender := &recordingSender{}
	svc, err := NewEmailService(sender, "")
	require.NoError(t, err)

	err = svc.SendLeaveDecision(context.Background(), LeaveDecisionData{
		To:           "bob@dayflow.com",
		EmployeeName: "Bob Smith",
		LeaveType:    "SICK",
		StartDate:    "2026-03-02",
		EndDate:      "2026-03-03",
		NumberOfDays: "2",
		Status:       "REJECTED",
		Comments:     "Peak week",
		ApproverName: "John Admin",
	})
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Your leave request was REJECTED", sender.messages[0].Subject)
	assert.Contains(t, sender.messages[0].HTML, "Peak week")
	assert.Contains(t, sender.messages[0].HTML, "John Admin")
}

func TestSMTPSender_RetriesThenFails(t *testing.T) {
	attempts := 0
	s := NewSMTPSender(SMTPConfig{Host: "smtp.local", Port: 2525, From: "Dayflow <no-reply@dayflow.com>"})
	s.backoff = 0
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		attempts++
		assert.Equal(t, "smtp.local:2525", addr)
		assert.Equal(t, "no-reply@dayflow.com", from)
		assert.Nil(t, a)
		return errors.New("connection refused")
	}

	err := s.Send(context.Background(), Message{To: "bob@dayflow.com", Subject: "Hi", HTML: "<p>Hi</p>"})
	assert.Error(t, err)
	assert.Equal(t, maxRetries, attempts)
}

func TestSMTPSender_SucceedsOnRetry(t *testing.T) {
	attempts := 0
	var sent []byte
	s := NewSMTPSender(SMTPConfig{Host: "smtp.local", Port: 2525, Username: "user", Password: "pass", From: "no-reply@dayflow.com"})
	s.backoff = 0
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		attempts++
		if attempts == 1 {
			return errors.New("temporary failure")
		}
		sent = msg
		return nil
	}

	err := s.Send(context.Background(), Message{To: "bob@dayflow.com", Subject: "Hi", HTML: "<p>Hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, string(sent), "Subject: Hi\r\n")
	assert.Contains(t, string(sent), "Content-Type: text/html")
}

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	return &ses.SendEmailOutput{}, nil
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	s := &SESSender{client: client, sender: "no-reply@dayflow.com"}

	err := s.Send(context.Background(), Message{To: "bob@dayflow.com", Subject: "Hi", HTML: "<p>Hi</p>"})
	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, "no-reply@dayflow.com", *client.input.Source)
	assert.Equal(t, []string{"bob@dayflow.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", *client.input.Message.Subject.Data)
	assert.Equal(t, "<p>Hi</p>", *client.input.Message.Body.Html.Data)
}

func TestAsyncEmailService_DeliversInBackground(t *testing.T) {
	sender := &recordingSender{}
	svc, err := NewEmailService(sender, "http://localhost/login")
	require.NoError(t, err)

	async := NewAsyncEmailService(svc)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, async.SendWelcome(ctx, WelcomeData{To: "a@dayflow.com", EmployeeName: "A", EmployeeCode: "EMP-2026-0009", TemporaryPassword: "x"}))
	cancel()
	async.Wait()

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "a@dayflow.com", sender.messages[0].To)
}
