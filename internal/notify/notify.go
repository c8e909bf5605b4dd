package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pharmadesk/m/domain"
)

const contactSubject = "Contact Us Form Submission"

// Contact is a visitor's contact-form submission.
type Contact struct {
	Name    string
	Email   string
	Message string
}

// Message is a single plain-text mail.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Transport delivers a message synchronously.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// Service forwards contact submissions to the pharmacy operator.
type Service struct {
	operator  string
	transport Transport
	logger    *zap.Logger
}

func NewService(operator string, transport Transport, logger *zap.Logger) *Service {
	return &Service{operator: operator, transport: transport, logger: logger}
}

// Send validates the submission and dispatches it within the caller's request.
func (s *Service) Send(ctx context.Context, c Contact) error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return &domain.ValidationError{Field: "name", Reason: "is required"}
	case strings.TrimSpace(c.Email) == "":
		return &domain.ValidationError{Field: "email", Reason: "is required"}
	case strings.TrimSpace(c.Message) == "":
		return &domain.ValidationError{Field: "message", Reason: "is required"}
	}

	msg := Message{
		To:      s.operator,
		ReplyTo: strings.TrimSpace(c.Email),
		Subject: contactSubject,
		Body:    fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s", c.Name, c.Email, c.Message),
	}
	if err := s.transport.Deliver(ctx, msg); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		s.logger.Error("contact notification failed", zap.String("reply_to", msg.ReplyTo), zap.Error(err))
		return &domain.NotificationError{Err: err}
	}
	s.logger.Info("contact notification sent", zap.String("reply_to", msg.ReplyTo))
	return nil
}
