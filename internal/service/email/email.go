package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"sync"
	texttemplate "text/template"
	"time"

	"github.com/suteetoe/restb/prometheus"
	"go.uber.org/zap"
)

// Type selects the template of an email
type Type string

const (
	TypeRegistered     Type = "registered"
	TypeForgotPassword Type = "forgotPassword"
	TypeBookingUpdated Type = "bookingUpdated"
	TypeEmployeeInvite Type = "employeeInvite"
)

var subjects = map[Type]string{
	TypeRegistered:     "Welcome to Restaurant Booking",
	TypeForgotPassword: "Password recovery",
	TypeBookingUpdated: "Your booking was updated",
	TypeEmployeeInvite: "You are invited to join your team",
}

// RegisteredData fills the welcome email
type RegisteredData struct {
	FirstName string
}

// ForgotPasswordData fills the password recovery email
type ForgotPasswordData struct {
	FirstName string
	Link      string
}

// BookingUpdatedData fills the booking status email
type BookingUpdatedData struct {
	FirstName      string
	RestaurantName string
	BookingTime    time.Time
	Status         string
	Message        string
}

// EmployeeInviteData fills the employee invitation email
type EmployeeInviteData struct {
	BrandName string
	Link      string
}

// Email is one notification to render and deliver
type Email struct {
	Type Type
	To   string
	Data interface{}
}

// Message is a rendered email ready for a transport
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers rendered messages
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

//go:embed templates
var templates embed.FS

// Service renders and sends transactional email
type Service struct {
	transport Transport
	from      string
	html      *htmltemplate.Template
	text      *texttemplate.Template
	timeout   time.Duration
	log       *zap.Logger
	wg        sync.WaitGroup
}

func NewService(transport Transport, from string, log *zap.Logger) (*Service, error) {
	html, err := htmltemplate.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templates, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Service{
		transport: transport,
		from:      from,
		html:      html,
		text:      text,
		timeout:   30 * time.Second,
		log:       log,
	}, nil
}

// Render builds the message for e
func (s *Service) Render(e Email) (*Message, error) {
	subject, ok := subjects[e.Type]
	if !ok {
		return nil, fmt.Errorf("unknown email type %q", e.Type)
	}

	var html, text bytes.Buffer
	if err := s.html.ExecuteTemplate(&html, string(e.Type)+".html", e.Data); err != nil {
		return nil, fmt.Errorf("render %s html: %w", e.Type, err)
	}
	if err := s.text.ExecuteTemplate(&text, string(e.Type)+".txt", e.Data); err != nil {
		return nil, fmt.Errorf("render %s text: %w", e.Type, err)
	}

	return &Message{
		From:    s.from,
		To:      e.To,
		Subject: subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// Send renders and delivers e
func (s *Service) Send(ctx context.Context, e Email) error {
	msg, err := s.Render(e)
	if err != nil {
		prometheus.RecordEmail(string(e.Type), "error")
		return err
	}
	if err := s.transport.Send(ctx, msg); err != nil {
		prometheus.RecordEmail(string(e.Type), "error")
		return fmt.Errorf("send %s email: %w", e.Type, err)
	}
	prometheus.RecordEmail(string(e.Type), "sent")
	return nil
}

// Dispatch sends e in the background. The request may finish first, so the
// send runs on a context detached from its cancellation.
func (s *Service) Dispatch(ctx context.Context, e Email) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		if err := s.Send(ctx, e); err != nil {
			s.log.Error("Failed to send email",
				zap.String("type", string(e.Type)),
				zap.String("to", e.To),
				zap.Error(err))
		}
	}()
}

// Wait blocks until dispatched emails finish
func (s *Service) Wait() {
	s.wg.Wait()
}
