package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingTransport struct {
	mu   sync.Mutex
	sent []*Message
	err  error
}

func (r *recordingTransport) Send(_ context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func newService(t *testing.T, transport Transport) *Service {
	t.Helper()
	s, err := NewService(transport, "no-reply@restb.local", zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestRender_AllTypes(t *testing.T) {
	s := newService(t, &recordingTransport{})

	tests := []struct {
		email Email
		want  string
	}{
		{Email{Type: TypeRegistered, To: "john@doe.com", Data: RegisteredData{FirstName: "John"}}, "Welcome, John!"},
		{Email{Type: TypeForgotPassword, To: "john@doe.com", Data: ForgotPasswordData{
			FirstName: "John",
			Link:      "http://localhost:3001/reset-password?token=abc",
		}}, "http://localhost:3001/reset-password?token=abc"},
		{Email{Type: TypeBookingUpdated, To: "john@doe.com", Data: BookingUpdatedData{
			FirstName:      "John",
			RestaurantName: "Chez Nous",
			BookingTime:    time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC),
			Status:         "Confirmed",
			Message:        "See you soon",
		}}, "Chez Nous"},
		{Email{Type: TypeEmployeeInvite, To: "jane@doe.com", Data: EmployeeInviteData{
			BrandName: "Pizza Co",
			Link:      "http://localhost:3001/b2b/employee/register?token=xyz",
		}}, "Pizza Co"},
	}

	for _, tt := range tests {
		t.Run(string(tt.email.Type), func(t *testing.T) {
			msg, err := s.Render(tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.email.To, msg.To)
			assert.Equal(t, "no-reply@restb.local", msg.From)
			assert.NotEmpty(t, msg.Subject)
			assert.Contains(t, msg.HTML, tt.want)
			assert.Contains(t, msg.Text, tt.want)
			assert.Contains(t, msg.HTML, "<html>")
		})
	}
}

func TestRender_EscapesHTML(t *testing.T) {
	s := newService(t, &recordingTransport{})

	msg, err := s.Render(Email{Type: TypeRegistered, Data: RegisteredData{FirstName: "<b>x</b>"}})
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<b>x</b>")
	assert.Contains(t, msg.Text, "<b>x</b>")
}

func TestRender_UnknownType(t *testing.T) {
	s := newService(t, &recordingTransport{})
	_, err := s.Render(Email{Type: "nope"})
	assert.Error(t, err)
}

func TestDispatch_SurvivesCanceledRequest(t *testing.T) {
	transport := &recordingTransport{}
	s := newService(t, transport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Dispatch(ctx, Email{Type: TypeRegistered, To: "john@doe.com", Data: RegisteredData{FirstName: "John"}})
	s.Wait()

	require.Len(t, transport.sent, 1)
	assert.Equal(t, "john@doe.com", transport.sent[0].To)
}

func TestSend_TransportFailure(t *testing.T) {
	s := newService(t, &recordingTransport{err: errors.New("relay down")})
	err := s.Send(context.Background(), Email{Type: TypeRegistered, To: "john@doe.com", Data: RegisteredData{}})
	assert.ErrorContains(t, err, "relay down")
}

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	return &ses.SendEmailOutput{}, nil
}

func TestSESTransport(t *testing.T) {
	client := &fakeSES{}
	transport := &SESTransport{client: client}

	err := transport.Send(context.Background(), &Message{
		From:    "no-reply@restb.local",
		To:      "john@doe.com",
		Subject: "Hi",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
	})
	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, []string{"john@doe.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "no-reply@restb.local", *client.input.Source)
	assert.Equal(t, "<p>Hi</p>", *client.input.Message.Body.Html.Data)
	assert.Equal(t, "Hi", *client.input.Message.Body.Text.Data)
}

func TestBuildMIME(t *testing.T) {
	raw, err := buildMIME(&Message{
		From:    "no-reply@restb.local",
		To:      "john@doe.com",
		Subject: "Réservation",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
	})
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "To: john@doe.com\r\n")
	assert.Contains(t, body, "Subject: =?utf-8?q?")
	assert.Contains(t, body, "multipart/alternative; boundary=")
	assert.Contains(t, body, "text/plain; charset=UTF-8")
	assert.Contains(t, body, "<p>Hi</p>")
}
