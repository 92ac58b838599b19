package mailservice

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/ekesta/portfolio/internal/common"
)

const (
	notificationTemplate = "contact_notification.html"
	autoReplyTemplate    = "contact_autoreply.html"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string

	// AdminAddress receives a notification for every contact message.
	AdminAddress string
	AdminName    string
	AutoReply    bool
}

type MailService struct {
	mb        common.MessageConsumer
	m         Mailer
	logger    MailLogger
	admin     string
	adminName string
	autoReply bool
	retry     retryPolicy
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

// Message is a single templated email.
type Message struct {
	To       string
	ReplyTo  string
	Template string
	Data     any
}

type Mailer interface {
	send(msg Message) error
}

type Template struct{}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error)
}
