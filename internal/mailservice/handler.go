package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ekesta/portfolio/internal/common"
	"golang.org/x/exp/rand"
)

func NewMailService(mb common.MessageConsumer, cfg Config, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Sender, NewTemplate()),
		logger:    logger,
		admin:     cfg.AdminAddress,
		adminName: cfg.AdminName,
		autoReply: cfg.AutoReply,
		retry:     retryPolicy{attempts: 5, baseDelay: 500 * time.Millisecond},
		ctx:       ctx,
		cancel:    cancel,
	}
}

type notificationData struct {
	common.ContactReceivedEvent
	AdminName string
}

// HandleContactMessages consumes contact.received events in the background
// until Close is called. Every delivery is acked once handled, failed sends
// are logged and dropped. A delivery whose sends were cut short by Close is
// requeued.
func (s *MailService) HandleContactMessages() error {
	msgs, err := s.mb.Consume(common.ContactReceivedKey, common.ContactExchange, common.ContactReceivedQueue)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				if !s.handleContact(msg.Body) {
					if err := msg.Nack(false, true); err != nil {
						s.logger.Error("could not requeue message", slog.String("error", err.Error()))
					}
					s.logger.Info("requeued contact message after shutdown")
					return
				}

				if err := msg.Ack(false); err != nil {
					s.logger.Error("could not ack message", slog.String("error", err.Error()))
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping contact mail consumer")
				return
			}
		}
	}()

	return nil
}

// handleContact reports false when shutdown interrupted a send.
func (s *MailService) handleContact(body []byte) bool {
	var event common.ContactReceivedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		return true
	}

	data := notificationData{ContactReceivedEvent: event, AdminName: s.adminName}

	if s.admin != "" {
		sent := s.sendWithRetry(Message{
			To:       s.admin,
			ReplyTo:  event.Email,
			Template: notificationTemplate,
			Data:     data,
		})
		if !sent && s.ctx.Err() != nil {
			return false
		}
	}

	if s.autoReply {
		sent := s.sendWithRetry(Message{
			To:       event.Email,
			Template: autoReplyTemplate,
			Data:     data,
		})
		if !sent && s.ctx.Err() != nil {
			return false
		}
	}

	return true
}

// sendWithRetry uses exponential backoff with full jitter between attempts.
func (s *MailService) sendWithRetry(msg Message) bool {
	for attempt := 0; attempt < s.retry.attempts; attempt++ {
		err := s.m.send(msg)
		if err == nil {
			s.logger.Info("email sent", slog.String("email", msg.To), slog.String("template", msg.Template))
			return true
		}

		if attempt == s.retry.attempts-1 {
			break
		}

		delay := time.Duration(rand.Int63n(int64(s.retry.baseDelay) << uint(attempt)))
		s.logger.Info("delaying email", slog.String("email", msg.To), slog.Int("attempt", attempt), slog.Duration("delay", delay), slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return false
		}
	}

	s.logger.Error("could not send email", slog.String("email", msg.To), slog.String("template", msg.Template))
	return false
}

// Close stops the consumer and waits for the message in flight.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
