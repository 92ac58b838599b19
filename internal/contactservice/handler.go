package contactservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/ekesta/portfolio/internal/common"
)

func NewContactService(db *sql.DB, mb common.MessageProducer, logger *slog.Logger) *ContactService {
	return &ContactService{
		store:  newContactModel(db),
		mb:     mb,
		logger: logger,
	}
}

type SubmitContactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	IPAddress string `json:"-"`
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SubmitContact stores a contact message and publishes a contact.received
// event. A failed publish is logged only, the message is already stored.
func (s *ContactService) SubmitContact(ctx context.Context, req *SubmitContactRequest) (*Contact, error) {
	c := &Contact{
		Name:      strings.TrimSpace(req.Name),
		Email:     NormalizeEmail(req.Email),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		IPAddress: req.IPAddress,
	}

	v := common.NewValidator()
	validateName(v, c.Name)
	validateEmail(v, c.Email)
	validateSubject(v, c.Subject)
	validateMessage(v, c.Message)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.store.insert(ctx, c); err != nil {
		return nil, err
	}

	s.publishReceived(ctx, c)

	return c, nil
}

func (s *ContactService) publishReceived(ctx context.Context, c *Contact) {
	body, err := json.Marshal(common.ContactReceivedEvent{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Subject: c.Subject,
		Message: c.Message,
	})
	if err != nil {
		s.logger.Error("could not marshal contact event", slog.Int64("contact_id", c.ID), slog.String("error", err.Error()))
		return
	}

	if err := s.mb.Publish(ctx, body, common.ContactReceivedKey, common.ContactExchange); err != nil {
		s.logger.Error("could not publish contact event", slog.Int64("contact_id", c.ID), slog.String("error", err.Error()))
	}
}

// ListContacts returns one page of contact messages, newest first. An empty
// status matches every message.
func (s *ContactService) ListContacts(ctx context.Context, f ListFilter) ([]Contact, *common.Pagination, error) {
	f.Status = strings.TrimSpace(f.Status)

	v := common.NewValidator()
	common.ValidatePage(v, f.Page, f.Limit, maxPageLimit)
	if f.Status != "" {
		validateStatus(v, f.Status)
	}
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	contacts, total, err := s.store.list(ctx, f)
	if err != nil {
		return nil, nil, err
	}

	return contacts, common.NewPagination(f.Page, f.Limit, total), nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id int64, status string) (*Contact, error) {
	v := common.NewValidator()
	validateID(v, id)
	validateStatus(v, status)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.store.updateStatus(ctx, id, status)
}
