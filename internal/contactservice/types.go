package contactservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/ekesta/portfolio/internal/common"
)

const (
	StatusNew     = "new"
	StatusRead    = "read"
	StatusReplied = "replied"
)

var Statuses = []string{StatusNew, StatusRead, StatusReplied}

type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IPAddress string    `json:"ip_address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListFilter struct {
	Page   int
	Limit  int
	Status string
}

type contactStore interface {
	insert(ctx context.Context, c *Contact) error
	list(ctx context.Context, f ListFilter) ([]Contact, int, error)
	updateStatus(ctx context.Context, id int64, status string) (*Contact, error)
}

type ContactModel struct {
	db *sql.DB
}

type ContactService struct {
	store  contactStore
	mb     common.MessageProducer
	logger *slog.Logger
}
