package contactservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ekesta/portfolio/internal/common"
)

const contactColumns = `id, name, email, subject, message, ip_address, status, created_at, updated_at`

func newContactModel(db *sql.DB) *ContactModel {
	return &ContactModel{db: db}
}

func (m *ContactModel) insert(ctx context.Context, c *Contact) error {
	query := `
		INSERT INTO contacts (name, email, subject, message, ip_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at`

	return m.db.QueryRowContext(ctx, query, c.Name, c.Email, c.Subject, c.Message, c.IPAddress).
		Scan(&c.ID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}

func (m *ContactModel) list(ctx context.Context, f ListFilter) ([]Contact, int, error) {
	query := `
		SELECT COUNT(*) OVER(), ` + contactColumns + `
		FROM contacts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, f.Status, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	contacts := []Contact{}
	for rows.Next() {
		var c Contact
		err := rows.Scan(&total, &c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.IPAddress, &c.Status, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// pages past the end return no rows to read the window count from
	if len(contacts) == 0 && f.Page > 1 {
		if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE ($1 = '' OR status = $1)`, f.Status).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	return contacts, total, nil
}

func (m *ContactModel) updateStatus(ctx context.Context, id int64, status string) (*Contact, error) {
	query := `
		UPDATE contacts
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + contactColumns

	var c Contact
	err := m.db.QueryRowContext(ctx, query, status, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.IPAddress, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}
