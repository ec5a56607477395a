package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateLead is returned when a lead ID is stored twice.
var ErrDuplicateLead = errors.New("contact: duplicate lead")

// Repository persists captured leads.
type Repository interface {
	Insert(ctx context.Context, lead Lead) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a PostgreSQL backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const insertLead = `INSERT INTO contact_leads
	(id, name, email, company, license_type, message, remote_addr, user_agent, received_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *repository) Insert(ctx context.Context, lead Lead) error {
	_, err := r.pool.Exec(ctx, insertLead,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Company,
		string(lead.LicenseType),
		lead.Message,
		lead.RemoteAddr,
		lead.UserAgent,
		lead.ReceivedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateLead
		}
		return fmt.Errorf("contact: insert lead: %w", err)
	}
	return nil
}

func (r *repository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_leads WHERE received_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("contact: purge leads: %w", err)
	}
	return tag.RowsAffected(), nil
}
