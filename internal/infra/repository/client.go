package repository

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/client"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	clientColumns = `id, business_id, name, email, phone, consent, consent_at`

	queryFindClientByEmail = `SELECT ` + clientColumns + ` FROM clients WHERE business_id = $1 AND email = $2`
	queryFindClientByID    = `SELECT ` + clientColumns + ` FROM clients WHERE business_id = $1 AND id = $2`
	queryCreateClient      = `INSERT INTO clients (id, business_id, name, email, phone, consent, consent_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (business_id, email) DO NOTHING`
)

type ClientRepository struct {
	db db.DBTX
}

func NewClientRepository(db db.DBTX) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) FindByEmail(ctx context.Context, businessID uuid.UUID, email client.Email) (*client.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, queryFindClientByEmail, businessID, email.Value()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find client by email", err)
	}
	return c, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*client.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, queryFindClientByID, businessID, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find client", err)
	}
	return c, nil
}

// Create reports an existing (business, email) pair as DuplicateKey without
// aborting the surrounding transaction, so the caller can re-read the row.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	tag, err := r.db.Exec(ctx, queryCreateClient,
		c.ID(), c.BusinessID(), c.Name(), c.Email().Value(), c.Phone(), c.Consent(), c.ConsentAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create client", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("client email already registered", errs.New("duplicate client email"), infra.KindDuplicateKey)
	}
	return nil
}

func scanClient(row pgx.Row) (*client.Client, error) {
	var (
		id, businessID     uuid.UUID
		name, email, phone string
		consent            bool
		consentAt          *time.Time
	)
	if err := row.Scan(&id, &businessID, &name, &email, &phone, &consent, &consentAt); err != nil {
		return nil, err
	}
	return client.ReconstructClient(id, businessID, name, client.ReconstructEmail(email), phone, consent, consentAt), nil
}
