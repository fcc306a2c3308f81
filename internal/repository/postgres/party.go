package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/repository"
)

// Renters and owners live in separate directory tables; Get dispatches on
// the recipient kind.
type partyRepository struct {
	db *sql.DB
}

func NewPartyRepository(db *sql.DB) repository.PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) Get(ctx context.Context, kind domain.PartyKind, id int32) (*domain.Party, error) {
	var table string
	switch kind {
	case domain.PartyKindRenter:
		table = "renters"
	case domain.PartyKindOwner:
		table = "owners"
	default:
		return nil, fmt.Errorf("unknown party kind %q", kind)
	}

	p := &domain.Party{Kind: kind}
	query := `SELECT id, name, email, blocked, created_on FROM ` + table + ` WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Email, &p.Blocked, &p.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: string(kind), ID: id}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
