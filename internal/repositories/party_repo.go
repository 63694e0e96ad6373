package repositories

import (
	"context"
	"fmt"

	"shopdesk/internal/common"
	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// partyTable implements the contact CRUD shared by the customers and suppliers tables.
type partyTable struct {
	db       DB
	table    string
	resource string
}

const partyColumns = `id, name, email, phone, address, tax_id, note, created_at, updated_at`

func scanParty(row pgx.Row, party *models.Party) error {
	return row.Scan(&party.ID, &party.Name, &party.Email, &party.Phone, &party.Address, &party.TaxID, &party.Note,
		&party.CreatedAt, &party.UpdatedAt)
}

func (t *partyTable) create(ctx context.Context, party *models.Party) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, phone, address, tax_id, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`, t.table)
	_, err := t.db.Exec(ctx, query, party.ID, party.Name, party.Email, party.Phone, party.Address, party.TaxID, party.Note)
	return err
}

func (t *partyTable) getByID(ctx context.Context, id uuid.UUID) (*models.Party, error) {
	party := &models.Party{}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, partyColumns, t.table)
	if err := scanParty(t.db.QueryRow(ctx, query, id), party); err != nil {
		return nil, notFoundOr(err, t.resource, id)
	}
	return party, nil
}

func (t *partyTable) update(ctx context.Context, party *models.Party) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, email = $2, phone = $3, address = $4, tax_id = $5, note = $6, updated_at = NOW()
		WHERE id = $7
	`, t.table)
	tag, err := t.db.Exec(ctx, query, party.Name, party.Email, party.Phone, party.Address, party.TaxID, party.Note, party.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound(t.resource, party.ID)
	}
	return nil
}

func (t *partyTable) delete(ctx context.Context, id uuid.UUID) error {
	tag, err := t.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table), id)
	if err != nil {
		return dependentRowsError(err, t.resource)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound(t.resource, id)
	}
	return nil
}

func (t *partyTable) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, t.table)
	if err := t.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (t *partyTable) search(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Party, error) {
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, partyColumns, t.table)
	args := []interface{}{}
	if q := common.SanitizeSearchQuery(filter.Query); q != "" {
		query += ` WHERE (name ILIKE $1 OR COALESCE(email, '') ILIKE $1)`
		args = append(args, "%"+q+"%")
	}
	query += fmt.Sprintf(` ORDER BY name ASC, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []*models.Party
	for rows.Next() {
		party := &models.Party{}
		if err := scanParty(rows, party); err != nil {
			return nil, err
		}
		parties = append(parties, party)
	}
	return parties, rows.Err()
}
