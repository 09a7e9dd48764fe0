package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

const itemColumns = `i.id, i.name, i.description, i.available, i.owner_id, i.request_id, i.created_at, i.updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID,
		&requestID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		id := requestID.Int64
		item.RequestID = &id
	}
	return &item, nil
}

func scanItems(rows *sql.Rows) ([]*models.Item, error) {
	defer rows.Close()
	items := make([]*models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		item.Name,
		item.Description,
		item.Available,
		item.OwnerID,
		nullableID(item.RequestID),
		ts(now),
		ts(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = ?`
	item, err := scanItem(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, ts(now), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	item.UpdatedAt = now
	return nil
}

// GetItemsByOwner returns a page of the owner's items ordered by id.
func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i
              WHERE i.owner_id = ?
              ORDER BY i.id ASC
              LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, ownerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list owner items: %w", err)
	}
	return scanItems(rows)
}

// SearchItems matches text case-insensitively against name or description of
// available items. Both sides are folded with strings.ToLower, so non-ASCII
// text matches too.
func (db *DB) SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	query := `SELECT ` + itemColumns + ` FROM items i
              WHERE i.available = 1
                AND (ulower(i.name) LIKE ? ESCAPE '\' OR ulower(i.description) LIKE ? ESCAPE '\')
              ORDER BY i.id ASC
              LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, pattern, pattern, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return scanItems(rows)
}

// GetItemsByRequestIDs loads the items created against each request in one query.
func (db *DB) GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]*models.Item, error) {
	result := make(map[int64][]*models.Item, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}

	marks, args := placeholders(requestIDs)
	query := `SELECT ` + itemColumns + ` FROM items i
              WHERE i.request_id IN (` + marks + `)
              ORDER BY i.id ASC`
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load request items: %w", err)
	}
	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		result[*item.RequestID] = append(result[*item.RequestID], item)
	}
	return result, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
