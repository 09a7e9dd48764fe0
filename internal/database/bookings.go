package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingSelect = `SELECT b.id, b.item_id, b.booker_id, b.start_date, b.end_date, b.status,
                 b.created_at, b.updated_at, i.name, i.owner_id, u.name
              FROM bookings b
              JOIN items i ON i.id = b.item_id
              JOIN users u ON u.id = b.booker_id`

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	item := &models.ItemRef{}
	booker := &models.UserRef{}
	err := row.Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &item.Name, &item.OwnerID, &booker.Name,
	)
	if err != nil {
		return nil, err
	}
	item.ID = b.ItemID
	booker.ID = b.BookerID
	b.Item = item
	b.Booker = booker
	return &b, nil
}

// CreateBookingWithLock inserts a WAITING booking unless its interval
// overlaps an APPROVED or WAITING booking of the same item. The check and the
// insert share one immediate transaction, so concurrent creates serialize on
// the database write lock.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var overlapping int
		queryCount := `SELECT COUNT(*) FROM bookings
                       WHERE item_id = ?
                         AND status IN (?, ?)
                         AND start_date <= ?
                         AND end_date >= ?`
		err := tx.QueryRowContext(ctx, queryCount,
			booking.ItemID, models.StatusApproved, models.StatusWaiting,
			ts(booking.End), ts(booking.Start),
		).Scan(&overlapping)
		if err != nil {
			return fmt.Errorf("failed to check overlap in tx: %w", err)
		}
		if overlapping > 0 {
			return ErrOverlap
		}

		queryInsert := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at)
                        VALUES (?, ?, ?, ?, ?, ?, ?)`
		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx, queryInsert,
			booking.ItemID,
			booking.BookerID,
			ts(booking.Start),
			ts(booking.End),
			models.StatusWaiting,
			ts(now),
			ts(now),
		)
		if err != nil {
			return fmt.Errorf("failed to insert booking in tx: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id in tx: %w", err)
		}
		booking.ID = id
		booking.Status = models.StatusWaiting
		booking.Start = booking.Start.UTC()
		booking.End = booking.End.UTC()
		booking.CreatedAt = now
		booking.UpdatedAt = now
		return nil
	})
}

// GetBooking returns the booking decorated with its item and booker.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// DecideBooking moves a WAITING booking to status. A booking that is no
// longer WAITING yields ErrAlreadyDecided.
func (db *DB) DecideBooking(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, ts(time.Now()), id, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

func (db *DB) ListAllBookings(ctx context.Context, scope models.BookingScope, page models.Page) ([]*models.Booking, error) {
	return db.listBookings(ctx, scope, "", nil, page)
}

// ListCurrentBookings returns bookings with start <= now < end.
func (db *DB) ListCurrentBookings(ctx context.Context, scope models.BookingScope, now time.Time, page models.Page) ([]*models.Booking, error) {
	return db.listBookings(ctx, scope, "b.start_date <= ? AND b.end_date > ?", []interface{}{ts(now), ts(now)}, page)
}

// ListPastBookings returns bookings with end < now.
func (db *DB) ListPastBookings(ctx context.Context, scope models.BookingScope, now time.Time, page models.Page) ([]*models.Booking, error) {
	return db.listBookings(ctx, scope, "b.end_date < ?", []interface{}{ts(now)}, page)
}

// ListFutureBookings returns bookings with start > now.
func (db *DB) ListFutureBookings(ctx context.Context, scope models.BookingScope, now time.Time, page models.Page) ([]*models.Booking, error) {
	return db.listBookings(ctx, scope, "b.start_date > ?", []interface{}{ts(now)}, page)
}

func (db *DB) ListBookingsByStatus(ctx context.Context, scope models.BookingScope, status models.BookingStatus, page models.Page) ([]*models.Booking, error) {
	return db.listBookings(ctx, scope, "b.status = ?", []interface{}{status}, page)
}

func (db *DB) listBookings(
	ctx context.Context,
	scope models.BookingScope,
	cond string,
	condArgs []interface{},
	page models.Page,
) ([]*models.Booking, error) {
	var scopeCond string
	switch scope.Role {
	case models.RoleBooker:
		scopeCond = "b.booker_id = ?"
	case models.RoleOwner:
		scopeCond = "i.owner_id = ?"
	default:
		return nil, fmt.Errorf("unknown booking role %q", scope.Role)
	}

	query := bookingSelect + ` WHERE ` + scopeCond
	args := []interface{}{scope.UserID}
	if cond != "" {
		query += ` AND ` + cond
		args = append(args, condArgs...)
	}
	query += ` ORDER BY b.start_date DESC, b.id DESC LIMIT ? OFFSET ?`
	args = append(args, page.Limit(), page.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetLastBookings returns, per item, the APPROVED or WAITING booking with the
// latest start at or before now.
func (db *DB) GetLastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*models.BookingShort, error) {
	return db.adjacentBookings(ctx, itemIDs, `
              SELECT b.id, b.item_id, b.booker_id, b.start_date, b.end_date
              FROM bookings b
              WHERE b.item_id IN (%s)
                AND b.id = (
                    SELECT b2.id FROM bookings b2
                    WHERE b2.item_id = b.item_id
                      AND b2.status IN ('APPROVED', 'WAITING')
                      AND b2.start_date <= ?
                    ORDER BY b2.start_date DESC, b2.id DESC
                    LIMIT 1
                )`, ts(now))
}

// GetNextBookings returns, per item, the earliest booking starting after now
// that is neither REJECTED nor CANCELED.
func (db *DB) GetNextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*models.BookingShort, error) {
	return db.adjacentBookings(ctx, itemIDs, `
              SELECT b.id, b.item_id, b.booker_id, b.start_date, b.end_date
              FROM bookings b
              WHERE b.item_id IN (%s)
                AND b.id = (
                    SELECT b2.id FROM bookings b2
                    WHERE b2.item_id = b.item_id
                      AND b2.status NOT IN ('REJECTED', 'CANCELED')
                      AND b2.start_date > ?
                    ORDER BY b2.start_date ASC, b2.id ASC
                    LIMIT 1
                )`, ts(now))
}

func (db *DB) adjacentBookings(ctx context.Context, itemIDs []int64, queryTpl string, now string) (map[int64]*models.BookingShort, error) {
	result := make(map[int64]*models.BookingShort, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	marks, args := placeholders(itemIDs)
	args = append(args, now)
	rows, err := db.QueryContext(ctx, fmt.Sprintf(queryTpl, marks), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load adjacent bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int64
		var b models.BookingShort
		if err := rows.Scan(&b.ID, &itemID, &b.BookerID, &b.Start, &b.End); err != nil {
			return nil, err
		}
		result[itemID] = &b
	}
	return result, rows.Err()
}

// HasCompletedBooking reports whether bookerID holds an APPROVED booking of
// the item that ended before now.
func (db *DB) HasCompletedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	query := `SELECT EXISTS (
                  SELECT 1 FROM bookings
                  WHERE item_id = ? AND booker_id = ? AND status = ? AND end_date < ?
              )`
	var exists bool
	if err := db.QueryRowContext(ctx, query, itemID, bookerID, models.StatusApproved, ts(now)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check completed booking: %w", err)
	}
	return exists, nil
}
