package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"event-platform/internal/models"
)

// ErrNotFound is returned when an update or delete matched no row.
var ErrNotFound = errors.New("contribution not found")

// Contributions is the sqlx-backed ledger store. Handlers depend on
// the interface they declare themselves, so tests can swap in fakes.
type Contributions struct {
	DB *sqlx.DB
}

func NewContributions(db *sqlx.DB) *Contributions {
	return &Contributions{DB: db}
}

// Insert creates the row and fills in the store-generated id and
// created_at. Online rows must be inserted before the gateway order is
// requested, since the order id embeds the generated id.
func (s *Contributions) Insert(c *models.Contribution) error {
	query := `
		INSERT INTO contributions (event_id, contributor, amount, method, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return s.DB.QueryRowx(query, c.EventID, c.Contributor, c.Amount, c.Method, c.Status).
		Scan(&c.ID, &c.CreatedAt)
}

// ListByEvent returns all contributions for an event, newest first.
func (s *Contributions) ListByEvent(eventID int64) ([]models.Contribution, error) {
	contributions := []models.Contribution{}
	query := `SELECT * FROM contributions WHERE event_id = $1 ORDER BY created_at DESC`
	err := s.DB.Select(&contributions, query, eventID)
	return contributions, err
}

func (s *Contributions) GetByID(id int64) (models.Contribution, error) {
	var c models.Contribution
	err := s.DB.Get(&c, `SELECT * FROM contributions WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// MarkSuccess sets status = success on the row. Re-applying it to an
// already-successful row is a harmless overwrite, which is what makes
// duplicate webhook deliveries safe.
func (s *Contributions) MarkSuccess(id int64) error {
	res, err := s.DB.Exec(`UPDATE contributions SET status = $1 WHERE id = $2`, models.StatusSuccess, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpirePending marks online rows still pending after the cutoff as
// expired, and returns how many were swept.
func (s *Contributions) ExpirePending(olderThan time.Time) (int64, error) {
	query := `
		UPDATE contributions SET status = $1
		WHERE status = $2 AND method = $3 AND created_at < $4
	`
	res, err := s.DB.Exec(query, models.StatusExpired, models.StatusPending, models.MethodOnline, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Contributions) Delete(id int64) error {
	res, err := s.DB.Exec(`DELETE FROM contributions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
