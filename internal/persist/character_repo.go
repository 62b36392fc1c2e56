package persist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// CharacterRow is the persisted character record. The world index only
// consumes the position triple: (map_id, x, y) seeds the spawn on login
// and is written back on logout/save.
type CharacterRow struct {
	ID          int32
	AccountName string
	Name        string
	ClassID     int32
	Level       int16
	MapID       int16
	X           int32
	Y           int32
}

type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// LoadByName returns the character row for name, or nil if absent.
func (r *CharacterRepo) LoadByName(ctx context.Context, name string) (*CharacterRow, error) {
	row := &CharacterRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, account_name, name, class_id, level, map_id, x, y
		 FROM characters WHERE name = $1 AND deleted_at IS NULL`, name,
	).Scan(
		&row.ID, &row.AccountName, &row.Name, &row.ClassID,
		&row.Level, &row.MapID, &row.X, &row.Y,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// LoadByAccount returns all live characters on an account.
func (r *CharacterRepo) LoadByAccount(ctx context.Context, accountName string) ([]CharacterRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, account_name, name, class_id, level, map_id, x, y
		 FROM characters WHERE account_name = $1 AND deleted_at IS NULL
		 ORDER BY id`, accountName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CharacterRow
	for rows.Next() {
		var row CharacterRow
		if err := rows.Scan(
			&row.ID, &row.AccountName, &row.Name, &row.ClassID,
			&row.Level, &row.MapID, &row.X, &row.Y,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Create inserts a new character and returns its id.
func (r *CharacterRepo) Create(ctx context.Context, row *CharacterRow) (int32, error) {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO characters (account_name, name, class_id, level, map_id, x, y)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		row.AccountName, row.Name, row.ClassID, row.Level,
		row.MapID, row.X, row.Y,
	).Scan(&row.ID)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// SavePosition writes the current position triple back for one character.
func (r *CharacterRepo) SavePosition(ctx context.Context, name string, mapID int16, x, y int32) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET map_id = $2, x = $3, y = $4
		 WHERE name = $1 AND deleted_at IS NULL`,
		name, mapID, x, y,
	)
	return err
}
