package forms

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/openwidget/widgetkit/core/csql"
)

// SQLStore keeps form records in a postgres table, one jsonb record per
// row. All forms of a backend share a single table.
type SQLStore struct {
	db *csql.DB
}

// NewSQLStore creates the store and its database table
func NewSQLStore(db *csql.DB) (*SQLStore, error) {
	_, err := db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s."form_record" (
  serial_number SERIAL,
  form_name varchar NOT NULL,
  record jsonb NOT NULL,
  PRIMARY KEY (serial_number)
);`, db.Schema))
	if err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// MustNewSQLStore is like NewSQLStore but panics on error
func MustNewSQLStore(db *csql.DB) *SQLStore {
	store, err := NewSQLStore(db)
	if err != nil {
		panic(err)
	}
	return store
}

// Add stores a new record
func (s *SQLStore) Add(ctx context.Context, form string, record Record) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s."form_record" (form_name, record) VALUES ($1, $2);`,
		s.db.Schema), form, jsonData)
	return err
}

// Update merges the update into all records matching the key values,
// using the jsonb containment and concatenation operators
func (s *SQLStore) Update(ctx context.Context, form string, keys Record, update Record) (bool, error) {
	keysJSON, err := json.Marshal(keys)
	if err != nil {
		return false, err
	}
	updateJSON, err := json.Marshal(update)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s."form_record" SET record = record || $3
WHERE form_name = $1 AND record @> $2;`,
		s.db.Schema), form, keysJSON, updateJSON)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all records of the form in submission order
func (s *SQLStore) List(ctx context.Context, form string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT record FROM %s."form_record" WHERE form_name = $1 ORDER BY serial_number;`,
		s.db.Schema), form)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Record{}
	for rows.Next() {
		var jsonData []byte
		if err := rows.Scan(&jsonData); err != nil {
			return nil, err
		}
		record := Record{}
		if err := json.Unmarshal(jsonData, &record); err != nil {
			return nil, err
		}
		list = append(list, record)
	}
	return list, rows.Err()
}

// Clear deletes all records of the form
func (s *SQLStore) Clear(ctx context.Context, form string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s."form_record" WHERE form_name = $1;`,
		s.db.Schema), form)
	return err
}
