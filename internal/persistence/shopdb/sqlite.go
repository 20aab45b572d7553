// Package shopdb persists player shop rows in SQLite. The engine goroutine
// is the only writer, so the store is plain synchronous database/sql with a
// single connection.
package shopdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/skytopia/Shoptopia/internal/shop"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the row-at-a-time write pattern of shop create/remove.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS shops (
		owner_id INTEGER NOT NULL,
		amount   INTEGER NOT NULL,
		price    INTEGER NOT NULL,
		item     TEXT NOT NULL,
		xyz      TEXT NOT NULL,
		PRIMARY KEY (owner_id, xyz)
	);`)
	if err != nil {
		return fmt.Errorf("shops schema: %w", err)
	}
	return nil
}

// LoadAll returns every stored shop row. Rows that fail to parse are
// dropped from the result; the registry logs what it skipped, so the one
// error path left here is the query itself.
func (s *Store) LoadAll() ([]shop.OwnerRow, error) {
	rows, err := s.db.Query(`SELECT owner_id, amount, price, item, xyz FROM shops ORDER BY owner_id, xyz`)
	if err != nil {
		return nil, fmt.Errorf("load shops: %w", err)
	}
	defer rows.Close()

	var out []shop.OwnerRow
	for rows.Next() {
		var (
			r    shop.OwnerRow
			item string
			xyz  string
		)
		if err := rows.Scan(&r.OwnerID, &r.Amount, &r.Price, &item, &xyz); err != nil {
			return nil, fmt.Errorf("scan shop row: %w", err)
		}
		desc, err := shop.ParseItem(item, 1)
		if err != nil {
			continue
		}
		x, y, z, err := shop.ParseXYZ(xyz)
		if err != nil {
			continue
		}
		r.Item = desc
		r.X, r.Y, r.Z = x, y, z
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Insert(row shop.OwnerRow) error {
	xyz := fmt.Sprintf("%d,%d,%d", row.X, row.Y, row.Z)
	_, err := s.db.Exec(
		`INSERT INTO shops (owner_id, amount, price, item, xyz) VALUES (?, ?, ?, ?, ?)`,
		row.OwnerID, row.Amount, row.Price, row.Item.ItemString(), xyz,
	)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (s *Store) Delete(ownerID, x, y, z int) error {
	xyz := fmt.Sprintf("%d,%d,%d", x, y, z)
	_, err := s.db.Exec(`DELETE FROM shops WHERE owner_id = ? AND xyz = ?`, ownerID, xyz)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
