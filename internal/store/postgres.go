package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore 基于单张 records 表（JSONB document）的 RecordStore 实现。
// 表结构见 NewPostgresDB 的建表语句；谓词过滤在取回后于 Go 侧完成，与契约一致。
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

var _ RecordStore = (*PostgresStore)(nil)

// PostgresConfig 数据库连接配置
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewPostgresDB 创建数据库连接并确保 records 表存在
func NewPostgresDB(cfg PostgresConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			table_name VARCHAR(64) NOT NULL,
			record_id  VARCHAR(64) NOT NULL,
			doc        JSONB NOT NULL,
			PRIMARY KEY (table_name, record_id)
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure records table: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) Get(ctx context.Context, table, id string) (Item, error) {
	var raw json.RawMessage
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM records WHERE table_name = $1 AND record_id = $2`,
		table, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s/%s: %w", table, id, err)
	}
	return item, nil
}

func (s *PostgresStore) Put(ctx context.Context, table string, item Item) error {
	id, _ := item["id"].(string)
	if id == "" {
		return fmt.Errorf("item id is required")
	}
	b, err := json.Marshal(item)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (table_name, record_id, doc)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (table_name, record_id) DO UPDATE SET doc = EXCLUDED.doc`,
		table, id, b,
	)
	if err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, table, id string, fields Item) (Item, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	err = s.db.QueryRowContext(ctx,
		`UPDATE records SET doc = doc || $3::jsonb
		 WHERE table_name = $1 AND record_id = $2
		 RETURNING doc`,
		table, id, b,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s/%s: %w", table, id, err)
	}
	return item, nil
}

func (s *PostgresStore) Delete(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE table_name = $1 AND record_id = $2`,
		table, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Scan(ctx context.Context, table string, filter func(Item) bool) ([]Item, int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM records WHERE table_name = $1`,
		table,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan records: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var raw json.RawMessage
		if err := rows.Scan(&raw); err != nil {
			return nil, 0, err
		}
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal record in %s: %w", table, err)
		}
		if filter != nil && !filter(item) {
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, len(items), nil
}
