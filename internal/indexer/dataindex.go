package indexer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// DataIndexer stores typed values in a SQLite database, keyed by an
// arbitrary string and associated with the file they were extracted from so
// a file's contribution can be dropped wholesale when it changes.
type DataIndexer[T any] struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewDataIndexer opens (or creates) the index database at dbPath.
func NewDataIndexer[T any](dbPath string) (*DataIndexer[T], error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	// _txlock=immediate acquires locks early and avoids SQLITE_BUSY
	db, err := sql.Open("sqlite", dbPath+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA auto_vacuum=INCREMENTAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL,
			value BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_data_key ON data(key);

		CREATE TABLE IF NOT EXISTS files (
			file_path TEXT NOT NULL,
			data_id INTEGER NOT NULL,
			PRIMARY KEY (file_path, data_id),
			FOREIGN KEY (data_id) REFERENCES data(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_files_path ON files(file_path);
		CREATE INDEX IF NOT EXISTS idx_files_data_id ON files(data_id);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return &DataIndexer[T]{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// BatchSaveItems saves file -> key -> items in a single transaction.
func (idx *DataIndexer[T]) BatchSaveItems(items map[string]map[string][]T) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	dataStmt, err := tx.Prepare("INSERT INTO data (key, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare data statement: %w", err)
	}
	defer func() { _ = dataStmt.Close() }()

	fileStmt, err := tx.Prepare("INSERT INTO files (file_path, data_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare file statement: %w", err)
	}
	defer func() { _ = fileStmt.Close() }()

	for filePath, keyItems := range items {
		for key, values := range keyItems {
			for _, item := range values {
				data, err := msgpack.Marshal(item)
				if err != nil {
					return fmt.Errorf("failed to marshal item: %w", err)
				}

				result, err := dataStmt.Exec(key, data)
				if err != nil {
					return fmt.Errorf("failed to save item: %w", err)
				}

				dataID, err := result.LastInsertId()
				if err != nil {
					return fmt.Errorf("failed to get last insert id: %w", err)
				}

				if _, err := fileStmt.Exec(filePath, dataID); err != nil {
					return fmt.Errorf("failed to save file association: %w", err)
				}
			}
		}
	}

	return tx.Commit()
}

// GetValues returns all items stored under a key.
func (idx *DataIndexer[T]) GetValues(key string) ([]T, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.Query("SELECT value FROM data WHERE key = ?", key)
	if err != nil {
		return nil, fmt.Errorf("failed to query data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var item T
		if err := msgpack.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// CountValues returns the number of items stored under a key.
func (idx *DataIndexer[T]) CountValues(key string) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var count int
	if err := idx.db.QueryRow("SELECT COUNT(*) FROM data WHERE key = ?", key).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count data: %w", err)
	}
	return count, nil
}

// GetAllKeys returns all distinct keys in the index.
func (idx *DataIndexer[T]) GetAllKeys() ([]string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.Query("SELECT DISTINCT key FROM data")
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// BatchDeleteByFilePaths drops everything the given files contributed.
func (idx *DataIndexer[T]) BatchDeleteByFilePaths(filePaths []string) error {
	if len(filePaths) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, filePath := range filePaths {
		_, err = tx.Exec(`
			DELETE FROM data WHERE id IN (
				SELECT data_id FROM files WHERE file_path = ?
			)
		`, filePath)
		if err != nil {
			return fmt.Errorf("failed to delete data: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM files WHERE file_path = ?", filePath); err != nil {
			return fmt.Errorf("failed to delete file associations: %w", err)
		}
	}

	return tx.Commit()
}

// Clear drops all data from the index.
func (idx *DataIndexer[T]) Clear() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := idx.db.Exec("DELETE FROM files; DELETE FROM data;"); err != nil {
		return err
	}

	_, err := idx.db.Exec("PRAGMA incremental_vacuum")
	return err
}

// Close optimizes and closes the database.
func (idx *DataIndexer[T]) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, _ = idx.db.Exec("PRAGMA optimize")
	_, _ = idx.db.Exec("PRAGMA incremental_vacuum")
	_, _ = idx.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")

	return idx.db.Close()
}
