package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"xmlstore/core"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (name TEXT PRIMARY KEY, data BLOB NOT NULL);`

type documentStore struct {
	db             *sql.DB
	dataSourceName string
}

func NewDocumentStore(dataSourceName string) (core.DocumentStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dataSourceName, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &documentStore{db: db, dataSourceName: dataSourceName}, nil
}

func (s *documentStore) Location() string {
	return "sqlite://" + s.dataSourceName
}

func (s *documentStore) Save(ctx context.Context, document *core.Document) (string, error) {
	log := logrus.WithFields(logrus.Fields{
		"filename":    document.Name,
		"data_length": len(document.Content),
	})

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (name, data) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET data = excluded.data",
		document.Name, document.Content)
	if err != nil {
		log.WithField("error", err).Error("Failed to save document")
		return "", err
	}
	log.Info("Document saved successfully")
	return s.Location() + "/" + document.Name, nil
}

func (s *documentStore) Load(ctx context.Context, name string) (*core.Document, error) {
	log := logrus.WithField("filename", name)
	log.Debug("Loading document")

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM documents WHERE name = ?", name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("Document not found")
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, name)
		}
		log.WithField("error", err).Error("Failed to load document")
		return nil, err
	}
	log.Info("Document loaded successfully")
	return &core.Document{Name: name, Content: data}, nil
}

func (s *documentStore) Delete(ctx context.Context, name string) error {
	log := logrus.WithField("filename", name)

	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE name = ?", name)
	if err != nil {
		log.WithField("error", err).Error("Failed to delete document")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Warn("Document not found")
		return fmt.Errorf("%w: %s", core.ErrNotFound, name)
	}
	log.Info("Document deleted successfully")
	return nil
}

func (s *documentStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM documents")
	if err != nil {
		logrus.WithField("error", err).Error("Failed to list documents")
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
