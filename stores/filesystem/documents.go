package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"xmlstore/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type documentStore struct {
	basePath string // Absolute directory where documents are stored.
}

// NewDocumentStore resolves basePath to an absolute directory and creates it
// when missing.
func NewDocumentStore(basePath string) (core.DocumentStore, error) {
	absPath, err := ResolvePath(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %q: %w", absPath, err)
	}
	return &documentStore{basePath: absPath}, nil
}

// ResolvePath turns a configured storage path into an absolute one.
func ResolvePath(basePath string) (string, error) {
	if basePath == "" {
		return "", errors.New("storage path is empty")
	}
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("resolve storage path %q: %w", basePath, err)
	}
	return absPath, nil
}

func (s *documentStore) Location() string {
	return s.basePath
}

func (s *documentStore) filePath(name string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(name))
}

func (s *documentStore) Save(ctx context.Context, document *core.Document) (string, error) {
	filePath := s.filePath(document.Name)
	log := logrus.WithFields(logrus.Fields{
		"filename":  document.Name,
		"file_path": filePath,
	})
	log.Info("Saving document")

	// The temp name never carries the .xml suffix, so List skips it.
	tmpPath := filepath.Join(filepath.Dir(filePath), "."+ulid.Make().String()+".tmp")
	if err := os.WriteFile(tmpPath, document.Content, 0644); err != nil {
		os.Remove(tmpPath)
		log.WithField("error", err).Error("Failed to write document")
		return "", err
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		log.WithField("error", err).Error("Failed to replace document")
		return "", err
	}

	log.Info("Document saved successfully")
	return filePath, nil
}

func (s *documentStore) Load(ctx context.Context, name string) (*core.Document, error) {
	filePath := s.filePath(name)
	log := logrus.WithFields(logrus.Fields{
		"filename":  name,
		"file_path": filePath,
	})

	log.Info("Loading document")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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
	filePath := s.filePath(name)
	log := logrus.WithFields(logrus.Fields{
		"filename":  name,
		"file_path": filePath,
	})

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Document not found")
			return fmt.Errorf("%w: %s", core.ErrNotFound, name)
		}
		log.WithField("error", err).Error("Failed to stat document")
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", name)
	}

	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, name)
		}
		log.WithField("error", err).Error("Failed to delete document")
		return err
	}

	log.Info("Document deleted successfully")
	return nil
}

func (s *documentStore) List(ctx context.Context) ([]string, error) {
	log := logrus.WithField("file_path", s.basePath)

	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		log.WithField("error", err).Error("Failed to create base directory")
		return nil, err
	}
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		log.WithField("error", err).Error("Failed to read base directory")
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	log.WithField("count", len(names)).Debug("Listed documents")
	return names, nil
}
