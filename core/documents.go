package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"xmlstore/xmldoc"
)

type (
	// DocumentService pairs the filename sanitizer and XML validator with a
	// storage backend.
	DocumentService struct {
		store    DocumentStore
		notifier Notifier
	}

	SaveResult struct {
		Filename string
		Path     string
	}
)

func NewDocumentService(store DocumentStore, notifier Notifier) *DocumentService {
	return &DocumentService{store: store, notifier: notifier}
}

// Location returns where the backend keeps documents.
func (s *DocumentService) Location() string {
	return s.store.Location()
}

// Save sanitizes filename, validates content and replaces any document of
// the same sanitized name. Nothing is written when validation fails.
func (s *DocumentService) Save(ctx context.Context, filename, content string) (*SaveResult, error) {
	var missing []string
	if filename == "" {
		missing = append(missing, "filename")
	}
	if content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldError{Fields: missing}
	}

	name := SanitizeFilename(filename)
	log := logrus.WithFields(logrus.Fields{
		"filename":  filename,
		"sanitized": name,
	})

	if err := xmldoc.Validate(content); err != nil {
		log.WithField("error", err).Warn("Rejected malformed XML")
		return nil, &ValidationError{Msg: err.Error(), Line: syntaxLine(err)}
	}

	path, err := s.store.Save(ctx, &Document{Name: name, Content: []byte(content)})
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", name, err)
	}
	if s.notifier != nil {
		s.notifier.DocumentSaved(name, path)
	}
	return &SaveResult{Filename: name, Path: path}, nil
}

// Load returns the raw content stored under the verbatim name.
func (s *DocumentService) Load(ctx context.Context, filename string) (string, error) {
	if filename == "" {
		return "", &MissingFieldError{Fields: []string{"filename"}}
	}
	if err := CheckFilename(filename); err != nil {
		return "", err
	}
	document, err := s.store.Load(ctx, filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("load %s: %w", filename, err)
	}
	return string(document.Content), nil
}

// Delete removes the document stored under the verbatim name.
func (s *DocumentService) Delete(ctx context.Context, filename string) error {
	if filename == "" {
		return &MissingFieldError{Fields: []string{"filename"}}
	}
	if err := CheckFilename(filename); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, filename); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete %s: %w", filename, err)
	}
	if s.notifier != nil {
		s.notifier.DocumentDeleted(filename)
	}
	return nil
}

// List returns the managed document names in backend enumeration order.
func (s *DocumentService) List(ctx context.Context) ([]string, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	files := make([]string, 0, len(names))
	for _, name := range names {
		if IsManaged(name) {
			files = append(files, name)
		}
	}
	return files, nil
}

// Parse converts XML text into a nested map. It never touches storage.
func (s *DocumentService) Parse(xml string) (map[string]any, error) {
	if xml == "" {
		return nil, &MissingFieldError{Fields: []string{"xml"}}
	}
	data, err := xmldoc.Parse(xml)
	if err != nil {
		return nil, &ParseError{Msg: err.Error(), Line: syntaxLine(err)}
	}
	return data, nil
}

// Validate checks xml for well-formedness. A nil *ValidationError means the
// document is valid; the error return is reserved for bad requests.
func (s *DocumentService) Validate(xml string) (*ValidationError, error) {
	if xml == "" {
		return nil, &MissingFieldError{Fields: []string{"xml"}}
	}
	if err := xmldoc.Validate(xml); err != nil {
		return &ValidationError{Msg: err.Error(), Line: syntaxLine(err)}, nil
	}
	return nil, nil
}

func syntaxLine(err error) int {
	var se *xmldoc.SyntaxError
	if errors.As(err, &se) {
		return se.Line
	}
	return 0
}
