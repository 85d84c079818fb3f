package core

import (
	"context"
)

type (
	Document struct {
		Name    string
		Content []byte
	}

	// DocumentStore is a storage backend. Names reaching it are already
	// sanitized (Save) or checked with CheckFilename (Load, Delete).
	DocumentStore interface {
		Save(ctx context.Context, document *Document) (string, error)
		Load(ctx context.Context, name string) (*Document, error)
		Delete(ctx context.Context, name string) error
		// List returns every document name in enumeration order. Filtering
		// on the .xml suffix is done by the caller.
		List(ctx context.Context) ([]string, error)
		// Location describes where documents live, e.g. an absolute directory.
		Location() string
	}

	// Notifier receives document change events after a successful write.
	Notifier interface {
		DocumentSaved(name, location string)
		DocumentDeleted(name string)
	}
)
