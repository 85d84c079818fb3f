package stores_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlstore/config"
	"xmlstore/core"
	"xmlstore/stores"
)

func TestGetStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cases := map[string]struct {
		mutate   func(c *config.Config)
		location string
	}{
		"filesystem": {
			mutate:   func(c *config.Config) { c.LocalStoragePath = filepath.Join(dir, "docs") },
			location: filepath.Join(dir, "docs"),
		},
		"memory": {
			mutate:   func(c *config.Config) { c.StorageType = config.StorageMemory },
			location: "memory://",
		},
		"sqlite": {
			mutate: func(c *config.Config) {
				c.StorageType = config.StorageSQLite
				c.DataSourceName = filepath.Join(dir, "docs.db")
			},
			location: "sqlite://" + filepath.Join(dir, "docs.db"),
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)

			store, err := stores.GetStore(ctx, cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.location, store.Location())

			_, err = store.Save(ctx, &core.Document{Name: "a.xml", Content: []byte("<a/>")})
			require.NoError(t, err)
			names, err := store.List(ctx)
			require.NoError(t, err)
			assert.Contains(t, names, "a.xml")
		})
	}
}

func TestGetStore_Errors(t *testing.T) {
	ctx := context.Background()

	unknown := config.Default()
	unknown.StorageType = "ftp"
	_, err := stores.GetStore(ctx, unknown)
	assert.ErrorContains(t, err, `unknown storage type "ftp"`)

	noPath := config.Default()
	noPath.LocalStoragePath = ""
	_, err = stores.GetStore(ctx, noPath)
	assert.Error(t, err)

	noBucket := config.Default()
	noBucket.StorageType = config.StorageS3
	_, err = stores.GetStore(ctx, noBucket)
	assert.Error(t, err)
}
