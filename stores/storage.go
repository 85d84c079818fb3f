package stores

import (
	"context"
	"fmt"
	"xmlstore/config"
	"xmlstore/core"
	"xmlstore/stores/aws"
	"xmlstore/stores/filesystem"
	"xmlstore/stores/memory"
	"xmlstore/stores/sqlite"

	"github.com/sirupsen/logrus"
)

func GetStore(ctx context.Context, cfg *config.Config) (core.DocumentStore, error) {
	var (
		store core.DocumentStore
		err   error
	)

	storageField := logrus.Fields{
		"storageType": cfg.StorageType,
	}

	switch cfg.StorageType {
	case config.StorageFilesystem:
		storageField["basePath"] = cfg.LocalStoragePath
		store, err = filesystem.NewDocumentStore(cfg.LocalStoragePath)
	case config.StorageSQLite:
		storageField["dataSourceName"] = cfg.DataSourceName
		store, err = sqlite.NewDocumentStore(cfg.DataSourceName)
	case config.StorageS3:
		storageField["bucketName"] = cfg.S3BucketName
		store, err = aws.NewDocumentStore(ctx, aws.Options{
			Bucket:   cfg.S3BucketName,
			Prefix:   cfg.S3Prefix,
			Endpoint: cfg.S3Endpoint,
		})
	case config.StorageMemory:
		store = memory.NewDocumentStore()
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
	if err != nil {
		logrus.WithFields(storageField).WithField("error", err).Error("Failed to initialise storage")
		return nil, err
	}

	storageField["location"] = store.Location()
	logrus.WithFields(storageField).Info("Use storage")
	return store, nil
}
