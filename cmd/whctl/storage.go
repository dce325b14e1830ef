package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-warehouse-client/internal/config"
	"github.com/jrsteele09/go-warehouse-client/storage"
	"github.com/jrsteele09/go-warehouse-client/storage/filestore"
	"github.com/jrsteele09/go-warehouse-client/storage/redisstore"
	fakestoragerepo "github.com/jrsteele09/go-warehouse-client/storage/repofake"
	"github.com/redis/go-redis/v9"
)

// openStorage builds the durable session storage selected by STORAGE_BACKEND.
func openStorage(c config.Config) (storage.Repo, func(), error) {
	switch backend := c.GetStorageBackend(); backend {
	case config.StorageBackendFile:
		path := c.GetStateFile()
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("[openStorage] create data folder: %w", err)
		}
		fs, err := filestore.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil

	case config.StorageBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: c.GetRedisAddr()})
		return redisstore.New(client, c.GetRedisPrefix(), c.GetRequestTimeout()), func() { _ = client.Close() }, nil

	case config.StorageBackendMemory:
		return fakestoragerepo.NewFakeStorageRepo(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("[openStorage] unknown storage backend %q", backend)
	}
}
