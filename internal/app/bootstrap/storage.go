// internal/app/bootstrap/storage.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/pantry/storage"
)

// Storage backend names accepted by storage_type.
const (
	StorageLocal  = "local"
	StorageS3     = "s3"
	StorageMemory = "memory"
)

func validStorageType(t string) bool {
	switch t {
	case StorageLocal, StorageS3, StorageMemory:
		return true
	}
	return false
}

// openStorage builds the CV storage backend named by storage_type. Static
// S3 keys are optional; without them the default AWS credential chain is used.
func openStorage(ctx context.Context, appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case StorageLocal, "":
		return storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
	case StorageS3:
		return storage.NewS3(ctx, s3Config(appCfg))
	case StorageMemory:
		return storage.NewMemory(storage.MemoryConfig{BaseURL: appCfg.StorageLocalURL}), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", appCfg.StorageType)
	}
}

func s3Config(appCfg AppConfig) storage.S3Config {
	return storage.S3Config{
		Bucket:          appCfg.StorageS3Bucket,
		Region:          appCfg.StorageS3Region,
		AccessKeyID:     appCfg.StorageS3AccessKeyID,
		SecretAccessKey: appCfg.StorageS3SecretAccessKey,
		Endpoint:        appCfg.StorageS3Endpoint,
		UsePathStyle:    appCfg.StorageS3PathStyle,
		Prefix:          appCfg.StorageS3Prefix,
		DefaultACL:      "private",
	}
}
