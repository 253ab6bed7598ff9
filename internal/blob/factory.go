package blob

import (
	"context"
	"fmt"

	"github.com/artenioreis/fichadeinscricao/internal/infra/blob/fs"
	"github.com/artenioreis/fichadeinscricao/internal/infra/blob/memory"
	"github.com/artenioreis/fichadeinscricao/internal/infra/blob/s3"
)

// Config selects and parameterizes an artifact backend.
type Config struct {
	Driver Driver
	// FSRoot is the output directory when Driver is fs.
	FSRoot string
	S3     S3Config
}

// S3Config mirrors the s3 adapter settings.
type S3Config struct {
	Bucket    string
	Region    string
	Prefix    string
	Endpoint  string
	PathStyle bool
}

// Open constructs the configured Store. An empty driver means fs.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return fs.New(cfg.FSRoot)
	case DriverS3:
		return s3.New(ctx, s3.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Prefix:    cfg.S3.Prefix,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
