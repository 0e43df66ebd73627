package storage

import (
	"io"
	"log"
	"net/http"
	"os"

	"server/config"
)

type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetFreeSpace() uint64
}

var defaultStorage StorageAPI

// Init selects the media storage backend. S3 takes precedence when configured,
// otherwise post images go to a local directory.
func Init() {
	if config.S3_BUCKET != "" {
		defaultStorage = NewS3Storage(config.S3_BUCKET, config.S3_REGION)
		log.Printf("Media storage: S3 bucket %s", config.S3_BUCKET)
		return
	}
	dir := config.MEDIA_DIR
	if dir == "" {
		dir = "media"
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		panic(err)
	}
	defaultStorage = NewDiskStorage(dir)
	log.Printf("Media storage: local dir %s, free space: %d MB", dir, defaultStorage.GetFreeSpace()/1024/1024)
}

func GetDefaultStorage() StorageAPI {
	return defaultStorage
}
