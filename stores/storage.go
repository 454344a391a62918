package stores

import (
	"os"
	"textshelf/core"
	"textshelf/stores/filesystem"
	"textshelf/stores/memory"
	"textshelf/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// Store is a union interface covering both persistent instances the app
// needs: the text store and the session store. Close releases the
// underlying handles on shutdown.
type Store interface {
	core.TextStore
	core.SessionStore
	Close() error
}

func GetStore() Store {
	storageType := os.Getenv("STORAGE_TYPE")
	var store Store

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	switch storageType {
	case "filesystem":
		basePath := os.Getenv("LOCAL_STORAGE_PATH")
		if basePath == "" {
			basePath = "./data"
		}
		storageField["basePath"] = basePath
		store = filesystem.NewStore(basePath)
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		if dataSourceName == "" {
			dataSourceName = "textshelf.db"
		}
		storageField["dataSourceName"] = dataSourceName
		store = sqlite.NewStore(dataSourceName)
	default:
		store = memory.NewStore()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
