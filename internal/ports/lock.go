package ports

import "ccgo/internal/types"

type LockStorePort interface {
	Load(path string) (types.LockFile, error)
	Save(path string, lock types.LockFile) error
}
