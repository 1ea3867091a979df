package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ccgo/internal/ports"
	"ccgo/internal/types"
)

// LockFileAdapter stores the lock as a JSON object keyed by dependency
// name. Writes replace the whole file through a rename.
type LockFileAdapter struct{}

func NewLockFileAdapter() LockFileAdapter {
	return LockFileAdapter{}
}

// Load returns an empty lock when the file does not exist.
func (a LockFileAdapter) Load(path string) (types.LockFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return types.LockFile{}, nil
	}
	if err != nil {
		return nil, lockReadError(path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return types.LockFile{}, nil
	}
	lock := types.LockFile{}
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, lockReadError(path, err)
	}
	return lock, nil
}

func (a LockFileAdapter) Save(path string, lock types.LockFile) error {
	if lock == nil {
		lock = types.LockFile{}
	}
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return lockWriteError(path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return lockWriteError(path, err)
	}
	tmp, err := os.CreateTemp(dir, ".ccgo-lock-*")
	if err != nil {
		return lockWriteError(path, err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return lockWriteError(path, err)
	}
	if err := tmp.Sync(); err != nil {
		return lockWriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return lockWriteError(path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return lockWriteError(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return lockWriteError(path, err)
	}
	success = true
	return nil
}

func lockReadError(path string, cause error) error {
	return &types.DependencyError{
		Kind: types.ErrorKindLockFileRead,
		Err: errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to read lock file %s", path)).
			WithCause(cause),
	}
}

func lockWriteError(path string, cause error) error {
	return &types.DependencyError{
		Kind: types.ErrorKindLockFileWrite,
		Err: errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write lock file %s", path)).
			WithCause(cause),
	}
}

var _ ports.LockStorePort = LockFileAdapter{}
