// Package artifact writes the flattened document to disk.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/temirov/flat/internal/utils"
)

const (
	lockFileSuffix       = ".lock"
	temporaryFilePattern = ".flat-*.tmp"
	artifactFileMode     = 0o644
	outputDirectoryMode  = 0o755

	errorCreateDirectoryFormat = "creating output directory %s: %w"
	errorLockFormat            = "acquiring lock on %s: %w"
	errorCreateTemporaryFormat = "creating temporary file in %s: %w"
	errorWriteTemporaryFormat  = "writing temporary file %s: %w"
	errorRenameFormat          = "replacing %s: %w"
)

// Writer stores a document.
type Writer interface {
	Write(targetPath string, content []byte) error
}

// Service writes artifacts under an exclusive lock and replaces the target atomically,
// so concurrent runs never interleave and readers never observe a partial document.
type Service struct{}

// NewService constructs a Service.
func NewService() *Service {
	return &Service{}
}

// ArtifactPath returns the output path for repositoryName inside outputDirectory.
func ArtifactPath(outputDirectory string, repositoryName string) string {
	return filepath.Join(outputDirectory, repositoryName+utils.FlattenedFileSuffix)
}

// Write locks "<targetPath>.lock", writes content to targetPath atomically and
// removes the lock file afterwards.
func (service *Service) Write(targetPath string, content []byte) error {
	targetDirectory := filepath.Dir(targetPath)
	if makeDirectoryError := os.MkdirAll(targetDirectory, outputDirectoryMode); makeDirectoryError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, targetDirectory, makeDirectoryError)
	}

	lockPath := targetPath + lockFileSuffix
	fileLock := flock.New(lockPath)
	if lockError := fileLock.Lock(); lockError != nil {
		return fmt.Errorf(errorLockFormat, lockPath, lockError)
	}
	defer func() {
		_ = fileLock.Unlock()
		_ = os.Remove(lockPath)
	}()

	return writeAtomically(targetPath, content)
}

func writeAtomically(targetPath string, content []byte) error {
	targetDirectory := filepath.Dir(targetPath)
	temporaryFile, createError := os.CreateTemp(targetDirectory, temporaryFilePattern)
	if createError != nil {
		return fmt.Errorf(errorCreateTemporaryFormat, targetDirectory, createError)
	}
	temporaryPath := temporaryFile.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = temporaryFile.Close()
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(content); writeError != nil {
		return fmt.Errorf(errorWriteTemporaryFormat, temporaryPath, writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		return fmt.Errorf(errorWriteTemporaryFormat, temporaryPath, syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf(errorWriteTemporaryFormat, temporaryPath, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, artifactFileMode); chmodError != nil {
		return fmt.Errorf(errorWriteTemporaryFormat, temporaryPath, chmodError)
	}
	if renameError := os.Rename(temporaryPath, targetPath); renameError != nil {
		return fmt.Errorf(errorRenameFormat, targetPath, renameError)
	}
	renamed = true
	return nil
}
