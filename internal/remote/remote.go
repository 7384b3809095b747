// Package remote resolves remote git repositories into local checkouts.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrCloneFailed wraps every failure of the clone command.
var ErrCloneFailed = errors.New("git clone failed")

const (
	httpPrefix  = "http://"
	httpsPrefix = "https://"
	sshPrefix   = "git@"
	gitSuffix   = ".git"

	// rootRepositoryName names sources whose path has no usable base element,
	// such as the filesystem root.
	rootRepositoryName     = "root"
	unusableNameCharacters = `./\`

	gitExecutableName         = "git"
	temporaryDirectoryPattern = "flat-clone-*"
	checkoutDirectoryName     = "repository"
	disableTerminalPrompt     = "GIT_TERMINAL_PROMPT=0"

	errorCloneFormat              = "%w: %s: %v: %s"
	errorCreateTemporaryDirFormat = "creating clone directory: %w"
)

// IsRemoteURL reports whether source names a remote git repository rather than a local path.
func IsRemoteURL(source string) bool {
	return strings.HasPrefix(source, httpPrefix) ||
		strings.HasPrefix(source, httpsPrefix) ||
		strings.HasPrefix(source, sshPrefix)
}

// RepositoryName derives the document name from a remote URL or a local directory path.
// For URLs it is the last path element without a ".git" suffix; for paths it is the
// base name of the cleaned absolute path. A source without a usable base element,
// such as "/", is named "root".
func RepositoryName(source string) string {
	if IsRemoteURL(source) {
		trimmed := strings.TrimRight(source, "/")
		if colonIndex := strings.LastIndex(trimmed, ":"); strings.HasPrefix(trimmed, sshPrefix) && colonIndex >= 0 {
			trimmed = trimmed[colonIndex+1:]
		}
		return usableRepositoryName(strings.TrimSuffix(path.Base(trimmed), gitSuffix))
	}
	absolutePath, absoluteError := filepath.Abs(source)
	if absoluteError != nil {
		absolutePath = source
	}
	return usableRepositoryName(filepath.Base(filepath.Clean(absolutePath)))
}

// usableRepositoryName replaces names made only of dots and separators.
func usableRepositoryName(name string) string {
	if strings.Trim(name, unusableNameCharacters) == "" {
		return rootRepositoryName
	}
	return name
}

// Cloner fetches a repository into a destination directory that does not exist yet.
type Cloner interface {
	Clone(ctx context.Context, repositoryURL string, destination string) error
}

// GitCloner shells out to the git executable for a shallow clone.
type GitCloner struct {
	Logger *zap.Logger
}

// Clone runs "git clone --depth 1 <url> <destination>".
func (cloner GitCloner) Clone(ctx context.Context, repositoryURL string, destination string) error {
	command := exec.CommandContext(ctx, gitExecutableName, "clone", "--depth", "1", "--quiet", repositoryURL, destination)
	var standardError bytes.Buffer
	command.Stderr = &standardError
	command.Env = append(os.Environ(), disableTerminalPrompt)
	if cloner.Logger != nil {
		cloner.Logger.Info("Cloning repository", zap.String("url", repositoryURL))
	}
	if runError := command.Run(); runError != nil {
		return fmt.Errorf(errorCloneFormat, ErrCloneFailed, repositoryURL, runError, strings.TrimSpace(standardError.String()))
	}
	return nil
}

// Checkout is a temporary local copy of a remote repository.
type Checkout struct {
	Path               string
	temporaryDirectory string
}

// Close removes the checkout from disk.
func (checkout *Checkout) Close() error {
	return os.RemoveAll(checkout.temporaryDirectory)
}

// Fetch clones repositoryURL into a new temporary directory. The caller must Close
// the returned checkout; on error nothing is left on disk.
func Fetch(ctx context.Context, cloner Cloner, repositoryURL string) (*Checkout, error) {
	temporaryDirectory, createError := os.MkdirTemp("", temporaryDirectoryPattern)
	if createError != nil {
		return nil, fmt.Errorf(errorCreateTemporaryDirFormat, createError)
	}
	checkout := &Checkout{
		Path:               filepath.Join(temporaryDirectory, checkoutDirectoryName),
		temporaryDirectory: temporaryDirectory,
	}
	if cloneError := cloner.Clone(ctx, repositoryURL, checkout.Path); cloneError != nil {
		_ = checkout.Close()
		return nil, cloneError
	}
	return checkout, nil
}
