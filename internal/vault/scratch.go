package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultScratchDirName is the stable name of the process scratch directory
// under the system temp dir.
const DefaultScratchDirName = "alert-dispatch-secrets"

// ScratchDir is the explicit handle for the local scratch location used to
// materialize downloaded ciphertext during credential retrieval. The
// directory is created lazily once and named deterministically so repeated
// calls reuse it; files written into it are uniquely named per call so
// concurrent retrievals for the same descriptor do not collide.
type ScratchDir struct {
	name string

	mu      sync.Mutex
	created bool
	path    string
}

// NewScratchDir builds a handle. An empty name uses DefaultScratchDirName.
func NewScratchDir(name string) *ScratchDir {
	if name == "" {
		name = DefaultScratchDirName
	}
	return &ScratchDir{name: name}
}

// Path returns the scratch directory path, creating it on first use.
func (s *ScratchDir) Path() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(os.TempDir(), s.name)
	if !s.created {
		if err := os.MkdirAll(path, 0o700); err != nil {
			return "", fmt.Errorf("create scratch dir %s: %w", path, err)
		}
		s.created = true
		s.path = path
	}
	return s.path, nil
}

// WriteUnique writes data to a uniquely named file derived from key and
// returns its path. The caller owns removal of the returned file.
func (s *ScratchDir) WriteUnique(key string, data []byte) (string, error) {
	dir, err := s.Path()
	if err != nil {
		return "", err
	}

	name := strings.ReplaceAll(key, "/", "_") + "-" + uuid.NewString()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write scratch file %s: %w", path, err)
	}
	return path, nil
}

// Cleanup removes the scratch directory and everything in it.
func (s *ScratchDir) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.created {
		return nil
	}
	s.created = false
	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove scratch dir %s: %w", s.path, err)
	}
	return nil
}
