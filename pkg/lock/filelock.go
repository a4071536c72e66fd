// Package lock provides file-based locking so two guide-creation runs
// cannot interleave writes to the same output directory.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"guidecraft/pkg/colors"
)

// Lock timing constants
const (
	lockTimeout      = 5 * time.Minute // Maximum time to wait for lock
	lockPollInterval = 5 * time.Second // How often to check if lock is available
	maxIdentifierLen = 100             // Maximum length for lock identifier
)

// sanitizeIdentifier cleans the identifier for safe use in a filename
func sanitizeIdentifier(id string) string {
	if id == "" {
		return "unknown"
	}
	result := strings.Map(func(r rune) rune {
		if r < 32 || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, id)
	if len(result) > maxIdentifierLen {
		result = result[:maxIdentifierLen]
	}
	return result
}

// FileLock represents a held lock on one output directory.
type FileLock struct {
	file *os.File
	path string
}

// getLockDir returns the secure lock directory path (~/.guidecraft/locks/)
func getLockDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(home, ".guidecraft", "locks"), nil
}

// Path reports the lock file location, mainly for diagnostics.
func (l *FileLock) Path() string { return l.path }

// Acquire takes the lock for identifier (normally the output directory
// name), waiting up to the timeout when another run holds it. Locks for
// different identifiers do not contend.
func Acquire(identifier string) (*FileLock, error) {
	lockDir, err := getLockDir()
	if err != nil {
		return nil, err
	}

	// Owner-only permissions on the lock directory.
	if err := os.MkdirAll(lockDir, 0700); err != nil {
		return nil, fmt.Errorf("could not create lock directory %s: %w", lockDir, err)
	}

	identifier = sanitizeIdentifier(identifier)
	lockPath := filepath.Join(lockDir, identifier+".lock")
	lockInfoPath := lockPath + ".info"

	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("could not open lock file %s: %w", lockPath, err)
	}

	// Try non-blocking lock first
	err = syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		// Lock is held, wait for it
		holder := "unknown"
		if data, err := os.ReadFile(lockInfoPath); err == nil {
			holder = strings.TrimSpace(string(data))
		}

		startWait := time.Now()
		fmt.Printf("%sWaiting for %s%s%s%s to finish...%s\n",
			colors.Dim, colors.Cyan, holder, colors.Reset, colors.Dim, colors.Reset)

		for {
			if time.Since(startWait) > lockTimeout {
				lockFile.Close()
				return nil, fmt.Errorf("timed out waiting for lock after %v", lockTimeout)
			}
			time.Sleep(lockPollInterval)
			err = syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
			if err == nil {
				break
			}
			elapsed := int(time.Since(startWait).Seconds())
			if data, err := os.ReadFile(lockInfoPath); err == nil {
				holder = strings.TrimSpace(string(data))
			}
			fmt.Printf("%s  Still waiting for %s%s%s%s... %ds%s\n",
				colors.Dim, colors.Cyan, holder, colors.Reset, colors.Dim, elapsed, colors.Reset)
		}
		elapsed := int(time.Since(startWait).Seconds())
		fmt.Printf("\r%sLock acquired%s %s(waited %ds for %s)%s     \n",
			colors.Green, colors.Reset, colors.Dim, elapsed, holder, colors.Reset)
	} else {
		fmt.Printf("%sLock acquired%s\n", colors.Dim, colors.Reset)
	}

	// Record who holds the lock so waiters can say so.
	pid := os.Getpid()
	info := fmt.Sprintf("%s (pid %d)", identifier, pid)
	if err := os.WriteFile(lockInfoPath, []byte(info), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "%sWarning: could not write lock info: %v%s\n",
			colors.Dim, err, colors.Reset)
	}

	return &FileLock{file: lockFile, path: lockPath}, nil
}

// Release releases the file lock
func (l *FileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}

	unlockErr := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return fmt.Errorf("failed to unlock: %w", unlockErr)
	}
	return closeErr
}

// GetIdentifier derives the lock identifier from the output directory.
func GetIdentifier(outputDir string) string {
	name := filepath.Base(outputDir)
	if name == "" || name == "." {
		if cwd, err := os.Getwd(); err == nil {
			name = filepath.Base(cwd)
		} else {
			name = "unknown"
		}
	}
	return name
}
