package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ErrLocked means another run holds the store lock.
var ErrLocked = errors.New("store is locked by another run")

// Locker guards the store against overlapping runs.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}

// FileLock is a lock file created next to the store. A lock older than TTL is
// considered abandoned and taken over.
type FileLock struct {
	Path  string
	TTL   time.Duration
	Owner string
}

func NewFileLock(storePath string, ttl time.Duration, owner string) *FileLock {
	return &FileLock{Path: storePath + ".lock", TTL: ttl, Owner: owner}
}

func (l *FileLock) Lock(ctx context.Context) (func() error, error) {
	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%s pid=%d at=%s\n", l.Owner, os.Getpid(), time.Now().Format(time.RFC3339))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(l.Path)
				return nil, fmt.Errorf("write lock file: %w", errors.Join(werr, cerr))
			}
			return l.unlock, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}

		info, statErr := os.Stat(l.Path)
		if statErr != nil || l.TTL <= 0 || time.Since(info.ModTime()) < l.TTL {
			holder, _ := os.ReadFile(l.Path)
			return nil, fmt.Errorf("%w: %s", ErrLocked, strings.TrimSpace(string(holder)))
		}
		// stale
		if err := os.Remove(l.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale lock: %w", err)
		}
	}
	return nil, ErrLocked
}

// unlock removes the lock file only while this owner still holds it.
func (l *FileLock) unlock() error {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !strings.HasPrefix(string(data), l.Owner+" ") {
		return nil
	}
	return os.Remove(l.Path)
}
