package users

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalAvatarStore writes avatars to a directory served under publicURL.
type LocalAvatarStore struct {
	dir       string
	publicURL string
}

func NewLocalAvatarStore(dir, publicURL string) (*LocalAvatarStore, error) {
	if dir == "" {
		return nil, errors.New("avatar dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &LocalAvatarStore{dir: dir, publicURL: publicURL}, nil
}

// Dir is the directory the store writes into.
func (s *LocalAvatarStore) Dir() string {
	return s.dir
}

// Save replaces the user's avatar file. The name is derived from the user id
// so an upload never leaves older files behind for the same extension.
func (s *LocalAvatarStore) Save(ctx context.Context, userID uuid.UUID, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := userID.String() + ext
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp avatar: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write avatar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close avatar: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("move avatar: %w", err)
	}
	return strings.TrimRight(s.publicURL, "/") + "/" + name, nil
}
