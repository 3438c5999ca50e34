// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/internal/model"
)

const (
	usersFile    = "users.json"
	licensesFile = "licenses.json"
)

// JSONStore keeps each collection in its own flat JSON file inside Dir.
type JSONStore struct {
	Dir string
}

// NewJSONStore returns a store rooted at dir, creating the directory if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create storage directory %s: %w", dir, err)
	}
	return &JSONStore{Dir: dir}, nil
}

func (s *JSONStore) LoadUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := readJSON(filepath.Join(s.Dir, usersFile), &users); err != nil {
		return nil, loadErr(Users, err)
	}
	return nonNil(users), nil
}

func (s *JSONStore) SaveUsers(ctx context.Context, users []model.User) error {
	if err := writeJSON(filepath.Join(s.Dir, usersFile), nonNil(users)); err != nil {
		return saveErr(Users, err)
	}
	logging.Debugf("store: saved %d users to %s", len(users), s.Dir)
	return nil
}

func (s *JSONStore) LoadLicenses(ctx context.Context) ([]model.License, error) {
	var licenses []model.License
	if err := readJSON(filepath.Join(s.Dir, licensesFile), &licenses); err != nil {
		return nil, loadErr(Licenses, err)
	}
	return nonNil(licenses), nil
}

func (s *JSONStore) SaveLicenses(ctx context.Context, licenses []model.License) error {
	if err := writeJSON(filepath.Join(s.Dir, licensesFile), nonNil(licenses)); err != nil {
		return saveErr(Licenses, err)
	}
	logging.Debugf("store: saved %d licenses to %s", len(licenses), s.Dir)
	return nil
}

func (s *JSONStore) Close() error { return nil }

// readJSON decodes path into v. A missing file leaves v untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("could not decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSON replaces path atomically: the data goes to a temp file in the same
// directory which is synced and then renamed over the target.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
