// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// package store persists the user and license collections. Every save
// replaces a whole collection; every load returns the whole collection.
package store // import "github.com/softwhere/softwhere/internal/store"

import (
	"context"
	"errors"
	"fmt"

	"github.com/softwhere/softwhere/internal/config"
	"github.com/softwhere/softwhere/internal/model"
)

// Collection names a persisted record set.
type Collection string

const (
	Users    Collection = "users"
	Licenses Collection = "licenses"
)

// UserStore loads and saves the user collection.
type UserStore interface {
	LoadUsers(ctx context.Context) ([]model.User, error)
	SaveUsers(ctx context.Context, users []model.User) error
}

// LicenseStore loads and saves the license collection.
type LicenseStore interface {
	LoadLicenses(ctx context.Context) ([]model.License, error)
	SaveLicenses(ctx context.Context, licenses []model.License) error
}

// Store is a complete persistence backend.
type Store interface {
	UserStore
	LicenseStore
	Close() error
}

// ErrStorage matches every *StorageError via errors.Is.
var ErrStorage = errors.New("storage error")

// StorageError reports a failed read or write against a backing store.
type StorageError struct {
	Op         string // "load" or "save"
	Collection Collection
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func loadErr(c Collection, err error) error {
	return &StorageError{Op: "load", Collection: c, Err: err}
}

func saveErr(c Collection, err error) error {
	return &StorageError{Op: "save", Collection: c, Err: err}
}

// Open builds the backend selected by cfg.Type. An empty type means "json".
func Open(cfg config.Storage) (Store, error) {
	switch cfg.Type {
	case "", "json":
		return NewJSONStore(cfg.Path)
	case "sqlite", "postgres", "mysql":
		return OpenSQL(cfg.Type, cfg.Dsn)
	default:
		return nil, fmt.Errorf("unsupported storage type: '%s'", cfg.Type)
	}
}

// Snapshot reads both collections into a backup document.
func Snapshot(ctx context.Context, s Store) (*model.BackupData, error) {
	users, err := s.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	licenses, err := s.LoadLicenses(ctx)
	if err != nil {
		return nil, err
	}
	return &model.BackupData{SchemaVersion: 1, Users: users, Licenses: licenses}, nil
}

// Restore replaces both collections with the contents of a backup document.
func Restore(ctx context.Context, s Store, data *model.BackupData) error {
	if data == nil {
		return errors.New("restore: no backup data")
	}
	if err := s.SaveUsers(ctx, nonNil(data.Users)); err != nil {
		return err
	}
	return s.SaveLicenses(ctx, nonNil(data.Licenses))
}

// nonNil keeps JSON output as [] instead of null for empty collections.
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
