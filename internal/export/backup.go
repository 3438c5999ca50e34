// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/softwhere/softwhere/internal/model"
)

// SchemaVersion is written into every backup.
const SchemaVersion = 1

// BackupFileName returns the default backup name for the given day.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("softwhere-backup-%s.json.zst", now.Format(model.DateLayout))
}

// WithZstSuffix appends ".zst" unless name already ends with it.
func WithZstSuffix(name string) string {
	if strings.HasSuffix(name, ".zst") {
		return name
	}
	return name + ".zst"
}

// WriteBackup streams data as indented JSON through a zstd encoder.
func WriteBackup(w io.Writer, data *model.BackupData) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	return zw.Close()
}

// ReadBackup decodes a backup written by WriteBackup.
func ReadBackup(r io.Reader) (*model.BackupData, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	if data.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("backup schema version %d is newer than supported version %d", data.SchemaVersion, SchemaVersion)
	}
	return &data, nil
}

// WriteBackupFile writes data to filename, replacing any existing file.
func WriteBackupFile(filename string, data *model.BackupData) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	if err := WriteBackup(f, data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadBackupFile reads a backup from filename.
func ReadBackupFile(filename string) (*model.BackupData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadBackup(f)
}
