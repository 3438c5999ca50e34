// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/softwhere/softwhere/internal/model"
	"github.com/xuri/excelize/v2"
)

func sample() []model.License {
	return []model.License{
		{Software: "Photoshop", LicenseKey: "PS-123", User: "alice", AssignedDevice: "mac-01",
			InstallDate: "2024-01-01", ExpiryDate: "2025-01-01", UsageLimit: 5, CurrentUsage: 0, Status: model.StatusActive},
		{Software: "Office, Pro", LicenseKey: "OF-1", User: "bob", AssignedDevice: "pc-7",
			InstallDate: "2019-01-01", ExpiryDate: "2020-01-01", UsageLimit: 10, CurrentUsage: 3, Status: model.StatusExpired},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	want := []string{"software", "license_key", "user", "assigned_device", "install_date", "expiry_date", "usage_limit", "current_usage", "status"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[2][0] != "Office, Pro" || rows[2][7] != "3" || rows[2][8] != "expired" {
		t.Fatalf("unexpected row %v", rows[2])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sample()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[0][1] != "license_key" || rows[1][1] != "PS-123" || rows[1][6] != "5" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out", "licenses_export.csv")
	if err := ToFile(csvPath, sample()); err != nil {
		t.Fatalf("ToFile csv: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !strings.HasPrefix(string(data), "software,license_key,") {
		t.Fatalf("unexpected csv content %q", data)
	}

	xlsxPath := filepath.Join(dir, "licenses.XLSX")
	if err := ToFile(xlsxPath, sample()); err != nil {
		t.Fatalf("ToFile xlsx: %v", err)
	}
	if _, err := excelize.OpenFile(xlsxPath); err != nil {
		t.Fatalf("expected a workbook: %v", err)
	}

	empty := filepath.Join(dir, "empty.csv")
	if err := ToFile(empty, nil); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if _, err := os.Stat(empty); !os.IsNotExist(err) {
		t.Fatalf("no file must be written for an empty collection")
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"a.csv":      FormatCSV,
		"a.xlsx":     FormatXLSX,
		"dir/a.Xlsx": FormatXLSX,
		"noext":      FormatCSV,
	}
	for in, want := range cases {
		if got := FormatFor(in); got != want {
			t.Errorf("FormatFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBackupRoundTrip(t *testing.T) {
	in := &model.BackupData{
		SchemaVersion: SchemaVersion,
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Users:         []model.User{{Username: "alice", Password: "$2a$10$x", Role: model.RoleAdmin}},
		Licenses:      sample(),
	}
	path := filepath.Join(t.TempDir(), WithZstSuffix("backup.json"))
	if err := WriteBackupFile(path, in); err != nil {
		t.Fatalf("WriteBackupFile: %v", err)
	}
	out, err := ReadBackupFile(path)
	if err != nil {
		t.Fatalf("ReadBackupFile: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("backup mismatch:\n%#v\n%#v", in, out)
	}
}

func TestReadBackup_RejectsGarbageAndNewerSchema(t *testing.T) {
	if _, err := ReadBackup(strings.NewReader("not zstd")); err == nil {
		t.Fatalf("expected error for garbage input")
	}
	var buf bytes.Buffer
	if err := WriteBackup(&buf, &model.BackupData{SchemaVersion: SchemaVersion + 1}); err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	if _, err := ReadBackup(&buf); err == nil {
		t.Fatalf("expected newer schema to be rejected")
	}
}

func TestBackupNames(t *testing.T) {
	if got := BackupFileName(time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC)); got != "softwhere-backup-2025-10-26.json.zst" {
		t.Fatalf("unexpected name %q", got)
	}
	if WithZstSuffix("a.zst") != "a.zst" || WithZstSuffix("a.json") != "a.json.zst" {
		t.Fatalf("unexpected suffix handling")
	}
}
