// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/internal/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// userRow maps the users table. Position keeps collection order.
type userRow struct {
	bun.BaseModel `bun:"table:users"`
	Position      int    `bun:"position,pk"`
	Username      string `bun:"username,notnull"`
	Password      string `bun:"password,notnull"`
	Role          string `bun:"role,notnull"`
}

// licenseRow maps the licenses table.
type licenseRow struct {
	bun.BaseModel  `bun:"table:licenses"`
	Position       int    `bun:"position,pk"`
	Software       string `bun:"software,notnull"`
	LicenseKey     string `bun:"license_key,notnull"`
	User           string `bun:"assigned_user,notnull"`
	AssignedDevice string `bun:"assigned_device,notnull"`
	InstallDate    string `bun:"install_date,notnull"`
	ExpiryDate     string `bun:"expiry_date,notnull"`
	UsageLimit     int    `bun:"usage_limit,notnull"`
	CurrentUsage   int    `bun:"current_usage,notnull"`
	Status         string `bun:"status,notnull"`
}

// SQLStore keeps both collections in SQL tables through bun. A save runs in a
// single transaction that clears the table and re-inserts the collection.
type SQLStore struct {
	bun    *bun.DB
	dbType string
}

// OpenSQL connects to a sqlite, postgres or mysql database and creates the
// tables if they do not exist yet.
func OpenSQL(dbType, dsn string) (*SQLStore, error) {
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	if dbType == "postgres" {
		driverName = "pgx"
	}
	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory SQLite databases are per connection.
	if dbType == "sqlite" && dsn == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	s, err := newSQLStore(sqlDB, dbType)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if err := s.migrate(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	logging.Debugf("store: opened %s database in %s", dbType, time.Since(start))
	return s, nil
}

func newSQLStore(sqlDB *sql.DB, dbType string) (*SQLStore, error) {
	var bdb *bun.DB
	switch dbType {
	case "sqlite":
		bdb = bun.NewDB(sqlDB, sqlitedialect.New())
	case "postgres":
		bdb = bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		bdb = bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return nil, fmt.Errorf("unsupported database type for store creation: '%s'", dbType)
	}
	return &SQLStore{bun: bdb, dbType: dbType}, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, m := range []any{(*userRow)(nil), (*licenseRow)(nil)} {
		if _, err := s.bun.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) LoadUsers(ctx context.Context) ([]model.User, error) {
	var rows []userRow
	if err := s.bun.NewSelect().Model(&rows).Order("position ASC").Scan(ctx); err != nil && err != sql.ErrNoRows {
		return nil, loadErr(Users, err)
	}
	users := make([]model.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, model.User{Username: r.Username, Password: r.Password, Role: model.Role(r.Role)})
	}
	return users, nil
}

func (s *SQLStore) SaveUsers(ctx context.Context, users []model.User) error {
	rows := make([]userRow, 0, len(users))
	for i, u := range users {
		rows = append(rows, userRow{Position: i, Username: u.Username, Password: u.Password, Role: string(u.Role)})
	}
	if err := s.replace(ctx, (*userRow)(nil), &rows, len(rows)); err != nil {
		return saveErr(Users, err)
	}
	logging.Debugf("store: saved %d users to %s", len(users), s.dbType)
	return nil
}

func (s *SQLStore) LoadLicenses(ctx context.Context) ([]model.License, error) {
	var rows []licenseRow
	if err := s.bun.NewSelect().Model(&rows).Order("position ASC").Scan(ctx); err != nil && err != sql.ErrNoRows {
		return nil, loadErr(Licenses, err)
	}
	out := make([]model.License, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.License{
			Software:       r.Software,
			LicenseKey:     r.LicenseKey,
			User:           r.User,
			AssignedDevice: r.AssignedDevice,
			InstallDate:    r.InstallDate,
			ExpiryDate:     r.ExpiryDate,
			UsageLimit:     r.UsageLimit,
			CurrentUsage:   r.CurrentUsage,
			Status:         model.Status(r.Status),
		})
	}
	return out, nil
}

func (s *SQLStore) SaveLicenses(ctx context.Context, licenses []model.License) error {
	rows := make([]licenseRow, 0, len(licenses))
	for i, l := range licenses {
		rows = append(rows, licenseRow{
			Position:       i,
			Software:       l.Software,
			LicenseKey:     l.LicenseKey,
			User:           l.User,
			AssignedDevice: l.AssignedDevice,
			InstallDate:    l.InstallDate,
			ExpiryDate:     l.ExpiryDate,
			UsageLimit:     l.UsageLimit,
			CurrentUsage:   l.CurrentUsage,
			Status:         string(l.Status),
		})
	}
	if err := s.replace(ctx, (*licenseRow)(nil), &rows, len(rows)); err != nil {
		return saveErr(Licenses, err)
	}
	logging.Debugf("store: saved %d licenses to %s", len(licenses), s.dbType)
	return nil
}

// replace clears the table of tableModel and inserts rows in one transaction.
func (s *SQLStore) replace(ctx context.Context, tableModel any, rows any, n int) error {
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// bun refuses a DELETE without WHERE.
	if _, err := tx.NewDelete().Model(tableModel).Where("1 = 1").Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear table: %w", err)
	}
	if n > 0 {
		if _, err := tx.NewInsert().Model(rows).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert rows: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Close() error {
	return s.bun.Close()
}
