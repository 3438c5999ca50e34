// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/softwhere/softwhere/internal/credentials"
	"github.com/softwhere/softwhere/internal/i18n"
	"github.com/softwhere/softwhere/internal/licenses"
	"github.com/softwhere/softwhere/internal/model"
	"github.com/softwhere/softwhere/internal/store"
)

// scriptConsole answers prompts and menus from a fixed script. Menu answers
// are 1-based numbers like a user would type; "0" cancels.
type scriptConsole struct {
	t       *testing.T
	answers []string
	infos   []string
	oks     []string
	errs    []string
	warns   []string
	tables  [][]model.License
	details []model.License
	menus   []string
}

func (s *scriptConsole) next() (string, error) {
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *scriptConsole) Banner() {}
func (s *scriptConsole) Info(msg string) { s.infos = append(s.infos, msg) }
func (s *scriptConsole) Success(msg string) { s.oks = append(s.oks, msg) }
func (s *scriptConsole) Error(msg string) { s.errs = append(s.errs, msg) }
func (s *scriptConsole) Warn(msg string) { s.warns = append(s.warns, msg) }
func (s *scriptConsole) Prompt(string) (string, error) { return s.next() }
func (s *scriptConsole) PromptSecret(string) (string, error) { return s.next() }
func (s *scriptConsole) ShowLicense(l model.License) { s.details = append(s.details, l) }
func (s *scriptConsole) ShowLicenses(_ string, ls []model.License) {
	s.tables = append(s.tables, ls)
}

func (s *scriptConsole) Choose(title string, options []string) (int, error) {
	s.menus = append(s.menus, title)
	a, err := s.next()
	if err != nil {
		return -1, err
	}
	n, err := strconv.Atoi(a)
	if err != nil || n < 0 || n > len(options) {
		s.t.Fatalf("bad scripted menu answer %q for %q (%d options)", a, title, len(options))
	}
	return n - 1, nil
}

func (s *scriptConsole) saw(list []string, want string) bool {
	for _, m := range list {
		if m == want {
			return true
		}
	}
	return false
}

type fixture struct {
	ctl   *Controller
	con   *scriptConsole
	store *store.JSONStore
	creds *credentials.Service
	dir   string
}

func newFixture(t *testing.T, answers ...string) *fixture {
	t.Helper()
	i18n.Init("en")
	dir := t.TempDir()
	js, err := store.NewJSONStore(dir)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	con := &scriptConsole{t: t, answers: answers}
	creds := credentials.NewService(js, credentials.NewBcryptHasher(4))
	repo := licenses.New(js, js)
	ctl := New(con, creds, repo, Options{
		ExportPath: filepath.Join(dir, "licenses_export.csv"),
		Now:        func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) },
	})
	return &fixture{ctl: ctl, con: con, store: js, creds: creds, dir: dir}
}

func (f *fixture) seedUsers(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if err := f.creds.Register(ctx, "admin", "adminpw", "admin"); err != nil {
		t.Fatalf("Register admin: %v", err)
	}
	if err := f.creds.Register(ctx, "alice", "alicepw", "employee"); err != nil {
		t.Fatalf("Register alice: %v", err)
	}
}

func (f *fixture) seedLicenses(t *testing.T, ls ...model.License) {
	t.Helper()
	if err := f.store.SaveLicenses(context.Background(), ls); err != nil {
		t.Fatalf("SaveLicenses: %v", err)
	}
}

func (f *fixture) licenses(t *testing.T) []model.License {
	t.Helper()
	ls, err := f.store.LoadLicenses(context.Background())
	if err != nil {
		t.Fatalf("LoadLicenses: %v", err)
	}
	return ls
}

func lic(software, key, expiry string) model.License {
	return model.License{Software: software, LicenseKey: key, User: "alice", AssignedDevice: "pc",
		InstallDate: "2019-01-01", ExpiryDate: expiry, UsageLimit: 5, Status: model.StatusActive}
}

func run(t *testing.T, f *fixture) {
	t.Helper()
	if err := f.ctl.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.ctl.State() != Exit {
		t.Fatalf("expected Exit state, got %s", f.ctl.State())
	}
}

// Admin menu: 1 register, 2 add, 3 view, 4 search, 5 sweep, 6 usage,
// 7 edit, 8 delete, 9 export, 10 logout. Employee menu: 1 view, 2 search,
// 3 sweep, 4 usage, 5 logout. Main menu: 1 login, 2 exit.

func TestFirstRunBootstrap(t *testing.T) {
	f := newFixture(t,
		// empty username is rejected
		"", "alice",
		// short password, too long password, then mismatching confirmation
		"abc", strings.Repeat("p", 80), "secret", "other",
		"secret", "secret",
		// login, logout, exit
		"1", "alice", "secret",
		"10", "2",
	)
	run(t, f)

	users, _ := f.creds.Users(context.Background())
	if len(users) != 1 || users[0].Username != "alice" || users[0].Role != model.RoleAdmin {
		t.Fatalf("expected single admin alice, got %#v", users)
	}
	if users[0].Password == "secret" {
		t.Fatalf("password stored in plaintext")
	}
	for _, want := range []string{
		i18n.T("error.empty_username"),
		i18n.T("error.password_too_short", credentials.MinPasswordLength),
		i18n.T("error.password_too_long", credentials.MaxPasswordLength),
		i18n.T("error.password_mismatch"),
	} {
		if !f.con.saw(f.con.errs, want) {
			t.Fatalf("expected error %q, got %v", want, f.con.errs)
		}
	}
	if !f.con.saw(f.con.oks, i18n.T("login.success", "alice", model.RoleAdmin)) {
		t.Fatalf("expected admin login, got %v", f.con.oks)
	}
}

func TestBootstrapSkippedWhenUsersExist(t *testing.T) {
	f := newFixture(t, "2")
	f.seedUsers(t)
	run(t, f)
	if f.con.saw(f.con.infos, i18n.T("bootstrap.intro")) {
		t.Fatalf("bootstrap must not run when accounts exist")
	}
}

func TestLoginFailuresThenEmployeeMenu(t *testing.T) {
	f := newFixture(t,
		"1", "nobody", "x",
		"1", "alice", "wrong",
		"1", "alice", "alicepw",
		"5", // logout
		"2",
	)
	f.seedUsers(t)
	run(t, f)

	if !f.con.saw(f.con.errs, i18n.T("error.login_unknown_user")) || !f.con.saw(f.con.errs, i18n.T("error.login_wrong_password")) {
		t.Fatalf("expected both login errors, got %v", f.con.errs)
	}
	if !f.con.saw(f.con.menus, i18n.T("menu.employee_title", "alice")) {
		t.Fatalf("expected the employee menu, got %v", f.con.menus)
	}
	if f.con.saw(f.con.menus, i18n.T("menu.admin_title", "alice")) {
		t.Fatalf("employee must not see the admin menu")
	}
}

func TestAddAndSearchScenario(t *testing.T) {
	f := newFixture(t,
		"1", "admin", "adminpw",
		"2", // add
		"Photoshop", "PS-123",
		"mallory", "alice", // unknown user is re-prompted
		"mac-01",
		"2024-01-01",
		"2023-12-31", "01/01/2025", "2025-01-01", // order error, format error, ok
		"five", "5",
		"0",
		"y", // save
		"n", // no more
		"4", "photo",
		"10", "2",
	)
	f.seedUsers(t)
	run(t, f)

	ls := f.licenses(t)
	if len(ls) != 1 {
		t.Fatalf("expected one license, got %#v", ls)
	}
	want := model.License{Software: "Photoshop", LicenseKey: "PS-123", User: "alice", AssignedDevice: "mac-01",
		InstallDate: "2024-01-01", ExpiryDate: "2025-01-01", UsageLimit: 5, CurrentUsage: 0, Status: model.StatusActive}
	if ls[0] != want {
		t.Fatalf("unexpected license %#v", ls[0])
	}
	if len(f.con.details) != 1 || f.con.details[0] != want {
		t.Fatalf("expected a preview before saving, got %#v", f.con.details)
	}
	if len(f.con.tables) != 1 || len(f.con.tables[0]) != 1 || f.con.tables[0][0].LicenseKey != "PS-123" {
		t.Fatalf("expected search to show the license, got %#v", f.con.tables)
	}
	for _, want := range []string{
		i18n.T("error.unknown_user", "mallory"),
		i18n.T("error.expiry_not_after_install"),
		i18n.T("error.bad_date_format", model.FieldExpiryDate.Label()),
		i18n.T("error.not_a_number", model.FieldUsageLimit.Label()),
	} {
		if !f.con.saw(f.con.errs, want) {
			t.Fatalf("expected error %q, got %v", want, f.con.errs)
		}
	}
}

func TestAddRejectsDuplicateKeyAndDeclinedSave(t *testing.T) {
	f := newFixture(t,
		"1", "admin", "adminpw",
		"2",
		"Office", "OF-1", "OF-2", "alice", "pc", "2024-01-01", "2025-01-01", "1", "0",
		"n", // do not save
		"n",
		"10", "2",
	)
	f.seedUsers(t)
	f.seedLicenses(t, lic("Office", "OF-1", "2030-01-01"))
	run(t, f)

	if !f.con.saw(f.con.errs, i18n.T("error.duplicate_license_key", "OF-1")) {
		t.Fatalf("expected duplicate key error, got %v", f.con.errs)
	}
	if !f.con.saw(f.con.infos, i18n.T("add.not_saved")) {
		t.Fatalf("expected not-saved message")
	}
	if ls := f.licenses(t); len(ls) != 1 {
		t.Fatalf("declined save must not write, got %#v", ls)
	}
}

func TestRegisterUser(t *testing.T) {
	f := newFixture(t,
		"1", "admin", "adminpw",
		"1",
		"alice", "bob", // duplicate username re-prompted
		"pw", "bobpw", "bobpw",
		"boss", "EMPLOYEE",
		"10", "2",
	)
	f.seedUsers(t)
	run(t, f)

	role, err := f.creds.Authenticate(context.Background(), "bob", "bobpw")
	if err != nil || role != model.RoleEmployee {
		t.Fatalf("expected bob to be an employee, got %q %v", role, err)
	}
	for _, want := range []string{
		i18n.T("error.duplicate_username", "alice"),
		i18n.T("error.password_too_short", credentials.MinPasswordLength),
		i18n.T("error.invalid_role"),
	} {
		if !f.con.saw(f.con.errs, want) {
			t.Fatalf("expected error %q, got %v", want, f.con.errs)
		}
	}
}

func TestSweepScenario(t *testing.T) {
	f := newFixture(t, "1", "alice", "alicepw", "3", "5", "2")
	f.seedUsers(t)
	bad := lic("Broken", "BRK", "someday")
	f.seedLicenses(t, lic("Old App", "OLD", "2020-01-01"), lic("New App", "NEW", "2099-01-01"), bad)
	run(t, f)

	ls := f.licenses(t)
	if ls[0].Status != model.StatusExpired || ls[1].Status != model.StatusActive || ls[2].Status != model.StatusActive {
		t.Fatalf("unexpected statuses %#v", ls)
	}
	if !f.con.saw(f.con.warns, i18n.T("sweep.expired", "Old App", "2020-01-01")) {
		t.Fatalf("expected expiry report, got %v", f.con.warns)
	}
	if !f.con.saw(f.con.warns, i18n.T("sweep.invalid_date", "Broken", "someday")) {
		t.Fatalf("expected invalid date report, got %v", f.con.warns)
	}
}

func TestUpdateUsage(t *testing.T) {
	f := newFixture(t,
		"1", "alice", "alicepw",
		"4", "office", "-1", "7",
		"4", "autocad",
		"5", "2",
	)
	f.seedUsers(t)
	f.seedLicenses(t, lic("Office Home", "OF-1", "2030-01-01"), lic("Office Pro", "OF-2", "2030-01-01"))
	run(t, f)

	ls := f.licenses(t)
	if ls[0].CurrentUsage != 7 || ls[1].CurrentUsage != 0 {
		t.Fatalf("only the first match must change, got %#v", ls)
	}
	if !f.con.saw(f.con.warns, i18n.T("usage.over_limit", 5)) {
		t.Fatalf("expected over-limit warning, got %v", f.con.warns)
	}
	if !f.con.saw(f.con.errs, i18n.T("error.not_found")) {
		t.Fatalf("expected not found, got %v", f.con.errs)
	}
}

func TestEditLicense(t *testing.T) {
	f := newFixture(t,
		"1", "admin", "adminpw",
		"7", "office",
		"2", // second match
		"9", // status field
		"gone", "Expired",
		"7", "visio", "0", // cancel selection
		"10", "2",
	)
	f.seedUsers(t)
	f.seedLicenses(t, lic("Office Home", "OF-1", "2030-01-01"), lic("Office Pro", "OF-2", "2030-01-01"), lic("Visio", "VI-1", "2030-01-01"))
	run(t, f)

	ls := f.licenses(t)
	if ls[1].Status != model.StatusExpired || ls[0].Status != model.StatusActive {
		t.Fatalf("expected only OF-2 expired, got %#v", ls)
	}
	if !f.con.saw(f.con.errs, i18n.T("error.invalid_status", "gone")) {
		t.Fatalf("expected invalid status error, got %v", f.con.errs)
	}
	if !f.con.saw(f.con.infos, i18n.T("edit.cancelled")) {
		t.Fatalf("expected field choice cancel for visio")
	}
}

func TestDeleteWithMultipleMatches(t *testing.T) {
	f := newFixture(t,
		"1", "admin", "adminpw",
		"8", "office", "2",
		"10", "2",
	)
	f.seedUsers(t)
	f.seedLicenses(t, lic("Office Home", "OF-1", "2030-01-01"), lic("Photoshop", "PS-1", "2030-01-01"), lic("Office Pro", "OF-2", "2030-01-01"))
	run(t, f)

	ls := f.licenses(t)
	if len(ls) != 2 || ls[0].LicenseKey != "OF-1" || ls[1].LicenseKey != "PS-1" {
		t.Fatalf("expected only OF-2 removed, got %#v", ls)
	}
}

func TestDeleteSingleMatchAndNotFound(t *testing.T) {
	f := newFixture(t,
		"1", "admin", "adminpw",
		"8", "photo", "n",
		"8", "autocad",
		"8", "PHOTO", "y",
		"10", "2",
	)
	f.seedUsers(t)
	f.seedLicenses(t, lic("Photoshop", "PS-1", "2030-01-01"))
	run(t, f)

	if ls := f.licenses(t); len(ls) != 0 {
		t.Fatalf("expected the license to be removed, got %#v", ls)
	}
	if !f.con.saw(f.con.infos, i18n.T("delete.cancelled")) || !f.con.saw(f.con.errs, i18n.T("error.not_found")) {
		t.Fatalf("expected cancel and not-found messages: %v %v", f.con.infos, f.con.errs)
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t, "1", "admin", "adminpw", "9", "10", "2")
	f.seedUsers(t)
	f.seedLicenses(t, lic("Photoshop", "PS-1", "2030-01-01"))
	run(t, f)

	data, err := os.ReadFile(filepath.Join(f.dir, "licenses_export.csv"))
	if err != nil {
		t.Fatalf("expected export file: %v", err)
	}
	if !strings.HasPrefix(string(data), "software,license_key,user,assigned_device,install_date,expiry_date,usage_limit,current_usage,status") {
		t.Fatalf("unexpected header:\n%s", data)
	}
}

func TestExportEmpty(t *testing.T) {
	f := newFixture(t, "1", "admin", "adminpw", "9", "10", "2")
	f.seedUsers(t)
	run(t, f)
	if !f.con.saw(f.con.infos, i18n.T("export.empty")) {
		t.Fatalf("expected empty export message, got %v", f.con.infos)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "licenses_export.csv")); !os.IsNotExist(err) {
		t.Fatalf("no file expected")
	}
}

func TestEndOfInputExits(t *testing.T) {
	f := newFixture(t, "1", "admin", "adminpw", "2", "Photoshop")
	f.seedUsers(t)
	run(t, f)
	if len(f.licenses(t)) != 0 {
		t.Fatalf("an interrupted form must not save")
	}
}

func TestCancelAtMainMenuExits(t *testing.T) {
	f := newFixture(t, "0")
	f.seedUsers(t)
	if err := f.ctl.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.ctl.State() != Exit {
		t.Fatalf("expected Exit after cancelling the main menu, got %v", f.ctl.State())
	}
	if !f.con.saw(f.con.infos, i18n.T("session.goodbye")) {
		t.Fatalf("expected goodbye, got %v", f.con.infos)
	}
}

func TestPaddedLoginName(t *testing.T) {
	f := newFixture(t, "1", "  alice ", "alicepw", "5", "2")
	f.seedUsers(t)
	run(t, f)
	if len(f.con.errs) != 0 {
		t.Fatalf("padded username must log in, got %v", f.con.errs)
	}
	if !f.con.saw(f.con.menus, i18n.T("menu.employee_title", "alice")) {
		t.Fatalf("expected employee menu, got %v", f.con.menus)
	}
}

func TestStorageErrorIsReportedAndLoopContinues(t *testing.T) {
	f := newFixture(t, "1", "admin", "adminpw", "3", "10", "2")
	f.seedUsers(t)
	if err := os.WriteFile(filepath.Join(f.dir, "licenses.json"), []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, loadErr := f.store.LoadLicenses(context.Background())
	if !errors.Is(loadErr, store.ErrStorage) {
		t.Fatalf("expected a storage error, got %v", loadErr)
	}
	run(t, f)
	if len(f.con.errs) != 1 || f.con.errs[0] != describe(loadErr) {
		t.Fatalf("expected one storage error, got %v", f.con.errs)
	}
	if n := strings.Count(strings.Join(f.con.menus, "\n"), i18n.T("menu.admin_title", "admin")); n != 2 {
		t.Fatalf("expected the admin menu to be shown again after the error, got %d", n)
	}
}

func TestDescribe(t *testing.T) {
	i18n.Init("en")
	cases := map[error]string{
		credentials.ErrUnknownUser:   i18n.T("error.login_unknown_user"),
		credentials.ErrWrongPassword: i18n.T("error.login_wrong_password"),
		licenses.ErrNotFound:         i18n.T("error.not_found"),
		credentials.ErrInvalidRole:   i18n.T("error.invalid_role"),
		errors.New("boom"):           i18n.T("error.generic", "boom"),
	}
	for err, want := range cases {
		if got := describe(err); got != want {
			t.Errorf("describe(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestIsYes(t *testing.T) {
	i18n.Init("en")
	for _, a := range []string{"y", "Y", " yes "} {
		if !isYes(a) {
			t.Errorf("expected %q to be yes", a)
		}
	}
	for _, a := range []string{"", "n", "no", "maybe"} {
		if isYes(a) {
			t.Errorf("expected %q to be no", a)
		}
	}
}

func TestStateString(t *testing.T) {
	if AdminMenu.String() != "admin_menu" || State(42).String() != "State(42)" {
		t.Fatalf("unexpected state names")
	}
}
