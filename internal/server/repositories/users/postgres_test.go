package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func testUser(t *testing.T) *models.User {
	t.Helper()
	u, err := models.NewUser("alice@example.com", models.GroupUser)
	if err != nil {
		t.Fatalf("NewUser error: %v", err)
	}
	u.RestorePasswordHash("$2a$10$digest")
	return u
}

var insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*hashed_password,\s*is_active,\s*group_id\)`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "group_id", "created_at", "updated_at"}).
		AddRow(int64(42), int64(1), now, now)
	mock.ExpectQuery(insertQ).
		WithArgs("alice@example.com", "$2a$10$digest", false, "user").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), testUser(t))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.GroupID != 1 {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("alice@example.com", "$2a$10$digest", false, "user").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), testUser(t))
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want common.ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("alice@example.com", "$2a$10$digest", false, "user").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), testUser(t))
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

var selectQ = `(?s)^SELECT\s+u\.id,\s*u\.email,\s*u\.hashed_password,\s*u\.is_active,\s*u\.group_id,\s*g\.name,\s*u\.created_at,\s*u\.updated_at\s+FROM\s+users\s+u\s+JOIN\s+user_groups\s+g`

func userRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "email", "hashed_password", "is_active", "group_id", "name", "created_at", "updated_at"}).
		AddRow(int64(7), "alice@example.com", "$2a$10$digest", true, int64(1), "moderator", now, now)
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("alice@example.com").WillReturnRows(userRows(t))

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != 7 || !got.IsActive || got.GroupName != models.GroupModerator {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.PasswordHash() != "$2a$10$digest" {
		t.Fatalf("digest not restored")
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs(int64(7)).WillReturnRows(userRows(t))

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestSetActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+is_active\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)`

	mock.ExpectExec(q).WithArgs(int64(7), true).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.SetActive(context.Background(), 7, true); err != nil {
		t.Fatalf("SetActive error: %v", err)
	}

	mock.ExpectExec(q).WithArgs(int64(8), true).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.SetActive(context.Background(), 8, true); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound for missing user, got %v", err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+hashed_password\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)`

	mock.ExpectExec(q).WithArgs(int64(7), "$2a$10$new").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.UpdatePasswordHash(context.Background(), 7, "$2a$10$new"); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`

	mock.ExpectExec(q).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(q).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), 8); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}
