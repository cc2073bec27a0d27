package groups

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

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

func TestGetByName_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name\s+FROM\s+user_groups\s+WHERE\s+name\s*=\s*\$1`

	rows := sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(3), "admin")
	mock.ExpectQuery(q).WithArgs("admin").WillReturnRows(rows)

	got, err := repo.GetByName(context.Background(), models.GroupAdmin)
	if err != nil {
		t.Fatalf("GetByName error: %v", err)
	}
	if got.ID != 3 || got.Name != models.GroupAdmin {
		t.Fatalf("unexpected group: %+v", got)
	}
}

func TestGetByName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name\s+FROM\s+user_groups\s+WHERE\s+name\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs("user").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByName(context.Background(), models.GroupUser)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name\s+FROM\s+user_groups\s+ORDER\s+BY\s+id`
	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "user").
		AddRow(int64(2), "moderator").
		AddRow(int64(3), "admin")
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 3 || got[0].Name != models.GroupUser || got[2].Name != models.GroupAdmin {
		t.Fatalf("unexpected groups: %+v", got)
	}
}
