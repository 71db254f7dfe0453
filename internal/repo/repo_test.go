package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gin-gorm-product-api/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestIsDupKey(t *testing.T) {
	assert.False(t, isDupKey(nil))
	assert.False(t, isDupKey(errors.New("connection refused")))
	assert.True(t, isDupKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDupKey(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isDupKey(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isDupKey(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isDupKey(&mysql.MySQLError{Number: 1045}))
	assert.True(t, isDupKey(errors.New("UNIQUE constraint failed: users.email")))
}

func TestUserRepo_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	rows := sqlmock.NewRows([]string{"id", "email", "name", "password_hash"}).
		AddRow("u1", "a@b.com", "A", "$2a$10$hash")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).WillReturnRows(rows)

	u, err := r.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_FindByEmail_Miss(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := r.FindByEmail(context.Background(), "nobody@b.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepo_FindByID_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).WillReturnError(errors.New("db down"))

	_, err := r.FindByID(context.Background(), "u1")
	require.Error(t, err)
}

func TestUserRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(1, 1))

	err := r.Create(context.Background(), &domain.User{ID: "u1", Email: "a@b.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := r.Create(context.Background(), &domain.User{ID: "u1", Email: "a@b.com", PasswordHash: "h"})
	require.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestProductRepo_Update_OnlyWhitelistedColumns(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductRepo(db)

	mock.ExpectExec(`UPDATE "products" SET .*"name"=\$\d`).WillReturnResult(sqlmock.NewResult(0, 1))

	name := "new"
	require.NoError(t, r.Update(context.Background(), "p1", domain.ProductPatch{Name: &name}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Update_EmptyPatchIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductRepo(db)

	require.NoError(t, r.Update(context.Background(), "p1", domain.ProductPatch{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductRepo(db)

	mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.Delete(context.Background(), "p1"))

	mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, r.Delete(context.Background(), "p2"), domain.ErrNotFound)
}

func TestProductRepo_List(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductRepo(db)

	rows := sqlmock.NewRows([]string{"id", "name", "price", "created_by"}).
		AddRow("p1", "Pen", 1.5, "u1").
		AddRow("p2", "Ink", 0.0, "u2")
	mock.ExpectQuery(`SELECT \* FROM "products" ORDER BY created_at desc`).WillReturnRows(rows)

	ps, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "u2", ps[1].CreatedBy)
}
