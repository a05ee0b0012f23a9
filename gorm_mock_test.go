package dspager

import (
	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newGORMMock opens gorm in debug mode over a go-sqlmock connection,
// using the dialector built by dialector.
func newGORMMock(dialect string, dialector func(conn *sql.DB) gorm.Dialector) (string, *gorm.DB, sqlmock.Sqlmock, error) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	db, err := gorm.Open(dialector(conn), &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return dialect, db.Debug(), mock, nil
}

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	return newGORMMock("mysql", func(conn *sql.DB) gorm.Dialector {
		return mysql.New(mysql.Config{
			Conn:                      conn,
			SkipInitializeWithVersion: true,
		})
	})
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	return newGORMMock("postgres", func(conn *sql.DB) gorm.Dialector {
		return postgres.New(postgres.Config{
			Conn: conn,
		})
	})
}
