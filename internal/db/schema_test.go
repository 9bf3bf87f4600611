package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func tableRow(name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"table_name"}).AddRow(name)
}

func TestEnsureSchemaCreatesMissingTables(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()
	mock.MatchExpectationsInOrder(false)

	// no tables exist yet: every probe comes back empty, every DDL runs
	for range schemaTables {
		mock.ExpectQuery("information_schema.tables").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	}
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS otp_sessions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS verified_journeys").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS buddy_requests").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS offer_seats").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS offer_seat_requests").WillReturnResult(sqlmock.NewResult(0, 0))

	// fresh DDL already carries the photo column
	mock.ExpectQuery("information_schema.columns").WithArgs("users", "profile_photo_url").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("profile_photo_url"))

	if err := EnsureSchema(conn); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureSchemaSkipsExistingAndPatchesPhotoColumn(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()
	mock.MatchExpectationsInOrder(false)

	// every table already exists: no CREATE may run
	for _, tbl := range schemaTables {
		mock.ExpectQuery("information_schema.tables").WithArgs(tbl.name).
			WillReturnRows(tableRow(tbl.name))
	}

	// older deployment without the photo column gets patched
	mock.ExpectQuery("information_schema.columns").WithArgs("users", "profile_photo_url").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))
	mock.ExpectExec("ALTER TABLE users ADD COLUMN profile_photo_url").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := EnsureSchema(conn); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHasTableAndHasColumnNilReceiver(t *testing.T) {
	if HasTable(nil, "users") {
		t.Fatal("nil querier must report no table")
	}
	if HasColumn(nil, "users", "name") {
		t.Fatal("nil querier must report no column")
	}
}
