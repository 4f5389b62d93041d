// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigrate_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	_ = mock // не используем напрямую, goose сам будет ходить в DB

	err = Migrate(db)
	if err == nil {
		t.Fatal("expected error from Migrate, got nil")
	}

	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrateClient_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	err = MigrateClient(db)
	if err == nil || !strings.Contains(err.Error(), "migration error") {
		t.Fatalf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	for name, fn := range map[string]func(*sql.DB) error{"server": Migrate, "client": MigrateClient} {
		err := fn(db)
		if err == nil {
			t.Fatalf("%s: expected error when db is nil, got nil", name)
		}
		if !strings.Contains(err.Error(), "db is nil") {
			t.Errorf("%s: expected 'db is nil' error, got: %v", name, err)
		}
	}
}

func TestEmbeddedMigrations_HaveUpAndDown(t *testing.T) {
	for _, dir := range []string{"postgres", "sqlite"} {
		files, err := fs.Glob(embedMigrations, dir+"/*.sql")
		if err != nil {
			t.Fatalf("glob %s: %v", dir, err)
		}
		if len(files) == 0 {
			t.Fatalf("no migrations embedded for %s", dir)
		}
		for _, f := range files {
			body, err := fs.ReadFile(embedMigrations, f)
			if err != nil {
				t.Fatalf("read %s: %v", f, err)
			}
			if !strings.Contains(string(body), "-- +goose Up") || !strings.Contains(string(body), "-- +goose Down") {
				t.Errorf("%s: missing goose annotations", f)
			}
		}
	}
}
