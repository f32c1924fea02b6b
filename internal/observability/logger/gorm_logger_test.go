package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationAndTableFromSQL(t *testing.T) {
	cases := []struct {
		sql   string
		op    string
		table string
	}{
		{`SELECT auth0_org_id, name FROM organizations WHERE auth0_org_id = ?`, "SELECT", "organizations"},
		{`INSERT INTO "users" ("auth0_user_id") VALUES (?)`, "INSERT", "users"},
		{`UPDATE pickup_jobs SET status = ? WHERE id = ?`, "UPDATE", "pickup_jobs"},
		{`DELETE FROM sso_invitations WHERE id = ?`, "DELETE", "sso_invitations"},
		{``, "UNKNOWN", ""},
	}
	for _, tc := range cases {
		if got := operationFromSQL(tc.sql); got != tc.op {
			t.Fatalf("operationFromSQL(%q) = %q, want %q", tc.sql, got, tc.op)
		}
		if got := tableFromSQL(tc.sql); got != tc.table {
			t.Fatalf("tableFromSQL(%q) = %q, want %q", tc.sql, got, tc.table)
		}
	}
}

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewGormLogger(zap.New(core), GormLoggerConfig{
		Level:                gormlogger.Warn,
		IgnoreRecordNotFound: true,
	})

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM users WHERE auth0_user_id = ?", 0
	}, gormlogger.ErrRecordNotFound)
	if logs.Len() != 0 {
		t.Fatalf("expected no log entries, got %d", logs.Len())
	}

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO users (auth0_user_id) VALUES (?)", 0
	}, errors.New("database is locked"))
	if logs.Len() != 1 {
		t.Fatalf("expected one error entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "gorm.query" {
		t.Fatalf("unexpected message %q", entry.Message)
	}
	if entry.ContextMap()["table"] != "users" {
		t.Fatalf("expected table field to be users, got %v", entry.ContextMap()["table"])
	}
}

func TestGormLoggerParamsFilterDropsValues(t *testing.T) {
	l := NewGormLogger(zap.NewNop(), DefaultGormLoggerConfig(false))
	sql, params := l.ParamsFilter(context.Background(), "SELECT 1 WHERE email = ?", "a@b.c")
	if sql != "SELECT 1 WHERE email = ?" {
		t.Fatalf("unexpected sql %q", sql)
	}
	if params != nil {
		t.Fatalf("expected params to be dropped, got %v", params)
	}
}
