package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kunkoder/Cor1/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "cor1ctl dev") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestMigrateListCmd(t *testing.T) {
	out, err := execute(t, "migrate", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "VERSION") || !strings.Contains(out, "001") {
		t.Errorf("expected migrations table, got:\n%s", out)
	}
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	flagDatabaseURL = ""
	if _, err := databaseURL(); err == nil {
		t.Error("expected error without a database URL")
	}

	t.Setenv("DATABASE_URL", "postgres://env")
	if got, _ := databaseURL(); got != "postgres://env" {
		t.Errorf("expected env URL, got %q", got)
	}

	flagDatabaseURL = "postgres://flag"
	t.Cleanup(func() { flagDatabaseURL = "" })
	if got, _ := databaseURL(); got != "postgres://flag" {
		t.Errorf("expected flag URL, got %q", got)
	}
}

func TestBackupHistoryRejectsBadSort(t *testing.T) {
	_, err := execute(t, "backup", "history", "--sort", "name")
	if err == nil || !strings.Contains(err.Error(), "invalid --sort") {
		t.Errorf("expected sort error, got %v", err)
	}
}

func TestPrintHistory(t *testing.T) {
	run := models.NewBackupRun(models.BackupTriggerManual, "/srv/backups", []models.BackupKind{models.BackupKindUser, models.BackupKindArea}, nil)
	run.Status = models.BackupRunStatusCompleted
	run.RowCount = 7

	var out bytes.Buffer
	printHistory(&out, []*models.BackupRun{run})
	for _, want := range []string{run.ID.String(), "USER,AREA", "COMPLETED", "7"} {
		if !strings.Contains(strings.ToUpper(out.String()), strings.ToUpper(want)) {
			t.Errorf("expected %q in:\n%s", want, out.String())
		}
	}
}
