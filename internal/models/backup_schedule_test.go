package models

import (
	"errors"
	"testing"
	"time"
)

func validInput() BackupScheduleInput {
	return BackupScheduleInput{
		IntervalDays: 1,
		BackupTime:   "02:30",
		StartDate:    "2024-03-01",
		Folder:       "/var/backups/icbs",
		Kinds:        []string{"PART", "USER"},
	}
}

func TestDefaultBackupSchedule(t *testing.T) {
	s := DefaultBackupSchedule()
	if s.IntervalDays != 7 {
		t.Errorf("expected interval 7, got %d", s.IntervalDays)
	}
	if s.BackupTime != "" || s.StartDate != "" || s.Folder != "" {
		t.Errorf("expected empty time/date/folder, got %q %q %q", s.BackupTime, s.StartDate, s.Folder)
	}
	if s.Kinds == nil || len(s.Kinds) != 0 {
		t.Errorf("expected empty non-nil kinds, got %v", s.Kinds)
	}
	if s.Enabled() {
		t.Error("default schedule must not be enabled")
	}
}

func TestParseBackupScheduleInput(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s, err := ParseBackupScheduleInput(validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.BackupTime != "02:30" {
			t.Errorf("expected 02:30, got %q", s.BackupTime)
		}
		if s.StartDate != "2024-03-01" {
			t.Errorf("expected 2024-03-01, got %q", s.StartDate)
		}
		if len(s.Kinds) != 2 || s.Kinds[0] != BackupKindUser || s.Kinds[1] != BackupKindPart {
			t.Errorf("expected [USER PART], got %v", s.Kinds)
		}
		if !s.Enabled() {
			t.Error("expected schedule to be enabled")
		}
	})

	t.Run("seconds accepted and normalized", func(t *testing.T) {
		in := validInput()
		in.BackupTime = "23:59:10"
		s, err := ParseBackupScheduleInput(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.BackupTime != "23:59" {
			t.Errorf("expected 23:59, got %q", s.BackupTime)
		}
	})

	tests := []struct {
		name   string
		mutate func(*BackupScheduleInput)
	}{
		{"zero interval", func(in *BackupScheduleInput) { in.IntervalDays = 0 }},
		{"negative interval", func(in *BackupScheduleInput) { in.IntervalDays = -3 }},
		{"bad time", func(in *BackupScheduleInput) { in.BackupTime = "25:00" }},
		{"empty time", func(in *BackupScheduleInput) { in.BackupTime = "" }},
		{"bad date", func(in *BackupScheduleInput) { in.StartDate = "03/01/2024" }},
		{"empty folder", func(in *BackupScheduleInput) { in.Folder = "  " }},
		{"nul in folder", func(in *BackupScheduleInput) { in.Folder = "/tmp/a\x00b" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := ParseBackupScheduleInput(in)
			if !errors.Is(err, ErrInvalidSchedule) {
				t.Fatalf("expected ErrInvalidSchedule, got %v", err)
			}
		})
	}
}

func TestBackupSchedule_NextRun(t *testing.T) {
	loc := time.UTC
	s, err := ParseBackupScheduleInput(BackupScheduleInput{
		IntervalDays: 3,
		BackupTime:   "02:00",
		StartDate:    "2024-03-01",
		Folder:       "/backups",
		Kinds:        []string{"USER"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{"before start", time.Date(2024, 2, 20, 10, 0, 0, 0, loc), time.Date(2024, 3, 1, 2, 0, 0, 0, loc)},
		{"exactly at start", time.Date(2024, 3, 1, 2, 0, 0, 0, loc), time.Date(2024, 3, 4, 2, 0, 0, 0, loc)},
		{"same day later", time.Date(2024, 3, 1, 9, 0, 0, 0, loc), time.Date(2024, 3, 4, 2, 0, 0, 0, loc)},
		{"between runs", time.Date(2024, 3, 5, 0, 0, 0, 0, loc), time.Date(2024, 3, 7, 2, 0, 0, 0, loc)},
		{"run day before time", time.Date(2024, 3, 7, 1, 59, 0, 0, loc), time.Date(2024, 3, 7, 2, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.NextRun(tt.after, loc)
			if !ok {
				t.Fatal("expected schedule to be enabled")
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextRun(%v) = %v, want %v", tt.after, got, tt.want)
			}
		})
	}

	t.Run("disabled without kinds", func(t *testing.T) {
		disabled := *s
		disabled.Kinds = nil
		if _, ok := disabled.NextRun(time.Now(), loc); ok {
			t.Error("expected disabled schedule")
		}
	})
}

func TestParseBackupKinds(t *testing.T) {
	kinds := ParseBackupKinds([]string{" WORK_REPORT", "user", "USER", "AREA", "BOGUS", "USER"})
	want := []BackupKind{BackupKindUser, BackupKindArea, BackupKindWorkReport}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
}

func TestSplitBackupKinds(t *testing.T) {
	if got := SplitBackupKinds(""); len(got) != 0 {
		t.Errorf("expected no kinds, got %v", got)
	}
	got := SplitBackupKinds("PART, USER,,")
	if len(got) != 2 || got[0] != BackupKindUser || got[1] != BackupKindPart {
		t.Errorf("expected [USER PART], got %v", got)
	}
	if JoinBackupKinds(got) != "USER,PART" {
		t.Errorf("unexpected join: %q", JoinBackupKinds(got))
	}
}

func TestBackupKind_SheetName(t *testing.T) {
	want := []string{"Users", "Areas", "Equipments", "Parts", "Complaints", "WorkReports"}
	for i, k := range CanonicalBackupKinds() {
		if k.SheetName() != want[i] {
			t.Errorf("%s: expected %s, got %s", k, want[i], k.SheetName())
		}
	}
	if BackupKind("user").SheetName() != "" {
		t.Error("lower-case tag must not resolve")
	}
}
