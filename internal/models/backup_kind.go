package models

import "strings"

// BackupKind is one of the entity categories that can be exported to a backup workbook.
type BackupKind string

const (
	BackupKindUser       BackupKind = "USER"
	BackupKindArea       BackupKind = "AREA"
	BackupKindEquipment  BackupKind = "EQUIPMENT"
	BackupKindPart       BackupKind = "PART"
	BackupKindComplaint  BackupKind = "COMPLAINT"
	BackupKindWorkReport BackupKind = "WORK_REPORT"
)

// CanonicalBackupKinds returns every kind in workbook sheet order.
func CanonicalBackupKinds() []BackupKind {
	return []BackupKind{
		BackupKindUser,
		BackupKindArea,
		BackupKindEquipment,
		BackupKindPart,
		BackupKindComplaint,
		BackupKindWorkReport,
	}
}

// IsValidBackupKind reports whether k is a known kind. Matching is case-sensitive.
func IsValidBackupKind(k BackupKind) bool {
	for _, valid := range CanonicalBackupKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// SheetName returns the workbook sheet name used for the kind.
func (k BackupKind) SheetName() string {
	switch k {
	case BackupKindUser:
		return "Users"
	case BackupKindArea:
		return "Areas"
	case BackupKindEquipment:
		return "Equipments"
	case BackupKindPart:
		return "Parts"
	case BackupKindComplaint:
		return "Complaints"
	case BackupKindWorkReport:
		return "WorkReports"
	}
	return ""
}

// ParseBackupKinds converts raw tags into kinds in canonical order.
// Tags are trimmed; unknown tags and duplicates are ignored.
func ParseBackupKinds(tags []string) []BackupKind {
	requested := make(map[BackupKind]bool, len(tags))
	for _, tag := range tags {
		requested[BackupKind(strings.TrimSpace(tag))] = true
	}

	kinds := make([]BackupKind, 0, len(requested))
	for _, k := range CanonicalBackupKinds() {
		if requested[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// SplitBackupKinds parses a comma-separated tag list such as "USER, PART".
func SplitBackupKinds(list string) []BackupKind {
	if strings.TrimSpace(list) == "" {
		return []BackupKind{}
	}
	return ParseBackupKinds(strings.Split(list, ","))
}

// JoinBackupKinds renders kinds as a comma-separated list.
func JoinBackupKinds(kinds []BackupKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

// BackupKindStrings converts kinds to plain strings.
func BackupKindStrings(kinds []BackupKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
