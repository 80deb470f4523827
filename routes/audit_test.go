package routes

import (
	"strings"
	"testing"

	"github.com/foremostprojects1/Locatex-final-backend/models"
)

func TestBuildAuditEntrySnapshots(t *testing.T) {
	before := models.Property{Title: "Old Farm", ApprovalStatus: models.ApprovalPending}
	after := models.Property{Title: "Old Farm", ApprovalStatus: models.ApprovalApproved}

	entry := buildAuditEntry(9, "admin", "property.approve", "property", 12, "10.0.0.1", before, after)

	if entry.AdminUserID != 9 || entry.AdminRole != "admin" {
		t.Fatalf("actor not recorded: id=%d role=%s", entry.AdminUserID, entry.AdminRole)
	}
	if entry.Action != "property.approve" || entry.ResourceType != "property" || entry.ResourceID != 12 {
		t.Fatal("action fields not recorded")
	}
	if entry.IPAddress != "10.0.0.1" {
		t.Fatalf("ip not recorded: %s", entry.IPAddress)
	}
	if !strings.Contains(entry.BeforeJSON, models.ApprovalPending) {
		t.Fatalf("before snapshot missing prior state: %s", entry.BeforeJSON)
	}
	if !strings.Contains(entry.AfterJSON, models.ApprovalApproved) {
		t.Fatalf("after snapshot missing new state: %s", entry.AfterJSON)
	}
	if entry.Reason != "" {
		t.Fatalf("approval should carry no reason, got %q", entry.Reason)
	}
}

func TestBuildAuditEntryRejectionReason(t *testing.T) {
	after := models.Property{ApprovalStatus: models.ApprovalRejected, RejectionReason: "duplicate listing"}

	entry := buildAuditEntry(3, "admin", "property.reject", "property", 5, "", models.Property{}, after)
	if entry.Reason != "duplicate listing" {
		t.Fatalf("reason column not populated, got %q", entry.Reason)
	}
}

func TestBuildAuditEntryNilSnapshots(t *testing.T) {
	entry := buildAuditEntry(1, "admin", "user.delete", "user", 2, "", models.User{Name: "x"}, nil)
	if entry.AfterJSON != "" {
		t.Fatalf("nil after should leave an empty snapshot, got %q", entry.AfterJSON)
	}
	if entry.BeforeJSON == "" {
		t.Fatal("before snapshot should be recorded for deletions")
	}
}
