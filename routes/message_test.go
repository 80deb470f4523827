package routes

import (
	"encoding/json"
	"testing"

	"github.com/foremostprojects1/Locatex-final-backend/models"
)

func TestContactMetadataCarriesProperty(t *testing.T) {
	propertyID := uint(42)
	raw := contactMetadata("contact_form", "10.0.0.1", "test-agent", &propertyID)

	var meta map[string]interface{}
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("metadata not valid JSON: %v", err)
	}
	if meta["source"] != "contact_form" || meta["ip"] != "10.0.0.1" || meta["userAgent"] != "test-agent" {
		t.Fatalf("request context missing: %v", meta)
	}
	if got, ok := meta["propertyID"].(float64); !ok || uint(got) != 42 {
		t.Fatalf("inquiry lost its listing reference: %v", meta["propertyID"])
	}
}

func TestContactMetadataWithoutProperty(t *testing.T) {
	raw := contactMetadata("account", "10.0.0.2", "test-agent", nil)

	var meta map[string]interface{}
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("metadata not valid JSON: %v", err)
	}
	if _, present := meta["propertyID"]; present {
		t.Fatal("general messages should carry no property reference")
	}
}

func TestBuildReplyAddressesOriginalSender(t *testing.T) {
	senderID := uint(7)
	original := models.Message{
		SenderID:   &senderID,
		GuestEmail: "resident@example.com",
		Subject:    "Drainage question",
		Type:       "property_inquiry",
		Priority:   "high",
	}
	original.ID = 33

	reply := buildReply(original, 2, "We will look into it.")

	if reply.RecipientID != 7 {
		t.Fatalf("reply should be addressed to the original sender, got recipient %d", reply.RecipientID)
	}
	if reply.SenderID == nil || *reply.SenderID != 2 {
		t.Fatal("reply sender should be the admin")
	}
	if reply.Subject != "Re: Drainage question" {
		t.Fatalf("unexpected subject %q", reply.Subject)
	}
	if reply.Type != "property_inquiry" || reply.Priority != "high" {
		t.Fatal("reply should inherit type and priority")
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(reply.Metadata, &meta); err != nil {
		t.Fatalf("reply metadata not valid JSON: %v", err)
	}
	if got, ok := meta["replyTo"].(float64); !ok || uint(got) != 33 {
		t.Fatalf("reply not linked to the original: %v", meta["replyTo"])
	}
}

func TestBuildReplyToGuest(t *testing.T) {
	original := models.Message{GuestEmail: "guest@example.com", Subject: "Hello"}

	reply := buildReply(original, 2, "Hi.")
	if reply.RecipientID != 0 {
		t.Fatalf("guest original has no account to address, got recipient %d", reply.RecipientID)
	}
	if reply.GuestEmail != "guest@example.com" {
		t.Fatal("guest email must be kept for delivery")
	}
}
