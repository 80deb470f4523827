package models

import (
	"errors"
	"testing"
)

func TestApproveTransitions(t *testing.T) {
	p := Property{ApprovalStatus: ApprovalPending}

	if err := p.Approve(7); err != nil {
		t.Fatalf("approve pending: %v", err)
	}
	if p.ApprovalStatus != ApprovalApproved {
		t.Fatalf("expected approved, got %s", p.ApprovalStatus)
	}
	if p.IsPublished == nil || !*p.IsPublished {
		t.Fatal("approval should publish the listing")
	}
	if p.ApprovedBy == nil || *p.ApprovedBy != 7 {
		t.Fatal("approver not recorded")
	}
	if p.ApprovedAt == nil {
		t.Fatal("approval time not recorded")
	}

	if err := p.Approve(8); !errors.Is(err, ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}
	if *p.ApprovedBy != 7 {
		t.Fatal("failed re-approve must not overwrite the approver")
	}
}

func TestApproveClearsRejection(t *testing.T) {
	p := Property{ApprovalStatus: ApprovalRejected, RejectionReason: "blurry photos"}

	if err := p.Approve(3); err != nil {
		t.Fatalf("approve rejected: %v", err)
	}
	if p.RejectionReason != "" {
		t.Fatal("approval should clear the rejection reason")
	}
}

func TestRejectTransitions(t *testing.T) {
	published := true
	p := Property{ApprovalStatus: ApprovalApproved, IsPublished: &published}

	if err := p.Reject(2, ""); !errors.Is(err, ErrEmptyReason) {
		t.Fatalf("expected ErrEmptyReason, got %v", err)
	}
	if p.ApprovalStatus != ApprovalApproved {
		t.Fatal("failed reject must not change state")
	}

	if err := p.Reject(2, "duplicate listing"); err != nil {
		t.Fatalf("reject approved: %v", err)
	}
	if p.ApprovalStatus != ApprovalRejected {
		t.Fatalf("expected rejected, got %s", p.ApprovalStatus)
	}
	if p.IsPublished != nil && *p.IsPublished {
		t.Fatal("rejection should unpublish the listing")
	}
	if p.RejectionReason != "duplicate listing" {
		t.Fatal("reason not recorded")
	}

	if err := p.Reject(2, "again"); !errors.Is(err, ErrAlreadyRejected) {
		t.Fatalf("expected ErrAlreadyRejected, got %v", err)
	}
}

func TestPubliclyVisible(t *testing.T) {
	published := true
	unpublished := false

	cases := []struct {
		name string
		p    Property
		want bool
	}{
		{"pending unpublished", Property{ApprovalStatus: ApprovalPending, IsPublished: &unpublished}, false},
		{"pending published", Property{ApprovalStatus: ApprovalPending, IsPublished: &published}, true},
		{"approved unpublished", Property{ApprovalStatus: ApprovalApproved, IsPublished: &unpublished}, true},
		{"rejected unpublished", Property{ApprovalStatus: ApprovalRejected, IsPublished: &unpublished}, false},
		{"nil published flag", Property{ApprovalStatus: ApprovalPending}, false},
	}
	for _, tc := range cases {
		if got := tc.p.PubliclyVisible(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeImagesSinglePrimary(t *testing.T) {
	images := []PropertyImage{
		{URL: "a.jpg"},
		{URL: "b.jpg", IsPrimary: true},
		{URL: "c.jpg", IsPrimary: true},
	}

	out := NormalizeImages(images)
	primaries := 0
	for _, img := range out {
		if img.IsPrimary {
			primaries++
			if img.URL != "b.jpg" {
				t.Fatalf("first marked image should stay primary, got %s", img.URL)
			}
		}
	}
	if primaries != 1 {
		t.Fatalf("expected exactly one primary, got %d", primaries)
	}

	// Input slice untouched.
	if !images[2].IsPrimary {
		t.Fatal("normalization must not mutate its input")
	}
}

func TestNormalizeImagesAutoPrimary(t *testing.T) {
	out := NormalizeImages([]PropertyImage{{URL: "a.jpg"}, {URL: "b.jpg"}})
	if !out[0].IsPrimary || out[1].IsPrimary {
		t.Fatal("first image should become primary when none is marked")
	}

	if got := NormalizeImages(nil); got == nil || len(got) != 0 {
		t.Fatal("nil input should normalize to an empty list")
	}
}
