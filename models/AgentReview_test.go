package models

import "testing"

func TestHasReviewFrom(t *testing.T) {
	reviews := []AgentReview{
		{AgentID: 1, UserID: 5, Rating: 4},
		{AgentID: 1, UserID: 6, Rating: 5},
	}

	if !HasReviewFrom(reviews, 5) {
		t.Fatal("existing reviewer not detected")
	}
	if HasReviewFrom(reviews, 7) {
		t.Fatal("new reviewer falsely flagged as duplicate")
	}
	if HasReviewFrom(nil, 5) {
		t.Fatal("empty set has no reviewers")
	}
}

// Known race: the create path is check-then-insert over HasReviewFrom, so
// two concurrent submissions from the same reviewer can both observe
// false here. The composite unique index (agent_id, user_id) is the
// backstop that fails the second insert; between two racing updates the
// last write wins. This test pins the predicate itself, not the window.
func TestHasReviewFromRaceWindow(t *testing.T) {
	before := []AgentReview{}

	// Both submissions read the same snapshot.
	firstSeesDuplicate := HasReviewFrom(before, 9)
	secondSeesDuplicate := HasReviewFrom(before, 9)

	if firstSeesDuplicate || secondSeesDuplicate {
		t.Fatal("neither racing submission can detect the other before insert")
	}

	// After either insert lands, the predicate closes the window for any
	// later, non-concurrent attempt.
	after := append(before, AgentReview{AgentID: 1, UserID: 9, Rating: 3})
	if !HasReviewFrom(after, 9) {
		t.Fatal("post-insert attempts must be detected")
	}
}
