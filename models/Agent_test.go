package models

import "testing"

func TestComputeRating(t *testing.T) {
	avg, count := ComputeRating(nil)
	if avg != 0 || count != 0 {
		t.Fatalf("empty reviews: got avg=%v count=%d", avg, count)
	}

	reviews := []AgentReview{{Rating: 5}, {Rating: 4}, {Rating: 3}}
	avg, count = ComputeRating(reviews)
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
	if avg != 4 {
		t.Fatalf("expected average 4, got %v", avg)
	}
}

func TestSyncRating(t *testing.T) {
	agent := Agent{RatingAverage: 9, RatingCount: 99}
	agent.SyncRating([]AgentReview{{Rating: 2}, {Rating: 4}})
	if agent.RatingAverage != 3 || agent.RatingCount != 2 {
		t.Fatalf("got avg=%v count=%d", agent.RatingAverage, agent.RatingCount)
	}

	agent.SyncRating(nil)
	if agent.RatingAverage != 0 || agent.RatingCount != 0 {
		t.Fatal("resync with no reviews should zero the aggregate")
	}
}
