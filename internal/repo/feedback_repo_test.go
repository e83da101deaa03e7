package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-training-planner/internal/domain"
)

func TestCreateFeedback_AppendsRows(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "Alex Doe", "1990-01-01")
	p := seedPlan(t, u, time.Now().UTC())
	if err := InsertPlan(ctx, db, p); err != nil {
		t.Fatalf("InsertPlan: %v", err)
	}

	for i, sat := range []int{4, 2} {
		fb := &domain.Feedback{
			UserID: u.ID, PlanID: p.ID, Satisfaction: sat, Comments: "ok",
			ProgressWeightsEncoded: "Bench:60", WeightUnit: "kg", TrainedUntil: "2030-01-10",
		}
		if err := CreateFeedback(ctx, db, fb); err != nil {
			t.Fatalf("CreateFeedback #%d: %v", i, err)
		}
		if fb.ID == 0 || fb.Timestamp.IsZero() {
			t.Fatalf("id/timestamp not populated: %+v", fb)
		}
	}

	got, err := ListFeedback(ctx, db, p.ID)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(got) != 2 || got[0].Satisfaction != 4 || got[1].Satisfaction != 2 {
		t.Fatalf("unexpected feedback rows: %+v", got)
	}
}

func TestCreateFeedback_RejectsBadRows(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "Alex Doe", "1990-01-01")
	p := seedPlan(t, u, time.Now().UTC())
	if err := InsertPlan(ctx, db, p); err != nil {
		t.Fatalf("InsertPlan: %v", err)
	}

	if err := CreateFeedback(ctx, db, &domain.Feedback{UserID: u.ID, PlanID: p.ID, Satisfaction: 6}); err == nil {
		t.Fatalf("expected satisfaction check failure")
	}
	if err := CreateFeedback(ctx, db, &domain.Feedback{UserID: u.ID, PlanID: "nope", Satisfaction: 3}); err == nil {
		t.Fatalf("expected foreign key failure for unknown plan")
	}
}
