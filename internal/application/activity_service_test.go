package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/therapy-scheduler/internal/schedule"
)

func newActivityService(repo *memActivityRepo) *ActivityService {
	return NewActivityService(repo, sequentialIDGenerator("act"), fixedNow, nil)
}

func TestActivityServiceCreateActivity(t *testing.T) {
	t.Parallel()

	t.Run("round-trips overrides including cleared days", func(t *testing.T) {
		t.Parallel()
		service := newActivityService(newMemActivityRepo())

		created, err := service.CreateActivity(context.Background(), admin, ActivityInput{
			Name:     "Lunch",
			Blocking: true,
			Default:  &schedule.Interval{Start: "12:00", End: "13:00"},
			Overrides: map[schedule.Weekday]*schedule.Interval{
				schedule.Monday:   {Start: "11:30", End: "12:30"},
				schedule.Thursday: nil,
			},
		})
		if err != nil {
			t.Fatalf("CreateActivity returned error: %v", err)
		}
		if created.Default == nil || created.Default.Start != "12:00" {
			t.Fatalf("default interval lost: %+v", created.Default)
		}
		monday, ok := created.Overrides[schedule.Monday]
		if !ok || monday == nil || monday.Start != "11:30" {
			t.Errorf("Monday override lost: %+v", monday)
		}
		thursday, ok := created.Overrides[schedule.Thursday]
		if !ok {
			t.Fatal("Thursday cleared override lost")
		}
		if thursday != nil {
			t.Errorf("Thursday should be cleared, got %+v", thursday)
		}
	})

	t.Run("rejects a backwards override interval", func(t *testing.T) {
		t.Parallel()
		service := newActivityService(newMemActivityRepo())

		_, err := service.CreateActivity(context.Background(), admin, ActivityInput{
			Name: "Meeting",
			Overrides: map[schedule.Weekday]*schedule.Interval{
				schedule.Sunday: {Start: "15:00", End: "14:00"},
			},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["overrides.Sunday"]; !ok {
			t.Error("missing field error for overrides.Sunday")
		}
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		t.Parallel()
		service := newActivityService(newMemActivityRepo())
		_, err := service.CreateActivity(context.Background(), Principal{StaffID: "s1"}, ActivityInput{Name: "Lunch"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestActivityServiceDeleteActivity(t *testing.T) {
	t.Parallel()
	service := newActivityService(newMemActivityRepo())

	created, err := service.CreateActivity(context.Background(), admin, ActivityInput{Name: "Lunch"})
	if err != nil {
		t.Fatalf("CreateActivity returned error: %v", err)
	}
	if err := service.DeleteActivity(context.Background(), admin, created.ID); err != nil {
		t.Fatalf("DeleteActivity returned error: %v", err)
	}
	if _, err := service.GetActivity(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
