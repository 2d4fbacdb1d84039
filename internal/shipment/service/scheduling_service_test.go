package service

import (
	"strings"
	"testing"
	"time"

	"orthanc/internal/config"
)

func testFulfillmentConfig() config.FulfillmentConfig {
	return config.FulfillmentConfig{
		DefaultCutoffHour:  14,
		NextDayHour:        9,
		MaxShipmentsPerDay: 10,
		BusinessDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
	}
}

func TestPlanDeparture_BeforeCutoffDepartsSameDay(t *testing.T) {
	svc := NewSchedulingService(testFulfillmentConfig())
	// Wednesday 2024-06-12, 10:30
	now := time.Date(2024, 6, 12, 10, 30, 0, 0, time.UTC)

	planned := svc.PlanDeparture(now, 14)

	want := time.Date(2024, 6, 12, 14, 0, 0, 0, time.UTC)
	if !planned.Equal(want) {
		t.Errorf("planned = %v, want %v", planned, want)
	}
}

func TestPlanDeparture_AfterCutoffRollsToNextBusinessDay(t *testing.T) {
	svc := NewSchedulingService(testFulfillmentConfig())
	// Wednesday 2024-06-12, 16:00
	now := time.Date(2024, 6, 12, 16, 0, 0, 0, time.UTC)

	planned := svc.PlanDeparture(now, 14)

	want := time.Date(2024, 6, 13, 9, 0, 0, 0, time.UTC)
	if !planned.Equal(want) {
		t.Errorf("planned = %v, want %v", planned, want)
	}
}

func TestPlanDeparture_FridayAfterCutoffLandsOnMonday(t *testing.T) {
	svc := NewSchedulingService(testFulfillmentConfig())
	// Friday 2024-06-14, 15:00
	now := time.Date(2024, 6, 14, 15, 0, 0, 0, time.UTC)

	planned := svc.PlanDeparture(now, 14)

	want := time.Date(2024, 6, 17, 9, 0, 0, 0, time.UTC)
	if !planned.Equal(want) {
		t.Errorf("planned = %v, want Monday %v", planned, want)
	}
	if planned.Weekday() != time.Monday {
		t.Errorf("planned weekday = %v, want Monday", planned.Weekday())
	}
}

func TestPlanDeparture_AtCutoffHourRolls(t *testing.T) {
	svc := NewSchedulingService(testFulfillmentConfig())
	// Exactly 14:00 is past the cutoff.
	now := time.Date(2024, 6, 12, 14, 0, 0, 0, time.UTC)

	planned := svc.PlanDeparture(now, 14)

	if planned.Day() != 13 || planned.Hour() != 9 {
		t.Errorf("planned = %v, want next day 09:00", planned)
	}
}

func TestAtCapacity(t *testing.T) {
	svc := NewSchedulingService(testFulfillmentConfig())

	if svc.AtCapacity(9) {
		t.Error("AtCapacity(9) = true, want false")
	}
	if !svc.AtCapacity(10) {
		t.Error("AtCapacity(10) = false, want true")
	}
}

func TestBumpForCapacity_SkipsWeekend(t *testing.T) {
	svc := NewSchedulingService(testFulfillmentConfig())
	// Friday plan bumped over the weekend.
	planned := time.Date(2024, 6, 14, 14, 0, 0, 0, time.UTC)

	bumped := svc.BumpForCapacity(planned)

	want := time.Date(2024, 6, 17, 14, 0, 0, 0, time.UTC)
	if !bumped.Equal(want) {
		t.Errorf("bumped = %v, want Monday %v", bumped, want)
	}
}

func TestTrackingNumber_UsesSuppliedValue(t *testing.T) {
	svc := NewSchedulingService(testFulfillmentConfig())

	got := svc.TrackingNumber("TRACK-42", "Globex Freight", time.Now())

	if got != "TRACK-42" {
		t.Errorf("tracking = %s, want TRACK-42", got)
	}
}

func TestTrackingNumber_GeneratesFromCarrierPrefix(t *testing.T) {
	svc := NewSchedulingService(testFulfillmentConfig())
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

	got := svc.TrackingNumber("  ", "Globex Freight", now)

	if !strings.HasPrefix(got, "GLO-") {
		t.Errorf("tracking = %s, want GLO- prefix", got)
	}
}

func TestTrackingNumber_ShortCarrierName(t *testing.T) {
	svc := NewSchedulingService(testFulfillmentConfig())
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

	got := svc.TrackingNumber("", "GD", now)

	if !strings.HasPrefix(got, "GD-") {
		t.Errorf("tracking = %s, want GD- prefix", got)
	}
}
