package service

import (
	"fmt"
	"strings"
	"time"

	"orthanc/internal/config"
)

// SchedulingService holds the time arithmetic of shipment planning: cutoff
// hours, business days, capacity bumps and tracking numbers. It has no
// persistence; the usecases feed it the clock and the slot counts.
type SchedulingService struct {
	cfg config.FulfillmentConfig
}

func NewSchedulingService(cfg config.FulfillmentConfig) *SchedulingService {
	return &SchedulingService{cfg: cfg}
}

// DefaultCutoffHour exposes the configured cutoff for callers that did not
// supply one.
func (s *SchedulingService) DefaultCutoffHour() int {
	return s.cfg.DefaultCutoffHour
}

// PlanDeparture computes the planned departure for a shipment requested at
// now with the given cutoff hour: before the cutoff it departs today at the
// cutoff; after it, the next business day at the early-dispatch hour.
func (s *SchedulingService) PlanDeparture(now time.Time, cutoffHour int) time.Time {
	if now.Hour() < cutoffHour {
		return time.Date(now.Year(), now.Month(), now.Day(), cutoffHour, 0, 0, 0, now.Location())
	}

	next := s.nextBusinessDay(now)
	return time.Date(next.Year(), next.Month(), next.Day(), s.cfg.NextDayHour, 0, 0, 0, now.Location())
}

// AtCapacity reports whether a calendar day holding plannedCount shipments
// can take no more.
func (s *SchedulingService) AtCapacity(plannedCount int) bool {
	return plannedCount >= s.cfg.MaxShipmentsPerDay
}

// BumpForCapacity moves a full day's plan to the next business day at the
// default cutoff hour. One bump only; the capacity of the bumped-to day is
// not re-checked.
func (s *SchedulingService) BumpForCapacity(planned time.Time) time.Time {
	next := s.nextBusinessDay(planned)
	return time.Date(next.Year(), next.Month(), next.Day(), s.cfg.DefaultCutoffHour, 0, 0, 0, planned.Location())
}

func (s *SchedulingService) nextBusinessDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for !s.cfg.IsBusinessDay(next.Weekday()) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// TrackingNumber returns the caller-supplied tracking number when present,
// otherwise generates one from the carrier name and the current time.
func (s *SchedulingService) TrackingNumber(supplied, carrierName string, now time.Time) string {
	if strings.TrimSpace(supplied) != "" {
		return supplied
	}

	prefix := strings.ToUpper(carrierName)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s-%d", prefix, now.UnixMilli())
}
