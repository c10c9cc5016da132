package charts

import (
	"fmt"
	"forklift-route-agent/internal/domain"
)

const (
	minActivityDuration  = 1.0
	lastActivityDuration = 2.0
	emptyScheduleSpan    = 30.0
)

// ScheduleBar is one non-wait activity on a forklift's timeline.
type ScheduleBar struct {
	Location int
	Activity string
	Start    float64
	Duration float64
	Label    string
}

func (b ScheduleBar) End() float64 { return b.Start + b.Duration }

// TravelGap is idle time between two consecutive bars.
type TravelGap struct {
	From float64
	To   float64
}

type ScheduleRow struct {
	VehicleID string
	Label     string
	Bars      []ScheduleBar
	Travel    []TravelGap
}

// Schedule is the data behind the Gantt chart. Rows are ordered by
// vehicle id.
type Schedule struct {
	Rows    []ScheduleRow
	MaxTime float64
}

// HasData reports whether any row carries at least one bar.
func (s Schedule) HasData() bool {
	for _, r := range s.Rows {
		if len(r.Bars) > 0 {
			return true
		}
	}
	return false
}

var activityAbbrev = map[string]string{
	domain.ActivityPickup:   "PU",
	domain.ActivityDelivery: "DL",
	domain.ActivityDepot:    "At",
}

// BuildSchedule lays out one row per vehicle. A vehicle whose data cannot
// be used keeps an empty row and contributes an error.
func BuildSchedule(sol *domain.SolutionRecord) (Schedule, []error) {
	var (
		sched Schedule
		errs  []error
	)
	if sol == nil {
		sched.MaxTime = emptyScheduleSpan
		return sched, nil
	}

	for _, id := range sol.VehicleIDs() {
		row, err := buildRow(id, sol.VehicleData[id])
		if err != nil {
			errs = append(errs, fmt.Errorf("schedule for %s: %w", row.Label, err))
		}
		for _, b := range row.Bars {
			if b.End() > sched.MaxTime {
				sched.MaxTime = b.End()
			}
		}
		sched.Rows = append(sched.Rows, row)
	}

	if sched.MaxTime <= 1 {
		sched.MaxTime = emptyScheduleSpan
	}
	return sched, errs
}

func buildRow(id string, v domain.VehicleRoute) (ScheduleRow, error) {
	row := ScheduleRow{VehicleID: id, Label: forkliftLabel(id)}

	if len(v.Route) == 0 || len(v.ArrivalStamp) == 0 || len(v.Type) == 0 {
		return row, nil
	}
	if len(v.Route) != len(v.Type) {
		return row, fmt.Errorf("route has %d entries but type has %d", len(v.Route), len(v.Type))
	}

	idx := make([]int, 0, len(v.Type))
	for i, activity := range v.Type {
		if domain.IsWait(activity) || i >= len(v.ArrivalStamp) {
			continue
		}
		idx = append(idx, i)
	}

	for k, i := range idx {
		duration := lastActivityDuration
		if k+1 < len(idx) {
			duration = max(minActivityDuration, v.ArrivalStamp[idx[k+1]]-v.ArrivalStamp[i])
		}

		activity := domain.NormalizeActivity(v.Type[i])
		abbrev, ok := activityAbbrev[activity]
		if !ok {
			abbrev = "At"
		}

		bar := ScheduleBar{
			Location: v.Route[i],
			Activity: activity,
			Start:    v.ArrivalStamp[i],
			Duration: duration,
			Label:    abbrev + " " + domain.LocationName(v.Route[i]),
		}

		if n := len(row.Bars); n > 0 {
			if prevEnd := row.Bars[n-1].End(); bar.Start > prevEnd {
				row.Travel = append(row.Travel, TravelGap{From: prevEnd, To: bar.Start})
			}
		}
		row.Bars = append(row.Bars, bar)
	}
	return row, nil
}

func forkliftLabel(vehicleID string) string {
	if n, ok := domain.ForkliftNumber(vehicleID); ok {
		return fmt.Sprintf("Forklift %d", n)
	}
	return "Forklift " + vehicleID
}
