package report

import (
	"cmp"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/report"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/calendar"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/timezone"
)

// Dedup keeps one record per (employee_id, date): the one with the largest id.
// The unique index makes duplicates rare; this guards rows written before it
// existed. Output is sorted by employee_id, then date.
func Dedup(records []attendance.Attendance) []attendance.Attendance {
	groups := make(map[[2]string][]attendance.Attendance, len(records))
	for _, rec := range records {
		k := [2]string{rec.EmployeeID, rec.Date}
		groups[k] = append(groups[k], rec)
	}

	out := make([]attendance.Attendance, 0, len(groups))
	for _, group := range groups {
		numeric := allIntegerIDs(group)
		kept := group[0]
		for _, rec := range group[1:] {
			if compareIDs(rec.ID, kept.ID, numeric) > 0 {
				kept = rec
			}
		}
		out = append(out, kept)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Date < out[j].Date
	})
	return out
}

func allIntegerIDs(group []attendance.Attendance) bool {
	for _, rec := range group {
		if _, err := strconv.ParseInt(rec.ID, 10, 64); err != nil {
			return false
		}
	}
	return true
}

// compareIDs orders ids numerically when numeric is set, then lexically.
// UUIDv7 ids have a fixed width, so lexical order is creation order.
func compareIDs(a, b string, numeric bool) int {
	if numeric {
		ai, _ := strconv.ParseInt(a, 10, 64)
		bi, _ := strconv.ParseInt(b, 10, 64)
		if c := cmp.Compare(ai, bi); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

// Percent is count/total*100 rounded half away from zero; 0 when total is 0.
func Percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// Period describes the month being summarized.
type Period struct {
	First            time.Time
	Last             time.Time
	TotalWorkingDays int
}

// NewPeriod counts the working days of a whole month.
func NewPeriod(clock *timezone.Clock, cal calendar.HolidayCalendar, year int, month time.Month) Period {
	first, last := clock.MonthRange(year, month)
	return Period{
		First:            first,
		Last:             last,
		TotalWorkingDays: calendar.WorkingDays(cal, first, last),
	}
}

// Summarize builds one employee's row from that employee's deduplicated records.
func Summarize(profile employee.Employee, records []attendance.Attendance, period Period, clock *timezone.Clock, cal calendar.HolidayCalendar) report.MonthlySummary {
	summary := report.MonthlySummary{
		EmployeeID:       profile.EmployeeID,
		Name:             orDefault(profile.Name, employee.UnknownName),
		Department:       orDefault(profile.Department, employee.UnknownDepartment),
		Position:         orDefault(profile.Position, employee.UnknownPosition),
		TotalWorkingDays: period.TotalWorkingDays,
		Details:          make([]report.DailyDetail, 0, len(records)),
	}

	for _, rec := range records {
		day, err := clock.ParseDate(rec.Date)
		working := err == nil && cal.IsWorkingDay(day)

		summary.Details = append(summary.Details, report.DailyDetail{
			Date:         rec.Date,
			Status:       string(rec.Status),
			CheckInTime:  formatTime(clock, rec.CheckIn),
			CheckOutTime: formatTime(clock, rec.CheckOut),
			WorkingDay:   working,
		})

		if !working {
			continue
		}
		switch rec.Status {
		case attendance.StatusPresent:
			summary.PresentDays++
		case attendance.StatusLate:
			summary.LateDays++
		}
	}

	attended := summary.PresentDays + summary.LateDays
	summary.AbsentDays = period.TotalWorkingDays - attended
	if summary.AbsentDays < 0 {
		summary.AbsentDays = 0
		summary.DataIntegrityWarning = true
		slog.Warn("Attended days exceed working days, absent clamped to zero",
			"employee_id", profile.EmployeeID,
			"attended", attended,
			"working_days", period.TotalWorkingDays,
		)
	}

	summary.PresentPercentage = Percent(summary.PresentDays, period.TotalWorkingDays)
	summary.LatePercentage = Percent(summary.LateDays, period.TotalWorkingDays)
	summary.AbsentPercentage = Percent(summary.AbsentDays, period.TotalWorkingDays)

	return summary
}

// Aggregate deduplicates raw records and summarizes every profile, including
// profiles without records. Records of unknown employees are ignored.
func Aggregate(profiles []employee.Employee, raw []attendance.Attendance, period Period, clock *timezone.Clock, cal calendar.HolidayCalendar) []report.MonthlySummary {
	byEmployee := make(map[string][]attendance.Attendance)
	for _, rec := range Dedup(raw) {
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}

	summaries := make([]report.MonthlySummary, 0, len(profiles))
	for _, p := range profiles {
		summaries = append(summaries, Summarize(p, byEmployee[p.EmployeeID], period, clock, cal))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})
	return summaries
}

// Average returns the mean of each percentage across summaries, one decimal place.
func Average(summaries []report.MonthlySummary) report.Averages {
	if len(summaries) == 0 {
		return report.Averages{}
	}
	var present, late, absent int
	for _, s := range summaries {
		present += s.PresentPercentage
		late += s.LatePercentage
		absent += s.AbsentPercentage
	}
	n := float64(len(summaries))
	return report.Averages{
		PresentPercentage: roundTenth(float64(present) / n),
		LatePercentage:    roundTenth(float64(late) / n),
		AbsentPercentage:  roundTenth(float64(absent) / n),
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func formatTime(clock *timezone.Clock, t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := clock.FormatTime(*t)
	return &s
}
