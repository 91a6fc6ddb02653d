package values

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dtc-forks/authzforce-core/constants"
)

// Temporal values carry a time.Time plus a flag recording whether the lexical
// form had an explicit timezone. Values without a timezone are interpreted in
// UTC for comparison, matching the engine's single implicit-timezone setting.

// Time is an xs:time attribute value.
type Time struct {
	t     time.Time
	hasTZ bool
}

func (Time) DatatypeID() string { return constants.DatatypeTime }
func (v Time) String() string {
	s := v.t.Format("15:04:05")
	if ns := v.t.Nanosecond(); ns != 0 {
		s += strings.TrimRight(fmt.Sprintf(".%09d", ns), "0")
	}
	if v.hasTZ {
		s += formatZone(v.t)
	}
	return s
}
func (v Time) Equal(o Value) bool {
	w, ok := o.(Time)
	return ok && v.instant().Equal(w.instant())
}
func (v Time) instant() time.Time { return v.t }

// Go time.Time of the value, for duration arithmetic.
func (v Time) Value() time.Time { return v.t }

// Date is an xs:date attribute value.
type Date struct {
	t     time.Time
	hasTZ bool
}

func (Date) DatatypeID() string { return constants.DatatypeDate }
func (v Date) String() string {
	s := v.t.Format("2006-01-02")
	if v.hasTZ {
		s += formatZone(v.t)
	}
	return s
}
func (v Date) Equal(o Value) bool {
	w, ok := o.(Date)
	return ok && v.instant().Equal(w.instant())
}
func (v Date) instant() time.Time { return v.t }
func (v Date) Value() time.Time   { return v.t }

// DateTime is an xs:dateTime attribute value.
type DateTime struct {
	t     time.Time
	hasTZ bool
}

func (DateTime) DatatypeID() string { return constants.DatatypeDateTime }
func (v DateTime) String() string {
	s := v.t.Format("2006-01-02T15:04:05")
	if ns := v.t.Nanosecond(); ns != 0 {
		s += strings.TrimRight(fmt.Sprintf(".%09d", ns), "0")
	}
	if v.hasTZ {
		s += formatZone(v.t)
	}
	return s
}
func (v DateTime) Equal(o Value) bool {
	w, ok := o.(DateTime)
	return ok && v.instant().Equal(w.instant())
}
func (v DateTime) instant() time.Time { return v.t }
func (v DateTime) Value() time.Time   { return v.t }

// NewDateTime builds a DateTime carrying an explicit timezone.
func NewDateTime(t time.Time) DateTime { return DateTime{t: t, hasTZ: true} }

// Add shifts the dateTime by a duration, preserving timezone presence.
func (v DateTime) Add(d time.Duration) DateTime { return DateTime{t: v.t.Add(d), hasTZ: v.hasTZ} }

// AddMonths shifts the dateTime by a signed month count, preserving timezone
// presence.
func (v DateTime) AddMonths(months int64) DateTime {
	return DateTime{t: AddYearMonth(v.t, months), hasTZ: v.hasTZ}
}

// AddMonths shifts the date by a signed month count, preserving timezone
// presence.
func (v Date) AddMonths(months int64) Date {
	return Date{t: AddYearMonth(v.t, months), hasTZ: v.hasTZ}
}

// NewDate builds a Date from the calendar date of t, dropping the time part.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, t.Location()), hasTZ: true}
}

// NewTime builds a Time from the clock part of t.
func NewTime(t time.Time) Time {
	return Time{t: time.Date(refYear, refMonth, refDay, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()), hasTZ: true}
}

// DayTimeDuration is an xs:dayTimeDuration attribute value.
type DayTimeDuration struct {
	d time.Duration
}

func (DayTimeDuration) DatatypeID() string { return constants.DatatypeDayTimeDuration }
func (v DayTimeDuration) String() string {
	d := v.d
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	secs := d.Seconds()

	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte('P')
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || mins > 0 || secs > 0 || days == 0 {
		b.WriteByte('T')
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if mins > 0 {
			fmt.Fprintf(&b, "%dM", mins)
		}
		if secs > 0 || (hours == 0 && mins == 0) {
			fmt.Fprintf(&b, "%sS", strconv.FormatFloat(secs, 'f', -1, 64))
		}
	}
	return b.String()
}
func (v DayTimeDuration) Equal(o Value) bool {
	w, ok := o.(DayTimeDuration)
	return ok && v.d == w.d
}

// Duration returns the value as a Go duration.
func (v DayTimeDuration) Duration() time.Duration { return v.d }

// NewDayTimeDuration builds a DayTimeDuration from a Go duration.
func NewDayTimeDuration(d time.Duration) DayTimeDuration { return DayTimeDuration{d: d} }

// YearMonthDuration is an xs:yearMonthDuration attribute value, held as a
// signed month count.
type YearMonthDuration struct {
	months int64
}

func (YearMonthDuration) DatatypeID() string { return constants.DatatypeYearMonthDuration }
func (v YearMonthDuration) String() string {
	m := v.months
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	years := m / 12
	m = m % 12
	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte('P')
	if years > 0 {
		fmt.Fprintf(&b, "%dY", years)
	}
	if m > 0 || years == 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	return b.String()
}
func (v YearMonthDuration) Equal(o Value) bool {
	w, ok := o.(YearMonthDuration)
	return ok && v.months == w.months
}

// Months returns the signed month count.
func (v YearMonthDuration) Months() int64 { return v.months }

// NewYearMonthDuration builds a YearMonthDuration from a month count.
func NewYearMonthDuration(months int64) YearMonthDuration { return YearMonthDuration{months: months} }

// Reference date used to anchor xs:time values.
const (
	refYear  = 1970
	refMonth = time.January
	refDay   = 1
)

func compareInstants(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func formatZone(t time.Time) string {
	_, offset := t.Zone()
	if offset == 0 {
		return "Z"
	}
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s%02d:%02d", sign, offset/3600, (offset%3600)/60)
}

var (
	timeLayouts = []string{"15:04:05.999999999Z07:00", "15:04:05Z07:00"}
	bareTime    = []string{"15:04:05.999999999", "15:04:05"}
	dateTZ      = []string{"2006-01-02Z07:00"}
	bareDate    = []string{"2006-01-02"}
	dateTimeTZ  = []string{time.RFC3339Nano, time.RFC3339}
	bareDT      = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"}
)

func parseTime(s string) (Value, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time{t: time.Date(refYear, refMonth, refDay, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()), hasTZ: true}, nil
		}
	}
	for _, layout := range bareTime {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Time{t: time.Date(refYear, refMonth, refDay, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}, nil
		}
	}
	return nil, fmt.Errorf("invalid time literal %q", s)
}

func parseDate(s string) (Value, error) {
	for _, layout := range dateTZ {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t: t, hasTZ: true}, nil
		}
	}
	for _, layout := range bareDate {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Date{t: t}, nil
		}
	}
	return nil, fmt.Errorf("invalid date literal %q", s)
}

func parseDateTime(s string) (Value, error) {
	for _, layout := range dateTimeTZ {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime{t: t, hasTZ: true}, nil
		}
	}
	for _, layout := range bareDT {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return DateTime{t: t}, nil
		}
	}
	return nil, fmt.Errorf("invalid dateTime literal %q", s)
}

var dayTimeDurationRe = regexp.MustCompile(`^(-)?P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

func parseDayTimeDuration(s string) (Value, error) {
	m := dayTimeDurationRe.FindStringSubmatch(s)
	if m == nil || (m[2] == "" && m[3] == "" && m[4] == "" && m[5] == "") {
		return nil, fmt.Errorf("invalid dayTimeDuration literal %q", s)
	}
	var d time.Duration
	if m[2] != "" {
		n, _ := strconv.ParseInt(m[2], 10, 64)
		d += time.Duration(n) * 24 * time.Hour
	}
	if m[3] != "" {
		n, _ := strconv.ParseInt(m[3], 10, 64)
		d += time.Duration(n) * time.Hour
	}
	if m[4] != "" {
		n, _ := strconv.ParseInt(m[4], 10, 64)
		d += time.Duration(n) * time.Minute
	}
	if m[5] != "" {
		f, _ := strconv.ParseFloat(m[5], 64)
		d += time.Duration(f * float64(time.Second))
	}
	if m[1] == "-" {
		d = -d
	}
	return DayTimeDuration{d: d}, nil
}

var yearMonthDurationRe = regexp.MustCompile(`^(-)?P(?:(\d+)Y)?(?:(\d+)M)?$`)

func parseYearMonthDuration(s string) (Value, error) {
	m := yearMonthDurationRe.FindStringSubmatch(s)
	if m == nil || (m[2] == "" && m[3] == "") {
		return nil, fmt.Errorf("invalid yearMonthDuration literal %q", s)
	}
	var months int64
	if m[2] != "" {
		n, _ := strconv.ParseInt(m[2], 10, 64)
		months += n * 12
	}
	if m[3] != "" {
		n, _ := strconv.ParseInt(m[3], 10, 64)
		months += n
	}
	if m[1] == "-" {
		months = -months
	}
	return YearMonthDuration{months: months}, nil
}

// AddYearMonth shifts a dateTime by a signed number of months.
func AddYearMonth(t time.Time, months int64) time.Time {
	return t.AddDate(0, int(months), 0)
}
