// Package temporal adapts calendar and duration values to the
// PackStream Structure envelope, demonstrating the hydrate/dehydrate
// hook protocol end to end. Structures are one of the named uses for
// the protocol's signature-tagged records; this package is the
// "temporal values" half of that, the other being package spatial.
package temporal

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dromara/carbon/v2"

	"github.com/chaisql/packstream"
)

// Structure signatures recognized by this package's Hooks. The codec
// itself never inspects these; they are private to the hydrate and
// dehydrate functions below.
const (
	sigDate          = 0x44
	sigLocalDateTime = 0x64
	sigDuration      = 0x45
)

// Date is a calendar date with no time-of-day or time zone component.
type Date struct {
	Year, Month, Day int
}

// NewDate builds a Date from the date portion of t.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// ParseDate parses a date string, accepting any of carbon's supported
// date formats.
func ParseDate(s string) (Date, error) {
	c := carbon.Parse(s, "UTC")
	if c.Error != nil {
		return Date{}, errors.Wrap(c.Error, "temporal: invalid date")
	}
	return NewDate(c.StdTime()), nil
}

func (d Date) stdTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return carbon.CreateFromStdTime(d.stdTime()).ToDateString()
}

func (d Date) epochDay() int64 {
	return d.stdTime().Unix() / 86400
}

func dateFromEpochDay(days int64) Date {
	return NewDate(time.Unix(days*86400, 0).UTC())
}

func dehydrateDate(d Date) *packstream.Structure {
	return &packstream.Structure{
		Signature: sigDate,
		Fields:    []any{packstream.I64(d.epochDay())},
	}
}

func hydrateDate(s *packstream.Structure) (Date, error) {
	if len(s.Fields) != 1 {
		return Date{}, errors.Newf("temporal: Date structure expects 1 field, got %d", len(s.Fields))
	}
	days, ok := s.Fields[0].(packstream.I64)
	if !ok {
		return Date{}, errors.New("temporal: Date structure field must be an integer")
	}
	return dateFromEpochDay(days.Int64()), nil
}

// LocalDateTime is a calendar date and time of day with no attached
// time zone.
type LocalDateTime struct {
	Time time.Time
}

// NewLocalDateTime wraps t, discarding its zone offset on encode.
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t}
}

// ParseLocalDateTime parses a date-time string using carbon.
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	c := carbon.Parse(s, "UTC")
	if c.Error != nil {
		return LocalDateTime{}, errors.Wrap(c.Error, "temporal: invalid datetime")
	}
	return NewLocalDateTime(c.StdTime()), nil
}

// String formats the datetime as "YYYY-MM-DD HH:MM:SS".
func (dt LocalDateTime) String() string {
	return carbon.CreateFromStdTime(dt.Time).ToDateTimeString()
}

func dehydrateLocalDateTime(dt LocalDateTime) *packstream.Structure {
	t := dt.Time
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return &packstream.Structure{
		Signature: sigLocalDateTime,
		Fields: []any{
			packstream.I64(wall.Unix()),
			packstream.I64(int64(wall.Nanosecond())),
		},
	}
}

func hydrateLocalDateTime(s *packstream.Structure) (LocalDateTime, error) {
	if len(s.Fields) != 2 {
		return LocalDateTime{}, errors.Newf("temporal: LocalDateTime structure expects 2 fields, got %d", len(s.Fields))
	}
	sec, ok := s.Fields[0].(packstream.I64)
	if !ok {
		return LocalDateTime{}, errors.New("temporal: LocalDateTime seconds field must be an integer")
	}
	nsec, ok := s.Fields[1].(packstream.I64)
	if !ok {
		return LocalDateTime{}, errors.New("temporal: LocalDateTime nanoseconds field must be an integer")
	}
	return NewLocalDateTime(time.Unix(sec.Int64(), nsec.Int64()).UTC()), nil
}

// Duration is a calendar-aware span: months and days are kept apart
// from seconds and nanoseconds because "a month" has no fixed length
// in seconds.
type Duration struct {
	Months      int64
	Days        int64
	Seconds     int64
	Nanoseconds int64
}

func dehydrateDuration(d Duration) *packstream.Structure {
	return &packstream.Structure{
		Signature: sigDuration,
		Fields: []any{
			packstream.I64(d.Months),
			packstream.I64(d.Days),
			packstream.I64(d.Seconds),
			packstream.I64(d.Nanoseconds),
		},
	}
}

func hydrateDuration(s *packstream.Structure) (Duration, error) {
	if len(s.Fields) != 4 {
		return Duration{}, errors.Newf("temporal: Duration structure expects 4 fields, got %d", len(s.Fields))
	}
	var parts [4]int64
	for i, f := range s.Fields {
		v, ok := f.(packstream.I64)
		if !ok {
			return Duration{}, errors.Newf("temporal: Duration field %d must be an integer", i)
		}
		parts[i] = v.Int64()
	}
	return Duration{Months: parts[0], Days: parts[1], Seconds: parts[2], Nanoseconds: parts[3]}, nil
}

// Hooks returns a packstream.Hooks pair that dehydrates Date,
// LocalDateTime, and Duration values into their Structure encodings
// and hydrates those Structures back into the matching Go type on
// decode. Any value whose type or signature this package does not
// recognize passes through unchanged.
func Hooks() packstream.Hooks {
	return packstream.Hooks{
		Dehydrate: dehydrate,
		Hydrate:   hydrate,
	}
}

func dehydrate(v any) (any, error) {
	switch x := v.(type) {
	case Date:
		return dehydrateDate(x), nil
	case LocalDateTime:
		return dehydrateLocalDateTime(x), nil
	case Duration:
		return dehydrateDuration(x), nil
	default:
		return v, nil
	}
}

func hydrate(s *packstream.Structure) (any, error) {
	switch s.Signature {
	case sigDate:
		return hydrateDate(s)
	case sigLocalDateTime:
		return hydrateLocalDateTime(s)
	case sigDuration:
		return hydrateDuration(s)
	default:
		return s, nil
	}
}
