package model

import (
	"fmt"
	"time"
)

const (
	// TimeLayout формат времени записи
	TimeLayout = "15:04"
	// DateLayout формат даты записи
	DateLayout = "2006-01-02"
)

// Time время суток с точностью до минуты (00:00–23:59)
type Time struct {
	minutes int
}

// NewTime создаёт время из часов и минут
func NewTime(hour, minute int) (Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Time{}, fmt.Errorf("%w: time %02d:%02d is out of range", ErrInvalidArgument, hour, minute)
	}
	return Time{minutes: hour*60 + minute}, nil
}

// MustTime как NewTime, но паникует на невалидном значении. Только для констант и тестов.
func MustTime(hour, minute int) Time {
	t, err := NewTime(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTime разбирает время строго в формате HH:MM
func ParseTime(s string) (Time, error) {
	if len(s) != len(TimeLayout) {
		return Time{}, fmt.Errorf("%w: time %q must be in HH:MM format", ErrInvalidArgument, s)
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return Time{}, fmt.Errorf("%w: time %q must be in HH:MM format", ErrInvalidArgument, s)
	}
	return NewTime(parsed.Hour(), parsed.Minute())
}

// Hour возвращает часы
func (t Time) Hour() int { return t.minutes / 60 }

// Minute возвращает минуты
func (t Time) Minute() int { return t.minutes % 60 }

// Minutes возвращает количество минут от полуночи
func (t Time) Minutes() int { return t.minutes }

// Before сообщает, раньше ли t чем other
func (t Time) Before(other Time) bool { return t.minutes < other.minutes }

// After сообщает, позже ли t чем other
func (t Time) After(other Time) bool { return t.minutes > other.minutes }

// Compare возвращает -1, 0 или +1
func (t Time) Compare(other Time) int {
	switch {
	case t.minutes < other.minutes:
		return -1
	case t.minutes > other.minutes:
		return 1
	default:
		return 0
	}
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// TimePeriod полуоткрытый интервал [start, end) внутри одного дня
type TimePeriod struct {
	start Time
	end   Time
}

// NewTimePeriod создаёт период. Начало должно быть строго раньше конца.
func NewTimePeriod(start, end Time) (TimePeriod, error) {
	if !start.Before(end) {
		return TimePeriod{}, fmt.Errorf("%w: start time %s must be before end time %s", ErrInvalidArgument, start, end)
	}
	return TimePeriod{start: start, end: end}, nil
}

// MustTimePeriod как NewTimePeriod, но паникует. Только для тестов.
func MustTimePeriod(start, end string) TimePeriod {
	s, err := ParseTime(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseTime(end)
	if err != nil {
		panic(err)
	}
	p, err := NewTimePeriod(s, e)
	if err != nil {
		panic(err)
	}
	return p
}

// Start возвращает начало периода
func (p TimePeriod) Start() Time { return p.start }

// End возвращает конец периода
func (p TimePeriod) End() Time { return p.end }

// Duration длительность периода
func (p TimePeriod) Duration() time.Duration {
	return time.Duration(p.end.minutes-p.start.minutes) * time.Minute
}

// Overlaps сообщает, пересекаются ли периоды.
// Соприкасающиеся периоды ([10:00,12:00) и [12:00,14:00)) не пересекаются.
func (p TimePeriod) Overlaps(other TimePeriod) bool {
	return p.start.Before(other.end) && other.start.Before(p.end)
}

// Compare сравнивает периоды только по началу: периоды с одинаковым началом
// считаются равными для сортировки, даже если у них разный конец.
func (p TimePeriod) Compare(other TimePeriod) int {
	return p.start.Compare(other.start)
}

func (p TimePeriod) String() string {
	return fmt.Sprintf("%s-%s", p.start, p.end)
}
