package model

import (
	"fmt"
	"time"
)

// Date календарная дата без времени. Сравнима через ==.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate создаёт дату, отклоняя несуществующие даты (например 2023-02-30)
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: date %04d-%02d-%02d does not exist", ErrInvalidArgument, year, int(month), day)
	}
	return Date{year: year, month: month, day: day}, nil
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q must be in YYYY-MM-DD format", ErrInvalidArgument, s)
	}
	return DateOf(t), nil
}

// MustDate как ParseDate, но паникует. Только для тестов.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf возвращает календарную дату момента t в его часовом поясе
func DateOf(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Time возвращает полночь даты в UTC
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// IsZero сообщает, что дата не задана
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare возвращает -1, 0 или +1
func (d Date) Compare(other Date) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

// Before сообщает, раньше ли d чем other
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After сообщает, позже ли d чем other
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
