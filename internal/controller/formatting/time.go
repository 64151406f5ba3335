package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
)

// FormatDate форматирует дату
func FormatDate(d model.Date) string {
	return d.Time().Format("02.01.2006")
}

// FormatDateWithWeekday форматирует дату с днём недели
func FormatDateWithWeekday(d model.Date) string {
	return fmt.Sprintf("%s, %s", GetWeekdayShortName(d.Time().Weekday()), FormatDate(d))
}

// FormatTimeRange форматирует интервал времени
func FormatTimeRange(p model.TimePeriod) string {
	return fmt.Sprintf("%s-%s", p.Start(), p.End())
}

// FormatDuration форматирует длительность
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday time.Weekday) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "?"
}
