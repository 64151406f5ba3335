package handlers

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
)

// displayDateLayout формат дат, в котором бот их показывает
const displayDateLayout = "02.01.2006"

// clearNote ввод, очищающий заметку
const clearNote = "-"

// parseDate принимает YYYY-MM-DD и ДД.ММ.ГГГГ
func parseDate(s string) (model.Date, error) {
	s = strings.TrimSpace(s)
	if d, err := model.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(displayDateLayout, s)
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD or DD.MM.YYYY", model.ErrInvalidArgument, s)
	}
	return model.DateOf(t), nil
}

// parsePeriod разбирает интервал вида 09:00-09:30
func parsePeriod(s string) (model.TimePeriod, error) {
	startRaw, endRaw, ok := strings.Cut(s, "-")
	if !ok {
		return model.TimePeriod{}, fmt.Errorf("%w: period %q must be HH:MM-HH:MM", model.ErrInvalidArgument, s)
	}

	start, err := model.ParseTime(strings.TrimSpace(startRaw))
	if err != nil {
		return model.TimePeriod{}, err
	}
	end, err := model.ParseTime(strings.TrimSpace(endRaw))
	if err != nil {
		return model.TimePeriod{}, err
	}
	return model.NewTimePeriod(start, end)
}

// parseNote превращает «-» в пустую заметку
func parseNote(s string) string {
	s = strings.TrimSpace(s)
	if s == clearNote {
		return ""
	}
	return s
}

// commandArgs возвращает слова после команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		fields = fields[1:]
	}
	return fields
}

// parseFindArgs собирает фильтр из аргументов /find в любом порядке:
// время начала (ЧЧ:ММ), дата и ID пациента
func parseFindArgs(text string) (model.AppointmentFilter, error) {
	var filter model.AppointmentFilter

	for _, arg := range commandArgs(text) {
		switch {
		case strings.Contains(arg, ":"):
			if filter.StartFrom != nil {
				return model.AppointmentFilter{}, fmt.Errorf("%w: start time given twice", model.ErrInvalidArgument)
			}
			start, err := model.ParseTime(arg)
			if err != nil {
				return model.AppointmentFilter{}, err
			}
			filter.StartFrom = &start

		case looksLikeDate(arg):
			if filter.Date != nil {
				return model.AppointmentFilter{}, fmt.Errorf("%w: date given twice", model.ErrInvalidArgument)
			}
			date, err := parseDate(arg)
			if err != nil {
				return model.AppointmentFilter{}, err
			}
			filter.Date = &date

		default:
			if filter.PatientID != nil {
				return model.AppointmentFilter{}, fmt.Errorf("%w: patient given twice", model.ErrInvalidArgument)
			}
			id := model.NormalizePatientID(arg)
			filter.PatientID = &id
		}
	}

	return filter, nil
}

func looksLikeDate(s string) bool {
	return s != "" && unicode.IsDigit(rune(s[0])) && strings.ContainsAny(s, "-.")
}
