// Валидация параметров запросов к котировкам
package service

import (
	"net/url"
	"regexp"
	"time"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-stocks-api/internal/shared/errors"
)

// Сообщения об ошибках валидации, которые видит клиент.
const (
	MsgSymbolFormat     = "Stock symbol incorrect format - must be 1-5 capital letters"
	MsgSymbolsParams    = "Invalid query parameter: only 'industry' is permitted"
	MsgUnauthedParams   = "Date parameters only available on authenticated route /stocks/authed"
	MsgAuthedParams     = "Parameters allowed are 'from' and 'to', example: /stocks/authed/AAL?from=2020-03-15"
	MsgFromDateInvalid  = "From date cannot be parsed"
	MsgToDateInvalid    = "To date cannot be parsed"
	MsgIndustryNotFound = "Industry sector not found"
	MsgSymbolNotFound   = "No entry for symbol in stocks database"
	MsgRangeEmptyResult = "No entries available for query symbol for supplied date range"
	ParamIndustry       = "industry"
	ParamFrom           = "from"
	ParamTo             = "to"
)

var symbolRe = regexp.MustCompile(`^[A-Z]{1,5}$`)

// ValidateSymbol проверяет формат тикера: 1-5 заглавных латинских букв.
func ValidateSymbol(symbol string) error {
	if !symbolRe.MatchString(symbol) {
		return serr.New(serr.ErrInvalidInput, MsgSymbolFormat)
	}
	return nil
}

// UnknownParams возвращает имена параметров q, которых нет в allowed.
func UnknownParams(q url.Values, allowed ...string) []string {
	var unknown []string
	for k := range q {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// dateLayout — формат from/to. inUTC: значение без смещения читается в UTC,
// а не в зоне биржи (так ведут себя ISO-даты без времени).
type dateLayout struct {
	layout string
	inUTC  bool
}

// dateLayouts — принимаемые форматы, от самого точного к самому общему.
var dateLayouts = []dateLayout{
	{layout: time.RFC3339Nano},
	{layout: time.RFC3339},
	{layout: "2006-01-02T15:04Z07:00"},
	{layout: "2006-01-02T15:04:05"},
	{layout: "2006-01-02T15:04"},
	{layout: "2006-01-02 15:04:05"},
	{layout: "2006-01-02 15:04"},
	{layout: "2006-01-02", inUTC: true},
	{layout: "January 2, 2006"},
	{layout: "Jan 2, 2006"},
	{layout: "2 January 2006"},
	{layout: "2 Jan 2006"},
}

// ParseDate разбирает дату/время.
//
// Явное смещение важнее зоны. Дата-время без смещения и дата словами
// трактуются в loc, ISO-дата без времени (2006-01-02) в UTC.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, l := range dateLayouts {
		in := loc
		if l.inUTC {
			in = time.UTC
		}
		if t, err := time.ParseInLocation(l.layout, s, in); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDateRange разбирает границы полуинтервала [from, to).
//
// Пустая строка означает, что граница не задана. Ошибка разбора
// сообщает, какое именно поле не удалось разобрать; from проверяется первым.
func ParseDateRange(from, to string, loc *time.Location) (models.DateRange, error) {
	var rng models.DateRange

	if from != "" {
		t, ok := ParseDate(from, loc)
		if !ok {
			return models.DateRange{}, serr.New(serr.ErrInvalidInput, MsgFromDateInvalid)
		}
		rng.From = &t
	}
	if to != "" {
		t, ok := ParseDate(to, loc)
		if !ok {
			return models.DateRange{}, serr.New(serr.ErrInvalidInput, MsgToDateInvalid)
		}
		rng.To = &t
	}
	return rng, nil
}
