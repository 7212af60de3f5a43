package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthNames são os rótulos de período usados nos relatórios (francês).
var monthNames = [12]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Window é um intervalo inclusivo [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains indica se t está dentro da janela, bordas incluídas.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Period é um mês civil de um ano.
type Period struct {
	Month time.Month
	Year  int
}

// Label retorna o nome do mês, ex.: "février".
func (p Period) Label() string {
	return MonthLabel(p.Month)
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Label(), p.Year)
}

// Window calcula a janela do mês: dia 1 às 00:00:00 até o último dia às 23:59:59.
func (p Period) Window(loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
	end := time.Date(p.Year, p.Month+1, 0, 23, 59, 59, 0, loc)
	return Window{Start: start, End: end}
}

// PreviousMonth devolve o mês civil anterior a now.
func PreviousMonth(now time.Time) Period {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	return Period{Month: prev.Month(), Year: prev.Year()}
}

// MonthLabel retorna o rótulo francês de um mês.
func MonthLabel(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// ParseMonth interpreta um rótulo de período: nome francês (com ou sem
// acento), nome inglês ou número de 1 a 12.
func ParseMonth(label string) (time.Month, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return 0, fmt.Errorf("empty period label")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month number out of range: %d", n)
		}
		return time.Month(n), nil
	}
	folded := foldAccents(s)
	for i, name := range monthNames {
		if s == name || folded == foldAccents(name) {
			return time.Month(i + 1), nil
		}
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", label)
}

// ParsePeriod combina ParseMonth e o ano.
func ParsePeriod(label string, year int) (Period, error) {
	m, err := ParseMonth(label)
	if err != nil {
		return Period{}, err
	}
	if year < 1 {
		return Period{}, fmt.Errorf("invalid year %d", year)
	}
	return Period{Month: m, Year: year}, nil
}

var accentReplacer = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a", "ä", "a",
	"û", "u", "ù", "u", "ü", "u",
	"ô", "o", "ö", "o", "î", "i", "ï", "i", "ç", "c",
)

func foldAccents(s string) string {
	return accentReplacer.Replace(s)
}
