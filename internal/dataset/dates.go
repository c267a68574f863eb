package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Periodicity classifies the time resolution of a date column.
type Periodicity int

const (
	Annual Periodicity = iota
	Quarterly
	Monthly
)

func (p Periodicity) String() string {
	switch p {
	case Annual:
		return "annual"
	case Quarterly:
		return "quarterly"
	case Monthly:
		return "monthly"
	}
	return fmt.Sprintf("Periodicity(%d)", int(p))
}

// Period is a parsed economic time period: a year plus an optional
// quarter or month.
type Period struct {
	Freq Periodicity
	Year int
	Sub  int // quarter 1-4 or month 1-12; unused for annual
	Raw  string
}

var (
	annualRe    = regexp.MustCompile(`^\d{4}$`)
	quarterlyRe = regexp.MustCompile(`^(\d{4}) ?[Qq]([1-4])$`)
	monthNumRe  = regexp.MustCompile(`^(\d{4})[-/ ]?[Mm]?(\d{1,2})$`)
)

var monthNameLayouts = []string{"Jan 2006", "January 2006", "2006 Jan", "2006 January"}

// ParsePeriod parses annual ("2021"), quarterly ("2021 Q3", "2021q3") or
// monthly ("2021-03", "2021 M03", "Mar 2021") date strings.
func ParsePeriod(s string) (Period, error) {
	raw := strings.TrimSpace(s)
	if annualRe.MatchString(raw) {
		year, _ := strconv.Atoi(raw)
		return Period{Freq: Annual, Year: year, Raw: raw}, nil
	}
	if m := quarterlyRe.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		return Period{Freq: Quarterly, Year: year, Sub: q, Raw: raw}, nil
	}
	if m := monthNumRe.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return Period{Freq: Monthly, Year: year, Sub: month, Raw: raw}, nil
		}
	}
	for _, layout := range monthNameLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Period{Freq: Monthly, Year: t.Year(), Sub: int(t.Month()), Raw: raw}, nil
		}
	}
	return Period{}, errors.Errorf("dataset: cannot parse period %q", s)
}

// Key returns a sortable integer. Periods of the same frequency order
// chronologically.
func (p Period) Key() int {
	switch p.Freq {
	case Quarterly:
		return p.Year*4 + p.Sub - 1
	case Monthly:
		return p.Year*12 + p.Sub - 1
	default:
		return p.Year
	}
}

// Label returns a canonical axis label: "2021", "2021 Q3" or "2021 M03".
// Quarterly and monthly labels nest year and sub-period so long axes can
// be decluttered client-side.
func (p Period) Label() string {
	switch p.Freq {
	case Quarterly:
		return fmt.Sprintf("%d Q%d", p.Year, p.Sub)
	case Monthly:
		return fmt.Sprintf("%d M%02d", p.Year, p.Sub)
	default:
		return strconv.Itoa(p.Year)
	}
}

// ShortLabel keeps only the last two digits of the year, used when a
// series has more periods than fit comfortably on an axis.
func (p Period) ShortLabel() string {
	year := strconv.Itoa(p.Year)
	if len(year) == 4 {
		year = year[2:]
	}
	switch p.Freq {
	case Quarterly:
		return fmt.Sprintf("%s Q%d", year, p.Sub)
	case Monthly:
		return fmt.Sprintf("%s M%02d", year, p.Sub)
	default:
		return year
	}
}

// Suppress quarterly or monthly axis labels for time series longer than this.
const DateThreshold = 40

// DateLabels maps raw date strings to axis labels. Unparseable dates are
// passed through as is. When there are more than DateThreshold distinct
// quarterly or monthly periods, two-digit years are used.
func DateLabels(dates []string) []string {
	distinct := map[string]struct{}{}
	for _, d := range dates {
		distinct[d] = struct{}{}
	}
	short := len(distinct) > DateThreshold

	labels := make([]string, len(dates))
	for i, d := range dates {
		p, err := ParsePeriod(d)
		if err != nil {
			labels[i] = d
			continue
		}
		if short && p.Freq != Annual {
			labels[i] = p.ShortLabel()
		} else {
			labels[i] = p.Label()
		}
	}
	return labels
}
