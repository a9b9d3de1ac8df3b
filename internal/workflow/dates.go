package workflow

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	dayFirstLayout   = "02/01/2006 15:04:05"
	monthFirstLayout = "01/02/2006 15:04:05"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DateParser katakdagi turli sana ko'rinishlarini bitta vaqtga aylantiradi.
// DayFirst true bo'lsa "5/3/2024" = 5-mart, aks holda 3-may.
type DateParser struct {
	DayFirst bool
	Location *time.Location
	Now      func() time.Time
}

// NewDateParser standart parser (Now = time.Now)
func NewDateParser(dayFirst bool, loc *time.Location) DateParser {
	if loc == nil {
		loc = time.Local
	}
	return DateParser{DayFirst: dayFirst, Location: loc, Now: time.Now}
}

func (p DateParser) loc() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p DateParser) now() time.Time {
	if p.Now == nil {
		return time.Now().In(p.loc())
	}
	return p.Now().In(p.loc())
}

// Clock joriy vaqt parser zonasida
func (p DateParser) Clock() time.Time {
	return p.now()
}

// Parse hech qachon xato qaytarmaydi: tanib bo'lmasa hozirgi vaqt.
func (p DateParser) Parse(v any) time.Time {
	if t, ok := p.TryParse(v); ok {
		return t
	}
	return p.now()
}

// TryParse sanani taniydi; bo'sh, "-" yoki noma'lum format uchun false.
func (p DateParser) TryParse(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case float64:
		return p.fromSerial(x)
	case float32:
		return p.fromSerial(float64(x))
	case int:
		return p.fromSerial(float64(x))
	case int64:
		return p.fromSerial(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return p.fromSerial(f)
	case string:
		return p.parseString(x)
	default:
		return p.parseString(CellString(v))
	}
}

// fromSerial spreadsheet serial sanasi (1900 tizimi)
func (p DateParser) fromSerial(f float64) (time.Time, bool) {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	t = t.Round(time.Second)
	// serial qiymat devor soati, shuning uchun zonasiz ko'chiramiz
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, p.loc()), true
}

func (p DateParser) parseString(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == MissingMarker {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(p.loc()), true
	}
	for _, layout := range isoLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, p.loc()); err == nil {
			return t, true
		}
	}

	datePart, timePart := splitDateTime(s)
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errA != nil || errB != nil || errY != nil {
		return time.Time{}, false
	}
	day, month := a, b
	if !p.DayFirst {
		day, month = b, a
	}
	if year < 100 {
		year += 2000
	}
	hour, minute, second, ok := parseClock(timePart)
	if !ok {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, p.loc())
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// splitDateTime avval ", " keyin birinchi bo'shliq bo'yicha ajratadi
func splitDateTime(s string) (string, string) {
	if i := strings.Index(s, ", "); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+2:])
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// parseClock "14:30", "14:30:00", "2:30:00 pm" ko'rinishlarini o'qiydi
func parseClock(s string) (int, int, int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, 0, 0, true
	}
	meridiem := ""
	for _, suffix := range []string{"am", "pm"} {
		if strings.HasSuffix(s, suffix) {
			meridiem = suffix
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}
	vals := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, 0, 0, false
		}
		vals[i] = n
	}
	h, m, sec := vals[0], vals[1], vals[2]
	switch meridiem {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	if h > 23 || m > 59 || sec > 59 {
		return 0, 0, 0, false
	}
	return h, m, sec, true
}

// Format yozish uchun sana: DD/MM/YYYY HH:mm:ss (yoki MM/DD)
func (p DateParser) Format(t time.Time) string {
	layout := dayFirstLayout
	if !p.DayFirst {
		layout = monthFirstLayout
	}
	return t.In(p.loc()).Format(layout)
}

// DelayDays rejalashtirilgan sanadan necha kalendar kun kechikkan; o'z vaqtida bo'lsa 0.
func (p DateParser) DelayDays(planned, actual time.Time) int {
	if planned.IsZero() || actual.IsZero() {
		return 0
	}
	pd := dateOnly(planned.In(p.loc()))
	ad := dateOnly(actual.In(p.loc()))
	days := int(math.Round(ad.Sub(pd).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
