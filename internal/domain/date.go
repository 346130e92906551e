package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout - формат дат планирования на границе API (день, без времени)
const DateLayout = "2006-01-02"

// Date представляет дату планирования с точностью до дня
type Date struct {
	time.Time
}

// NewDate создает дату, обрезая время до начала дня в UTC
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today возвращает текущую дату
func Today() Date {
	return NewDate(time.Now())
}

// AddDays возвращает дату, смещенную на указанное число дней
func (d Date) AddDays(days int) Date {
	return NewDate(d.Time.AddDate(0, 0, days))
}

// MarshalJSON сериализует дату в формате 2006-01-02
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON разбирает дату из формата 2006-01-02.
// Полные метки времени RFC3339 принимаются и обрезаются до дня
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: expected %s", s, DateLayout)
		}
	}

	*d = NewDate(t)
	return nil
}

// Value реализует driver.Valuer для сохранения в PostgreSQL
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan реализует sql.Scanner
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}
