package json_types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultLocation применяется к значениям без смещения UTC
var DefaultLocation = time.UTC

func parseDate(str string) (time.Time, error) {
	parsedDate, err := time.Parse(time.RFC3339, str)
	// Без смещения: считаем время локальным для клиники
	if err != nil {
		parsedDate, err = time.ParseInLocation("2006-01-02T15:04:05", str, DefaultLocation)
		if err != nil {
			parsedDate, err = time.ParseInLocation("2006-01-02", str, DefaultLocation)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse time: %v", err)
			}
		}
	}

	return parsedDate, nil
}

func unquote(data []byte) (string, error) {
	str := string(data)
	if len(str) < 2 || !strings.HasPrefix(str, `"`) || !strings.HasSuffix(str, `"`) {
		return "", fmt.Errorf("expected JSON string, got %s", str)
	}
	return str[1 : len(str)-1], nil
}

// Date — календарный день, сериализуется как YYYY-MM-DD
type Date struct {
	Date time.Time
}

func NewDate(t time.Time) Date {
	return Date{Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

func (t *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	str, err := unquote(data)
	if err != nil {
		return err
	}

	parsedDate, err := parseDate(str)
	if err != nil {
		return err
	}

	*t = NewDate(parsedDate)
	return nil
}

func (t Date) MarshalJSON() ([]byte, error) {
	if t.Date.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(t.Date.Format("2006-01-02"))
}

func (t Date) String() string {
	return t.Date.Format("2006-01-02")
}
