package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Time — время суток, "15:04:05" или "15:04"
type Time struct {
	Time time.Time
}

func ParseTime(str string) (Time, error) {
	parsedTime, err := time.Parse("15:04:05", str)
	if err != nil {
		parsedTime, err = time.Parse("15:04", str)
		if err != nil {
			return Time{}, fmt.Errorf("failed to parse time: %v", err)
		}
	}
	return Time{Time: parsedTime}, nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	str, err := unquote(data)
	if err != nil {
		return err
	}
	parsed, err := ParseTime(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format("15:04:05"))
}
