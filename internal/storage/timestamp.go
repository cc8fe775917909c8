package storage

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// форматы, в которых sqlite может вернуть DATETIME в виде текста
var sqliteTimeFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp - время создания записи, всегда в UTC.
// В JSON сериализуется как RFC 3339 через встроенный time.Time.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// Scan принимает time.Time от postgres и текст от sqlite
func (ts *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		ts.Time = time.Time{}
		return nil
	case time.Time:
		ts.Time = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", value)
	}
}

func (ts Timestamp) Value() (driver.Value, error) {
	return ts.Time, nil
}

func (ts *Timestamp) parse(s string) error {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		ts.Time = t.UTC()
		return nil
	}

	for _, layout := range sqliteTimeFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			ts.Time = t.UTC()
			return nil
		}
	}

	return fmt.Errorf("cannot parse timestamp %q", s)
}
