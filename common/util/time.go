package util

import (
	"time"
)

const (
	TimeLayoutDatetimeN = "2006-01-02 15:04:05.9"
	TimeLayoutDatetime  = "2006-01-02 15:04:05"
)

// Datetime marshals as "2006-01-02 15:04:05" in JSON and as a native BSON
// datetime (see TimeCodec).
type Datetime time.Time

func (d *Datetime) Time() *time.Time {
	if d == nil {
		return nil
	}
	return (*time.Time)(d)
}

func (d Datetime) IsZero() bool {
	return time.Time(d).IsZero()
}

func Now() Datetime {
	return Datetime(time.Now().UTC())
}

func (d Datetime) MarshalJSON() ([]byte, error) {
	t := time.Time(d)
	if t.IsZero() {
		return []byte("null"), nil
	}
	s := t.Format(TimeLayoutDatetime)
	return append([]byte(`"`), append([]byte(s), '"')...), nil
}

func (d *Datetime) UnmarshalJSON(data []byte) error {
	// quoted empty string or null
	if len(data) <= 4 {
		return nil
	}
	t, err := ParseDatetime(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = Datetime(t)
	return nil
}

func ParseDatetime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayoutDatetimeN, s)
	if err != nil {
		return time.Parse(TimeLayoutDatetime, s)
	}
	return t, nil
}

func DurationSecs(d time.Duration) int64 {
	return int64(d / time.Second)
}
