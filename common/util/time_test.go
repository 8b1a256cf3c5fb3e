package util

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDatetimeJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		d := Datetime(time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC))
		data, err := json.Marshal(d)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `"2024-06-01 10:30:00"` {
			t.Errorf("got %s", data)
		}
		var back Datetime
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatal(err)
		}
		if !time.Time(back).Equal(time.Time(d)) {
			t.Errorf("want %v got %v", d, back)
		}
	})
	t.Run("zero marshals null", func(t *testing.T) {
		data, err := json.Marshal(Datetime{})
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "null" {
			t.Errorf("got %s", data)
		}
	})
	t.Run("null unmarshals to zero", func(t *testing.T) {
		var d Datetime
		if err := json.Unmarshal([]byte("null"), &d); err != nil {
			t.Fatal(err)
		}
		if !d.IsZero() {
			t.Errorf("want zero got %v", d)
		}
	})
}

func TestParseDatetime(t *testing.T) {
	t.Run("with fraction", func(t *testing.T) {
		got, err := ParseDatetime("2024-06-01 10:30:00.5")
		if err != nil {
			t.Fatal(err)
		}
		if got.Nanosecond() != 5e8 {
			t.Errorf("got %v", got)
		}
	})
	t.Run("without fraction", func(t *testing.T) {
		if _, err := ParseDatetime("2024-06-01 10:30:00"); err != nil {
			t.Fatal(err)
		}
	})
	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseDatetime("not a time"); err == nil {
			t.Error("want error")
		}
	})
}

func TestDurationSecs(t *testing.T) {
	if got := DurationSecs(90 * time.Second); got != 90 {
		t.Errorf("want 90 got %d", got)
	}
	if got := DurationSecs(1500 * time.Millisecond); got != 1 {
		t.Errorf("want 1 got %d", got)
	}
}
