package schedule

import (
	"context"
	"testing"
	"time"
)

func TestDefaultScheduleShape(t *testing.T) {
	s := DefaultSchedule()

	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for dow := 0; dow < 5; dow++ {
		day := s[dow]
		if !day.Operating {
			t.Errorf("dow %d should be operating", dow)
		}
		if *day.LowerTemp != 70 || *day.UpperTemp != 75 {
			t.Errorf("dow %d band = %v-%v, want 70-75", dow, *day.LowerTemp, *day.UpperTemp)
		}
		if *day.StartHour != 9 || *day.EndHour != 18 {
			t.Errorf("dow %d hours = %d-%d, want 9-18", dow, *day.StartHour, *day.EndHour)
		}
	}
	for dow := 5; dow < 7; dow++ {
		day := s[dow]
		if day.Operating {
			t.Errorf("dow %d should not be operating", dow)
		}
		if day.LowerTemp != nil || day.UpperTemp != nil || day.StartHour != nil || day.EndHour != nil {
			t.Errorf("dow %d should have nil band and hours", dow)
		}
	}
}

func TestValidateRejectsBadSchedules(t *testing.T) {
	lower, upper := 75.0, 70.0
	late, early := 20, 9

	inverted := DefaultSchedule()
	inverted[0].LowerTemp, inverted[0].UpperTemp = &lower, &upper
	if err := inverted.Validate(); err == nil {
		t.Error("Validate should reject lower > upper")
	}

	badHours := DefaultSchedule()
	badHours[1].StartHour, badHours[1].EndHour = &late, &early
	if err := badHours.Validate(); err == nil {
		t.Error("Validate should reject start >= end")
	}

	badZone := DefaultSchedule()
	badZone[2].Timezone = "Mars/Olympus_Mons"
	if err := badZone.Validate(); err == nil {
		t.Error("Validate should reject unknown timezone")
	}

	leaky := DefaultSchedule()
	leaky[6].LowerTemp = &lower
	if err := leaky.Validate(); err == nil {
		t.Error("Validate should reject operating fields on non-operating day")
	}
}

func TestTempRange(t *testing.T) {
	s := DefaultSchedule()

	// Weekdays carry the band.
	for _, date := range []string{"2018-02-05", "2018-08-03", "2018-05-18"} {
		lower, upper, ok, err := s.TempRange(date)
		if err != nil {
			t.Fatalf("TempRange(%s): %v", date, err)
		}
		if !ok {
			t.Errorf("TempRange(%s) ok=false, want true", date)
		}
		if lower != 70 || upper != 75 {
			t.Errorf("TempRange(%s) = %v-%v, want 70-75", date, lower, upper)
		}
	}

	// Weekend band is undefined, not zero or stale.
	for _, date := range []string{"2018-02-04", "2018-05-05"} {
		_, _, ok, err := s.TempRange(date)
		if err != nil {
			t.Fatalf("TempRange(%s): %v", date, err)
		}
		if ok {
			t.Errorf("TempRange(%s) ok=true, want false on non-operating day", date)
		}
	}
}

func TestOperatingPeriodUTCAcrossDST(t *testing.T) {
	s := DefaultSchedule()

	// Before the daylight-saving transition: 9 local = 14:00 UTC.
	start, end, ok, err := s.OperatingPeriodUTC("2018-02-05")
	if err != nil {
		t.Fatalf("OperatingPeriodUTC: %v", err)
	}
	if !ok {
		t.Fatal("OperatingPeriodUTC ok=false for operating day")
	}
	if !start.Equal(time.Date(2018, 2, 5, 14, 0, 0, 0, time.UTC)) {
		t.Errorf("winter start = %v, want 2018-02-05T14:00Z", start)
	}
	if !end.Equal(time.Date(2018, 2, 5, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("winter end = %v, want 2018-02-05T23:00Z", end)
	}
	if !start.Before(end) {
		t.Error("operating start must be strictly before end")
	}

	// After the transition: 9 local = 13:00 UTC.
	start, end, ok, err = s.OperatingPeriodUTC("2018-08-03")
	if err != nil {
		t.Fatalf("OperatingPeriodUTC: %v", err)
	}
	if !ok {
		t.Fatal("OperatingPeriodUTC ok=false for operating day")
	}
	if !start.Equal(time.Date(2018, 8, 3, 13, 0, 0, 0, time.UTC)) {
		t.Errorf("summer start = %v, want 2018-08-03T13:00Z", start)
	}
	if !end.Equal(time.Date(2018, 8, 3, 22, 0, 0, 0, time.UTC)) {
		t.Errorf("summer end = %v, want 2018-08-03T22:00Z", end)
	}
}

func TestOperatingPeriodUTCNonOperating(t *testing.T) {
	s := DefaultSchedule()

	for _, date := range []string{"2018-02-04", "2018-05-05"} {
		_, _, ok, err := s.OperatingPeriodUTC(date)
		if err != nil {
			t.Fatalf("OperatingPeriodUTC(%s): %v", date, err)
		}
		if ok {
			t.Errorf("OperatingPeriodUTC(%s) ok=true, want false", date)
		}
	}
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(DefaultSchedule())
	s, err := p.Load(context.Background(), 37)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s[0].Operating {
		t.Error("static provider should return the schedule it was given")
	}
}
