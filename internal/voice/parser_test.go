package voice

import (
	"testing"
	"time"
)

func TestParse_CreateMeeting(t *testing.T) {
	cmd := Parse("Lege ein Meeting mit Anna am Dienstag um 14 Uhr an")

	if cmd.Action != ActionCreate {
		t.Fatalf("expected create, got %q", cmd.Action)
	}
	if cmd.Title != "Meeting mit Anna" {
		t.Fatalf("expected title %q, got %q", "Meeting mit Anna", cmd.Title)
	}
	if len(cmd.Attendees) != 1 || cmd.Attendees[0] != "Anna" {
		t.Fatalf("expected attendees [Anna], got %v", cmd.Attendees)
	}
	if cmd.Date != "dienstag" {
		t.Fatalf("expected date %q, got %q", "dienstag", cmd.Date)
	}
	if cmd.Time != "14" {
		t.Fatalf("expected time %q, got %q", "14", cmd.Time)
	}
}

func TestParse_CreateWithLocation(t *testing.T) {
	cmd := Parse("Plane einen Termin mit Bob am Montag um 10 Uhr im Büro")

	if cmd.Action != ActionCreate {
		t.Fatalf("expected create, got %q", cmd.Action)
	}
	if cmd.Date != "montag" || cmd.Time != "10" {
		t.Fatalf("unexpected date/time: %q / %q", cmd.Date, cmd.Time)
	}
	if cmd.Location != "Büro" {
		t.Fatalf("expected location %q, got %q", "Büro", cmd.Location)
	}
}

func TestParse_List(t *testing.T) {
	for _, c := range []string{
		"Zeige meine Termine",
		"Liste alle Meetings auf",
	} {
		cmd := Parse(c)
		if cmd.Action != ActionList {
			t.Fatalf("Parse(%q): expected list, got %q", c, cmd.Action)
		}
	}
}

func TestParse_Delete(t *testing.T) {
	cmd := Parse("Lösche das Meeting um 14 Uhr")
	if cmd.Action != ActionDelete {
		t.Fatalf("expected delete, got %q", cmd.Action)
	}
	if cmd.Time != "14" {
		t.Fatalf("expected time %q, got %q", "14", cmd.Time)
	}
}

func TestParse_Unknown(t *testing.T) {
	cmd := Parse("Wie ist das Wetter heute in Berlin?")
	// "heute" alone is not a calendar keyword
	if cmd.Action != ActionUnknown {
		t.Fatalf("expected unknown, got %q", cmd.Action)
	}
}

func TestResolveStart(t *testing.T) {
	// Thursday, 10:00
	now := time.Date(2026, time.September, 3, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		date    string
		timeStr string
		want    time.Time
	}{
		{"next tuesday at 14", "dienstag", "14", time.Date(2026, time.September, 8, 14, 0, 0, 0, time.UTC)},
		{"same weekday skips a week", "donnerstag", "9", time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC)},
		{"heute with minutes", "heute", "14:30", time.Date(2026, time.September, 3, 14, 30, 0, 0, time.UTC)},
		{"morgen default time", "morgen", "", time.Date(2026, time.September, 4, 9, 0, 0, 0, time.UTC)},
		{"uebermorgen", "übermorgen", "8", time.Date(2026, time.September, 5, 8, 0, 0, 0, time.UTC)},
		{"numeric date", "15.10.", "16", time.Date(2026, time.October, 15, 16, 0, 0, 0, time.UTC)},
		{"numeric date with year", "01.02.2027", "12", time.Date(2027, time.February, 1, 12, 0, 0, 0, time.UTC)},
		{"time only stays today", "", "17", time.Date(2026, time.September, 3, 17, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveStart(tc.date, tc.timeStr, now)
			if !ok {
				t.Fatal("expected a resolved time")
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestResolveStart_NoDateNoTime(t *testing.T) {
	if _, ok := ResolveStart("", "", time.Now()); ok {
		t.Fatal("expected no resolution without date and time")
	}
}
