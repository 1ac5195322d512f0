package voice

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionList    Action = "list"
	ActionDelete  Action = "delete"
	ActionUnknown Action = "unknown"
)

// ParsedCommand is the structured intent extracted from a German command.
// Date and Time hold the raw tokens ("dienstag", "14"); ResolveStart turns
// them into a concrete timestamp.
type ParsedCommand struct {
	Action    Action
	Title     string
	Attendees []string
	Date      string
	Time      string
	Location  string
}

var (
	titleRe    = regexp.MustCompile(`(?i)(?:mit|für)\s+([^,\s]+(?:\s+\w+)*?)(?:\s+am|\s+um|\s*$)`)
	weekdayRe  = regexp.MustCompile(`am\s+(montag|dienstag|mittwoch|donnerstag|freitag|samstag|sonntag)`)
	numDateRe  = regexp.MustCompile(`am\s+(\d{1,2}\.?\d{0,2}\.?\d{0,4})`)
	relDateRe  = regexp.MustCompile(`(morgen|heute|übermorgen)`)
	timeRe     = regexp.MustCompile(`um\s+(\d{1,2}(?:[:.]\d{2})?)(?:\s*uhr)?`)
	locationRe = regexp.MustCompile(`(?i)\b(?:in|im)\s+([^,\s]+(?:\s+\w+)*?)(?:\s|$)`)
)

// Parse classifies a free-text German calendar command by ordered keyword
// matching. This is pattern matching, not a grammar: the first keyword group
// that matches wins.
func Parse(command string) ParsedCommand {
	lower := strings.ToLower(command)

	// List meetings. Checked before create so that "meine Termine" does not
	// trip the create branch via its "termin" keyword.
	if containsAny(lower, "zeige", "liste", "termine", "meetings") {
		return ParsedCommand{Action: ActionList}
	}

	// Delete meetings
	if containsAny(lower, "lösche", "entferne", "absage") {
		cmd := ParsedCommand{Action: ActionDelete}
		if m := timeRe.FindStringSubmatch(lower); m != nil {
			cmd.Time = m[1]
		}
		return cmd
	}

	// Create meeting
	if containsAny(lower, "lege", "erstelle", "plane", "termin") {
		cmd := ParsedCommand{Action: ActionCreate}

		// Title runs against the original string so names keep their case.
		if m := titleRe.FindStringSubmatch(command); m != nil {
			cmd.Title = "Meeting mit " + m[1]
			cmd.Attendees = []string{m[1]}
		}

		for _, re := range []*regexp.Regexp{weekdayRe, numDateRe, relDateRe} {
			if m := re.FindStringSubmatch(lower); m != nil {
				cmd.Date = m[1]
				break
			}
		}

		if m := timeRe.FindStringSubmatch(lower); m != nil {
			cmd.Time = m[1]
		}

		if m := locationRe.FindStringSubmatch(command); m != nil {
			cmd.Location = m[1]
		}

		return cmd
	}

	return ParsedCommand{Action: ActionUnknown}
}

var weekdays = map[string]time.Weekday{
	"montag":     time.Monday,
	"dienstag":   time.Tuesday,
	"mittwoch":   time.Wednesday,
	"donnerstag": time.Thursday,
	"freitag":    time.Friday,
	"samstag":    time.Saturday,
	"sonntag":    time.Sunday,
}

// ResolveStart turns the extracted date/time tokens into a timestamp.
// Rules: "heute" is today, "morgen" +1d, "übermorgen" +2d; a weekday name
// resolves to its next future occurrence (the same weekday as today means a
// full week out, never today); DD.MM[.YYYY] is literal. Missing time
// defaults to 09:00. Returns false when no date and no time token exists.
func ResolveStart(dateStr, timeStr string, now time.Time) (time.Time, bool) {
	if dateStr == "" && timeStr == "" {
		return time.Time{}, false
	}

	target := now

	switch {
	case dateStr == "heute" || dateStr == "":
		// stay on today
	case dateStr == "morgen":
		target = now.AddDate(0, 0, 1)
	case dateStr == "übermorgen":
		target = now.AddDate(0, 0, 2)
	default:
		if wd, ok := weekdays[dateStr]; ok {
			daysToAdd := (int(wd) + 7 - int(now.Weekday())) % 7
			if daysToAdd == 0 {
				daysToAdd = 7
			}
			target = now.AddDate(0, 0, daysToAdd)
		} else if strings.ContainsAny(dateStr, "0123456789") {
			parts := strings.Split(strings.TrimSuffix(dateStr, "."), ".")
			if len(parts) >= 2 {
				day, errD := strconv.Atoi(parts[0])
				month, errM := strconv.Atoi(parts[1])
				year := now.Year()
				if len(parts) > 2 && parts[2] != "" {
					if y, err := strconv.Atoi(parts[2]); err == nil {
						year = y
					}
				}
				if errD == nil && errM == nil {
					target = time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
				}
			}
		}
	}

	hours, minutes := 9, 0
	if timeStr != "" {
		tp := strings.FieldsFunc(timeStr, func(r rune) bool { return r == ':' || r == '.' })
		if len(tp) > 0 {
			if h, err := strconv.Atoi(tp[0]); err == nil {
				hours = h
			}
		}
		if len(tp) > 1 {
			if m, err := strconv.Atoi(tp[1]); err == nil {
				minutes = m
			}
		}
	}

	return time.Date(target.Year(), target.Month(), target.Day(), hours, minutes, 0, 0, now.Location()), true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
