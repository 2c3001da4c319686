// Package dates resolves the due-date hints found in email text.
//
// Two forms are understood: the literal phrase "next friday", and a
// "by <word> <day>" or "before <word> <day>" deadline such as "before Nov 20".
// Nothing in this package returns an error; a phrase that cannot be parsed is
// handed back verbatim so callers can still record it.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISOLayout is the calendar date layout used for every resolved due date.
const ISOLayout = "2006-01-02"

// NextFridayPhrase triggers NextFriday resolution.
const NextFridayPhrase = "next friday"

// deadlinePattern captures the phrase after "by" or "before": a word and a
// one- or two-digit number.
var deadlinePattern = regexp.MustCompile(`(by|before) (\w+ \d{1,2})`)

// Clock returns the reference "today" for relative dates.
type Clock func() time.Time

// Inferrer resolves date hints against a clock.
type Inferrer struct {
	now Clock
}

// NewInferrer creates an Inferrer. A nil clock means time.Now.
func NewInferrer(now Clock) *Inferrer {
	if now == nil {
		now = time.Now
	}
	return &Inferrer{now: now}
}

// NextFriday returns NextFriday(today) as an ISO date.
func (i *Inferrer) NextFriday() string {
	return ISODate(NextFriday(i.now()))
}

// Deadline returns ResolveDeadline(text, today).
func (i *Inferrer) Deadline(text string) (string, bool) {
	return ResolveDeadline(text, i.now())
}

// ISODate formats t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(ISOLayout)
}

// mondayWeekday numbers weekdays Monday=0 .. Sunday=6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// NextFriday advances ref to the coming Friday.
//
// The offset is (4 - weekday) mod 7 with Monday=0, so on a Friday the offset
// is zero and ref itself is returned rather than the Friday a week later.
func NextFriday(ref time.Time) time.Time {
	offset := ((4-mondayWeekday(ref))%7 + 7) % 7
	return ref.AddDate(0, 0, offset)
}

// ResolveDeadline looks for a "by/before <word> <day>" phrase in text.
// ok is false when no phrase is present. When one is found, due is the ISO
// date it parses to, or the raw phrase when it cannot be parsed.
func ResolveDeadline(text string, ref time.Time) (due string, ok bool) {
	m := deadlinePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return ParsePhrase(m[2], ref), true
}

// monthWords maps the month spellings accepted in a deadline phrase to the
// three-letter form dateparse expects.
var monthWords = func() map[string]string {
	m := map[string]string{"sept": "sep"}
	for mo := time.January; mo <= time.December; mo++ {
		full := strings.ToLower(mo.String())
		m[full] = full[:3]
		m[full[:3]] = full[:3]
	}
	return m
}()

// ParsePhrase fuzzily parses a "<word> <day>" phrase such as "nov 20",
// "November 20" or "sept 3". The year is taken from ref. When the word is not
// a month ("the 20", "monday 12") the day is placed in ref's month. On failure
// the phrase is returned unchanged.
func ParsePhrase(phrase string, ref time.Time) (due string) {
	defer func() {
		if r := recover(); r != nil {
			due = phrase
		}
	}()

	query := phrase
	if fields := strings.Fields(strings.ToLower(phrase)); len(fields) == 2 {
		if d, err := strconv.Atoi(fields[1]); err == nil {
			abbr, isMonth := monthWords[fields[0]]
			if !isMonth {
				return dayInMonth(ref, d, phrase)
			}
			query = abbr + " " + fields[1]
		}
	}

	t, err := dateparse.ParseIn(fmt.Sprintf("%s, %d", query, ref.Year()), ref.Location())
	if err != nil {
		return phrase
	}
	return ISODate(t)
}

// dayInMonth returns day d of ref's month, or fallback when that month has no
// such day.
func dayInMonth(ref time.Time, d int, fallback string) string {
	t := time.Date(ref.Year(), ref.Month(), d, 0, 0, 0, 0, ref.Location())
	if d < 1 || t.Month() != ref.Month() {
		return fallback
	}
	return ISODate(t)
}
