package docx

import (
	"math"
	"strconv"
	"time"
)

// Unit conversions from PDF points
const (
	TwipsPerPoint = 20
	EMUPerPoint   = 12700
)

// DefaultTimestamp is used for zip entries and for core properties that the
// document metadata leaves unset
var DefaultTimestamp = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func twips(pt float64) int {
	return int(math.Round(pt * TwipsPerPoint))
}

func emus(pt float64) int64 {
	return int64(math.Round(pt * EMUPerPoint))
}

func halfPoints(pt float64) int {
	return int(math.Round(pt * 2))
}

func itoa(n int) string { return strconv.Itoa(n) }

// tw formats a length in points as twips
func tw(pt float64) string { return strconv.Itoa(twips(pt)) }

func w3cdtf(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}
