package lyrics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Format identifies the parsed document kind
type Format string

const (
	// FormatTimed means every line carries a start time and the slice is sorted by it
	FormatTimed Format = "timed"

	// FormatPlain means lines carry no timing; order is insertion order
	FormatPlain Format = "plain"
)

// Line is a single lyric line. Time is nil for plain documents.
// EndTime is set only for subtitle-cue input.
type Line struct {
	Time    *float64
	EndTime *float64
	Text    string
}

// Document is an ordered, time-searchable lyric line sequence
type Document struct {
	Format Format
	Lines  []Line
}

var (
	// [mm:ss.xx], [mm:ss:xx] or bare [mm:ss]
	lrcTagPattern = regexp.MustCompile(`\[\d{2}:\d{2}[\.:]?\d{0,2}\]`)

	lrcTagFull  = regexp.MustCompile(`^(\d{2}):(\d{2})[\.:](\d{2})$`)
	lrcTagShort = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

	// numbered cue followed by an arrow-separated HH:MM:SS,mmm pair
	srtCuePattern = regexp.MustCompile(`\d+\s+\d{2}:\d{2}:\d{2}[,\.]\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}[,\.]\d{3}`)

	srtTimePair = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}[,\.]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[,\.]\d{3})`)
	srtTime     = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})\.(\d{3})$`)

	numericLine = regexp.MustCompile(`^\d+$`)
)

// Parse detects the lyric text format and produces a navigable document.
// Detection order: LRC time tags first, then subtitle cues, else plain text.
// Malformed input never fails; it degrades to plain or to fewer lines.
func Parse(raw string) Document {
	if strings.TrimSpace(raw) == "" {
		return Document{Format: FormatPlain, Lines: []Line{}}
	}

	if lrcTagPattern.MatchString(raw) {
		return Document{Format: FormatTimed, Lines: parseLRC(raw)}
	}
	if srtCuePattern.MatchString(raw) {
		return Document{Format: FormatTimed, Lines: parseSRT(raw)}
	}
	return Document{Format: FormatPlain, Lines: parsePlain(raw)}
}

// parseLRCTimeTag converts a bracketed LRC time tag to seconds.
// Returns false for anything that is not a recognized tag body.
func parseLRCTimeTag(tag string) (float64, bool) {
	body := strings.Trim(tag, "[]")

	if m := lrcTagFull.FindStringSubmatch(body); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		fraction, _ := strconv.Atoi(m[3])
		return float64(minutes*60+seconds) + float64(fraction)/100, true
	}

	if m := lrcTagShort.FindStringSubmatch(body); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		return float64(minutes*60 + seconds), true
	}

	return 0, false
}

// parseLRC extracts every time tag on every physical line. A line with N tags
// yields N entries sharing the same text; lines without tags (metadata such
// as [ti:...]) are dropped. Output is stable-sorted ascending by time.
func parseLRC(raw string) []Line {
	result := []Line{}

	for _, physical := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(physical)
		if trimmed == "" {
			continue
		}

		var times []float64
		for _, tag := range lrcTagPattern.FindAllString(trimmed, -1) {
			if t, ok := parseLRCTimeTag(tag); ok {
				times = append(times, t)
			}
		}

		text := strings.TrimSpace(lrcTagPattern.ReplaceAllString(trimmed, ""))
		if text == "" || len(times) == 0 {
			continue
		}

		for _, t := range times {
			tt := t
			result = append(result, Line{Time: &tt, Text: text})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return *result[i].Time < *result[j].Time
	})

	return result
}

// parseSRTTime converts HH:MM:SS,mmm (or with a dot) to seconds
func parseSRTTime(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	m := srtTime.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	millis, _ := strconv.Atoi(m[4])
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, true
}

// parseSRT scans numbered cues sequentially. A cue whose timestamp line is
// missing or unparseable is skipped entirely, never partially included.
func parseSRT(raw string) []Line {
	lines := strings.Split(raw, "\n")
	result := []Line{}

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if line == "" || !numericLine.MatchString(line) {
			i++
			continue
		}

		// sequence number consumed, next line must be the timestamp pair
		i++
		if i >= len(lines) {
			break
		}
		timeLine := strings.TrimSpace(lines[i])
		i++

		m := srtTimePair.FindStringSubmatch(timeLine)
		if m == nil {
			continue
		}
		start, okStart := parseSRTTime(m[1])
		end, okEnd := parseSRTTime(m[2])
		if !okStart || !okEnd {
			continue
		}

		var textLines []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			textLines = append(textLines, strings.TrimSpace(lines[i]))
			i++
		}

		if len(textLines) == 0 {
			continue
		}

		startCopy, endCopy := start, end
		result = append(result, Line{
			Time:    &startCopy,
			EndTime: &endCopy,
			Text:    strings.Join(textLines, "\n"),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return *result[i].Time < *result[j].Time
	})

	return result
}

// parsePlain turns each non-blank physical line into an untimed entry
func parsePlain(raw string) []Line {
	result := []Line{}
	for _, physical := range strings.Split(raw, "\n") {
		text := strings.TrimSpace(physical)
		if text == "" {
			continue
		}
		result = append(result, Line{Text: text})
	}
	return result
}

// FindCurrentLineIndex returns the index of the latest line whose time is at
// or before currentTime, or -1 if there is none. Plain documents (nil times)
// always yield -1.
func FindCurrentLineIndex(lines []Line, currentTime float64) int {
	if len(lines) == 0 || lines[0].Time == nil {
		return -1
	}

	lo, hi := 0, len(lines)-1
	result := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if *lines[mid].Time <= currentTime {
			result = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return result
}
