package lyrics

// Package lyrics parses time-coded (LRC and subtitle-cue) or plain lyric
// text into an ordered, time-searchable line sequence, and fetches raw lyric
// text from LRCLib. Parsing never fails; malformed lines are dropped.
