package localdump

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxNameLength caps sanitised names, in characters.
const MaxNameLength = 120

const fallbackName = "untitled"

var (
	// path separators, characters Windows refuses, control characters and any kind of space.
	unsafeRun      = regexp.MustCompile(`[\\/:*?"<>|\p{Cc}\p{Z}]+`)
	underscoreRuns = regexp.MustCompile(`_{2,}`)
)

// Sanitize turns a page title into something safe to use as a file or directory name.  It never
// fails and never returns an empty string, and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(title string) string {
	str := strings.TrimSpace(title)
	str = unsafeRun.ReplaceAllString(str, "_")
	str = underscoreRuns.ReplaceAllString(str, "_")
	str = strings.Trim(str, "_")

	if utf8.RuneCountInString(str) > MaxNameLength {
		str = strings.TrimRight(string([]rune(str)[:MaxNameLength]), "_")
	}

	if str == "" {
		return fallbackName
	}
	return str
}

// PageDirName is the directory name of one page: its ID and title, sanitised together.
func PageDirName(id, title string) string {
	return Sanitize(id + "_" + title)
}
