package utils

import (
	"regexp"
	"strings"
)

var (
	illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRuns       = regexp.MustCompile(`\s+`)
)

func SanitizeFilename(name string) string {
	name = illegalFilenameChars.ReplaceAllString(name, "_")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
