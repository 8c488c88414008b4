package wkt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/claude/crank/internal/models"
)

// timestampLayouts are tried in order against a workout's header line.
var timestampLayouts = []string{
	"2006 Jan 2 @ 1504",
	"2 Jan 2006 @ 1504",
	"2 January 2006 @ 1504",
	"2Jan2006@1504",
	"2Jan2006 @ 1504",
	"2006 January 2 @ 1504",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Blocks splits a logbook into workouts: runs of non-blank lines separated
// by blank lines. Lines are trimmed.
func Blocks(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	var blocks [][]string
	var current []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading logbook: %w", err)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks, nil
}

// ParseTimestamp parses a workout header such as "2015 Oct 19 @ 1800".
func ParseTimestamp(line string) (time.Time, error) {
	line = strings.TrimSpace(line)
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, line)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", line)
}

// isTag reports whether line is a "- key: value" annotation.
func isTag(line string) bool {
	return strings.HasPrefix(line, "-")
}

// parseTags consumes leading tag lines and returns the rest.
// "- unit: kg" stores unit=kg; "- felt slow" is a comment.
func parseTags(lines []string) (models.Tags, []string) {
	var tags models.Tags
	i := 0
	for ; i < len(lines) && isTag(lines[i]); i++ {
		if tags == nil {
			tags = models.Tags{}
		}
		body := strings.TrimSpace(strings.TrimLeft(lines[i], "- "))
		key, value, ok := strings.Cut(body, ":")
		if !ok {
			tags.Add(models.CommentTag, body)
			continue
		}
		tags.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return tags, lines[i:]
}
