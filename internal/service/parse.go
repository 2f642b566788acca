package service

import (
	"strconv"
	"strings"

	"indyscope/internal/industry"
	"indyscope/internal/models"
)

// ParseBuildOrder splits pasted text into build-order lines. Grammar per
// line: item name followed by optional trailing "meN", "teN" and "xN"
// tokens in any order. Empty lines and #-comments are skipped.
//
//	Hobgoblin I me5 te10 x20
//	Small Shield Extender I Blueprint x3
func ParseBuildOrder(text string) []models.BuildOrderLine {
	var lines []models.BuildOrderLine
	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, parseLine(trimmed))
	}
	return lines
}

func parseLine(raw string) models.BuildOrderLine {
	line := models.BuildOrderLine{RawText: raw, Runs: 1}
	fields := strings.Fields(raw)

	// Consume recognized tokens from the tail; everything left is the name.
	for len(fields) > 0 {
		tok := strings.ToLower(fields[len(fields)-1])
		var consumed bool
		switch {
		case strings.HasPrefix(tok, "me"):
			if n, ok := parseTokenInt(tok[2:]); ok {
				line.MELevel = clampInt(n, 0, industry.MaxMELevel)
				consumed = true
			}
		case strings.HasPrefix(tok, "te"):
			if n, ok := parseTokenInt(tok[2:]); ok {
				line.TELevel = clampInt(n, 0, industry.MaxTELevel)
				consumed = true
			}
		case strings.HasPrefix(tok, "x"):
			if n, ok := parseTokenInt(tok[1:]); ok && n >= 1 {
				line.Runs = int64(n)
				consumed = true
			}
		}
		if !consumed {
			break
		}
		fields = fields[:len(fields)-1]
	}

	line.ItemName = strings.Join(fields, " ")
	return line
}

func parseTokenInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
