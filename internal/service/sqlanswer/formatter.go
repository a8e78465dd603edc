package sqlanswer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/pkg/log"
)

const maxDisplayRows = 10

// shape pairs a column predicate with its renderer. Shapes are evaluated in
// priority order; the first match wins, everything else falls through to the
// generic dump. Adding a new result shape means appending one entry here.
type shape struct {
	name   string
	match  func(cols map[string]bool, columns []string) bool
	render func(result core.QueryResult, rows []map[string]any) []string
}

var shapes = []shape{
	{
		name: "artist",
		match: func(cols map[string]bool, _ []string) bool {
			return cols["ARTIST_NAME"] && cols["ARTIST_FOLLOWERS"]
		},
		render: renderArtists,
	},
	{
		name: "track",
		match: func(cols map[string]bool, _ []string) bool {
			return cols["TRACK_NAME"] && cols["TRACK_POPULARITY"]
		},
		render: renderTracks,
	},
	{
		name: "engagement",
		match: func(cols map[string]bool, _ []string) bool {
			return cols["TOTAL_PLAYS"] || cols["SKIP_RATE_PERCENT"]
		},
		render: renderEngagement,
	},
	{
		name: "category-count",
		match: func(_ map[string]bool, columns []string) bool {
			if len(columns) != 2 {
				return false
			}
			for _, col := range columns {
				if strings.Contains(strings.ToLower(col), "count") {
					return true
				}
			}
			return false
		},
		render: renderCategoryCounts,
	},
}

// Format turns a query result into conversational text. It never fails: a
// rendering problem degrades to a raw dump of the first rows.
func Format(ctx context.Context, result core.QueryResult) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.FromCtx(ctx).Error().Interface("panic", r).Msg("result formatting failed")
			out = rawDump(result)
		}
	}()

	if len(result.Rows) == 0 {
		return "✅ I searched your data but didn't find any results for that question."
	}

	// Single value answers get a one-liner.
	if len(result.Rows) == 1 && len(result.Columns) == 1 {
		return fmt.Sprintf("📊 **Answer**: %s", formatValue(result.Rows[0][result.Columns[0]]))
	}

	display := result.Rows
	if len(display) > maxDisplayRows {
		display = display[:maxDisplayRows]
	}

	var lines []string
	rendered := false
	cols := make(map[string]bool, len(result.Columns))
	for _, c := range result.Columns {
		cols[c] = true
	}

	for _, s := range shapes {
		if s.match(cols, result.Columns) {
			lines = s.render(result, display)
			rendered = true
			break
		}
	}
	if !rendered {
		lines = renderGeneric(result, display)
	}

	if n := len(result.Rows) - maxDisplayRows; n > 0 {
		lines = append(lines, fmt.Sprintf("\n_... and %d more results_", n))
	}

	return strings.Join(lines, "\n")
}

func renderArtists(_ core.QueryResult, rows []map[string]any) []string {
	lines := []string{"🎤 **Artist Information:**"}
	for i, row := range rows {
		line := fmt.Sprintf("%d. **%s**", i+1, strOr(row, "ARTIST_NAME", "Unknown"))
		if followers := num(row, "ARTIST_FOLLOWERS"); followers > 0 {
			line += fmt.Sprintf(" - %s followers", groupInt(int64(followers)))
		}
		if popularity := num(row, "ARTIST_POPULARITY"); popularity > 0 {
			line += fmt.Sprintf(" (popularity: %d/100)", int64(popularity))
		}
		if tracks := num(row, "NUM_TRACKS"); tracks > 0 {
			line += fmt.Sprintf(" - %d tracks", int64(tracks))
		}
		lines = append(lines, line)
	}
	return lines
}

func renderTracks(_ core.QueryResult, rows []map[string]any) []string {
	lines := []string{"🎵 **Track Information:**"}
	for i, row := range rows {
		line := fmt.Sprintf("%d. **%s** by %s",
			i+1, strOr(row, "TRACK_NAME", "Unknown"), strOr(row, "ARTIST_NAME", "Unknown Artist"))
		if popularity := num(row, "TRACK_POPULARITY"); popularity > 0 {
			line += fmt.Sprintf(" (popularity: %d/100)", int64(popularity))
		}
		lines = append(lines, line)
	}
	return lines
}

func renderEngagement(_ core.QueryResult, rows []map[string]any) []string {
	lines := []string{"📊 **Listening Analytics:**"}
	for i, row := range rows {
		line := fmt.Sprintf("%d. **%s**", i+1, strOr(row, "TRACK_NAME", "Unknown"))
		if plays := num(row, "TOTAL_PLAYS"); plays > 0 {
			line += fmt.Sprintf(" - %s plays", groupInt(int64(plays)))
		}
		if skip := num(row, "SKIP_RATE_PERCENT"); skip > 0 {
			line += fmt.Sprintf(" (skip rate: %.1f%%)", skip)
		} else if completion := num(row, "COMPLETION_RATE_PERCENT"); completion > 0 {
			line += fmt.Sprintf(" (completion rate: %.1f%%)", completion)
		}
		lines = append(lines, line)
	}
	return lines
}

func renderCategoryCounts(result core.QueryResult, rows []map[string]any) []string {
	keyCol, countCol := result.Columns[0], result.Columns[1]
	if strings.Contains(strings.ToLower(keyCol), "count") {
		keyCol, countCol = countCol, keyCol
	}

	lines := []string{"📊 **Statistics:**"}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("• **%v**: %s", row[keyCol], formatValue(row[countCol])))
	}
	return lines
}

func renderGeneric(result core.QueryResult, rows []map[string]any) []string {
	lines := []string{fmt.Sprintf("📊 **Results** (%d found):", len(result.Rows))}
	for i, row := range rows {
		var items []string
		for _, col := range result.Columns {
			if row[col] == nil {
				continue
			}
			items = append(items, fmt.Sprintf("%s: %s", col, formatValue(row[col])))
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, strings.Join(items, " | ")))
	}
	return lines
}

func rawDump(result core.QueryResult) string {
	rows := result.Rows
	if len(rows) > 3 {
		rows = rows[:3]
	}
	return fmt.Sprintf("📊 **Results**: Found %d results, but had trouble formatting them. Raw data: %v",
		len(result.Rows), rows)
}

// num reads a column as float64, returning 0 for missing or non-numeric values.
func num(row map[string]any, col string) float64 {
	f, _ := asFloat(row[col])
	return f
}

func strOr(row map[string]any, col, fallback string) string {
	if s, ok := row[col].(string); ok && s != "" {
		return s
	}
	return fallback
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// formatValue renders a scalar for display: integers and large floats get
// thousands separators, fractions in (0,1) get two decimals.
func formatValue(v any) string {
	f, ok := asFloat(v)
	if !ok {
		return fmt.Sprintf("%v", v)
	}

	if f == float64(int64(f)) {
		return groupInt(int64(f))
	}
	if f > 0 && f < 1 {
		return strconv.FormatFloat(f, 'f', 2, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if f > -1000 && f < 1000 {
		return s
	}
	// Large fractional values still get a grouped integer part. Values past
	// int64 range render ungrouped.
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	whole, err := strconv.ParseInt(s[:dot], 10, 64)
	if err != nil {
		return s
	}
	return groupInt(whole) + s[dot:]
}

func groupInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
