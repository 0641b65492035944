package report

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// NarrationCap bounds the rolling narration feed shown to the user.
const NarrationCap = 8

// Canned user-visible messages. Exactly one of the two closing remarks is
// selected per finished run, keyed on whether the shortlist produced any
// usable rows.
const (
	NoBidsMessage         = "Scan finished with no matching bids. Try broader keywords or a longer day window."
	RemarkEmptyShortlist  = "Run complete, but the shortlist came back empty - no bid produced a usable fit score."
	RemarkShortlistFilled = "Run complete. The shortlist is ranked and ready for review."
)

// Narration is a bounded rolling feed of status lines appended at run
// transition points. Oldest entries drop first.
type Narration struct {
	mu      sync.Mutex
	entries []string
	total   int
}

// Add appends one line, trimming the feed to NarrationCap.
func (n *Narration) Add(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.total++
	n.entries = append(n.entries, line)
	if len(n.entries) > NarrationCap {
		n.entries = n.entries[len(n.entries)-NarrationCap:]
	}
}

// Addf appends a formatted line.
func (n *Narration) Addf(format string, args ...any) {
	n.Add(fmt.Sprintf(format, args...))
}

// Entries returns a copy of the current feed, oldest first.
func (n *Narration) Entries() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.entries...)
}

// Total counts every line ever added, including ones the cap dropped.
// Consumers streaming the feed use it to tell new lines from rotation.
func (n *Narration) Total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.total
}

// Row is one ranked shortlist entry parsed from the server's CSV artifact.
type Row struct {
	BidID          string
	Decision       string
	FitScore       float64
	Summary        string
	ReportJSONPath string
}

// ParseShortlistCSV parses the shortlist CSV body. Rows missing a bid id or
// carrying an unparsable fit score are dropped rather than failing the whole
// artifact; the remaining rows keep their file order.
func ParseShortlistCSV(content string) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse shortlist csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	idIdx, ok := col["bid_id"]
	if !ok {
		return nil, fmt.Errorf("parse shortlist csv: missing bid_id column")
	}
	scoreIdx, ok := col["fit_score"]
	if !ok {
		return nil, fmt.Errorf("parse shortlist csv: missing fit_score column")
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var rows []Row
	for _, record := range records[1:] {
		if idIdx >= len(record) || scoreIdx >= len(record) {
			continue
		}
		bidID := strings.TrimSpace(record[idIdx])
		if bidID == "" {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(record[scoreIdx]), 64)
		if err != nil {
			continue
		}
		rows = append(rows, Row{
			BidID:          bidID,
			Decision:       field(record, "decision"),
			FitScore:       score,
			Summary:        field(record, "summary"),
			ReportJSONPath: field(record, "report_json_path"),
		})
	}
	return rows, nil
}

// BestRow returns the row with the highest fit score. Ties keep the first
// row encountered in iteration order; the input is never re-sorted.
func BestRow(rows []Row) (Row, bool) {
	if len(rows) == 0 {
		return Row{}, false
	}

	best := rows[0]
	for _, row := range rows[1:] {
		if row.FitScore > best.FitScore {
			best = row
		}
	}
	return best, true
}

// ClosingRemark selects the final user-visible message for a finished run.
func ClosingRemark(rows []Row) string {
	if len(rows) == 0 {
		return RemarkEmptyShortlist
	}
	return RemarkShortlistFilled
}
