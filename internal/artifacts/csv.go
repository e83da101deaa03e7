package artifacts

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// CSVContentType is the media type of ExportCSV output.
const CSVContentType = "text/csv; charset=utf-8"

// ExportCSV renders sessions as "week,day,session" rows with a header. Rows
// keep the order given.
func ExportCSV(sessions []domain.PlanSession) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"week", "day", "session"}); err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if err := w.Write([]string{strconv.Itoa(s.Week), s.Day, s.SessionText}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Key is the object key for a plan's CSV export.
func Key(userID int64, planID string) string {
	return "user_" + strconv.FormatInt(userID, 10) + "/plan_" + planID + ".csv"
}
