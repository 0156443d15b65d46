package services

import (
	"bytes"
	"encoding/csv"
	"time"
)

// AnswerRow is one respondent/question pair in the long-format CSV.
type AnswerRow struct {
	AnswerID    string
	FriendName  string
	Question    string
	Answer      string
	SubmittedAt string // ISO8601; string for CSV simplicity
}

// ExportAnswersCSV renders review pages into a long-format CSV, one row
// per question per answer, in submission then question order.
func ExportAnswersCSV(pages []AnswerPage) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"answer_id", "friend_name", "question", "answer", "submitted_at"})
	for _, p := range pages {
		for _, e := range p.Entries {
			rec := []string{
				p.AnswerID,
				p.FriendName,
				e.Question,
				e.Answer,
				p.SubmittedAt.Format(time.RFC3339),
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
