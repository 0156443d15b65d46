package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

type exportStubStore struct {
	data *UserSlamData
}

func (s *exportStubStore) GetSlamData(ownerKey string) (*UserSlamData, error) {
	return s.data, nil
}

func exportFixture() *UserSlamData {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &UserSlamData{
		Config: &SlamBookConfig{ID: "owner1", Title: "My Sweet Memories", Questions: []string{"Q1", "Q2"}},
		Answers: []SlamAnswer{
			{ID: "a1", FriendName: "Alice", Answers: map[string]string{"Q1": "one", "Q2": "two"}, SubmittedAt: at},
			{ID: "a2", FriendName: "Bob", Answers: map[string]string{"Q1": "uno"}, SubmittedAt: at.Add(time.Minute)},
			{ID: "a3", FriendName: "Cleo", Answers: map[string]string{}, SubmittedAt: at.Add(2 * time.Minute)},
		},
	}
}

func TestExportBookOnePagePerAnswer(t *testing.T) {
	svc := NewExportService(&exportStubStore{data: exportFixture()}, nil)

	res, err := svc.ExportBook("owner1")
	if err != nil {
		t.Fatalf("export book: %v", err)
	}
	if res.PageCount != 3 {
		t.Fatalf("want 3 pages in submission order, got %d", res.PageCount)
	}
	if !bytes.HasPrefix(res.Data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if res.FileName != "slambook.pdf" {
		t.Fatalf("unexpected file name %q", res.FileName)
	}
}

func TestExportSinglePage(t *testing.T) {
	svc := NewExportService(&exportStubStore{data: exportFixture()}, nil)

	res, err := svc.ExportPage("owner1", "a2")
	if err != nil {
		t.Fatalf("export page: %v", err)
	}
	if res.PageCount != 1 {
		t.Fatalf("single-page export produced %d pages", res.PageCount)
	}
	if !bytes.HasPrefix(res.Data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}

	if _, err := svc.ExportPage("owner1", "ghost"); err == nil {
		t.Fatalf("expected not-found for unknown answer id")
	}
}

func TestExportEmptyAndMissing(t *testing.T) {
	empty := &UserSlamData{Config: &SlamBookConfig{ID: "owner1", Questions: []string{"Q"}}}
	svc := NewExportService(&exportStubStore{data: empty}, nil)
	if _, err := svc.ExportBook("owner1"); err == nil {
		t.Fatalf("expected error when no answers exist")
	}

	svc = NewExportService(&exportStubStore{data: nil}, nil)
	_, err := svc.ExportBook("ghost")
	if err == nil {
		t.Fatalf("expected not-found for missing document")
	}
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestExportCSVLongFormat(t *testing.T) {
	svc := NewExportService(&exportStubStore{data: exportFixture()}, nil)

	b, err := svc.ExportCSV("owner1")
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	recs, err := csv.NewReader(strings.NewReader(string(b))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// header + 3 answers x 2 questions
	if len(recs) != 1+6 {
		t.Fatalf("want 7 rows, got %d", len(recs))
	}
	if strings.Join(recs[0], ",") != "answer_id,friend_name,question,answer,submitted_at" {
		t.Fatalf("bad header: %v", recs[0])
	}
	if recs[1][0] != "a1" || recs[1][2] != "Q1" || recs[1][3] != "one" {
		t.Fatalf("bad first row: %v", recs[1])
	}
	// Bob left Q2 blank; the cell is empty, not dropped
	if recs[4][0] != "a2" || recs[4][2] != "Q2" || recs[4][3] != "" {
		t.Fatalf("bad unanswered row: %v", recs[4])
	}
}
