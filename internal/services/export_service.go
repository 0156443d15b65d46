package services

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// ExportStore abstracts the read path required by ExportService.
type ExportStore interface {
	GetSlamData(ownerKey string) (*UserSlamData, error)
}

// ExportService renders collected answers into downloadable files.
// Exports are serialized: the mutex admits one render at a time, so a
// second request waits for the in-flight one to finish. There is no
// cancellation; a started export runs to completion or failure.
type ExportService struct {
	store  ExportStore
	logger *zap.Logger

	mu sync.Mutex
}

func NewExportService(store ExportStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{store: store, logger: logger}
}

// ExportResult carries a rendered file plus metadata for the response.
type ExportResult struct {
	FileName  string
	PageCount int
	Data      []byte
}

// ExportBook renders the whole slam book: one physical page per answer,
// in submission order.
func (s *ExportService) ExportBook(ownerKey string) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, pages, err := s.loadPages(ownerKey)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, NewInvalidError("no answers to export")
	}
	out, pageCount, err := renderPDF(data.Config.Title, pages)
	if err != nil {
		s.logger.Error("book export failed", zap.String("owner", ownerKey), zap.Error(err))
		return nil, err
	}
	return &ExportResult{FileName: "slambook.pdf", PageCount: pageCount, Data: out}, nil
}

// ExportPage renders a single answer's page.
func (s *ExportService) ExportPage(ownerKey, answerID string) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, pages, err := s.loadPages(ownerKey)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		if p.AnswerID == answerID {
			out, pageCount, err := renderPDF(data.Config.Title, []AnswerPage{p})
			if err != nil {
				s.logger.Error("page export failed", zap.String("owner", ownerKey), zap.String("answer", answerID), zap.Error(err))
				return nil, err
			}
			return &ExportResult{FileName: "slambook-page.pdf", PageCount: pageCount, Data: out}, nil
		}
	}
	return nil, NewNotFoundError("answer not found")
}

// ExportCSV renders the long-format CSV of all answers.
func (s *ExportService) ExportCSV(ownerKey string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, pages, err := s.loadPages(ownerKey)
	if err != nil {
		return nil, err
	}
	return ExportAnswersCSV(pages)
}

func (s *ExportService) loadPages(ownerKey string) (*UserSlamData, []AnswerPage, error) {
	data, err := s.store.GetSlamData(ownerKey)
	if err != nil {
		return nil, nil, err
	}
	if data == nil || data.Config == nil {
		return nil, nil, NewNotFoundError("slam book does not exist")
	}
	return data, BuildAnswerPages(data), nil
}

const noAnswerPlaceholder = "(no answer)"

// renderPDF lays the pages out A4 portrait, one answer per page. Auto
// page breaks are disabled so the page count always equals the answer
// count; overly long answers are clipped rather than spilling over.
func renderPDF(title string, pages []AnswerPage) ([]byte, int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range pages {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 22)
		pdf.SetTextColor(219, 39, 119)
		pdf.CellFormat(0, 14, tr(title), "", 1, "C", false, 0, "")

		pdf.SetFont("Helvetica", "I", 11)
		pdf.SetTextColor(107, 114, 128)
		byline := fmt.Sprintf("Filled by %s on %s", page.FriendName, page.SubmittedAt.Format("Jan 2, 2006"))
		pdf.CellFormat(0, 7, tr(byline), "", 1, "C", false, 0, "")
		pdf.Ln(5)

		for i, e := range page.Entries {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(75, 85, 99)
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, e.Question)), "", "L", false)

			if e.Answered {
				pdf.SetFont("Helvetica", "", 12)
				pdf.SetTextColor(31, 41, 55)
				pdf.MultiCell(0, 7, tr(e.Answer), "B", "L", false)
			} else {
				pdf.SetFont("Helvetica", "I", 12)
				pdf.SetTextColor(156, 163, 175)
				pdf.MultiCell(0, 7, noAnswerPlaceholder, "B", "L", false)
			}
			pdf.Ln(3)
		}
	}

	pageCount := pdf.PageCount()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), pageCount, nil
}
