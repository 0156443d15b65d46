package services

import (
	"fmt"
	"testing"
	"time"
)

type slamStubStore struct {
	docs map[string]*UserSlamData
}

func newSlamStubStore() *slamStubStore {
	return &slamStubStore{docs: map[string]*UserSlamData{}}
}

func (s *slamStubStore) GetSlamData(ownerKey string) (*UserSlamData, error) {
	d, ok := s.docs[ownerKey]
	if !ok {
		return nil, nil
	}
	cp := *d
	cp.Answers = append([]SlamAnswer(nil), d.Answers...)
	return &cp, nil
}

func (s *slamStubStore) SetSlamData(ownerKey string, data *UserSlamData) error {
	s.docs[ownerKey] = data
	return nil
}

func (s *slamStubStore) AppendAnswer(ownerKey string, answer SlamAnswer) error {
	d, ok := s.docs[ownerKey]
	if !ok {
		return NewNotFoundError("slam book does not exist")
	}
	d.Answers = append(d.Answers, answer)
	return nil
}

func newTestSlamService(store SlamStore) *SlamService {
	svc := NewSlamService(store)
	svc.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	n := 0
	svc.idGen = func() string { n++; return fmt.Sprintf("ans%03d", n) }
	return svc
}

func TestSaveConfigPreservesAnswers(t *testing.T) {
	store := newSlamStubStore()
	svc := newTestSlamService(store)

	if _, err := svc.SaveConfig("owner1", "me@example.com", ConfigDraft{Title: "First", Questions: []string{"Q1", "Q2"}}); err != nil {
		t.Fatalf("initial save: %v", err)
	}
	if _, err := svc.SubmitAnswer("owner1", "Alice", map[string]string{"Q1": "hi"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	cfg, err := svc.SaveConfig("owner1", "me@example.com", ConfigDraft{Title: "Second", Questions: []string{"Q3"}})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if cfg.Title != "Second" || len(cfg.Questions) != 1 {
		t.Fatalf("config not replaced wholesale: %+v", cfg)
	}
	if cfg.ID != "owner1" || cfg.CreatorEmail != "me@example.com" || cfg.ThemeColor != DefaultThemeColor {
		t.Fatalf("restamped fields wrong: %+v", cfg)
	}

	data, err := svc.Fetch("owner1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if data.Config.Title != "Second" {
		t.Fatalf("config overwrite lost: %+v", data.Config)
	}
	if len(data.Answers) != 1 || data.Answers[0].FriendName != "Alice" {
		t.Fatalf("answers not preserved across config save: %+v", data.Answers)
	}
}

func TestSaveConfigValidation(t *testing.T) {
	svc := newTestSlamService(newSlamStubStore())

	if _, err := svc.SaveConfig("owner1", "me@example.com", ConfigDraft{Title: "T"}); err == nil {
		t.Fatalf("expected error for zero-question draft")
	}
	if _, err := svc.SaveConfig("", "me@example.com", ConfigDraft{Questions: []string{"Q"}}); err == nil {
		t.Fatalf("expected error for missing owner")
	}

	cfg, err := svc.SaveConfig("owner1", "me@example.com", ConfigDraft{Title: "   ", Questions: []string{"Q"}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if cfg.Title != DefaultTitle {
		t.Fatalf("blank title should fall back to default, got %q", cfg.Title)
	}
}

func TestSubmitAnswerRequiresDocument(t *testing.T) {
	svc := newTestSlamService(newSlamStubStore())
	_, err := svc.SubmitAnswer("ghost", "Alice", nil)
	if err == nil {
		t.Fatalf("expected not-found for unknown owner")
	}
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found code, got %v", err)
	}
}

func TestSubmitAnswerWithZeroQuestions(t *testing.T) {
	store := newSlamStubStore()
	svc := newTestSlamService(store)
	// a degenerate config with no questions is valid in storage even if
	// the authoring UI refuses to save one
	store.docs["owner1"] = &UserSlamData{Config: &SlamBookConfig{ID: "owner1", Questions: nil}}

	ans, err := svc.SubmitAnswer("owner1", "  Bob  ", nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ans.FriendName != "Bob" {
		t.Fatalf("name not trimmed: %q", ans.FriendName)
	}
	if ans.Answers == nil || len(ans.Answers) != 0 {
		t.Fatalf("expected stored empty answer map, got %#v", ans.Answers)
	}
	if ans.ID == "" {
		t.Fatalf("answer id missing")
	}

	if _, err := svc.SubmitAnswer("owner1", "   ", nil); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestFormNotFoundStates(t *testing.T) {
	store := newSlamStubStore()
	svc := newTestSlamService(store)

	if _, err := svc.Form("ghost"); err == nil {
		t.Fatalf("expected not-found for missing document")
	}
	// uninitialized document (answers without config) is also terminal
	store.docs["owner1"] = &UserSlamData{}
	if _, err := svc.Form("owner1"); err == nil {
		t.Fatalf("expected not-found for nil config")
	}

	store.docs["owner2"] = &UserSlamData{Config: &SlamBookConfig{ID: "owner2", Title: "T", Questions: []string{"Q"}}}
	form, err := svc.Form("owner2")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.Title != "T" || len(form.Questions) != 1 {
		t.Fatalf("unexpected form: %+v", form)
	}
}

func TestDraftQuestionOps(t *testing.T) {
	d := ConfigDraft{Questions: []string{"A", "B", "C"}}

	if err := d.AddQuestion("  D  "); err != nil {
		t.Fatalf("add: %v", err)
	}
	if d.Questions[3] != "D" {
		t.Fatalf("custom question not trimmed/appended: %v", d.Questions)
	}
	if err := d.AddQuestion("   "); err == nil {
		t.Fatalf("expected error for blank question")
	}

	if err := d.RemoveQuestion(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(d.Questions) != 3 || d.Questions[1] != "C" {
		t.Fatalf("remove by position broken: %v", d.Questions)
	}
	if err := d.RemoveQuestion(9); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
}

func TestToggleSuggestedTwice(t *testing.T) {
	d := ConfigDraft{Questions: []string{"A", "B", "C"}}

	d.ToggleSuggested("A")
	if len(d.Questions) != 2 || d.Questions[0] != "B" {
		t.Fatalf("toggle-off broken: %v", d.Questions)
	}
	d.ToggleSuggested("A")
	if len(d.Questions) != 3 {
		t.Fatalf("toggle-on broken: %v", d.Questions)
	}
	// re-added question lands at the end, not its original position
	if d.Questions[2] != "A" {
		t.Fatalf("re-added question should append at end: %v", d.Questions)
	}

	// toggling a duplicated question removes every occurrence
	dup := ConfigDraft{Questions: []string{"X", "Y", "X"}}
	dup.ToggleSuggested("X")
	if len(dup.Questions) != 1 || dup.Questions[0] != "Y" {
		t.Fatalf("duplicate removal broken: %v", dup.Questions)
	}
}

func TestBuildAnswerPagesOrphans(t *testing.T) {
	data := &UserSlamData{
		Config: &SlamBookConfig{Questions: []string{"Q1", "Q3"}},
		Answers: []SlamAnswer{
			{ID: "a1", FriendName: "Alice", Answers: map[string]string{"Q1": "one", "Q2": "orphaned"}},
			{ID: "a2", FriendName: "Bob", Answers: map[string]string{}},
		},
	}
	pages := BuildAnswerPages(data)
	if len(pages) != 2 {
		t.Fatalf("want 2 pages, got %d", len(pages))
	}

	p := pages[0]
	if len(p.Entries) != 2 {
		t.Fatalf("entries must follow current questions: %+v", p.Entries)
	}
	if p.Entries[0].Question != "Q1" || !p.Entries[0].Answered || p.Entries[0].Answer != "one" {
		t.Fatalf("answered entry wrong: %+v", p.Entries[0])
	}
	// Q2's stored value is orphaned: still in the answer map, never rendered
	for _, e := range p.Entries {
		if e.Question == "Q2" {
			t.Fatalf("orphaned question must not render: %+v", p.Entries)
		}
	}
	if p.Entries[1].Question != "Q3" || p.Entries[1].Answered {
		t.Fatalf("missing value should be unanswered: %+v", p.Entries[1])
	}

	if got := BuildAnswerPages(&UserSlamData{}); got != nil {
		t.Fatalf("nil config should yield no pages, got %v", got)
	}
}

func TestShareLink(t *testing.T) {
	if got := ShareLink("https://slam.example.com/", "owner1"); got != "https://slam.example.com/#/fill/owner1" {
		t.Fatalf("unexpected share link: %s", got)
	}
	if got := ShareLink("http://localhost:8080", "u42"); got != "http://localhost:8080/#/fill/u42" {
		t.Fatalf("unexpected share link: %s", got)
	}
}
