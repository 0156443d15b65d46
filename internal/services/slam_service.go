package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SlamStore abstracts persistence operations required by SlamService.
// GetSlamData returns (nil, nil) when no document exists for the key;
// AppendAnswer must be an additive merge on the stored answer array so
// concurrent respondents never overwrite each other.
type SlamStore interface {
	GetSlamData(ownerKey string) (*UserSlamData, error)
	SetSlamData(ownerKey string, data *UserSlamData) error
	AppendAnswer(ownerKey string, answer SlamAnswer) error
}

// SlamService hosts the slam-book document lifecycle: authoring the
// config, collecting answers, and reading the full document back.
type SlamService struct {
	store SlamStore
	now   func() time.Time
	idGen func() string
}

func NewSlamService(store SlamStore) *SlamService {
	return &SlamService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: defaultAnswerID,
	}
}

func defaultAnswerID() string { return shortID(12) }

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// ConfigDraft is the in-progress question set edited in the authoring
// view before it is saved as a SlamBookConfig.
type ConfigDraft struct {
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
}

// NewDraft returns the draft a first-time author starts from: the
// default title and the full suggested question set.
func NewDraft() ConfigDraft {
	return ConfigDraft{
		Title:     DefaultTitle,
		Questions: append([]string(nil), SuggestedQuestions...),
	}
}

// DraftFromConfig seeds a draft from a previously saved config.
func DraftFromConfig(cfg *SlamBookConfig) ConfigDraft {
	if cfg == nil {
		return NewDraft()
	}
	return ConfigDraft{
		Title:     cfg.Title,
		Questions: append([]string(nil), cfg.Questions...),
	}
}

// AddQuestion appends a custom question. Whitespace is trimmed and an
// empty result is rejected. Duplicates are allowed.
func (d *ConfigDraft) AddQuestion(q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return NewInvalidError("question text required")
	}
	d.Questions = append(d.Questions, q)
	return nil
}

// RemoveQuestion deletes the question at position i.
func (d *ConfigDraft) RemoveQuestion(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return NewInvalidError("question index out of range")
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	return nil
}

// ToggleSuggested removes every occurrence of q when present, otherwise
// appends it at the end. A re-added question therefore lands at the end
// of the list, not at its original position.
func (d *ConfigDraft) ToggleSuggested(q string) {
	kept := d.Questions[:0]
	found := false
	for _, existing := range d.Questions {
		if existing == q {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if found {
		d.Questions = kept
		return
	}
	d.Questions = append(d.Questions, q)
}

// SaveConfig builds a full SlamBookConfig from the draft and replaces
// the stored config wholesale, leaving any collected answers untouched.
// ID, CreatorEmail and CreatedAt are restamped on every save; CreatedAt
// is therefore the time of the last edit, not of first creation.
func (s *SlamService) SaveConfig(ownerKey, creatorEmail string, draft ConfigDraft) (*SlamBookConfig, error) {
	if strings.TrimSpace(ownerKey) == "" {
		return nil, NewUnauthorizedError("owner required")
	}
	if len(draft.Questions) == 0 {
		return nil, NewInvalidError("at least one question required")
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = DefaultTitle
	}
	cfg := &SlamBookConfig{
		ID:           ownerKey,
		CreatorEmail: creatorEmail,
		Title:        title,
		ThemeColor:   DefaultThemeColor,
		Questions:    append([]string(nil), draft.Questions...),
		CreatedAt:    s.now(),
	}

	existing, err := s.store.GetSlamData(ownerKey)
	if err != nil {
		return nil, err
	}
	var answers []SlamAnswer
	if existing != nil {
		answers = existing.Answers
	}
	if err := s.store.SetSlamData(ownerKey, &UserSlamData{Config: cfg, Answers: answers}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Fetch returns the owner's full document, or nil when none exists.
func (s *SlamService) Fetch(ownerKey string) (*UserSlamData, error) {
	if strings.TrimSpace(ownerKey) == "" {
		return nil, NewInvalidError("owner key required")
	}
	return s.store.GetSlamData(ownerKey)
}

// PublicForm is the respondent-facing questionnaire view. It exposes
// only what a respondent needs to render the page.
type PublicForm struct {
	OwnerKey     string   `json:"owner_key"`
	Title        string   `json:"title"`
	ThemeColor   string   `json:"theme_color"`
	CreatorEmail string   `json:"creator_email"`
	Questions    []string `json:"questions"`
}

// Form resolves the questionnaire a share link points at. A missing
// document or an uninitialized config both yield NotFound, which the
// fill page renders as a terminal "doesn't exist" state.
func (s *SlamService) Form(ownerKey string) (*PublicForm, error) {
	data, err := s.store.GetSlamData(ownerKey)
	if err != nil {
		return nil, err
	}
	if data == nil || data.Config == nil {
		return nil, NewNotFoundError("slam book does not exist")
	}
	return &PublicForm{
		OwnerKey:     ownerKey,
		Title:        data.Config.Title,
		ThemeColor:   data.Config.ThemeColor,
		CreatorEmail: data.Config.CreatorEmail,
		Questions:    append([]string(nil), data.Config.Questions...),
	}, nil
}

// SubmitAnswer records one respondent's page. The answer id and
// timestamp are generated here; answers may be empty (an owner with
// zero configured questions still accepts submissions). The append goes
// through the store's additive primitive, never read-modify-write.
func (s *SlamService) SubmitAnswer(ownerKey, friendName string, answers map[string]string) (*SlamAnswer, error) {
	friendName = strings.TrimSpace(friendName)
	if friendName == "" {
		return nil, NewInvalidError("name required")
	}
	if answers == nil {
		answers = map[string]string{}
	}
	ans := SlamAnswer{
		ID:          s.idGen(),
		FriendName:  friendName,
		Answers:     answers,
		SubmittedAt: s.now(),
	}
	if err := s.store.AppendAnswer(ownerKey, ans); err != nil {
		return nil, err
	}
	return &ans, nil
}

// ShareLink builds the copy-pasteable fill URL for an owner. The format
// is stable: hash routing, no signing, no expiry.
func ShareLink(origin, ownerKey string) string {
	return strings.TrimRight(origin, "/") + "/#/fill/" + ownerKey
}

// PageEntry is one question/answer pair on a rendered answer page.
// Answered is false when the respondent's map has no value under the
// question text, which is expected for questions added after the
// submission or orphaned by a later edit.
type PageEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Answered bool   `json:"answered"`
}

// AnswerPage is one respondent's sub-page in the review view.
type AnswerPage struct {
	AnswerID    string      `json:"answer_id"`
	FriendName  string      `json:"friend_name"`
	SubmittedAt time.Time   `json:"submitted_at"`
	Entries     []PageEntry `json:"entries"`
}

// BuildAnswerPages projects the document into review pages, one per
// answer in submission order. Entries follow the current question
// order; values stored under removed questions are not shown.
func BuildAnswerPages(data *UserSlamData) []AnswerPage {
	if data == nil || data.Config == nil {
		return nil
	}
	pages := make([]AnswerPage, 0, len(data.Answers))
	for _, ans := range data.Answers {
		entries := make([]PageEntry, 0, len(data.Config.Questions))
		for _, q := range data.Config.Questions {
			v, ok := ans.Answers[q]
			entries = append(entries, PageEntry{Question: q, Answer: v, Answered: ok && v != ""})
		}
		pages = append(pages, AnswerPage{
			AnswerID:    ans.ID,
			FriendName:  ans.FriendName,
			SubmittedAt: ans.SubmittedAt,
			Entries:     entries,
		})
	}
	return pages
}
