package services

import "time"

const (
	// DefaultTitle is used when the owner saves a config without a title.
	DefaultTitle = "My Sweet Memories"
	// DefaultThemeColor is the only theme currently shipped.
	DefaultThemeColor = "pink"
)

// SuggestedQuestions is the fixed set offered in the authoring view.
// Toggling one of these adds or removes it from the draft.
var SuggestedQuestions = []string{
	"Full Name",
	"Your Nickname",
	"Date of Birth",
	"Zodiac Sign",
	"Favorite Color",
	"Hobby",
	"Best Memory with Me",
	"First Impression of Me",
	"One word to describe me",
	"My biggest strength",
	"My funniest habit",
	"Your message for me",
	"Favorite song right now",
}

// SlamBookConfig is the owner-controlled half of a slam-book document.
// ID always equals the document key (the owner's user id).
type SlamBookConfig struct {
	ID           string    `json:"id"`
	CreatorEmail string    `json:"creator_email"`
	Title        string    `json:"title"`
	ThemeColor   string    `json:"theme_color"`
	Questions    []string  `json:"questions"`
	CreatedAt    time.Time `json:"created_at"`
}

// SlamAnswer is one respondent's filled page. Answers are keyed by the
// question text itself, so renaming or removing a question orphans the
// values recorded under the old text (they stay stored, but the review
// view only iterates the current question list). Known limitation.
type SlamAnswer struct {
	ID          string            `json:"id"`
	FriendName  string            `json:"friend_name"`
	Answers     map[string]string `json:"answers"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// UserSlamData is the per-owner document. A nil Config means the owner
// has not created a slam book yet; that is a legitimate state, distinct
// from a config with zero questions.
type UserSlamData struct {
	Config  *SlamBookConfig `json:"config"`
	Answers []SlamAnswer    `json:"answers"`
}

// User is an owner account.
type User struct {
	ID        string
	Email     string
	PassHash  []byte
	CreatedAt time.Time
}
