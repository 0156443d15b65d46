package api

import (
	"errors"

	"github.com/slambookhq/slambook/internal/services"
	"github.com/slambookhq/slambook/internal/store"
)

// slamStoreAdapter binds the slam/export service store interfaces to
// the document store, converting between the service and record types
// and translating the store's not-found sentinel.
type slamStoreAdapter struct {
	store *store.Store
}

func newSlamStoreAdapter(st *store.Store) *slamStoreAdapter {
	return &slamStoreAdapter{store: st}
}

func (a *slamStoreAdapter) GetSlamData(ownerKey string) (*services.UserSlamData, error) {
	doc := a.store.GetSlam(ownerKey)
	if doc == nil {
		return nil, nil
	}
	return documentToData(doc), nil
}

func (a *slamStoreAdapter) SetSlamData(ownerKey string, data *services.UserSlamData) error {
	if data == nil {
		return services.NewInvalidError("document required")
	}
	a.store.SetSlam(ownerKey, dataToDocument(data))
	return nil
}

func (a *slamStoreAdapter) AppendAnswer(ownerKey string, answer services.SlamAnswer) error {
	err := a.store.AppendAnswer(ownerKey, answerToRecord(answer))
	if errors.Is(err, store.ErrNotFound) {
		return services.NewNotFoundError("slam book does not exist")
	}
	return err
}

var _ services.SlamStore = (*slamStoreAdapter)(nil)
var _ services.ExportStore = (*slamStoreAdapter)(nil)

func documentToData(doc *store.SlamDocument) *services.UserSlamData {
	out := &services.UserSlamData{}
	if doc.Config != nil {
		out.Config = &services.SlamBookConfig{
			ID:           doc.Config.ID,
			CreatorEmail: doc.Config.CreatorEmail,
			Title:        doc.Config.Title,
			ThemeColor:   doc.Config.ThemeColor,
			Questions:    doc.Config.Questions,
			CreatedAt:    doc.Config.CreatedAt,
		}
	}
	for _, a := range doc.Answers {
		out.Answers = append(out.Answers, services.SlamAnswer{
			ID:          a.ID,
			FriendName:  a.FriendName,
			Answers:     a.Answers,
			SubmittedAt: a.SubmittedAt,
		})
	}
	return out
}

func dataToDocument(data *services.UserSlamData) *store.SlamDocument {
	out := &store.SlamDocument{}
	if data.Config != nil {
		out.Config = &store.ConfigRecord{
			ID:           data.Config.ID,
			CreatorEmail: data.Config.CreatorEmail,
			Title:        data.Config.Title,
			ThemeColor:   data.Config.ThemeColor,
			Questions:    data.Config.Questions,
			CreatedAt:    data.Config.CreatedAt,
		}
	}
	for _, a := range data.Answers {
		out.Answers = append(out.Answers, answerToRecord(a))
	}
	return out
}

func answerToRecord(a services.SlamAnswer) store.AnswerRecord {
	return store.AnswerRecord{
		ID:          a.ID,
		FriendName:  a.FriendName,
		Answers:     a.Answers,
		SubmittedAt: a.SubmittedAt,
	}
}
