package state

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/cppla/webblog/models"
)

// Drafts autosaves the create-post form into a single local storage slot.
type Drafts struct {
	browserID string
	store     LocalStore
	log       *zap.Logger
}

func NewDrafts(browserID string, store LocalStore, log *zap.Logger) *Drafts {
	if log == nil {
		log = zap.NewNop()
	}
	return &Drafts{browserID: browserID, store: store, log: log.With(zap.String("browser", browserID))}
}

// Update persists d when its title or content carries text, and removes the slot otherwise.
func (d *Drafts) Update(ctx context.Context, draft models.Draft) error {
	if draft.IsBlank() {
		return d.Clear(ctx)
	}
	b, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	if err := d.store.Set(ctx, d.browserID, KeyDraft, string(b)); err != nil {
		d.log.Warn("save draft failed", zap.Error(err))
		return err
	}
	return nil
}

// Restore returns the saved draft. A corrupt slot is removed and reported as no draft.
func (d *Drafts) Restore(ctx context.Context) (models.Draft, bool) {
	raw, err := d.store.Get(ctx, d.browserID, KeyDraft)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			d.log.Warn("read draft failed", zap.Error(err))
		}
		return models.Draft{}, false
	}
	var draft models.Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		d.log.Warn("discarding corrupt draft", zap.Error(err))
		_ = d.Clear(ctx)
		return models.Draft{}, false
	}
	return draft, true
}

func (d *Drafts) Clear(ctx context.Context) error {
	if err := d.store.Delete(ctx, d.browserID, KeyDraft); err != nil {
		d.log.Warn("clear draft failed", zap.Error(err))
		return err
	}
	return nil
}
