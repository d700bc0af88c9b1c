package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/storage"
)

const maxRating = 5

// FeedbackStore collects customer feedback, newest first.
type FeedbackStore struct {
	mu    sync.RWMutex
	docs  DocumentStore
	items []model.Feedback
	now   func() time.Time
}

func NewFeedbackStore(ctx context.Context, docs DocumentStore) *FeedbackStore {
	var items []model.Feedback
	if !docs.Load(ctx, storage.DocFeedbacks, &items) {
		items = nil
	}
	return &FeedbackStore{docs: docs, items: items, now: time.Now}
}

// Submit stores a rating (0 meaning none) and message. At least one of
// the two is required.
func (s *FeedbackStore) Submit(ctx context.Context, rating int, message string) (model.Feedback, error) {
	message = strings.TrimSpace(message)
	if rating < 0 || rating > maxRating {
		return model.Feedback{}, ErrInvalidRating
	}
	if rating == 0 && message == "" {
		return model.Feedback{}, ErrEmptyFeedback
	}

	fb := model.Feedback{Rating: rating, Message: message, Date: s.now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]model.Feedback{fb}, s.items...)
	s.docs.Save(ctx, storage.DocFeedbacks, s.items)
	return fb, nil
}

func (s *FeedbackStore) List() []model.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Feedback, len(s.items))
	copy(out, s.items)
	return out
}
