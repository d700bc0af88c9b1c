package service

import (
	"context"
	"strings"
	"sync"

	"github.com/KaduPegasus/Frango-supremo/internal/links"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/storage"
)

// BusinessInfoStore holds the single business info record.
type BusinessInfoStore struct {
	mu   sync.RWMutex
	docs DocumentStore
	info model.BusinessInfo
}

func NewBusinessInfoStore(ctx context.Context, docs DocumentStore, fallback model.BusinessInfo) *BusinessInfoStore {
	info := fallback
	if !docs.Load(ctx, storage.DocBusinessInfo, &info) {
		info = fallback
	}
	return &BusinessInfoStore{docs: docs, info: info}
}

func (s *BusinessInfoStore) Get() model.BusinessInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Save replaces the whole record.
func (s *BusinessInfoStore) Save(ctx context.Context, info model.BusinessInfo) (model.BusinessInfo, error) {
	info.Name = strings.TrimSpace(info.Name)
	if info.Name == "" {
		return model.BusinessInfo{}, ErrBusinessNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
	s.docs.Save(ctx, storage.DocBusinessInfo, s.info)
	return s.info, nil
}

// BusinessInfoView adds the derived contact links.
type BusinessInfoView struct {
	model.BusinessInfo
	OpeningHoursLines []string `json:"opening_hours_lines"`
	WhatsAppURL       string   `json:"whatsapp_url,omitempty"`
	MapsURL           string   `json:"maps_url,omitempty"`
	PhoneURL          string   `json:"phone_url,omitempty"`
}

func NewBusinessInfoView(info model.BusinessInfo) BusinessInfoView {
	v := BusinessInfoView{BusinessInfo: info, OpeningHoursLines: info.OpeningHoursLines()}
	if v.OpeningHoursLines == nil {
		v.OpeningHoursLines = []string{}
	}
	if info.WhatsApp != "" {
		v.WhatsAppURL = links.WhatsAppChat(info.WhatsApp)
	}
	if info.Address != "" {
		v.MapsURL = links.MapsSearch(info.Address)
	}
	if info.Phone != "" {
		v.PhoneURL = links.Tel(info.Phone)
	}
	return v
}
