package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"musespark-backend/internal/model"
	"musespark-backend/internal/storage"
	"musespark-backend/pkg/logger"
)

// load restores both collections. Missing or corrupt blobs start empty and
// never block startup.
func (a *App) load() {
	var sessions []model.ChatSession
	if err := readBlob(a.store, storage.KeySessions, &sessions); err != nil {
		logger.Errorf("Failed to load sessions, starting empty: %v", err)
	} else if sessions != nil {
		a.st.sessions = sessions
	}

	var saved []model.SavedInspiration
	if err := readBlob(a.store, storage.KeyInspirations, &saved); err != nil {
		logger.Errorf("Failed to load inspirations, starting empty: %v", err)
	} else if saved != nil {
		a.st.saved = saved
	}
	logger.Infof("Loaded %d sessions and %d inspirations", len(a.st.sessions), len(a.st.saved))
}

func (a *App) persist(key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("Failed to encode %s: %v", key, err)
		return
	}
	if err := a.store.Write(key, data); err != nil {
		logger.Errorf("Failed to persist %s: %v", key, err)
	}
}

// readBlob leaves v untouched when the blob does not exist.
func readBlob(store storage.Storage, key string, v interface{}) error {
	data, err := store.Read(key)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", storage.ErrInvalidData, key, err)
	}
	return nil
}

// LoadInspirations reads the saved-inspiration collection without starting
// an App.
func LoadInspirations(store storage.Storage) ([]model.SavedInspiration, error) {
	saved := []model.SavedInspiration{}
	if err := readBlob(store, storage.KeyInspirations, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}
