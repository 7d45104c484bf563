package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/utils/errutil"
)

// SettingsUseCase reads and writes the settings document
type SettingsUseCase interface {
	GetSettings(ctx context.Context) (*model.UserSettings, error)
	PutSettings(ctx context.Context, settings *model.UserSettings) (*model.UserSettings, error)
}

func getSettingsHandler(uc SettingsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		settings, err := uc.GetSettings(ctx)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to get settings"), http.StatusInternalServerError)
			return
		}

		respondJSON(w, r, http.StatusOK, settings)
	}
}

func putSettingsHandler(uc SettingsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var settings model.UserSettings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode settings"), http.StatusBadRequest)
			return
		}

		stored, err := uc.PutSettings(ctx, &settings)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to store settings"), http.StatusInternalServerError)
			return
		}

		respondJSON(w, r, http.StatusOK, stored)
	}
}
