// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	service "github.com/campuslabs/clubpulse/internal/app"
	"github.com/campuslabs/clubpulse/internal/domain/model"
	"github.com/campuslabs/clubpulse/internal/ingest/chatlog"
	"github.com/campuslabs/clubpulse/internal/ingest/schema"
)

// defaultMaxUploadBytes caps multipart memory when no option is set.
const defaultMaxUploadBytes = 32 << 20

// Multipart field names accepted by POST /process.
const (
	fieldSurvey = "survey"
	fieldEvents = "events"
	fieldChats  = "chats"
)

// ProcessHandler handles scoring run requests.
type ProcessHandler struct {
	deps           Dependencies
	maxUploadBytes int64
}

// NewProcessHandler creates a new process handler.
func NewProcessHandler(deps Dependencies) *ProcessHandler {
	return &ProcessHandler{
		deps:           deps,
		maxUploadBytes: defaultMaxUploadBytes,
	}
}

// processResponse summarizes a completed run for the upload client.
type processResponse struct {
	RunID       string      `json:"run_id"`
	CompletedAt string      `json:"completed_at"`
	ClubsScored int         `json:"clubs_scored"`
	Categories  int         `json:"categories"`
	OverallBest *bestDTO    `json:"overall_best,omitempty"`
	Winners     []winnerDTO `json:"winners"`
}

// HandleProcess handles POST /process requests. The request is a
// multipart form with a required "survey" part, an optional "events"
// part and any number of "chats" parts.
func (h *ProcessHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_multipart", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	input, closeAll, err := h.buildInput(r.MultipartForm)
	// Parts opened before a failure still need closing.
	defer closeAll()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}

	result, err := h.deps.Run(r.Context(), input)
	if err != nil {
		var se *schema.Error
		switch {
		case errors.As(err, &se):
			writeError(w, http.StatusBadRequest, "invalid_schema", se)
		case errors.Is(err, service.ErrMissingSurvey):
			writeError(w, http.StatusBadRequest, "missing_survey", err)
		default:
			writeError(w, http.StatusInternalServerError, "run_failed", err)
		}
		return
	}

	resp := processResponse{
		RunID:       result.RunID,
		CompletedAt: result.CompletedAt.Format(timeFormat),
		ClubsScored: len(result.Scores),
		Categories:  countCategories(result.Scores),
		Winners:     toWinnerDTOs(result.Winners),
	}
	if best, ok := model.BestOverall(result.Scores); ok {
		resp.OverallBest = &bestDTO{Club: best.Club, OverallScore: best.OverallScore}
	}
	writeJSON(w, http.StatusOK, resp)
}

func countCategories(scores []model.ScoredClub) int {
	seen := make(map[string]struct{}, len(scores))
	for _, s := range scores {
		seen[s.Category] = struct{}{}
	}
	return len(seen)
}

// buildInput assembles a RunInput from the parsed multipart form. The
// returned closer releases every opened part.
func (h *ProcessHandler) buildInput(form *multipart.Form) (RunInput, func(), error) {
	var opened []io.Closer
	closeAll := func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}

	surveyHeaders := form.File[fieldSurvey]
	if len(surveyHeaders) == 0 {
		return RunInput{}, closeAll, ErrMissingSurvey
	}
	surveyFile, err := surveyHeaders[0].Open()
	if err != nil {
		return RunInput{}, closeAll, err
	}
	opened = append(opened, surveyFile)

	input := RunInput{Survey: surveyFile}

	if eventHeaders := form.File[fieldEvents]; len(eventHeaders) > 0 {
		eventFile, err := eventHeaders[0].Open()
		if err != nil {
			return RunInput{}, closeAll, err
		}
		opened = append(opened, eventFile)
		input.Events = eventFile
		input.EventsName = eventHeaders[0].Filename
	}

	for _, fh := range form.File[fieldChats] {
		fh := fh
		input.Chats = append(input.Chats, chatlog.File{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	return input, closeAll, nil
}
