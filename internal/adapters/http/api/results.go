// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"

	"github.com/campuslabs/clubpulse/internal/adapters/output"
	"github.com/campuslabs/clubpulse/internal/domain/model"
)

// timeFormat is the wire format for run timestamps.
const timeFormat = time.RFC3339

// Download file names offered to browsers.
const (
	rankingsDownloadName = "all_clubs_rankings.csv"
	winnersDownloadName  = "category_winners.csv"
)

// ResultsHandler exposes the latest completed run.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// scoredDTO mirrors the combined score table row.
type scoredDTO struct {
	Club          string  `json:"club_name"`
	Category      string  `json:"category"`
	Popularity    float64 `json:"popularity_score"`
	Participation float64 `json:"participation_score"`
	Sentiment     float64 `json:"sentiment_score"`
	Engagement    int     `json:"engagement_score"`
	Activity      int     `json:"activity_score"`
	CategoryScore float64 `json:"category_score"`
	OverallScore  float64 `json:"overall_score"`
	OverallRank   int     `json:"overall_rank"`
}

// bestDTO identifies the club ranked first overall.
type bestDTO struct {
	Club         string  `json:"club_name"`
	OverallScore float64 `json:"overall_score"`
}

// winnerDTO mirrors the per-category winner table row.
type winnerDTO struct {
	Category      string  `json:"category"`
	Club          string  `json:"club_name"`
	CategoryScore float64 `json:"category_score"`
	OverallScore  float64 `json:"overall_score"`
}

type resultsResponse struct {
	RunID       string      `json:"run_id"`
	CompletedAt string      `json:"completed_at"`
	Scores      []scoredDTO `json:"scores"`
	Winners     []winnerDTO `json:"winners"`
}

// HandleResults handles GET /results requests.
func (h *ResultsHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	result, err := h.deps.Latest(r.Context())
	if err != nil {
		if isNoResults(err) {
			writeError(w, http.StatusNotFound, "no_results", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "results_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{
		RunID:       result.RunID,
		CompletedAt: result.CompletedAt.Format(timeFormat),
		Scores:      toScoredDTOs(result.Scores),
		Winners:     toWinnerDTOs(result.Winners),
	})
}

// HandleRankingsCSV handles GET /results/rankings.csv requests.
func (h *ResultsHandler) HandleRankingsCSV(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, rankingsDownloadName, func(res resultsSnapshot) []byte {
		return output.RenderScores(res.scores)
	})
}

// HandleWinnersCSV handles GET /results/winners.csv requests.
func (h *ResultsHandler) HandleWinnersCSV(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, winnersDownloadName, func(res resultsSnapshot) []byte {
		return output.RenderWinners(res.winners)
	})
}

type resultsSnapshot struct {
	scores  []model.ScoredClub
	winners []model.CategoryWinner
}

func (h *ResultsHandler) serveCSV(w http.ResponseWriter, r *http.Request, name string, render func(resultsSnapshot) []byte) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	result, err := h.deps.Latest(r.Context())
	if err != nil {
		if isNoResults(err) {
			writeError(w, http.StatusNotFound, "no_results", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "results_failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(render(resultsSnapshot{scores: result.Scores, winners: result.Winners}))
}

func toScoredDTOs(scores []model.ScoredClub) []scoredDTO {
	out := make([]scoredDTO, 0, len(scores))
	for _, s := range scores {
		out = append(out, scoredDTO{
			Club:          s.Club,
			Category:      s.Category,
			Popularity:    s.Popularity,
			Participation: s.Participation,
			Sentiment:     s.Sentiment,
			Engagement:    s.Engagement,
			Activity:      s.Activity,
			CategoryScore: s.CategoryScore,
			OverallScore:  s.OverallScore,
			OverallRank:   s.OverallRank,
		})
	}
	return out
}

func toWinnerDTOs(winners []model.CategoryWinner) []winnerDTO {
	out := make([]winnerDTO, 0, len(winners))
	for _, win := range winners {
		out = append(out, winnerDTO{
			Category:      win.Category,
			Club:          win.Club,
			CategoryScore: win.CategoryScore,
			OverallScore:  win.OverallScore,
		})
	}
	return out
}
