// Package model contains domain models passed between pipeline stages.
package model

// SurveyAggregate holds the per-club rollup of raw survey rows.
type SurveyAggregate struct {
	Club              string  // normalized club key
	HeardOftenMean    float64 // mean of the popularity-signal column (raw 0-5 scale)
	ParticipationMean float64 // mean of the participation-signal column
	NumResponses      int     // number of survey rows for the club
	FeedbackText      string  // space-joined non-empty feedback, in source-row order
}

// ChatAggregate holds the per-club rollup of one chat transcript file.
// The club key comes from the file name; the content never names the club.
type ChatAggregate struct {
	Club              string
	MessageCount      int // lines matching the hyphen+colon transcript heuristic
	UniqueSenderCount int
	EventMentionCount int // message lines containing an event keyword
}

// EventLogAggregate holds the per-club rollup of the event calendar.
type EventLogAggregate struct {
	Club         string
	EventCount   int    // row count, including rows with an empty title
	GroupingText string // lower-cased titles then descriptions, used only for category assignment
}

// SentimentRecord carries one club's normalized sentiment in [0,1].
// 0.5 means neutral/unknown, not the average of observed values.
type SentimentRecord struct {
	Club  string
	Score float64
}

// ScoredClub is the final composite row, one per club seen in any source.
type ScoredClub struct {
	Club          string
	Category      string
	Popularity    float64 // heard-often mean divided by the fixed survey ceiling
	Participation float64 // raw participation mean
	Sentiment     float64
	Engagement    int // chat message count
	Activity      int // event count
	CategoryScore float64
	OverallScore  float64
	OverallRank   int // 1 = best; tied scores share a rank
}

// CategoryWinner is one row of the winners table.
type CategoryWinner struct {
	Category      string
	Club          string
	CategoryScore float64
	OverallScore  float64
}

// BestOverall returns the club ranked first overall. Rank ties resolve
// to the lowest club key; ok is false for an empty table.
func BestOverall(scores []ScoredClub) (ScoredClub, bool) {
	var best ScoredClub
	found := false
	for _, s := range scores {
		if !found || s.OverallRank < best.OverallRank ||
			(s.OverallRank == best.OverallRank && s.Club < best.Club) {
			best = s
			found = true
		}
	}
	return best, found
}
