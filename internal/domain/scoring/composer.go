// Package scoring merges the per-source aggregates into the final
// composite table: category assignment, two-tier normalization, weighted
// scores, ranking, and per-category winner selection.
package scoring

import (
	"context"
	"sort"

	"github.com/campuslabs/clubpulse/internal/domain/model"
	"github.com/campuslabs/clubpulse/internal/domain/sentiment"
	"github.com/campuslabs/clubpulse/internal/domain/taxonomy"
)

// Weight vector keys. The keys mirror the source metric names so config
// files read naturally.
const (
	WeightHeard         = "heard"
	WeightParticipation = "participation"
	WeightSentiment     = "sentiment"
	WeightMessages      = "whatsapp_msgs"
	WeightEvents        = "event_count"
)

// DefaultPopularityCeiling is the fixed natural scale of the heard-often
// survey answer. Popularity divides by it instead of min-max scaling.
const DefaultPopularityCeiling = 5.0

// DefaultWeights sum to 1.0 by construction. They are applied as-is and
// never renormalized when a metric is missing.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		WeightHeard:         0.30,
		WeightParticipation: 0.30,
		WeightSentiment:     0.20,
		WeightMessages:      0.10,
		WeightEvents:        0.10,
	}
}

// Option applies a configuration option to the Composer.
type Option func(*Composer)

// WithWeights sets the shared weight vector for both scoring tiers.
func WithWeights(weights map[string]float64) Option {
	return func(c *Composer) {
		if len(weights) > 0 {
			c.weights = weights
		}
	}
}

// WithPopularityCeiling sets the fixed divisor for the popularity signal.
func WithPopularityCeiling(ceiling float64) Option {
	return func(c *Composer) {
		if ceiling > 0 {
			c.ceiling = ceiling
		}
	}
}

// WithTaxonomy sets the category taxonomy consulted in declaration order.
func WithTaxonomy(categories []taxonomy.Category) Option {
	return func(c *Composer) {
		c.assigner = taxonomy.NewAssigner(categories)
	}
}

// Composer computes the final scored table from source aggregates.
type Composer struct {
	weights  map[string]float64
	ceiling  float64
	assigner *taxonomy.Assigner
}

// NewComposer creates a composer with the default weights, ceiling, and
// taxonomy unless overridden by options.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		weights: DefaultWeights(),
		ceiling: DefaultPopularityCeiling,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.assigner == nil {
		c.assigner = taxonomy.NewAssigner(nil)
	}
	return c
}

// row carries one club through the merge and both scoring tiers.
type row struct {
	club          string
	heardMean     float64
	participation float64
	sentiment     float64
	messages      int
	events        int
	category      string
	categoryScore float64
	overallScore  float64
	overallRank   int
}

// Compose outer-joins the aggregates (every club present in any source gets
// exactly one row, missing sources zero-filled, sentiment defaulting to
// neutral), assigns categories, computes category-relative and global
// scores with the shared weight vector, ranks by overall score, and picks
// one winner per category.
//
// The full table is ordered by category ascending then category score
// descending; equal scores order by club key ascending so output is
// reproducible. Winner ties resolve the same way: lowest club key wins.
func (c *Composer) Compose(
	ctx context.Context,
	surveys map[string]model.SurveyAggregate,
	sentiments map[string]model.SentimentRecord,
	chats map[string]model.ChatAggregate,
	events map[string]model.EventLogAggregate,
) ([]model.ScoredClub, []model.CategoryWinner, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	rows := c.merge(surveys, sentiments, chats, events)
	c.scoreWithinCategories(rows)
	c.scoreGlobally(rows)
	rankOverall(rows)

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].category != rows[j].category {
			return rows[i].category < rows[j].category
		}
		if rows[i].categoryScore != rows[j].categoryScore {
			return rows[i].categoryScore > rows[j].categoryScore
		}
		return rows[i].club < rows[j].club
	})

	scored := make([]model.ScoredClub, len(rows))
	for i, r := range rows {
		scored[i] = model.ScoredClub{
			Club:          r.club,
			Category:      r.category,
			Popularity:    r.heardMean / c.ceiling,
			Participation: r.participation,
			Sentiment:     r.sentiment,
			Engagement:    r.messages,
			Activity:      r.events,
			CategoryScore: r.categoryScore,
			OverallScore:  r.overallScore,
			OverallRank:   r.overallRank,
		}
	}
	return scored, winners(rows), nil
}

// merge builds one row per club across the union of all source keys,
// filling each absent source with its defined defaults.
func (c *Composer) merge(
	surveys map[string]model.SurveyAggregate,
	sentiments map[string]model.SentimentRecord,
	chats map[string]model.ChatAggregate,
	events map[string]model.EventLogAggregate,
) []*row {
	keys := make(map[string]struct{})
	for k := range surveys {
		keys[k] = struct{}{}
	}
	for k := range sentiments {
		keys[k] = struct{}{}
	}
	for k := range chats {
		keys[k] = struct{}{}
	}
	for k := range events {
		keys[k] = struct{}{}
	}

	rows := make([]*row, 0, len(keys))
	for club := range keys {
		r := &row{club: club, sentiment: sentiment.Neutral}
		if s, ok := surveys[club]; ok {
			r.heardMean = s.HeardOftenMean
			r.participation = s.ParticipationMean
		}
		if s, ok := sentiments[club]; ok {
			r.sentiment = s.Score
		}
		if ch, ok := chats[club]; ok {
			r.messages = ch.MessageCount
		}
		if ev, ok := events[club]; ok {
			r.events = ev.EventCount
		}
		r.category = c.assigner.Assign(club, events[club].GroupingText)
		rows = append(rows, r)
	}
	return rows
}

// scoreWithinCategories computes category_score per group: popularity by
// fixed ceiling, sentiment as-is, the three group-relative metrics min-max
// scaled within the category (a flat group normalizes to 0 for everyone).
func (c *Composer) scoreWithinCategories(rows []*row) {
	groups := make(map[string][]*row)
	for _, r := range rows {
		groups[r.category] = append(groups[r.category], r)
	}
	for _, group := range groups {
		participation := minMaxNorm(collect(group, func(r *row) float64 { return r.participation }))
		messages := minMaxNorm(collect(group, func(r *row) float64 { return float64(r.messages) }))
		events := minMaxNorm(collect(group, func(r *row) float64 { return float64(r.events) }))
		for i, r := range group {
			r.categoryScore = c.weigh(r.heardMean/c.ceiling, participation[i], r.sentiment, messages[i], events[i])
		}
	}
}

// scoreGlobally computes overall_score across the whole population.
// Unlike the category tier, the group-relative metrics use max-scaling
// (value / population max) without subtracting the minimum.
func (c *Composer) scoreGlobally(rows []*row) {
	participation := maxNorm(collect(rows, func(r *row) float64 { return r.participation }))
	messages := maxNorm(collect(rows, func(r *row) float64 { return float64(r.messages) }))
	events := maxNorm(collect(rows, func(r *row) float64 { return float64(r.events) }))
	for i, r := range rows {
		r.overallScore = c.weigh(r.heardMean/c.ceiling, participation[i], r.sentiment, messages[i], events[i])
	}
}

// weigh combines the five normalized metrics with the shared weight vector.
func (c *Composer) weigh(popularity, participation, sentimentScore, messages, events float64) float64 {
	return c.weights[WeightHeard]*popularity +
		c.weights[WeightParticipation]*participation +
		c.weights[WeightSentiment]*sentimentScore +
		c.weights[WeightMessages]*messages +
		c.weights[WeightEvents]*events
}

// winners picks the maximum category_score per category, ties resolved by
// lowest club key so repeated runs agree.
func winners(rows []*row) []model.CategoryWinner {
	best := make(map[string]*row)
	for _, r := range rows {
		cur, ok := best[r.category]
		if !ok || r.categoryScore > cur.categoryScore ||
			(r.categoryScore == cur.categoryScore && r.club < cur.club) {
			best[r.category] = r
		}
	}
	out := make([]model.CategoryWinner, 0, len(best))
	for _, r := range best {
		out = append(out, model.CategoryWinner{
			Category:      r.category,
			Club:          r.club,
			CategoryScore: r.categoryScore,
			OverallScore:  r.overallScore,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func collect(rows []*row, f func(*row) float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = f(r)
	}
	return out
}
