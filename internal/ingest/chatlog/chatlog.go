// Package chatlog aggregates exported chat transcripts, one file per club.
package chatlog

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/campuslabs/clubpulse/internal/domain/identity"
	"github.com/campuslabs/clubpulse/internal/domain/model"
	"github.com/campuslabs/clubpulse/pkg/logger"
	"github.com/campuslabs/clubpulse/pkg/metrics"
)

// EventKeywords flags a message line as event-related when its lower-cased
// text contains any member.
var EventKeywords = []string{
	"event", "workshop", "hackathon", "audition", "rehearsal", "match",
	"tournament", "seminar", "competition", "tryouts", "practice", "session",
	"register", "meet", "meetup", "talk", "webinar", "presentation", "contest",
}

// senderPattern captures the sender name between a hyphen and the next
// colon, the shape of exported transcript lines.
var senderPattern = regexp.MustCompile(`-\s*(.+?):`)

// File is one transcript to aggregate. The club identity comes from Name
// (base name, extension stripped); the content never names the club.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

// Aggregator parses chat transcript files into per-club aggregates.
type Aggregator struct {
	log logger.Logger
}

// NewAggregator creates a chat-log aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate processes every file and returns one ChatAggregate per club.
// Failure is isolated per club: a file that cannot be opened or read yields
// a fully zeroed aggregate for that club instead of aborting the batch.
func (a *Aggregator) Aggregate(ctx context.Context, files []File) map[string]model.ChatAggregate {
	out := make(map[string]model.ChatAggregate, len(files))
	for _, f := range files {
		if ctx.Err() != nil {
			return out
		}
		club := ClubKey(f.Name)
		agg, err := a.parseOne(f)
		if err != nil {
			metrics.RecordChatFileFailure()
			a.logger().Warn(ctx, "chat file unreadable, club degraded to zero aggregate",
				logger.String("club", club),
				logger.String("file", f.Name),
				logger.Error(err),
			)
			agg = model.ChatAggregate{}
		}
		agg.Club = club
		out[club] = agg
		metrics.RecordChatFileParsed()
	}
	return out
}

// AggregateDir aggregates every regular file in dir, for the batch CLI.
func (a *Aggregator) AggregateDir(ctx context.Context, dir string) (map[string]model.ChatAggregate, error) {
	files, err := DirFiles(dir)
	if err != nil {
		return nil, err
	}
	return a.Aggregate(ctx, files), nil
}

// DirFiles lists every regular file in dir as an openable File.
func DirFiles(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		files = append(files, File{
			Name: e.Name(),
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
		})
	}
	return files, nil
}

func (a *Aggregator) parseOne(f File) (model.ChatAggregate, error) {
	rc, err := f.Open()
	if err != nil {
		return model.ChatAggregate{}, err
	}
	defer func() { _ = rc.Close() }()
	return Parse(rc)
}

// Parse scans one transcript. A line counts as a message iff it contains
// both a hyphen and a colon; anything else is silently dropped, including
// genuine multi-line continuations. The heuristic is brittle but kept
// exactly for compatibility with the legacy exporter.
func Parse(r io.Reader) (model.ChatAggregate, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var agg model.ChatAggregate
	senders := make(map[string]struct{})
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.Contains(line, "-") || !strings.Contains(line, ":") {
			continue
		}
		agg.MessageCount++
		if m := senderPattern.FindStringSubmatch(line); m != nil {
			senders[strings.TrimSpace(m[1])] = struct{}{}
		}
		if containsEventKeyword(line) {
			agg.EventMentionCount++
		}
	}
	if err := scanner.Err(); err != nil {
		return model.ChatAggregate{}, err
	}
	agg.UniqueSenderCount = len(senders)
	return agg, nil
}

// ClubKey derives the club identity from a transcript file name.
func ClubKey(name string) string {
	base := filepath.Base(name)
	return identity.Normalize(strings.TrimSuffix(base, filepath.Ext(base)))
}

func containsEventKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range EventKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (a *Aggregator) logger() logger.Logger {
	if a.log != nil {
		return a.log
	}
	return logger.Get()
}
