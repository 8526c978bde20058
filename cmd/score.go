package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/campuslabs/clubpulse/internal/adapters/repository"
	service "github.com/campuslabs/clubpulse/internal/app"
	"github.com/campuslabs/clubpulse/internal/config"
	"github.com/campuslabs/clubpulse/internal/domain/model"
	"github.com/campuslabs/clubpulse/internal/ingest/chatlog"
	"github.com/campuslabs/clubpulse/pkg/logger"
)

func runScore(ctx context.Context, surveyPath, eventsPath, chatDir, outDir string) error {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.Load(ctx, cfgFile)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	input := service.RunInput{}

	surveyFile, err := os.Open(surveyPath)
	if err != nil {
		return fmt.Errorf("open survey: %w", err)
	}
	defer func() { _ = surveyFile.Close() }()
	input.Survey = surveyFile

	if eventsPath != "" {
		eventsFile, err := os.Open(eventsPath)
		if err != nil {
			return fmt.Errorf("open events: %w", err)
		}
		defer func() { _ = eventsFile.Close() }()
		input.Events = eventsFile
		input.EventsName = eventsPath
	}

	if chatDir != "" {
		files, err := chatlog.DirFiles(chatDir)
		if err != nil {
			return fmt.Errorf("list chat dir: %w", err)
		}
		input.Chats = files
	}

	svc := service.New(
		service.WithLogger(logger.Get()),
		service.WithOutputDir(outDir),
		service.WithWeights(cfg.MetricWeights),
		service.WithPopularityCeiling(cfg.PopularityCeiling),
	)

	result, err := svc.Run(ctx, input)
	if err != nil {
		return err
	}

	printSummary(result)
	fmt.Printf("tables written to %s\n", filepath.Clean(outDir))
	return nil
}

// printSummary writes the ranked table, the overall best club and the
// per-category winners to stdout.
func printSummary(result repository.RunResult) {
	fmt.Printf("scored %d clubs (run %s)\n\n", len(result.Scores), result.RunID)

	ranked := make([]model.ScoredClub, len(result.Scores))
	copy(ranked, result.Scores)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].OverallRank != ranked[j].OverallRank {
			return ranked[i].OverallRank < ranked[j].OverallRank
		}
		return ranked[i].Club < ranked[j].Club
	})

	fmt.Printf("%4s  %-28s %-24s %14s %14s\n", "rank", "club", "category", "category_score", "overall_score")
	for _, s := range ranked {
		fmt.Printf("%4d  %-28s %-24s %14.4f %14.4f\n", s.OverallRank, s.Club, s.Category, s.CategoryScore, s.OverallScore)
	}

	if best, ok := model.BestOverall(result.Scores); ok {
		fmt.Printf("\noverall best: %s (%.4f)\n", best.Club, best.OverallScore)
	}

	fmt.Println("\ncategory winners:")
	for _, w := range result.Winners {
		fmt.Printf("  %-24s %s\n", w.Category+":", w.Club)
	}
}
