package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/equilog/ride-telemetry-go/internal/clock"
	"github.com/equilog/ride-telemetry-go/internal/engine"
	"github.com/equilog/ride-telemetry-go/internal/locator"
	"github.com/equilog/ride-telemetry-go/internal/models"
)

var (
	replayUser      string
	replayHorse     string
	replayHorseName string
	replayType      string
)

var replayCmd = &cobra.Command{
	Use:   "replay <fixlog.jsonl>",
	Short: "Replay a recorded fix log through the engine and persist the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open fix log: %w", err)
		}
		defer f.Close()

		replay, err := locator.NewReplay(f)
		if err != nil {
			return err
		}

		repo, closer, err := openRepository()
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer()
		}

		// anchor the clock to the log's own timeline so segment times
		// line up with the replayed fixes
		var anchor int64
		if first, ok := replay.First(); ok {
			anchor = first.Timestamp
		}
		clk := clock.NewFake(anchor)

		th, err := cfg.Thresholds()
		if err != nil {
			return err
		}
		eng := engine.New(replay, repo, clk, engine.Config{
			Source:   cfg.Source,
			Gait:     th,
			WarmupMs: cfg.WarmupMs,
		})

		session, err := eng.Start(context.Background(), engine.StartParams{
			UserID:       replayUser,
			HorseID:      replayHorse,
			HorseName:    replayHorseName,
			TrainingType: replayType,
		})
		if err != nil {
			return err
		}

		go func() {
			for range session.Samples() {
			}
		}()

		<-replay.Done()
		if last, ok := replay.Last(); ok && last.Timestamp > anchor {
			clk.Advance(last.Timestamp - anchor)
		}

		record, err := session.Stop()
		if err != nil {
			return err
		}
		printSession(record)
		if dropped := session.Stats().Dropped(); dropped > 0 {
			fmt.Printf("dropped fixes:   %d of %d\n", dropped, replay.Len())
		}
		return nil
	},
}

func printSession(s *models.TrainingSession) {
	fmt.Printf("session:         %s\n", s.ID)
	fmt.Printf("duration:        %.1fs\n", s.Duration)
	fmt.Printf("distance:        %.1fm\n", s.Distance)
	fmt.Printf("average speed:   %.2f m/s\n", s.AverageSpeed)
	fmt.Printf("max speed:       %.2f m/s\n", s.MaxSpeed)
	fmt.Printf("samples:         %d\n", len(s.Path))
	if s.GaitAnalysis == nil {
		fmt.Println("gait analysis:   none (empty path)")
		return
	}
	a := s.GaitAnalysis
	fmt.Printf("predominant:     %s\n", a.PredominantGait)
	fmt.Printf("transitions:     %d\n", a.TransitionCount)
	for _, g := range models.GaitOrder {
		if a.GaitDurations[g] == 0 {
			continue
		}
		fmt.Printf("  %-7s %7.1fs  %5.1f%%\n", g, a.GaitDurations[g], a.GaitPercentages[g])
	}
}

func init() {
	replayCmd.Flags().StringVar(&replayUser, "user", "local", "user id recorded on the session")
	replayCmd.Flags().StringVar(&replayHorse, "horse", "", "horse id recorded on the session")
	replayCmd.Flags().StringVar(&replayHorseName, "horse-name", "", "horse name recorded on the session")
	replayCmd.Flags().StringVar(&replayType, "type", "training", "training type label")
	rootCmd.AddCommand(replayCmd)
}
