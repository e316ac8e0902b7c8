package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/virtuesense/capture-pipeline/clients"
	cfg "github.com/virtuesense/capture-pipeline/config"
	"github.com/virtuesense/capture-pipeline/session"
)

var (
	flagConfig   string
	flagFrames   string
	flagAudio    string
	flagDuration time.Duration
	flagQuestion string
	flagReport   string
)

func main() {
	root := &cobra.Command{
		Use:   "capture-pipeline",
		Short: "Live interview capture-and-analysis pipeline",
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.yaml")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one practice session against pre-captured media",
		RunE:  runSession,
	}
	runCmd.Flags().StringVar(&flagFrames, "frames", "", "directory of still frames (jpg/png)")
	runCmd.Flags().StringVar(&flagAudio, "audio", "", "audio file replayed as chunk captures")
	runCmd.Flags().DurationVar(&flagDuration, "duration", 30*time.Second, "how long to keep the session active")
	runCmd.Flags().StringVar(&flagQuestion, "question", "", "interview question to evaluate the answer against")
	runCmd.Flags().StringVar(&flagReport, "report", "", "write a session report to this yaml file")
	_ = runCmd.MarkFlagRequired("frames")
	_ = runCmd.MarkFlagRequired("audio")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*cfg.Root, error) {
	if flagConfig != "" {
		return cfg.LoadFile(flagConfig)
	}
	return cfg.Load()
}

func runSession(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(conf.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	http := clients.NewHTTP()
	remotes := session.Remotes{
		Emotion: session.FrameAnalyzerFunc(func(ctx context.Context, frame []byte) (*clients.EmotionResponse, error) {
			return http.AnalyzeEmotion(ctx, conf.Services.Emotion.URL, frame)
		}),
		Transcription: session.TranscriberFunc(func(ctx context.Context, audio []byte) (string, error) {
			return http.Transcribe(ctx, conf.Services.Transcription.URL, audio)
		}),
	}
	if conf.Services.Voice.URL != "" {
		remotes.Voice = session.VoiceAnalyzerFunc(func(ctx context.Context, audio []byte, transcript string, duration float64) (*clients.VoiceResponse, error) {
			return http.AnalyzeVoice(ctx, conf.Services.Voice.URL, audio, transcript, duration)
		})
	}
	if conf.Services.Evaluation.URL != "" {
		remotes.Evaluation = session.EvaluatorFunc(func(ctx context.Context, question, answer string) (*clients.Evaluation, error) {
			return http.EvaluateAnswer(ctx, conf.Services.Evaluation.URL, question, answer)
		})
	}

	opener := session.DeviceOpener(func(ctx context.Context) (session.Device, error) {
		return session.OpenFileDevice(flagFrames, flagAudio)
	})

	ctrl := session.NewController(conf, opener, remotes, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctrl.Start(ctx); err != nil {
		return err
	}

	deadline := time.NewTimer(flagDuration)
	defer deadline.Stop()
	select {
	case <-ctx.Done():
		log.Info("interrupted")
	case <-deadline.C:
	}

	ctrl.Stop()

	snap := ctrl.Snapshot()
	log.WithFields(logrus.Fields{
		"session_id": snap.SessionID,
		"elapsed":    snap.Elapsed.Round(time.Second).String(),
		"segments":   len(snap.Transcript),
		"overall":    snap.Summary.Overall,
		"confidence": fmt.Sprintf("%.1f", snap.Summary.AvgConfidence),
		"engagement": fmt.Sprintf("%.1f", snap.Summary.AvgEngagement),
		"composure":  fmt.Sprintf("%.1f", snap.Summary.AvgComposure),
	}).Info("session summary")

	for i := len(snap.Transcript) - 1; i >= 0; i-- {
		seg := snap.Transcript[i]
		fmt.Printf("[%s] %s\n", seg.Timestamp.Format("15:04:05"), seg.Text)
	}

	var eval *clients.Evaluation
	if flagQuestion != "" && len(snap.Transcript) > 0 {
		eval, err = ctrl.EvaluateAnswer(context.Background(), flagQuestion)
		if err != nil {
			log.WithError(err).Warn("answer evaluation failed")
			eval = nil
		} else {
			log.WithFields(logrus.Fields{
				"score":     eval.Score,
				"clarity":   eval.Clarity,
				"relevance": eval.Relevance,
			}).Info("answer evaluated")
			fmt.Printf("\nStrengths: %s\nImprovements: %s\nFeedback: %s\n",
				eval.Strengths, eval.Improvements, eval.Feedback)
		}
	}

	if flagReport != "" {
		if err := writeReport(flagReport, buildReport(snap, eval)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.WithField("path", flagReport).Info("report written")
	}
	return nil
}
