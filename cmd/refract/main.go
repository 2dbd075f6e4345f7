package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gorefract/adapters/excel"
	"gorefract/adapters/postgres"
	"gorefract/app"
	"gorefract/domain/duochrome"
	"gorefract/internal"
	"gorefract/internal/config"
	"gorefract/internal/errors"
	"gorefract/internal/estimator"
	"gorefract/internal/modelstore"
	"gorefract/internal/training"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var logger = internal.NewDefaultLogger()

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "refract",
		Short: "Corrective lens power estimation from Snellen and duochrome measurements",
	}

	rootCmd.AddCommand(
		newPredictCmd(),
		newTrainCmd(),
		newHistoryCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// eyeFlags collects one eye's duochrome responses from the command line
type eyeFlags struct {
	red       bool
	green     bool
	equal     bool
	intensity int
	letters   int
}

func (f *eyeFlags) response() duochrome.Response {
	return duochrome.Response{
		RedClearer:     f.red,
		GreenClearer:   f.green,
		EqualClarity:   f.equal,
		IntensityLevel: f.intensity,
		LettersCorrect: f.letters,
	}
}

func registerEyeFlags(cmd *cobra.Command, prefix string, flags *eyeFlags) {
	cmd.Flags().BoolVar(&flags.red, prefix+"-red", false, "red field clearer ("+prefix+" eye)")
	cmd.Flags().BoolVar(&flags.green, prefix+"-green", false, "green field clearer ("+prefix+" eye)")
	cmd.Flags().BoolVar(&flags.equal, prefix+"-equal", false, "both fields equally clear ("+prefix+" eye)")
	cmd.Flags().IntVar(&flags.intensity, prefix+"-intensity", 3, "duochrome intensity level 1-5 ("+prefix+" eye)")
	cmd.Flags().IntVar(&flags.letters, prefix+"-letters", 0, "letters read correctly ("+prefix+" eye)")
}

func newPredictCmd() *cobra.Command {
	var snellenRE, snellenLE, subject string
	var re, le eyeFlags

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the spherical prescription for both eyes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			predictor, err := buildPredictor(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			// Persist the exam when a subject is given and a database is
			// configured; otherwise run a pure prediction.
			if subject != "" && cfg.Database.URL != "" {
				db, err := connectDatabase(cfg)
				if err != nil {
					return err
				}
				defer db.Close()

				examService := app.NewExamService(predictor, postgres.NewExamRepository(db))
				exam, err := examService.RecordExam(cmd.Context(), subject, snellenRE, snellenLE, re.response(), le.response())
				if err != nil {
					return err
				}
				logger.Info("exam %s recorded for subject %s", exam.ID, subject)
				return printJSON(exam)
			}

			input, err := predictor.PrepareInput(snellenRE, snellenLE, re.response(), le.response())
			if err != nil {
				return err
			}
			result, err := predictor.Predict(input)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&snellenRE, "snellen-re", "", "Snellen fraction for the right eye, e.g. 6/12")
	cmd.Flags().StringVar(&snellenLE, "snellen-le", "", "Snellen fraction for the left eye, e.g. 6/9")
	cmd.Flags().StringVar(&subject, "subject", "", "subject reference; when set the exam is stored")
	registerEyeFlags(cmd, "re", &re)
	registerEyeFlags(cmd, "le", &le)
	cmd.MarkFlagRequired("snellen-re")
	cmd.MarkFlagRequired("snellen-le")

	return cmd
}

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Fit the per-eye baseline models from stored exams",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := connectDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			store, err := modelstore.NewFileStore(cfg.Models.Dir)
			if err != nil {
				return err
			}

			trainer := training.NewTrainer(postgres.NewExamRepository(db), store)
			result, err := trainer.Train(cmd.Context())
			if err != nil {
				return err
			}

			logger.Info("trained both eyes on %d exams (%d skipped)", result.SampleCount, result.Skipped)
			return printJSON(result)
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var subject string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a subject's stored exams, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := connectDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			exams, err := postgres.NewExamRepository(db).ListBySubject(cmd.Context(), subject, limit, offset)
			if err != nil {
				return err
			}
			return printJSON(exams)
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "subject reference")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum exams to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	cmd.MarkFlagRequired("subject")

	return cmd
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export exam history and model diagnostics to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := connectDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			exams, err := postgres.NewExamRepository(db).ListAll(cmd.Context())
			if err != nil {
				return err
			}

			artifacts := loadArtifacts(cmd.Context(), cfg)

			if err := excel.NewReportWriter(out).WriteReport(exams, artifacts); err != nil {
				return err
			}
			logger.Info("exported %d exams to %s", len(exams), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "refract-report.xlsx", "output .xlsx path")

	return cmd
}

// buildPredictor loads the fitted models and assembles the combined
// predictor. Missing artifacts surface as MODEL_UNAVAILABLE.
func buildPredictor(ctx context.Context, cfg *config.Config) (*app.CombinedPredictor, error) {
	store, err := modelstore.NewFileStore(cfg.Models.Dir)
	if err != nil {
		return nil, err
	}

	pair, err := store.LoadPair(ctx)
	if err != nil {
		return nil, err
	}

	registry := estimator.NewRegistry()
	if err := registry.Swap(pair); err != nil {
		return nil, err
	}

	return app.NewCombinedPredictor(
		cfg.Predictor.SnellenWeight,
		cfg.Predictor.DuochromeWeight,
		registry.RightEstimator(),
		registry.LeftEstimator(),
	), nil
}

// loadArtifacts fetches whatever model artifacts exist; the export still
// works before the first training run.
func loadArtifacts(ctx context.Context, cfg *config.Config) []*estimator.ModelArtifact {
	store, err := modelstore.NewFileStore(cfg.Models.Dir)
	if err != nil {
		return nil
	}

	var artifacts []*estimator.ModelArtifact
	for _, eye := range []string{"RE", "LE"} {
		artifact, err := store.Load(ctx, eye)
		if err != nil {
			logger.Warn("no model artifact for eye %s: %v", eye, err)
			continue
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts
}

func connectDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
