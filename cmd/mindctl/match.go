package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindfolk/internal/domain"
	"mindfolk/internal/repository"
	"mindfolk/internal/service"
)

// Scenario siembra terapeutas aprobados y un cliente, y verifica quien encabeza el feed.
type Scenario struct {
	Name        string
	Client      domain.AssessmentPreferences
	Therapists  []domain.TherapistProfile
	ExpectFirst string // Name del terapeuta esperado primero; vacio = feed vacio
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Matching diagnostics",
}

var matchCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Seed known scenarios and verify who tops the discover feed",
	RunE:  runMatchCheck,
}

func init() {
	matchCmd.AddCommand(matchCheckCmd)
	rootCmd.AddCommand(matchCmd)
}

func runMatchCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger()
	defer logger.Sync()

	cfg, pool, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	quiet := zap.NewNop()
	userRepo := repository.NewPgUserRepository(pool)
	therapistRepo := repository.NewPgTherapistRepository(pool)
	assessmentSvc := service.NewAssessmentService(quiet, repository.NewPgAssessmentRepository(pool), service.NewMemoryDraftStore(time.Hour), nil)
	therapistSvc := service.NewTherapistService(quiet, therapistRepo, nil)
	discoverSvc := service.NewDiscoverService(quiet, assessmentSvc, therapistRepo, cfg.MatchWeights, cfg.DiscoverCandidates, cfg.DiscoverDefaultSize)

	scenarios := []Scenario{
		{
			Name: "Estilo de comunicacion decide",
			Client: domain.AssessmentPreferences{
				CommunicationStyle: []string{"Warm and Empathetic"},
				Languages:          []string{"Spanish"},
			},
			Therapists: []domain.TherapistProfile{
				{Name: "Directa", Personality: []string{"Direct and Structured"}, Languages: []string{"Spanish"}},
				{Name: "Calida", Personality: []string{"Warm and Empathetic"}, Languages: []string{"Spanish"}},
			},
			ExpectFirst: "Calida",
		},
		{
			Name: "Idioma obligatorio filtra",
			Client: domain.AssessmentPreferences{
				Languages:        []string{"Portuguese"},
				LanguageRequired: true,
			},
			Therapists: []domain.TherapistProfile{
				{Name: "Solo ingles", Languages: []string{"English"}},
			},
			ExpectFirst: "",
		},
		{
			Name: "Presupuesto excluye tarifas altas",
			Client: domain.AssessmentPreferences{
				BudgetRange:  []string{"Under $80"},
				TherapyGoals: []string{"Anxiety"},
			},
			Therapists: []domain.TherapistProfile{
				{Name: "Cara", Specialties: []string{"Anxiety"}, HourlyRate: 150},
				{Name: "Accesible", Specialties: []string{"Anxiety"}, HourlyRate: 60},
			},
			ExpectFirst: "Accesible",
		},
	}

	passed := 0
	total := len(scenarios)

	for _, sc := range scenarios {
		logger.Debug("running scenario", zap.String("scenario", sc.Name))

		run := uuid.NewString()
		clientID, err := createUser(ctx, userRepo, run, "client", domain.RoleClient)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL [%s] create client: %v\n\n", sc.Name, err)
			continue
		}

		seeded := make(map[string]string, len(sc.Therapists))
		var seedErr error
		for i, t := range sc.Therapists {
			uid, err := createUser(ctx, userRepo, run, fmt.Sprintf("t%d", i), domain.RoleTherapist)
			if err != nil {
				seedErr = err
				break
			}
			profile, err := therapistSvc.UpsertMine(ctx, uid, t)
			if err != nil {
				seedErr = err
				break
			}
			if err := therapistSvc.SetStatus(ctx, profile.ID, domain.TherapistStatusApproved); err != nil {
				seedErr = err
				break
			}
			seeded[profile.ID] = t.Name
		}
		if seedErr != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL [%s] seed therapists: %v\n\n", sc.Name, seedErr)
			continue
		}

		if _, err := assessmentSvc.Save(ctx, clientID, sc.Client); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL [%s] save assessment: %v\n\n", sc.Name, err)
			continue
		}

		cards, err := discoverSvc.Feed(ctx, clientID, 100)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL [%s] feed: %v\n\n", sc.Name, err)
			continue
		}

		// La base puede tener otros aprobados; solo cuentan los sembrados en esta corrida.
		first := ""
		for _, card := range cards {
			if name, ok := seeded[card.Therapist.ID]; ok {
				first = name
				fmt.Fprintf(cmd.OutOrStdout(), "  %s score=%d overlay=%s\n", name, card.CompatibilityScore, card.Overlay.Rule)
				break
			}
		}

		if first == sc.ExpectFirst {
			fmt.Fprintf(cmd.OutOrStdout(), "PASS [%s] esperado=%q obtenido=%q\n\n", sc.Name, sc.ExpectFirst, first)
			passed++
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL [%s] esperado=%q obtenido=%q\n\n", sc.Name, sc.ExpectFirst, first)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Tests: %d/%d pasaron\n", passed, total)
	if passed != total {
		return fmt.Errorf("%d scenario(s) failed", total-passed)
	}
	return nil
}

func createUser(ctx context.Context, repo repository.UserRepository, run, tag string, role domain.Role) (string, error) {
	id := uuid.NewString()
	user := domain.User{
		ID:          id,
		Email:       fmt.Sprintf("match_%s_%s@example.com", tag, run),
		DisplayName: tag,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	return id, repo.Create(ctx, user)
}
