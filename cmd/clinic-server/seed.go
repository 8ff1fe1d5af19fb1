package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
	"github.com/clinicdesk/clinicdesk/internal/domain/recommendation"
	"github.com/clinicdesk/clinicdesk/internal/domain/scheduling"
	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo doctors, patients, appointments and recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return seed(ctx, pool)
		},
	}
}

type seedDoctor struct {
	email, first, last, specialty string
}

type seedPatient struct {
	email, first, last string
	condition          string
}

var seedDoctors = []seedDoctor{
	{"sarah.mitchell@clinicdesk.dev", "Sarah", "Mitchell", "Cardiology"},
	{"james.okafor@clinicdesk.dev", "James", "Okafor", "Neurology"},
	{"elena.rossi@clinicdesk.dev", "Elena", "Rossi", "Dermatology"},
}

var seedPatients = []seedPatient{
	{"john.baker@example.com", "John", "Baker", "Hypertension"},
	{"maria.santos@example.com", "Maria", "Santos", "Migraine"},
	{"wei.chen@example.com", "Wei", "Chen", "Eczema"},
	{"fatima.khan@example.com", "Fatima", "Khan", "Arrhythmia"},
	{"liam.murphy@example.com", "Liam", "Murphy", "Psoriasis"},
}

var seedTips = []string{
	"Walk at least 30 minutes every day",
	"Reduce salt intake to under 5g per day",
	"Keep a headache diary for the next month",
	"Apply moisturizer twice daily",
	"Schedule a follow-up blood pressure check",
}

const seedPassword = "changeme-demo"

// seed loads a small demo dataset. Existing rows with the same emails cause
// it to fail; run it against a fresh database.
func seed(ctx context.Context, pool *pgxpool.Pool) error {
	txRunner := func(ctx context.Context, fn func(context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}

	userRepo := identity.NewUserRepoPG(pool)
	doctorRepo := identity.NewDoctorRepoPG(pool)
	patientRepo := identity.NewPatientRepoPG(pool)
	identitySvc := identity.NewService(userRepo, doctorRepo, patientRepo, identity.TxRunner(txRunner))

	apptRepo := scheduling.NewAppointmentRepoPG(pool)
	schedulingSvc := scheduling.NewService(apptRepo, scheduling.NewDirectoryPG(pool), scheduling.TxRunner(txRunner))

	recSvc := recommendation.NewService(recommendation.NewRepoPG(pool), recommendation.NewDirectoryPG(pool))

	var doctors []*identity.Doctor
	var doctorPrincipals []auth.Principal
	for _, sd := range seedDoctors {
		u, err := identitySvc.Register(ctx, identity.RegisterInput{
			Email:     sd.email,
			Password:  seedPassword,
			FirstName: sd.first,
			LastName:  sd.last,
			Role:      auth.RoleDoctor,
			Specialty: sd.specialty,
		})
		if err != nil {
			return fmt.Errorf("seed doctor %s: %w", sd.email, err)
		}
		d, err := doctorRepo.GetByUserID(ctx, u.ID)
		if err != nil {
			return err
		}
		doctors = append(doctors, d)
		doctorPrincipals = append(doctorPrincipals, auth.Principal{UserID: u.ID, Role: auth.RoleDoctor})
		fmt.Printf("doctor %s %s (%s)\n", sd.first, sd.last, sd.specialty)
	}

	var patients []*identity.Patient
	for i, sp := range seedPatients {
		doctor := doctorPrincipals[i%len(doctorPrincipals)]
		in := identity.CreatePatientInput{
			Email:     sp.email,
			Password:  seedPassword,
			FirstName: sp.first,
			LastName:  sp.last,
		}
		condition := sp.condition
		in.History = &identity.HistoryInput{Conditions: &condition}

		p, err := identitySvc.CreatePatient(ctx, doctor, in)
		if err != nil {
			return fmt.Errorf("seed patient %s: %w", sp.email, err)
		}
		patients = append(patients, p)
		fmt.Printf("patient %s %s\n", sp.first, sp.last)
	}

	// A week of upcoming slots, one per patient with their assigned doctor.
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	for i, p := range patients {
		doctor := doctors[i%len(doctors)]
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		if _, err := schedulingSvc.Propose(ctx, doctorPrincipals[i%len(doctorPrincipals)], scheduling.ProposeInput{
			DoctorID:  doctor.ID,
			PatientID: p.ID,
			StartTime: start,
			EndTime:   start.Add(30 * time.Minute),
			Type:      "checkup",
		}); err != nil {
			return fmt.Errorf("seed appointment for patient %d: %w", i, err)
		}
	}

	for i, p := range patients {
		tip := seedTips[i%len(seedTips)]
		if _, err := recSvc.Create(ctx, doctorPrincipals[i%len(doctorPrincipals)], recommendation.CreateInput{
			PatientID:   p.ID,
			Type:        "Lifestyle",
			Description: &tip,
		}); err != nil {
			return fmt.Errorf("seed recommendation for patient %d: %w", i, err)
		}
	}

	fmt.Println("seed complete")
	return nil
}
