package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	adapthttp "weightbattle/internal/adapter/http"
	"weightbattle/internal/adapter/postgres"
	"weightbattle/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "weightbattle",
	Short: "Weight battle competition tracker",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		db, svc := mustServices()
		defer func() { _ = db.Close() }()

		addr := env("ADDR", ":8080")
		webDir := env("WEB_DIR", "web")

		h := adapthttp.New(svc, webDir, log.StandardLogger()).Handler()
		log.WithField("addr", addr).Info("listening")
		if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo battle with four participants and eight weeks of data",
	Run: func(cmd *cobra.Command, args []string) {
		db, svc := mustServices()
		defer func() { _ = db.Close() }()

		if err := svc.Setup.LoadDemo(cmd.Context(), time.Now()); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Info("demo data loaded")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the current leaderboard",
	Run: func(cmd *cobra.Command, args []string) {
		db, svc := mustServices()
		defer func() { _ = db.Close() }()

		rows, err := svc.Scoring.Leaderboard(cmd.Context())
		if err != nil {
			log.Fatalf("leaderboard: %v", err)
		}
		renderLeaderboard(os.Stdout, rows)
	},
}

func renderLeaderboard(out *os.File, rows []app.LeaderboardRow) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Rank", "Name", "Wins", "Losses", "Start", "Current", "Change %"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, row := range rows {
		change := "-"
		if row.TotalPercentChange != nil {
			change = fmt.Sprintf("%+.2f", *row.TotalPercentChange)
		}
		table.Append([]string{
			fmt.Sprintf("%d", row.Rank),
			row.Name,
			fmt.Sprintf("%d", row.Wins),
			fmt.Sprintf("%d", row.Losses),
			fmt.Sprintf("%.1f", row.StartWeight),
			fmt.Sprintf("%.1f", row.CurrentWeight),
			change,
		})
	}
	table.Render()
}

func mustServices() (*postgres.DB, adapthttp.Services) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := postgres.Open(connStr)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	potRepo := postgres.NewPotRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	scoring := app.NewScoringService(db, db)
	pot := app.NewPotService(db, potRepo, db, scoring)
	users := app.NewUserService(db, auditRepo)
	weighIns := app.NewWeighInService(db, db, auditRepo, pot, scoring)
	prognosis := app.NewPrognosisService(db, db, db)
	overview := app.NewOverviewService(db, db, db, scoring, pot)
	setup := app.NewSetupService(db, db, auditRepo, weighIns)
	audit := app.NewAuditService(auditRepo)

	return db, adapthttp.Services{
		Users:     users,
		WeighIns:  weighIns,
		Scoring:   scoring,
		Pot:       pot,
		Prognosis: prognosis,
		Overview:  overview,
		Setup:     setup,
		Audit:     audit,
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// A missing .env file is fine, env vars win either way.
	_ = godotenv.Load()

	rootCmd.AddCommand(serveCmd, seedCmd, leaderboardCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
