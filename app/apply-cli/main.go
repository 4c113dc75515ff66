package main

import (
	"context"
	"flag"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/hirex/config"
	"github.com/yoockh/hirex/internal/apply"
	"github.com/yoockh/hirex/internal/logger"
	"github.com/yoockh/hirex/internal/scoring"
)

func main() {
	var (
		apiURL   = flag.String("api", envOr("HIREX_API_URL", "http://localhost:8080"), "hirex API base URL")
		token    = flag.String("token", os.Getenv("HIREX_TOKEN"), "bearer token of the applicant")
		jobID    = flag.String("job", "", "job id to apply for")
		file     = flag.String("resume", "", "path to the resume (PDF or Word)")
		name     = flag.String("name", "", "applicant full name")
		email    = flag.String("email", "", "applicant email")
		phone    = flag.String("phone", "", "applicant phone")
		logLevel = flag.String("log-level", "", "log level")
	)
	flag.Parse()

	log := logger.New(*logLevel)
	if *jobID == "" || *file == "" || *token == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.WithError(err).Fatal("read resume")
	}

	sc := config.LoadScoring()
	hc := &http.Client{}
	orchestrator := scoring.NewOrchestrator(
		scoring.NewRankingClient(sc.RankingURL, hc),
		scoring.NewSimilarityClient(sc.SimilarityURL, hc),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apply.NewClient(*apiURL, *token, orchestrator, hc, log)
	app, err := client.Apply(ctx, *jobID, apply.Applicant{
		FullName: *name,
		Email:    *email,
		Phone:    *phone,
	}, apply.Resume{
		Filename:    filepath.Base(*file),
		ContentType: mime.TypeByExtension(filepath.Ext(*file)),
		Data:        data,
	})
	if err != nil {
		log.WithError(err).Fatal("application failed")
	}

	log.WithFields(logrus.Fields{
		"application_id": app.ID.Hex(),
		"status":         app.Status,
	}).Info("application submitted")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
