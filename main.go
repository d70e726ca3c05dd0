package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"devconnector/cache"
	"devconnector/confs"
	"devconnector/db"
	"devconnector/github"
	"devconnector/mail"
	"devconnector/server"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	var mailer mail.Sender = mail.LogSender{}
	if cfg.SMTPHost != "" {
		mailer = &mail.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.FromEmail,
			FromName: cfg.FromName,
		}
	} else {
		log.Println("SMTP_HOST not set, reset emails will be logged")
	}

	log.Printf("Caching GitHub responses for %s", cfg.GithubCacheTTL)
	githubCache := cache.NewTTLCache(cfg.GithubCacheTTL)
	repos := github.NewClient(cfg.GithubToken, githubCache)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run server
	srv := server.NewServer(cfg, database, server.Deps{Mailer: mailer, Repos: repos, GithubCache: githubCache})
	if err := srv.Start(ctx); err != nil {
		log.Printf("Server error: %v", err)
	}
}
