package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"board/pkg/api"
	"board/pkg/auth"
	"board/pkg/bootstrap"
	"board/pkg/censor"
	"board/pkg/storage"
	"board/pkg/storage/memdb"
	"board/pkg/storage/postgres"
)

const serviceName = "board"

type Config struct {
	LogLevel string `toml:"logLevel"`
	HTTPAddr string `toml:"httpAddr"`

	AdminEmail    string `toml:"adminEmail"`
	AdminPassword string `toml:"adminPassword"`
	AdminNickname string `toml:"adminNickname"`

	BannedWordsPath string `toml:"bannedWordsPath"`

	KafkaBrokers []string `toml:"kafkaBrokers"`
	KafkaTopic   string   `toml:"kafkaTopic"`

	Postgres struct {
		User   string `toml:"user"`
		Host   string `toml:"host"`
		Port   string `toml:"port"`
		DBName string `toml:"dbName"`
	} `toml:"postgres"`
}

func main() {
	var (
		configPath string
		dev        bool
		httpAddr   string
		logLevel   string
	)

	flag.StringVar(&configPath, "config", "cmd/server/config.toml", "Path to TOML config file")
	flag.BoolVar(&dev, "dev", false, "Run the server in development mode with in-memory DB.")
	flag.StringVar(&httpAddr, "http", "", "HTTP server address in the form 'host:port'.")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.Parse()

	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Fatalf("[server] failed to load config file %s: %v", configPath, err)
	}

	// Flags override the config file when set.
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if !strings.Contains(cfg.HTTPAddr, ":") {
		log.Warn("use ':' before port number, e.g. ':8090'")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}

	var sdb storage.Storage

	switch dev {
	case false:
		conf := postgres.Config{
			User:     cfg.Postgres.User,
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			DBName:   cfg.Postgres.DBName,
		}
		if !conf.IsValid() {
			log.Fatal(fmt.Errorf("invalid postgres config: %+v", conf))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := postgres.New(ctx, conf.ConString())
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()

		if err := db.Ping(ctx); err != nil {
			log.Fatal(fmt.Errorf("%w: %v", storage.ErrDBNotResponding, err))
		}
		log.Infof("connected to postgres: %s", conf)
		sdb = db

	case true:
		log.Info("Run server with in memory DB")
		sdb = memdb.New()
	}

	hasher := auth.NewHasher()

	if cfg.AdminEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := bootstrap.EnsureAdmin(ctx, sdb, hasher, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminNickname)
		cancel()
		if err != nil {
			log.Fatalf("unable to bootstrap admin account: %v", err)
		}
	}

	var cens *censor.Censor
	if cfg.BannedWordsPath != "" {
		cens = censor.New()
		if err := cens.LoadFromJSON(cfg.BannedWordsPath); err != nil {
			log.Fatalf("unable to load banned words from %s: %v", cfg.BannedWordsPath, err)
		}
		log.Infof("content filter enabled: %s", cfg.BannedWordsPath)
	}

	var kw *kafka.Writer
	if len(cfg.KafkaBrokers) > 0 {
		kw = &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Topic:    cfg.KafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer kw.Close()
		log.Infof("audit logging enabled, topic: %s", cfg.KafkaTopic)
	}

	api := api.New(serviceName, sdb, hasher, cens, kw)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router,
	}

	go func() {
		log.Infof("[server] listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
		log.Info("Stopped serving new connections")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP shutdown error: %v", err)
	}
	log.Info("Server stopped")
}
