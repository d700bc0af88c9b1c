package main

import (
	"context"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/config"
	"github.com/KaduPegasus/Frango-supremo/internal/seed"
	"github.com/KaduPegasus/Frango-supremo/internal/storage"
)

func main() {
	// CLI flags
	force := flag.Bool("force", false, "Overwrite documents that already exist")
	backend := flag.String("backend", "", "Storage backend (file, redis, postgres); defaults to STORAGE_BACKEND")
	namespace := flag.String("namespace", "", "Key namespace; defaults to STORAGE_NAMESPACE")
	flag.Parse()

	cfg := config.Load()
	if *backend != "" {
		cfg.StorageBackend = *backend
	}
	if *namespace != "" {
		cfg.StorageNamespace = *namespace
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.StorageBackend == storage.BackendMemory {
		log.Error("seeding the memory backend has no effect")
		os.Exit(1)
	}

	ctx := context.Background()
	port, closeFn, err := storage.Open(ctx, storage.OpenOptions{
		Backend: cfg.StorageBackend,
		DataDir: cfg.DataDir,
		Redis: storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		DatabaseURL: cfg.DatabaseURL,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}
	defer closeFn()

	written, err := seed.Apply(ctx, port, cfg.StorageNamespace, *force)
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}

	if len(written) == 0 {
		log.Info("all documents already present, nothing written (use -force to overwrite)")
		return
	}
	for _, key := range written {
		log.WithField("key", key).Info("wrote document")
	}
	log.WithFields(logrus.Fields{
		"backend":   cfg.StorageBackend,
		"namespace": cfg.StorageNamespace,
		"documents": len(written),
	}).Info("seed completed successfully")
}
