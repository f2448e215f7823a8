package main

import (
	"context"
	"log"
	"os"

	"psiconnect/blobstore"
	"psiconnect/config"
	"psiconnect/db"
	"psiconnect/docstore"
	"psiconnect/identity"
	"psiconnect/psychologist"
	"psiconnect/session"
)

func main() {
	ctx := context.Background()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg := config.FromEnv()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	docs := docstore.NewPostgres(pool)
	blobs := blobstore.NewPostgres(pool, cfg.BlobBaseURL)

	identityCfg := identity.Config{
		Directory:   identity.NewPGDirectory(pool),
		TokenSecret: cfg.TokenSecret,
		TokenTTL:    cfg.TokenTTL,
	}

	primary := identity.NewClient(identityCfg)
	resolver := session.NewResolver(docs, logger)
	sessionCtx := session.NewContext(primary, resolver)
	defer sessionCtx.Close()

	practitioners := psychologist.NewService(docs, blobs, func() (psychologist.AuthContext, error) {
		return identity.NewClient(identityCfg), nil
	}, logger)

	logger.Printf("psiconnect core ready: session=%v practitioners=%v", sessionCtx != nil, practitioners != nil)
}
