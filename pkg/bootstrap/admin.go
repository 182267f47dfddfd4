// Package bootstrap seeds the initial admin account at startup.
package bootstrap

import (
	"context"

	log "github.com/sirupsen/logrus"

	"board/pkg/auth"
	"board/pkg/storage"
)

// EnsureAdmin creates the admin account when no user owns the given email.
// It is safe to run on every startup.
func EnsureAdmin(ctx context.Context, db storage.Storage, hasher auth.Hasher, email, password, nickname string) error {
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	created, err := db.EnsureAdmin(ctx, email, hash, nickname)
	if err != nil {
		return err
	}
	if created {
		log.Infof("[bootstrap] admin account created: %s", email)
	}

	return nil
}
