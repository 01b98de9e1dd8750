package repository

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"autocontract/internal/config/connections/postgres"

	"github.com/jackc/pgx/v5"
)

var ErrTokenNotFound = errors.New("token not found")

// APIToken grants one operator access to the HTTP API. Tokens are handed out
// as "{id}|{secret}"; only the sha256 of the secret is stored.
type APIToken struct {
	ID        int64
	Operator  string
	TokenHash string
	ExpiresAt *time.Time
}

type TokenRepository struct {
	pg *postgres.Postgres
}

func NewTokenRepository(pg *postgres.Postgres) *TokenRepository {
	return &TokenRepository{pg: pg}
}

func HashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return fmt.Sprintf("%x", sum)
}

// SplitToken separates the optional "{id}|" prefix from the secret.
func SplitToken(plain string) (*int64, string) {
	idx := strings.Index(plain, "|")
	if idx <= 0 {
		return nil, plain
	}
	id, err := strconv.ParseInt(plain[:idx], 10, 64)
	if err != nil {
		log.Printf("[TOKEN] failed to parse id %q: %v", plain[:idx], err)
		return nil, plain[idx+1:]
	}
	return &id, plain[idx+1:]
}

func (r *TokenRepository) FindByPlainToken(ctx context.Context, plainToken string) (*APIToken, error) {
	plainToken = strings.TrimSpace(plainToken)
	if plainToken == "" {
		return nil, errors.New("empty token")
	}
	if r.pg == nil || r.pg.Pool == nil {
		return nil, errors.New("postgres not available")
	}

	id, secret := SplitToken(plainToken)
	hash := HashToken(secret)

	var (
		tok APIToken
		row pgx.Row
	)
	if id != nil {
		row = r.pg.Pool.QueryRow(ctx, `
			SELECT id, operator, token_hash, expires_at
			FROM api_tokens
			WHERE id = $1
			  AND token_hash = $2
			  AND revoked_at IS NULL
			  AND (expires_at IS NULL OR expires_at > $3)
		`, *id, hash, time.Now())
	} else {
		row = r.pg.Pool.QueryRow(ctx, `
			SELECT id, operator, token_hash, expires_at
			FROM api_tokens
			WHERE token_hash = $1
			  AND revoked_at IS NULL
			  AND (expires_at IS NULL OR expires_at > $2)
			ORDER BY created_at DESC
			LIMIT 1
		`, hash, time.Now())
	}

	if err := row.Scan(&tok.ID, &tok.Operator, &tok.TokenHash, &tok.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		log.Printf("[TOKEN][ERR] query: %v", err)
		return nil, err
	}

	log.Printf("[TOKEN] found: id=%d operator=%q expiresAt=%v", tok.ID, tok.Operator, tok.ExpiresAt)
	return &tok, nil
}
