package postgres

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ConnectionInfo struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
	MaxConns int32
}

type Postgres struct {
	Pool *pgxpool.Pool
}

func (info ConnectionInfo) dsn() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(info.User, info.Password),
		Host:   info.Host,
		Path:   "/" + info.DB,
	}
	if info.Port != "" {
		u.Host += ":" + info.Port
	}
	q := url.Values{}
	if info.SSLMode != "" {
		q.Set("sslmode", info.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func NewConnection(ctx context.Context, info ConnectionInfo) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(info.dsn())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	// Only token lookups go through the pool.
	cfg.MaxConns = 4
	if info.MaxConns > 0 {
		cfg.MaxConns = info.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
