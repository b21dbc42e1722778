package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/farhanda/snapvault/internal/config"
	"github.com/farhanda/snapvault/internal/domain"
)

type PostgreSQLDatabase struct {
	config  *config.DatabaseConfig
	runner  domain.CommandRunner
	timeout time.Duration
}

func NewPostgreSQL(cfg *config.DatabaseConfig, runner domain.CommandRunner) *PostgreSQLDatabase {
	return &PostgreSQLDatabase{config: cfg, runner: runner, timeout: cfg.DumpTimeout}
}

// connURI builds a connection URI so credentials never go through the
// environment of the spawned tool.
func (p *PostgreSQLDatabase) connURI() string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(p.config.Username, p.config.Password),
		Host:   fmt.Sprintf("%s:%d", p.config.Host, p.config.Port),
		Path:   "/" + p.config.Database,
	}
	if p.config.SSLMode != "" {
		u.RawQuery = "sslmode=" + p.config.SSLMode
	}
	return u.String()
}

// Dump uses plain format so the artifact replays through psql without a
// separate pg_restore step.
func (p *PostgreSQLDatabase) Dump(ctx context.Context, outputPath string) error {
	args := []string{
		"--format=plain",
		"--no-owner",
		"--clean",
		"--if-exists",
		fmt.Sprintf("--file=%s", outputPath),
		p.connURI(),
	}

	exitCode, output, err := p.runner.Run(ctx, p.timeout, "pg_dump", args...)
	if err != nil {
		return fmt.Errorf("pg_dump: %w", err)
	}
	if exitCode != 0 {
		return &domain.DumpError{Tool: "pg_dump", ExitCode: exitCode, Output: string(output)}
	}
	return nil
}

func (p *PostgreSQLDatabase) Restore(ctx context.Context, dumpPath string) error {
	args := []string{
		"-v", "ON_ERROR_STOP=1",
		"-f", dumpPath,
		p.connURI(),
	}

	exitCode, output, err := p.runner.Run(ctx, p.timeout, "psql", args...)
	if err != nil {
		return fmt.Errorf("psql replay: %w", err)
	}
	if exitCode != 0 {
		return &domain.DumpError{Tool: "psql", ExitCode: exitCode, Output: string(output)}
	}
	return nil
}

func (p *PostgreSQLDatabase) SchemaDigest(ctx context.Context) (string, error) {
	args := []string{
		"--schema-only",
		"--no-owner",
		p.connURI(),
	}

	exitCode, output, err := p.runner.Run(ctx, p.timeout, "pg_dump", args...)
	if err != nil {
		return "", fmt.Errorf("pg_dump schema: %w", err)
	}
	if exitCode != 0 {
		return "", &domain.DumpError{Tool: "pg_dump", ExitCode: exitCode, Output: string(output)}
	}

	sum := sha256.Sum256(output)
	return hex.EncodeToString(sum[:]), nil
}

func (p *PostgreSQLDatabase) Ping(ctx context.Context) error {
	args := []string{"-c", "SELECT 1", p.connURI()}

	exitCode, output, err := p.runner.Run(ctx, p.timeout, "psql", args...)
	if err != nil {
		return fmt.Errorf("psql ping: %w", err)
	}
	if exitCode != 0 {
		return &domain.DumpError{Tool: "psql", ExitCode: exitCode, Output: string(output)}
	}
	return nil
}

func (p *PostgreSQLDatabase) Engine() string {
	return "postgresql"
}

func (p *PostgreSQLDatabase) DumpExt() string {
	return ".sql"
}
