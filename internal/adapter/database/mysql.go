package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/farhanda/snapvault/internal/config"
	"github.com/farhanda/snapvault/internal/domain"
)

type MySQLDatabase struct {
	config  *config.DatabaseConfig
	runner  domain.CommandRunner
	timeout time.Duration
}

func NewMySQL(cfg *config.DatabaseConfig, runner domain.CommandRunner) *MySQLDatabase {
	return &MySQLDatabase{config: cfg, runner: runner, timeout: cfg.DumpTimeout}
}

func (m *MySQLDatabase) connArgs() []string {
	return []string{
		fmt.Sprintf("--host=%s", m.config.Host),
		fmt.Sprintf("--port=%d", m.config.Port),
		fmt.Sprintf("--user=%s", m.config.Username),
		fmt.Sprintf("--password=%s", m.config.Password),
	}
}

func (m *MySQLDatabase) Dump(ctx context.Context, outputPath string) error {
	args := append(m.connArgs(),
		"--single-transaction",
		"--quick",
		"--lock-tables=false",
		"--routines",
		"--triggers",
		"--events",
		fmt.Sprintf("--result-file=%s", outputPath),
		m.config.Database,
	)

	exitCode, output, err := m.runner.Run(ctx, m.timeout, "mysqldump", args...)
	if err != nil {
		return fmt.Errorf("mysqldump: %w", err)
	}
	if exitCode != 0 {
		return &domain.DumpError{Tool: "mysqldump", ExitCode: exitCode, Output: string(output)}
	}
	return nil
}

// Restore replays a raw SQL dump into the target schema. Schema-creation
// statements are part of the dump, so the replay is self-contained.
func (m *MySQLDatabase) Restore(ctx context.Context, dumpPath string) error {
	args := append(m.connArgs(),
		m.config.Database,
		"-e", fmt.Sprintf("source %s", dumpPath),
	)

	exitCode, output, err := m.runner.Run(ctx, m.timeout, "mysql", args...)
	if err != nil {
		return fmt.Errorf("mysql replay: %w", err)
	}
	if exitCode != 0 {
		return &domain.DumpError{Tool: "mysql", ExitCode: exitCode, Output: string(output)}
	}
	return nil
}

// SchemaDigest hashes a structure-only dump, giving a stable fingerprint of
// tables, routines and triggers without any row data.
func (m *MySQLDatabase) SchemaDigest(ctx context.Context) (string, error) {
	args := append(m.connArgs(),
		"--no-data",
		"--routines",
		"--triggers",
		"--skip-comments",
		m.config.Database,
	)

	exitCode, output, err := m.runner.Run(ctx, m.timeout, "mysqldump", args...)
	if err != nil {
		return "", fmt.Errorf("mysqldump schema: %w", err)
	}
	if exitCode != 0 {
		return "", &domain.DumpError{Tool: "mysqldump", ExitCode: exitCode, Output: string(output)}
	}

	sum := sha256.Sum256(output)
	return hex.EncodeToString(sum[:]), nil
}

func (m *MySQLDatabase) Ping(ctx context.Context) error {
	args := append(m.connArgs(), "-e", "SELECT 1")

	exitCode, output, err := m.runner.Run(ctx, m.timeout, "mysql", args...)
	if err != nil {
		return fmt.Errorf("mysql ping: %w", err)
	}
	if exitCode != 0 {
		return &domain.DumpError{Tool: "mysql", ExitCode: exitCode, Output: string(output)}
	}
	return nil
}

func (m *MySQLDatabase) Engine() string {
	return "mysql"
}

func (m *MySQLDatabase) DumpExt() string {
	return ".sql"
}
