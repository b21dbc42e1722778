package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/farhanda/snapvault/internal/domain"
)

const toolVersionTimeout = 10 * time.Second

// Snapshot is the config-component document: deployment metadata useful for
// restore triage. It deliberately carries no credentials or key material and
// is never applied automatically on restore.
type Snapshot struct {
	GeneratedAt     string                 `json:"generated_at"`
	App             string                 `json:"app"`
	RuntimeVersion  string                 `json:"runtime_version"`
	Database        SnapshotDatabase       `json:"database"`
	ToolVersions    map[string]string      `json:"tool_versions"`
	FilePermissions map[string]string      `json:"file_permissions"`
	Schedules       []domain.ScheduleEntry `json:"schedules"`
}

type SnapshotDatabase struct {
	Engine       string `json:"engine"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Name         string `json:"name"`
	SchemaDigest string `json:"schema_digest"`
}

type SnapshotBuilder struct {
	db             domain.Database
	runner         domain.CommandRunner
	registrar      domain.ScheduleRegistrar
	appName        string
	dbHost         string
	dbPort         int
	dbName         string
	sensitivePaths []string
	now            func() time.Time
}

func NewSnapshotBuilder(
	db domain.Database,
	runner domain.CommandRunner,
	registrar domain.ScheduleRegistrar,
	appName string,
	dbHost string,
	dbPort int,
	dbName string,
	sensitivePaths []string,
) *SnapshotBuilder {
	return &SnapshotBuilder{
		db:             db,
		runner:         runner,
		registrar:      registrar,
		appName:        appName,
		dbHost:         dbHost,
		dbPort:         dbPort,
		dbName:         dbName,
		sensitivePaths: sensitivePaths,
		now:            time.Now,
	}
}

func (b *SnapshotBuilder) Build(ctx context.Context) ([]byte, error) {
	digest, err := b.db.SchemaDigest(ctx)
	if err != nil {
		return nil, fmt.Errorf("schema digest: %w", err)
	}

	snapshot := Snapshot{
		GeneratedAt:    b.now().Format(domain.ManifestTimeFormat),
		App:            b.appName,
		RuntimeVersion: runtime.Version(),
		Database: SnapshotDatabase{
			Engine:       b.db.Engine(),
			Host:         b.dbHost,
			Port:         b.dbPort,
			Name:         b.dbName,
			SchemaDigest: digest,
		},
		ToolVersions:    b.toolVersions(ctx),
		FilePermissions: b.filePermissions(),
		Schedules:       b.registrar.Entries(),
	}

	doc, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return doc, nil
}

func (b *SnapshotBuilder) toolVersions(ctx context.Context) map[string]string {
	tools := []string{"tar"}
	switch b.db.Engine() {
	case "mysql":
		tools = append(tools, "mysqldump")
	case "postgresql":
		tools = append(tools, "pg_dump")
	}

	versions := make(map[string]string, len(tools))
	for _, tool := range tools {
		exitCode, output, err := b.runner.Run(ctx, toolVersionTimeout, tool, "--version")
		if err != nil || exitCode != 0 {
			versions[tool] = "unknown"
			continue
		}
		line, _, _ := strings.Cut(string(output), "\n")
		versions[tool] = strings.TrimSpace(line)
	}
	return versions
}

func (b *SnapshotBuilder) filePermissions() map[string]string {
	perms := make(map[string]string, len(b.sensitivePaths))
	for _, path := range b.sensitivePaths {
		info, err := os.Stat(path)
		if err != nil {
			perms[path] = "absent"
			continue
		}
		perms[path] = fmt.Sprintf("%04o", info.Mode().Perm())
	}
	return perms
}
