// Command backup creates a compressed dump of the application database via
// mongodump and prunes old dumps beyond the retention count. It is a plain
// operational utility and never touches the request path.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type backupConfig struct {
	MongoURI  string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database  string `env:"MONGO_DB,         default=user_management"`
	OutputDir string `env:"BACKUP_DIR,       default=./backups"`
	Retention int    `env:"BACKUP_RETENTION, default=7"`
}

func main() {
	var cfg backupConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		fatal("load config: %v", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fatal("create backup dir: %v", err)
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	target := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s-%s.archive", cfg.Database, stamp))

	cmd := exec.Command("mongodump",
		"--uri", cfg.MongoURI,
		"--db", cfg.Database,
		"--archive="+target,
		"--gzip",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fmt.Printf("dumping %s to %s\n", cfg.Database, target)
	if err := cmd.Run(); err != nil {
		fatal("mongodump failed: %v", err)
	}

	if err := prune(cfg.OutputDir, cfg.Database, cfg.Retention); err != nil {
		fatal("prune old backups: %v", err)
	}
	fmt.Println("backup complete")
}

// prune keeps the newest `keep` archives for the database and removes the rest.
func prune(dir, database string, keep int) error {
	if keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var archives []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, database+"-") && strings.HasSuffix(name, ".archive") {
			archives = append(archives, name)
		}
	}

	// Timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(archives)))

	for _, name := range archives[min(keep, len(archives)):] {
		path := filepath.Join(dir, name)
		fmt.Printf("removing old backup %s\n", path)
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "backup: "+format+"\n", args...)
	os.Exit(1)
}
