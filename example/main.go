// FILE: lixenwraith/cascade/example/main.go
package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/cascade"
)

// DBConfig is the section scanned out of the merged document.
type DBConfig struct {
	Host     string        `cascade:"host"`
	Port     int           `cascade:"port"`
	Name     string        `cascade:"dbname"`
	Timeout  time.Duration `cascade:"timeout"`
	Replicas []string      `cascade:"replicas"`
}

var files = map[string]string{
	".env":             "APP_NAME=demo\nDATABASE_URL=postgres://localhost/demo\n",
	".env.local":       "APP_ENV=staging\n",
	".env.staging":     "DATABASE_URL=postgres://staging-db/demo\n",
	"etc/.environment": "staging\n",
	"etc/base.yaml":    "db:\n  host: localhost\n  port: 5432\n  dbname: demo\n  timeout: 5s\n  replicas: [a, b]\n",
	"etc/staging.toml": "[db]\nhost = \"staging-db\"\nreplicas = [\"c\"]\n",
	"etc/local.jsonc":  "{\n  // developer override\n  \"db\": {\"port\": 6543}\n}\n",
}

func main() {
	// =========================================================================
	// PART 1: SETUP
	// Lay out a project with both cascades in a temporary directory.
	// =========================================================================
	dir, err := os.MkdirTemp("", "cascade-demo-*")
	if err != nil {
		log.Fatalf("❌ failed to create demo dir: %v", err)
	}
	defer os.RemoveAll(dir)

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			log.Fatalf("❌ failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			log.Fatalf("❌ failed to write %s: %v", name, err)
		}
	}
	log.Printf("✅ demo project written to %s", dir)

	// =========================================================================
	// PART 2: KEY/VALUE CASCADE
	// Runs at start-up; never fails the process.
	// =========================================================================
	log.Println("---")
	res := cascade.Bootstrap(dir)
	log.Printf("➡️  dotenv environment: %q", res.Environment)
	for _, c := range res.Files {
		log.Printf("   %-22s exists=%v", c.Name(), c.Exists)
	}
	log.Printf("   DATABASE_URL=%s", os.Getenv("DATABASE_URL"))

	// =========================================================================
	// PART 3: STRUCTURED CASCADE
	// Runs on demand; errors are returned.
	// =========================================================================
	log.Println("---")
	doc, err := cascade.LoadConfig(filepath.Join(dir, "etc"))
	if err != nil {
		if errors.Is(err, cascade.ErrEnvironmentNotConfigured) {
			log.Fatalf("❌ create etc/.environment first: %v", err)
		}
		log.Fatalf("❌ config load failed: %v", err)
	}

	var db DBConfig
	if err := doc.Scan("db", &db); err != nil {
		log.Fatalf("❌ scan failed: %v", err)
	}
	log.Printf("➡️  db: %+v", db)

	// =========================================================================
	// PART 4: REPORT
	// =========================================================================
	log.Println("---")
	report := cascade.Inspect(cascade.ReportOptions{
		ConfigDir: filepath.Join(dir, "etc"),
		BasePath:  dir,
		Keys:      []string{"db/host", "db/port", "db/password"},
	})
	log.Printf("➡️  environment: %s", report.EnvironmentLabel())
	for _, k := range report.Keys {
		log.Printf("   %s = %q (found=%v)", k.Path, k.Value, k.Found)
	}
}
