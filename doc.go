// File: lixenwraith/cascade/doc.go

// Package cascade loads layered environment and configuration files for Go
// applications. An environment name is resolved from process state or a
// marker file, then two independent cascades are merged in a fixed order:
//
// Key/value pipeline (flat, last writer wins):
//  1. .env
//  2. .env.local
//  3. .env.<env>
//  4. .env.<env>.local
//
// Structured pipeline (deep merge, sequences replaced):
//  1. base.{yaml,yml,toml,json,jsonc} (required)
//  2. <env>.{...}
//  3. local.{...}
//
// Features:
//   - Fail-safe dotenv loading for process start-up; errors are logged, never raised
//   - Fail-loud structured loading; a missing base document is an error
//   - Optional mirroring into the process environment or any EnvSink
//   - Slash-separated document paths with typed accessors and struct scanning
//   - Write guard protecting chosen layers from writes
//   - Loader settings from CASCADE_* environment variables
//
// Quick Start:
//
//	// early in main
//	res := cascade.Bootstrap(".")
//	dbURL := os.Getenv("DATABASE_URL")
//
//	// later, on demand
//	doc, err := cascade.LoadConfig("app/etc/env")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	host, _ := doc.String("db/connection/default/host")
//
//	var db struct {
//	    Host string `cascade:"host"`
//	    Port int    `cascade:"port"`
//	}
//	_ = doc.Scan("db/connection/default", &db)
//
// Custom setup:
//
//	loader, err := cascade.NewBuilder().
//	    WithEnvVar("APP_ENV").
//	    WithPolicy(cascade.PolicyFallback, "dev").
//	    WithSink(cascade.NewMapEnv(nil)).
//	    BuildDotEnv()
//
// Neither cascade caches anything; every call re-reads the filesystem.
package cascade
