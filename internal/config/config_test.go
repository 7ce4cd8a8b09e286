package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRCFileIgnoredWhenGroupOrOtherPermsSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pgcenterrc")
	if err := os.WriteFile(path, []byte("localhost:5432:db:u:pw\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	conns, err := LoadRCFile(path)
	if err != nil {
		t.Fatalf("LoadRCFile: %v", err)
	}
	if conns != nil {
		t.Fatalf("a world-readable file must be ignored, got %v", conns)
	}
}

func TestLoadRCFileConsumedAtMode0600(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pgcenterrc")
	content := "localhost:5432:db1:alice:secret\nremotehost:5433:db2:bob:\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	conns, err := LoadRCFile(path)
	if err != nil {
		t.Fatalf("LoadRCFile: %v", err)
	}
	if len(conns) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(conns))
	}
	if conns[0].Host != "localhost" || conns[0].Password != "secret" {
		t.Fatalf("unexpected first connection: %+v", conns[0])
	}
	if conns[1].User != "bob" || conns[1].Password != "" {
		t.Fatalf("unexpected second connection: %+v", conns[1])
	}
}

func TestLoadRCFileMissingIsNotAnError(t *testing.T) {
	conns, err := LoadRCFile(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil || conns != nil {
		t.Fatalf("a missing file should yield (nil, nil), got (%v, %v)", conns, err)
	}
}

func TestConnParamsFromFlagsDefaults(t *testing.T) {
	p := ConnParamsFromFlags(Flags{}, "")
	if p.Host != "localhost" || p.Port != "5432" {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestConnParamsFromFlagsPositionalFallback(t *testing.T) {
	p := ConnParamsFromFlags(Flags{PositionalDB: "orders", PositionalUser: "alice"}, "")
	if p.DBName != "orders" || p.User != "alice" {
		t.Fatalf("positional args should seed dbname/user when flags are empty, got %+v", p)
	}
}

func TestConnParamsFromFlagsExplicitFlagsWin(t *testing.T) {
	p := ConnParamsFromFlags(Flags{DBName: "explicit", PositionalDB: "positional"}, "")
	if p.DBName != "explicit" {
		t.Fatalf("explicit -d flag must take priority over the positional dbname, got %q", p.DBName)
	}
}
