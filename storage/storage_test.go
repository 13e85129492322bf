package storage_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/kbukum/voicelens/component"
	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/storage"
	_ "github.com/kbukum/voicelens/storage/local"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := storage.Config{}
	cfg.ApplyDefaults()
	if cfg.Provider != storage.ProviderLocal {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if !strings.HasPrefix(cfg.BasePath, os.TempDir()) {
		t.Errorf("base path = %q", cfg.BasePath)
	}

	s3 := storage.Config{Provider: storage.ProviderS3, Bucket: "b"}
	s3.ApplyDefaults()
	if s3.Region != storage.DefaultRegion {
		t.Errorf("region = %q", s3.Region)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr bool
	}{
		{"local", storage.Config{Provider: "local", BasePath: "/tmp/x"}, false},
		{"s3", storage.Config{Provider: "s3", Bucket: "b", Region: "eu-west-1"}, false},
		{"s3 missing bucket", storage.Config{Provider: "s3", Region: "eu-west-1"}, true},
		{"s3 half credentials", storage.Config{Provider: "s3", Bucket: "b", Region: "r", AccessKey: "a"}, true},
		{"unknown", storage.Config{Provider: "gcs"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNew_LocalWithPrefix(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := storage.New(storage.Config{Provider: "local", BasePath: base, Prefix: "staging/"}, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Upload(ctx, "full-1-a.wav", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := os.Stat(base + "/staging/full-1-a.wav"); err != nil {
		t.Errorf("expected prefixed file on disk: %v", err)
	}
	files, err := s.List(ctx, "full-")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 1 || files[0].Key != "full-1-a.wav" {
		t.Errorf("expected prefix stripped from listing, got %+v", files)
	}
}

func TestNew_UnregisteredProvider(t *testing.T) {
	_, err := storage.New(storage.Config{Provider: "s3", Bucket: "b"}, logger.Nop())
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected not registered error, got %v", err)
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := storage.NewComponent(storage.Config{BasePath: t.TempDir()}, logger.Nop())

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}
	if ok, _ := c.Storage().Exists(ctx, ".health"); ok {
		t.Error("health probe should clean up after itself")
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if c.Storage() != nil {
		t.Error("expected storage cleared after stop")
	}
}
