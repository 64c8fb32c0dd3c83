// Package db provides integration tests for SurrealDB job persistence.
package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testDB.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func TestCreateAndGetScriptJob(t *testing.T) {
	ctx := context.Background()

	id := uuid.NewString()
	created := time.Now()
	if err := testDB.CreateScriptJob(ctx, id, "space exploration", "documentary", created); err != nil {
		t.Fatalf("CreateScriptJob failed: %v", err)
	}

	job, err := testDB.GetScriptJob(ctx, id)
	if err != nil {
		t.Fatalf("GetScriptJob failed: %v", err)
	}
	if job.Topic != "space exploration" {
		t.Errorf("Expected topic 'space exploration', got %q", job.Topic)
	}
	if job.Style != "documentary" {
		t.Errorf("Expected style 'documentary', got %q", job.Style)
	}
	if job.Status != "processing" {
		t.Errorf("Expected status 'processing', got %q", job.Status)
	}
	if job.Result != nil {
		t.Errorf("New job should have no result, got %v", *job.Result)
	}
	if job.Rounds != 0 {
		t.Errorf("New job should have 0 rounds, got %d", job.Rounds)
	}
}

func TestGetScriptJobNotFound(t *testing.T) {
	ctx := context.Background()

	_, err := testDB.GetScriptJob(ctx, uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCompleteScriptJob(t *testing.T) {
	ctx := context.Background()

	id := uuid.NewString()
	if err := testDB.CreateScriptJob(ctx, id, "cooking", "comedy", time.Now()); err != nil {
		t.Fatalf("CreateScriptJob failed: %v", err)
	}

	if err := testDB.CompleteScriptJob(ctx, id, "Scene 1; Scene 2; Scene 3", 4, time.Now()); err != nil {
		t.Fatalf("CompleteScriptJob failed: %v", err)
	}

	job, err := testDB.GetScriptJob(ctx, id)
	if err != nil {
		t.Fatalf("GetScriptJob failed: %v", err)
	}
	if job.Status != "completed" {
		t.Errorf("Expected status 'completed', got %q", job.Status)
	}
	if job.Result == nil || *job.Result != "Scene 1; Scene 2; Scene 3" {
		t.Errorf("Result mismatch: got %v", job.Result)
	}
	if job.Rounds != 4 {
		t.Errorf("Expected 4 rounds, got %d", job.Rounds)
	}
	if job.CompletedAt == nil {
		t.Error("Completed job should have completed_at set")
	}
}

func TestFailScriptJob(t *testing.T) {
	ctx := context.Background()

	id := uuid.NewString()
	if err := testDB.CreateScriptJob(ctx, id, "history", "drama", time.Now()); err != nil {
		t.Fatalf("CreateScriptJob failed: %v", err)
	}

	if err := testDB.FailScriptJob(ctx, id, "completion timeout", 2, time.Now()); err != nil {
		t.Fatalf("FailScriptJob failed: %v", err)
	}

	job, err := testDB.GetScriptJob(ctx, id)
	if err != nil {
		t.Fatalf("GetScriptJob failed: %v", err)
	}
	if job.Status != "failed" {
		t.Errorf("Expected status 'failed', got %q", job.Status)
	}
	if job.Error == nil || *job.Error != "completion timeout" {
		t.Errorf("Error mismatch: got %v", job.Error)
	}
	if job.Result != nil {
		t.Errorf("Failed job should have no result, got %v", *job.Result)
	}
}
