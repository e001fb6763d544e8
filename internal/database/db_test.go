package database

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestConnect_InvalidScheme_ReturnsError(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://localhost:5432/cardoctor", time.Second)
	if err == nil {
		t.Fatal("expected error for non-mongodb uri, got nil")
	}
}

func captureDefaultLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestConnect_PingFailure_ReturnsErrorWithoutDisconnectLog(t *testing.T) {
	buf := captureDefaultLogger(t)

	uri := "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200"
	_, err := Connect(context.Background(), uri, 300*time.Millisecond)
	if err == nil {
		t.Fatal("expected ping error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to ping mongodb") {
		t.Errorf("err = %v, want ping failure", err)
	}
	if strings.Contains(buf.String(), "failed to disconnect database") {
		t.Errorf("unexpected disconnect error log: %s", buf.String())
	}
}

func TestDisconnectMongo_LogsError(t *testing.T) {
	buf := captureDefaultLogger(t)

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("mongo.Connect: %v", err)
	}
	if err := client.Disconnect(context.Background()); err != nil {
		t.Fatalf("first Disconnect: %v", err)
	}

	// 切断済みのクライアントはErrClientDisconnectedを返す
	disconnectMongo(client, time.Second)

	out := buf.String()
	if !strings.Contains(out, "failed to disconnect database") {
		t.Errorf("expected disconnect error log, got %q", out)
	}
	if !strings.Contains(out, `"level":"ERROR"`) {
		t.Errorf("expected ERROR level, got %q", out)
	}
}

func TestHealthChecker_Ping(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ok", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		hc := NewHealthChecker(mt.DB)
		if err := hc.Ping(context.Background()); err != nil {
			t.Errorf("Ping returned error: %v", err)
		}
	})

	mt.Run("command error", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 0},
			{Key: "code", Value: 13},
			{Key: "errmsg", Value: "not authorized"},
		})

		hc := NewHealthChecker(mt.DB)
		if err := hc.Ping(context.Background()); err == nil {
			t.Error("expected error from failed ping, got nil")
		}
	})
}
