package service

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/events"
)

func TestChangeFeed_PublishesCommittedChangesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "department_app:changes")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	svc := setupServices(t)
	NewChangeFeedService(svc.dispatcher, zap.NewNop(), client, "department_app:changes").RegisterHandlers()

	dept, err := svc.departments.Create(ctx, CreateDepartmentInput{Name: "TEST_DP1", PhoneNumber: "+381111111111"})
	require.NoError(t, err)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var event struct {
		Type       events.EventType         `json:"type"`
		ResourceID string                   `json:"resource_id"`
		Payload    events.DepartmentPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, events.EventDepartmentCreated, event.Type)
	assert.Equal(t, dept.ID.String(), event.ResourceID)
	assert.Equal(t, "TEST_DP1", event.Payload.Name)
}

func TestChangeFeed_RedisOutageDoesNotFailWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	svc := setupServices(t)
	NewChangeFeedService(svc.dispatcher, zap.NewNop(), client, "department_app:changes").RegisterHandlers()

	_, err := svc.departments.Create(context.Background(), CreateDepartmentInput{Name: "TEST_DP1", PhoneNumber: "+381111111111"})
	assert.NoError(t, err)
}

// silentRedis accepts connections and never answers.
func silentRedis(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			_ = conn.Close()
		}
	})
	return ln.Addr().String()
}

func TestChangeFeed_StalledRedisDoesNotHoldWrites(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:                  silentRedis(t),
		ReadTimeout:           5 * time.Second,
		ContextTimeoutEnabled: true,
	})
	t.Cleanup(func() { _ = client.Close() })

	svc := setupServices(t)
	feed := NewChangeFeedService(svc.dispatcher, zap.NewNop(), client, "department_app:changes")
	feed.publishTimeout = 100 * time.Millisecond
	feed.RegisterHandlers()

	start := time.Now()
	_, err := svc.departments.Create(context.Background(), CreateDepartmentInput{Name: "TEST_DP1", PhoneNumber: "+381111111111"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestChangeFeed_WithoutRedisOnlyLogs(t *testing.T) {
	svc := setupServices(t)
	NewChangeFeedService(svc.dispatcher, zap.NewNop(), nil, "").RegisterHandlers()

	_, err := svc.departments.Create(context.Background(), CreateDepartmentInput{Name: "TEST_DP1", PhoneNumber: "+381111111111"})
	assert.NoError(t, err)
}
