//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"samadhan/internal/audit"
	"samadhan/internal/platform/logger"
	"samadhan/pkg/testutil/containers"
)

func TestKafkaPublisherDeliversEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	broker := containers.GetManager().GetRedpanda(t).Broker
	const topic = "samadhan.audit.test"

	admin, err := kgo.NewClient(kgo.SeedBrokers(broker))
	require.NoError(t, err)
	defer admin.Close()
	_, err = kadm.NewClient(admin).CreateTopic(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	publisher, err := audit.NewKafkaPublisher([]string{broker}, topic, logger.New())
	require.NoError(t, err)

	sent := audit.Event{
		Action:    audit.ActionMemberCreated,
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		ProgramID: "prog-wardha",
		MemberID:  "m-1",
		AgentID:   "agent-7",
	}
	publisher.Emit(ctx, sent)
	require.NoError(t, publisher.Close(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, []byte("m-1"), records[0].Key)

	var received audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &received))
	assert.Equal(t, sent.Action, received.Action)
	assert.Equal(t, sent.ProgramID, received.ProgramID)
	assert.Equal(t, sent.AgentID, received.AgentID)
	assert.True(t, received.Timestamp.Equal(sent.Timestamp))
}
