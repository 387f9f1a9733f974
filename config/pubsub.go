package config

import (
	"context"
	"os"
	"sync"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

var (
	pubSubClient *pubsub.Client
	pubSubOnce   sync.Once
	pubSubErr    error
)

// GetPubSubClient lazily initialises the Google Pub/Sub client. Pub/Sub is an
// optional mirror of the change feed: when no project is configured the
// dispatcher runs redis-only and this returns (nil, nil).
func GetPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubSubOnce.Do(func() {
		projectID := os.Getenv("PUBSUB_PROJECT_ID")
		if projectID == "" {
			projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
		}
		if projectID == "" {
			projectID = os.Getenv("GCP_PROJECT")
		}
		if projectID == "" {
			return
		}

		var opts []option.ClientOption
		if credsJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON"); credsJSON != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(credsJSON)))
		}

		pubSubClient, pubSubErr = pubsub.NewClient(ctx, projectID, opts...)
	})
	return pubSubClient, pubSubErr
}

// CreateTopicIfNotExists returns the topic, creating it when missing.
func CreateTopicIfNotExists(ctx context.Context, client *pubsub.Client, topicID string) (*pubsub.Topic, error) {
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return topic, nil
	}
	return client.CreateTopic(ctx, topicID)
}
