package dialogflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbridge-backend/internal/logger"
)

func newWebhookService(t *testing.T) *Service {
	t.Helper()
	return NewService("test-project", &fakeSessions{}, logger.NewNop(), "", "")
}

func TestProcessWebhook(t *testing.T) {
	svc := newWebhookService(t)

	body := []byte(`{
		"responseId": "abc-123",
		"queryResult": {
			"queryText": "large pepperoni",
			"intent": {"displayName": "OrderPizza"},
			"someFutureField": {"nested": true}
		}
	}`)

	out, err := svc.ProcessWebhook(body)
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "Processed intent: OrderPizza", resp["fulfillmentText"])
}

func TestProcessWebhookMissingIntent(t *testing.T) {
	svc := newWebhookService(t)

	out, err := svc.ProcessWebhook([]byte(`{"responseId": "abc-123"}`))
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "Processed intent: ", resp["fulfillmentText"])
}

func TestProcessWebhookInvalidBody(t *testing.T) {
	svc := newWebhookService(t)

	_, err := svc.ProcessWebhook([]byte(`not json`))
	assert.Error(t, err)
}
