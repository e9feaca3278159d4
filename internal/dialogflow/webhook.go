package dialogflow

import (
	"fmt"

	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"google.golang.org/protobuf/encoding/protojson"
)

// ProcessWebhook handles a fulfillment webhook call from the provider. The
// body is the provider's WebhookRequest JSON; unknown fields are ignored so
// agent upgrades don't break us. The reply is a WebhookResponse JSON body.
func (s *Service) ProcessWebhook(body []byte) ([]byte, error) {
	var req dialogflowpb.WebhookRequest
	unmarshal := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := unmarshal.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("invalid webhook request: %w", err)
	}

	intentName := req.GetQueryResult().GetIntent().GetDisplayName()
	s.log.Infow("processing webhook intent", "intent", intentName)

	resp := &dialogflowpb.WebhookResponse{
		FulfillmentText: "Processed intent: " + intentName,
	}
	out, err := protojson.Marshal(resp)
	if err != nil {
		s.log.Errorw("webhook response marshal failed", "error", err)
		resp = &dialogflowpb.WebhookResponse{
			FulfillmentText: "Sorry, an error occurred processing your request",
		}
		return protojson.Marshal(resp)
	}
	return out, nil
}
