package dialogflow

import (
	"context"
	"fmt"
	"strings"

	df "cloud.google.com/go/dialogflow/apiv2"
	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"botbridge-backend/internal/logger"
)

// Reserved utterances that trigger synthetic diagnostic exchanges instead of
// a normal query. Overridable through config; these are the agent's defaults.
const (
	DefaultDebugExchangeCommand  = "debugStandardBotExchangeCustomInput"
	DefaultBranchOverrideCommand = "debugStandardBotBranchOverride"
	debugContextID               = "autoContext"
	debugContextEchoValue        = "Passing Json to Bot method2"
	languageCode                 = "en-US"
)

// SessionsClient is the slice of the Dialogflow sessions API the service
// needs. *df.SessionsClient satisfies it; tests supply fakes.
type SessionsClient interface {
	DetectIntent(ctx context.Context, req *dialogflowpb.DetectIntentRequest, opts ...gax.CallOption) (*dialogflowpb.DetectIntentResponse, error)
}

// NewSessionsClient builds the real client, with an explicit credentials file
// when configured and application-default credentials otherwise.
func NewSessionsClient(ctx context.Context, credentialsFile string) (*df.SessionsClient, error) {
	if credentialsFile != "" {
		return df.NewSessionsClient(ctx, option.WithCredentialsFile(credentialsFile))
	}
	return df.NewSessionsClient(ctx)
}

// Service brokers utterances to Dialogflow and normalizes whatever comes
// back. It holds no conversational state; session continuity lives entirely
// in the provider, keyed by the session id passed through on every call.
type Service struct {
	projectID       string
	client          SessionsClient
	log             *logger.Logger
	debugCommand    string
	overrideCommand string
}

func NewService(projectID string, client SessionsClient, log *logger.Logger, debugCommand, overrideCommand string) *Service {
	if debugCommand == "" {
		debugCommand = DefaultDebugExchangeCommand
	}
	if overrideCommand == "" {
		overrideCommand = DefaultBranchOverrideCommand
	}
	return &Service{
		projectID:       projectID,
		client:          client,
		log:             log.With("service", "dialogflow"),
		debugCommand:    debugCommand,
		overrideCommand: overrideCommand,
	}
}

// DetectIntent submits one utterance under the given session id and returns a
// normalized result. It never fails: every provider or parse error collapses
// into the fixed fallback result, logged here so outages stay visible to
// operators even though users only see an apology.
func (s *Service) DetectIntent(ctx context.Context, sessionID, text string) *Response {
	if strings.EqualFold(strings.TrimSpace(text), s.debugCommand) {
		return s.detectWithDebugContext(ctx, sessionID)
	}

	resp, err := s.client.DetectIntent(ctx, s.textRequest(sessionID, text, nil))
	if err != nil {
		s.log.Warnw("detect intent failed", "sessionId", sessionID, "error", err)
		return Fallback()
	}
	return NormalizeQueryResult(resp.GetQueryResult())
}

// detectWithDebugContext is the debug payload path: the debug command itself
// is submitted together with a synthetic one-turn context so the agent can
// echo it back. An empty fulfillment text from the provider counts as a
// successful exchange and yields the canned diagnostic result.
func (s *Service) detectWithDebugContext(ctx context.Context, sessionID string) *Response {
	params, err := structpb.NewStruct(map[string]any{
		"echoValue": debugContextEchoValue,
	})
	if err != nil {
		s.log.Errorw("debug context build failed", "sessionId", sessionID, "error", err)
		return Fallback()
	}
	debugContext := &dialogflowpb.Context{
		Name:          fmt.Sprintf("projects/%s/agent/sessions/%s/contexts/%s", s.projectID, sessionID, debugContextID),
		LifespanCount: 1,
		Parameters:    params,
	}

	resp, err := s.client.DetectIntent(ctx, s.textRequest(sessionID, s.debugCommand, []*dialogflowpb.Context{debugContext}))
	if err != nil {
		s.log.Warnw("debug exchange failed", "sessionId", sessionID, "error", err)
		return Fallback()
	}

	qr := resp.GetQueryResult()
	if qr.GetFulfillmentText() == "" {
		return &Response{
			FulfillmentText: "Custom payload processed successfully",
			IntentName:      s.debugCommand,
			Messages: []string{
				"Custom payload processed",
				"echoValue: Passing Json to Bot method1",
				"context.echoValue: " + debugContextEchoValue,
			},
			ResultBranch:           BranchPromptNext,
			IsMultipleMessages:     true,
			IsCustomPayloadRequest: true,
		}
	}
	return NormalizeQueryResult(qr)
}

func (s *Service) textRequest(sessionID, text string, contexts []*dialogflowpb.Context) *dialogflowpb.DetectIntentRequest {
	req := &dialogflowpb.DetectIntentRequest{
		Session: fmt.Sprintf("projects/%s/agent/sessions/%s", s.projectID, sessionID),
		QueryInput: &dialogflowpb.QueryInput{
			Input: &dialogflowpb.QueryInput_Text{
				Text: &dialogflowpb.TextInput{
					Text:         text,
					LanguageCode: languageCode,
				},
			},
		},
	}
	if len(contexts) > 0 {
		req.QueryParams = &dialogflowpb.QueryParameters{Contexts: contexts}
	}
	return req
}
