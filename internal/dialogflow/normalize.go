package dialogflow

import (
	"encoding/json"
	"strings"

	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// overridePayload is the known "exchange result override" payload shape.
type overridePayload struct {
	ContentType string `json:"contentType"`
	Content     struct {
		Branch string `json:"vahExchangeResultBranch"`
	} `json:"content"`
}

// scriptPayload is the known "script payloads" payload shape.
type scriptPayload struct {
	ScriptPayloads json.RawMessage `json:"scriptpayloads"`
}

const overrideContentType = "ExchangeResultOverride"

// NormalizeQueryResult flattens a Dialogflow query result into a Response.
// Text fulfillment messages keep their order with empties dropped; structured
// payloads are probed for the two known shapes and everything else is ignored.
// An explicit branch override beats the intent-table branch.
func NormalizeQueryResult(qr *dialogflowpb.QueryResult) *Response {
	var messages []string
	for _, m := range qr.GetFulfillmentMessages() {
		for _, text := range m.GetText().GetText() {
			if text != "" {
				messages = append(messages, text)
			}
		}
	}

	overrideBranch := ""
	for _, m := range qr.GetFulfillmentMessages() {
		payload := m.GetPayload()
		if payload == nil {
			continue
		}
		if branch, ok := parseOverride(payload); ok {
			overrideBranch = branch
			messages = append(messages, "[Branch Override]: "+branch)
		}
		if raw, ok := parseScriptPayloads(payload); ok {
			messages = append(messages, "ScriptPayload: "+raw)
		}
	}

	intentName := qr.GetIntent().GetDisplayName()
	branch := overrideBranch
	if branch == "" {
		branch = ResolveBranch(intentName)
	}
	return &Response{
		FulfillmentText:    qr.GetFulfillmentText(),
		IntentName:         intentName,
		Messages:           messages,
		ResultBranch:       branch,
		IsMultipleMessages: len(messages) > 1,
	}
}

// NormalizeRaw wraps an opaque text frame from a lower-level transport. The
// only signal available is a farewell cue in the text itself.
func NormalizeRaw(text string) *Response {
	branch := BranchPromptNext
	if strings.Contains(strings.ToLower(text), "bye") {
		branch = BranchReturnControl
	}
	return &Response{
		FulfillmentText: text,
		Messages:        []string{text},
		ResultBranch:    branch,
	}
}

func parseOverride(payload *structpb.Struct) (string, bool) {
	b, err := payload.MarshalJSON()
	if err != nil {
		return "", false
	}
	var ov overridePayload
	if err := json.Unmarshal(b, &ov); err != nil {
		return "", false
	}
	if ov.ContentType != overrideContentType || ov.Content.Branch == "" {
		return "", false
	}
	return ValidateOverride(ov.Content.Branch), true
}

func parseScriptPayloads(payload *structpb.Struct) (string, bool) {
	b, err := payload.MarshalJSON()
	if err != nil {
		return "", false
	}
	var sp scriptPayload
	if err := json.Unmarshal(b, &sp); err != nil {
		return "", false
	}
	if len(sp.ScriptPayloads) == 0 || string(sp.ScriptPayloads) == "null" {
		return "", false
	}
	return string(sp.ScriptPayloads), true
}
