package dialogflow

// Response is the uniform chat result the client sees, regardless of what
// shape the upstream reply arrived in.
type Response struct {
	FulfillmentText        string   `json:"fulfillmentText"`
	IntentName             string   `json:"intentName"`
	Messages               []string `json:"messages"`
	ResultBranch           string   `json:"resultBranch"`
	IsMultipleMessages     bool     `json:"isMultipleMessages"`
	Diagnostics            string   `json:"diagnostics,omitempty"`
	IsCustomPayloadRequest bool     `json:"isCustomPayloadRequest,omitempty"`
	CustomPayload          any      `json:"customPayload,omitempty"`
}

const fallbackText = "Sorry, I encountered an error processing your request."

// Fallback is the fixed result returned whenever the provider cannot be
// reached or replies with something unusable. Callers never see the error.
func Fallback() *Response {
	return &Response{
		FulfillmentText: fallbackText,
		Messages:        []string{fallbackText},
		ResultBranch:    BranchReturnControl,
	}
}
