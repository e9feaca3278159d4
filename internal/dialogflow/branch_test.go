package dialogflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBranch(t *testing.T) {
	cases := map[string]string{
		"StandardBotEndConversation":  BranchReturnControl,
		"StandardBotMultipleMessages": BranchPromptNext,
		"StandardBotBranchOverride":   BranchReturnControl,
		"OverrideIntent":              BranchReturnControl,
		"Unknown":                     BranchPromptNext,
	}
	for intent, want := range cases {
		assert.Equal(t, want, ResolveBranch(intent), "intent %q", intent)
	}
}

func TestResolveBranchUnknownIntents(t *testing.T) {
	for _, intent := range []string{
		"",
		"OrderPizza",
		"standardbotendconversation", // matching is case-sensitive
		"StandardBotEndConversation ",
	} {
		assert.Equal(t, BranchPromptNext, ResolveBranch(intent), "intent %q", intent)
	}
}

func TestValidateOverride(t *testing.T) {
	assert.Equal(t, BranchReturnControl, ValidateOverride("ReturnControlToScript"))
	assert.Equal(t, BranchPromptNext, ValidateOverride("PromptAndCollectNextResponse"))

	for _, candidate := range []string{"", "anything-else", "No Branch Found", "returncontroltoscript"} {
		assert.Equal(t, BranchNotFound, ValidateOverride(candidate), "candidate %q", candidate)
	}
}
