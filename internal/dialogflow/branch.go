package dialogflow

// IntentCategory classifies the intents the standard bot agent is trained on.
type IntentCategory string

const (
	CategoryEndConversation  IntentCategory = "StandardBotEndConversation"
	CategoryMultipleMessages IntentCategory = "StandardBotMultipleMessages"
	CategoryBranchOverride   IntentCategory = "StandardBotBranchOverride"
	CategoryOverrideIntent   IntentCategory = "OverrideIntent"
	CategoryUnknown          IntentCategory = "Unknown"
)

// Branch identifiers returned to the script engine driving the conversation.
const (
	BranchReturnControl = "ReturnControlToScript"
	BranchPromptNext    = "PromptAndCollectNextResponse"
	BranchNotFound      = "No Branch Found"
)

var branchByCategory = map[IntentCategory]string{
	CategoryEndConversation:  BranchReturnControl,
	CategoryMultipleMessages: BranchPromptNext,
	CategoryBranchOverride:   BranchReturnControl,
	CategoryOverrideIntent:   BranchReturnControl,
	CategoryUnknown:          BranchPromptNext,
}

// CategoryForIntent matches the intent display name exactly (case-sensitive);
// anything the agent was not trained on maps to CategoryUnknown.
func CategoryForIntent(intentName string) IntentCategory {
	switch IntentCategory(intentName) {
	case CategoryEndConversation, CategoryMultipleMessages, CategoryBranchOverride, CategoryOverrideIntent:
		return IntentCategory(intentName)
	default:
		return CategoryUnknown
	}
}

// ResolveBranch maps an intent display name to its script-control branch.
// Total: every input resolves to a real branch identifier.
func ResolveBranch(intentName string) string {
	return branchByCategory[CategoryForIntent(intentName)]
}

// ValidateOverride checks a branch requested by an explicit payload override.
// Only the two real branch identifiers pass through; everything else becomes
// the BranchNotFound sentinel, which signals bad data without failing.
func ValidateOverride(candidate string) string {
	switch candidate {
	case BranchReturnControl, BranchPromptNext:
		return candidate
	default:
		return BranchNotFound
	}
}
