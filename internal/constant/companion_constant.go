package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// CompanionSystemPrompt frames every answer turn. The hard
	// spoiler rules live here; the per-turn prompt carries the
	// reference material and the question.
	CompanionSystemPrompt = `You are a spoiler-safe reading companion. The user is partway through a book and asks about what they have read.

RULES:
1. The reference material is the entire book as far as you are concerned. Text beyond the user's position does not exist.
2. Never foreshadow, hint, or speculate about what happens next.
3. Cite passages with their markers, e.g. [c:1], immediately after the claim they support.
4. If the material does not answer the question, say so plainly.
5. Answer in a few sentences. The user wants a reminder, not an essay.`

	// NoContentAnswer is the canned reply when nothing admissible
	// exists: the reader has not started, or retrieval came back empty.
	NoContentAnswer = "I don't have enough information from the text you've read so far."

	// Retrieval and assembly defaults
	DefaultTopK          = 8
	DefaultContextBudget = 6000
	DefaultHistoryCap    = 40

	// Position write-behind
	PositionDebounceSeconds = 5
	PositionRedisKeyPrefix  = "bookpos:"
)

// AllowedModels is the closed set a reader may pick from in settings.
// Anything else falls back to the default.
var AllowedModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-4.1-mini",
	"llama3",
	"qwen2.5",
}

func IsAllowedModel(model string) bool {
	for _, m := range AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}

// Setting keys
const (
	SettingKeyModel         = "answer_model"
	SettingKeyLLMProvider   = "llm_provider"
	SettingKeyTopK          = "retrieval_top_k"
	SettingKeyContextBudget = "context_budget"
)
