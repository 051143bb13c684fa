package genai

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Template variables. FString treats braces as placeholders, so JSON is
// always passed in as a variable value and never written into a template.
const (
	varLanguage   = "language"
	varHistory    = "message_histories"
	varCurrent    = "current_turn"
	varSchema     = "note_schema"
	varTranscript = "transcript"
	varNote       = "note_json"
	varLabels     = "labels"
	varQuery      = "query"
)

const chatSystemPrompt = `You are MuseSpark, an expert product consultant.
Current Language: {language}.
Analyze images if provided.
If the user's idea is vague, ask clarifying questions.
Be encouraging but realistic.`

const noteSchemaJSON = `{
  "project": {"summary": "one sentence summary", "targetAudience": "", "scenarios": "", "tags": [""], "details": ""},
  "business": {"valueProps": [""], "difficulties": [""], "mvpFeatures": [""], "strategy": ""},
  "legal": {"risks": [""], "disclaimer": ""},
  "visualStructure": {"centralNode": "", "branches": [{"main": "", "subs": [""]}]}
}`

const synthesizeSystemPrompt = `Create a structured Inspiration Note based on the conversation.
Language: {language}.
Reply with a single JSON object and nothing else, shaped like:
{note_schema}`

const translateSystemPrompt = `Translate every string value of the JSON object into {language}.
Keep the same JSON structure and keys. Reply with the JSON object only.`

const suggestPrompt = `Context: Mind map nodes: {labels}.
User Idea: {query}.
Language: {language}.
Task: Provide a short, single phrase suggestion (max 5 words) to add as a new node related to the idea.`

func newChatPrompt() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(chatSystemPrompt),
		schema.MessagesPlaceholder(varHistory, true),
		schema.MessagesPlaceholder(varCurrent, false),
	)
}

func newSynthesizePrompt() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(synthesizeSystemPrompt),
		schema.UserMessage("Conversation:\n{transcript}"),
	)
}

func newTranslatePrompt() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(translateSystemPrompt),
		schema.UserMessage("{note_json}"),
	)
}

func newSuggestPrompt() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.UserMessage(suggestPrompt),
	)
}
