package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"musespark-backend/internal/model"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

type converseInput struct {
	History  []model.Message
	Current  model.Message
	Language model.Language
}

type synthesizeInput struct {
	Transcript string
	Language   model.Language
}

type translateInput struct {
	Note     model.InspirationNote
	Language model.Language
}

type suggestInput struct {
	Labels   string
	Query    string
	Language model.Language
}

// composeChain builds a linear graph: ToVariables -> Prompt -> Model -> Parse.
func composeChain[I, O any](
	ctx context.Context,
	name string,
	cm einoModel.BaseChatModel,
	tpl prompt.ChatTemplate,
	toVariables func(context.Context, I) (map[string]any, error),
	parse func(context.Context, *schema.Message) (O, error),
) (compose.Runnable[I, O], error) {
	g := compose.NewGraph[I, O]()

	if err := g.AddLambdaNode("ToVariables", compose.InvokableLambda[I, map[string]any](toVariables)); err != nil {
		return nil, err
	}
	if err := g.AddChatTemplateNode("Prompt", tpl); err != nil {
		return nil, err
	}
	if err := g.AddChatModelNode("Model", cm); err != nil {
		return nil, err
	}
	if err := g.AddLambdaNode("Parse", compose.InvokableLambda[*schema.Message, O](parse)); err != nil {
		return nil, err
	}

	edges := [][2]string{
		{compose.START, "ToVariables"},
		{"ToVariables", "Prompt"},
		{"Prompt", "Model"},
		{"Model", "Parse"},
		{"Parse", compose.END},
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}

	return g.Compile(ctx, compose.WithGraphName(name))
}

func newConverseChain(ctx context.Context, cm einoModel.BaseChatModel) (compose.Runnable[*converseInput, string], error) {
	return composeChain(ctx, "converse", cm, newChatPrompt(),
		func(ctx context.Context, in *converseInput) (map[string]any, error) {
			history := make([]*schema.Message, 0, len(in.History))
			for _, m := range in.History {
				// system messages are not part of the history
				if m.Role == model.RoleSystem {
					continue
				}
				history = append(history, toSchemaMessage(m))
			}
			current := in.Current
			current.Role = model.RoleUser
			return map[string]any{
				varLanguage: in.Language.Name(),
				varHistory:  history,
				varCurrent:  []*schema.Message{toSchemaMessage(current)},
			}, nil
		},
		parseText,
	)
}

func newSynthesizeChain(ctx context.Context, cm einoModel.BaseChatModel) (compose.Runnable[*synthesizeInput, *model.InspirationNote], error) {
	return composeChain(ctx, "synthesize_note", cm, newSynthesizePrompt(),
		func(ctx context.Context, in *synthesizeInput) (map[string]any, error) {
			return map[string]any{
				varLanguage:   in.Language.Name(),
				varSchema:     noteSchemaJSON,
				varTranscript: in.Transcript,
			}, nil
		},
		parseNote,
	)
}

func newTranslateChain(ctx context.Context, cm einoModel.BaseChatModel) (compose.Runnable[*translateInput, *model.InspirationNote], error) {
	return composeChain(ctx, "translate_note", cm, newTranslatePrompt(),
		func(ctx context.Context, in *translateInput) (map[string]any, error) {
			body, err := json.Marshal(translatable(in.Note))
			if err != nil {
				return nil, err
			}
			return map[string]any{
				varLanguage: in.Language.Name(),
				varNote:     string(body),
			}, nil
		},
		parseNote,
	)
}

func newSuggestChain(ctx context.Context, cm einoModel.BaseChatModel) (compose.Runnable[*suggestInput, string], error) {
	return composeChain(ctx, "suggest_node", cm, newSuggestPrompt(),
		func(ctx context.Context, in *suggestInput) (map[string]any, error) {
			return map[string]any{
				varLanguage: in.Language.Name(),
				varLabels:   in.Labels,
				varQuery:    in.Query,
			}, nil
		},
		parsePhrase,
	)
}

// toSchemaMessage converts to an eino message; images go into MultiContent as data URIs.
func toSchemaMessage(m model.Message) *schema.Message {
	role := schema.User
	switch m.Role {
	case model.RoleModel:
		role = schema.Assistant
	case model.RoleSystem:
		role = schema.System
	}

	if m.Attachment == nil {
		return &schema.Message{Role: role, Content: m.Content}
	}

	parts := []schema.ChatMessagePart{{
		Type: schema.ChatMessagePartTypeImageURL,
		ImageURL: &schema.ChatMessageImageURL{
			URL:      m.Attachment.DataURI(),
			MIMEType: m.Attachment.MimeType,
		},
	}}
	if m.Content != "" {
		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeText,
			Text: m.Content,
		})
	}
	return &schema.Message{Role: role, MultiContent: parts}
}

// translatable drops identity fields so the model only sees text to translate.
func translatable(n model.InspirationNote) any {
	return struct {
		Project         model.ProjectSection   `json:"project"`
		Business        model.BusinessSection  `json:"business"`
		Legal           model.LegalSection     `json:"legal"`
		VisualStructure *model.VisualStructure `json:"visualStructure,omitempty"`
	}{n.Project, n.Business, n.Legal, n.VisualStructure}
}

func parseText(ctx context.Context, msg *schema.Message) (string, error) {
	if msg == nil {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func parsePhrase(ctx context.Context, msg *schema.Message) (string, error) {
	text, err := parseText(ctx, msg)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.Trim(strings.TrimSpace(text), `"'“”*`)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func parseNote(ctx context.Context, msg *schema.Message) (*model.InspirationNote, error) {
	text, err := parseText(ctx, msg)
	if err != nil {
		return nil, err
	}

	var note model.InspirationNote
	if err := json.Unmarshal([]byte(trimCodeFence(text)), &note); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &note, nil
}

// trimCodeFence strips a ```json ... ``` wrapper some models add.
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
