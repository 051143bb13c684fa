package model

// Language is a supported display locale.
type Language string

const (
	LangEN Language = "en"
	LangZH Language = "zh"
	LangES Language = "es"
	LangJA Language = "ja"
)

var Languages = []Language{LangEN, LangZH, LangES, LangJA}

func (l Language) Valid() bool {
	switch l {
	case LangEN, LangZH, LangES, LangJA:
		return true
	}
	return false
}

// Name is the language's English name, used inside model prompts.
func (l Language) Name() string {
	switch l {
	case LangZH:
		return "Chinese"
	case LangES:
		return "Spanish"
	case LangJA:
		return "Japanese"
	default:
		return "English"
	}
}

// Texts holds the strings the core itself writes into user data.
type Texts struct {
	StartChat string
	NewIdea   string
	ImageChat string
}

var texts = map[Language]Texts{
	LangEN: {StartChat: "Start Chat", NewIdea: "New Idea", ImageChat: "Image Chat"},
	LangZH: {StartChat: "开始对话", NewIdea: "新想法", ImageChat: "图片对话"},
	LangES: {StartChat: "Iniciar chat", NewIdea: "Nueva idea", ImageChat: "Chat de imagen"},
	LangJA: {StartChat: "チャットを開始", NewIdea: "新しいアイデア", ImageChat: "画像チャット"},
}

func TextsFor(l Language) Texts {
	if t, ok := texts[l]; ok {
		return t
	}
	return texts[LangEN]
}
