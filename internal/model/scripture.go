package model

// ScripturePassage 外部经文接口返回的段落
type ScripturePassage struct {
	Reference       string `json:"reference"`
	Text            string `json:"text"`
	TranslationName string `json:"translationName"`
	TranslationNote string `json:"translationNote"`
}
