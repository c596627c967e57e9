package locate

import (
	"strings"
	"unicode"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
)

var (
	textWords = []string{"button", "menu", "link", "text", "label", "tab", "item", "title", "name"}
	textKana  = []string{"ボタン", "メニュー", "リンク", "テキスト", "項目", "タブ", "ラベル", "文字", "名前", "タイトル"}
	iconWords = []string{"icon", "image", "logo", "symbol", "mark", "picture"}
	iconKana  = []string{"アイコン", "画像", "ロゴ", "マーク", "シンボル"}
)

// Classify tags a question as asking for a text element, an icon, or
// anything else. Each keyword occurrence is one hit; the larger side wins and
// a tie, including no hits at all, is ElementOther.
func Classify(question string) detection.ElementType {
	text, icon := keywordHits(question)
	switch {
	case text > icon:
		return detection.ElementText
	case icon > text:
		return detection.ElementIcon
	default:
		return detection.ElementOther
	}
}

func keywordHits(question string) (text, icon int) {
	lower := strings.ToLower(question)

	// Latin keywords match whole words, with a plural "s" tolerated, so that
	// "table" is not a tab and "bookmark" is not a mark.
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsLetter(r)
	})
	for _, w := range words {
		singular := strings.TrimSuffix(w, "s")
		if containsWord(textWords, w, singular) {
			text++
		}
		if containsWord(iconWords, w, singular) {
			icon++
		}
	}

	for _, k := range textKana {
		text += strings.Count(lower, k)
	}
	for _, k := range iconKana {
		icon += strings.Count(lower, k)
	}
	return text, icon
}

func containsWord(list []string, word, singular string) bool {
	for _, k := range list {
		if k == word || k == singular {
			return true
		}
	}
	return false
}
