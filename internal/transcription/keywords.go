package transcription

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxKeywords bounds the keyword list per transcript.
const maxKeywords = 10

// Portuguese function words excluded from keyword extraction.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"o", "a", "de", "que", "e", "do", "da", "em", "um", "para", "é",
		"com", "não", "uma", "os", "no", "se", "na", "por", "mais", "as",
		"dos", "como", "mas", "foi", "ao", "ele", "das", "tem", "à", "seu",
		"sua", "ou", "ser", "quando", "muito", "há", "nos", "já", "está",
		"eu", "também", "só", "pelo", "pela", "até", "isso", "ela", "entre",
		"era", "depois", "sem", "mesmo", "aos", "ter", "seus", "quem", "nas",
		"me", "esse", "eles", "estão", "você", "tinha", "foram", "essa",
		"num", "nem", "suas", "meu", "às", "minha", "têm", "numa", "pelos",
		"elas", "havia", "seja", "qual", "será", "nós", "tenho", "lhe",
		"deles", "essas", "esses", "pelas", "este", "fosse", "dele",
	} {
		stopwords[w] = struct{}{}
	}
}

// ExtractKeywords returns up to ten distinct substantive words from the
// transcript, lowercased, in order of first appearance. Words of four or
// more letters that are not Portuguese function words qualify.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range words {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
