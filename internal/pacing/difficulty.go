package pacing

import (
	"strings"
	"unicode"
)

// Syllables estimates the syllable count of a word by counting maximal
// vowel-group runs (a, e, i, o, u, y, case-insensitive), then subtracting a
// trailing silent 'e' (word ends in 'e', preceding rune is not a vowel or
// an 'l', and more than one group was found). The 'l' exception keeps
// consonant+le endings ("people", "little") as a syllable. Always at least
// 1 for a non-empty word.
func Syllables(word string) int {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return 0
	}

	groups := 0
	inGroup := false
	for _, r := range runes {
		if isVowelRune(r) {
			if !inGroup {
				groups++
				inGroup = true
			}
		} else {
			inGroup = false
		}
	}

	if groups > 1 && len(runes) >= 2 && runes[len(runes)-1] == 'e' &&
		!isVowelRune(runes[len(runes)-2]) && runes[len(runes)-2] != 'l' {
		groups--
	}
	if groups < 1 {
		groups = 1
	}
	return groups
}

// Rarity scores how uncommon a word is on a 0–1 scale, as a pure function
// of the word string: common function words score 0, everything else scores
// by length, min(1, (runeLen-4)/8) for words longer than 4 runes. Used to
// scale RarityExtraMaxMs.
func Rarity(word string) float64 {
	w := strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
	if w == "" || commonWords[w] {
		return 0
	}
	n := len([]rune(w))
	if n <= 4 {
		return 0
	}
	score := float64(n-4) / 8
	if score > 1 {
		score = 1
	}
	return score
}

func isVowelRune(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// commonWords holds high-frequency English words that never receive a
// rarity boost regardless of length.
var commonWords = map[string]bool{
	"the": true, "be": true, "to": true, "of": true, "and": true,
	"a": true, "in": true, "that": true, "have": true, "i": true,
	"it": true, "for": true, "not": true, "on": true, "with": true,
	"he": true, "as": true, "you": true, "do": true, "at": true,
	"this": true, "but": true, "his": true, "by": true, "from": true,
	"they": true, "we": true, "say": true, "her": true, "she": true,
	"or": true, "an": true, "will": true, "my": true, "one": true,
	"all": true, "would": true, "there": true, "their": true, "what": true,
	"so": true, "up": true, "out": true, "if": true, "about": true,
	"who": true, "get": true, "which": true, "go": true, "me": true,
	"when": true, "make": true, "can": true, "like": true, "time": true,
	"no": true, "just": true, "him": true, "know": true, "take": true,
	"people": true, "into": true, "year": true, "your": true, "good": true,
	"some": true, "could": true, "them": true, "see": true, "other": true,
	"than": true, "then": true, "now": true, "look": true, "only": true,
	"come": true, "its": true, "over": true, "think": true, "also": true,
	"back": true, "after": true, "use": true, "two": true, "how": true,
	"our": true, "work": true, "first": true, "well": true, "way": true,
	"even": true, "new": true, "want": true, "because": true, "any": true,
	"these": true, "give": true, "day": true, "most": true, "us": true,
	"is": true, "was": true, "are": true, "been": true, "has": true,
	"had": true, "were": true, "said": true, "did": true, "having": true,
	"may": true, "should": true, "very": true, "through": true, "where": true,
	"much": true, "before": true, "too": true, "own": true, "down": true,
	"still": true, "while": true, "never": true, "here": true, "more": true,
	"again": true, "away": true, "something": true, "nothing": true,
	"being": true, "such": true, "under": true, "between": true,
	"against": true, "during": true, "without": true, "around": true,
	"another": true, "himself": true, "herself": true, "itself": true,
	"thing": true, "things": true, "man": true, "woman": true, "old": true,
	"little": true, "long": true, "great": true, "last": true, "right": true,
	"left": true, "always": true, "every": true, "once": true, "both": true,
	"each": true, "few": true, "those": true, "came": true, "went": true,
	"made": true, "found": true, "thought": true, "told": true, "asked": true,
	"knew": true, "took": true, "seemed": true, "looked": true, "felt": true,
}
