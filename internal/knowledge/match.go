package knowledge

import (
	"regexp"
	"strings"

	"charterbot/internal/domain"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)

func tokenize(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}

// Match returns the records with at least one trigger keyword occurring in
// text as a whole word or phrase. Records keep store order (charter first)
// and appear once even when several keywords hit.
func (s *Store) Match(text string) []domain.FAQRecord {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	var out []domain.FAQRecord
	for _, group := range [][]domain.FAQRecord{s.charter, s.sales} {
		for _, rec := range group {
			if recordMatches(rec, tokens) {
				out = append(out, rec)
			}
		}
	}
	return out
}

func recordMatches(rec domain.FAQRecord, tokens []string) bool {
	for _, kw := range rec.TriggerKeywords {
		phrase := tokenize(kw)
		if len(phrase) > 0 && containsPhrase(tokens, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(tokens, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		hit := true
		for j := range phrase {
			if tokens[i+j] != phrase[j] {
				hit = false
				break
			}
		}
		if hit {
			return true
		}
	}
	return false
}
