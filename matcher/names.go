package matcher

import (
	"strings"

	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/xrash/smetrics"
)

// nicknameGroups are sets of first names that refer to the same person.
// Membership in the same group counts as a known name variation.
var nicknameGroups = [][]string{
	{"patrick", "pat"},
	{"michael", "mike", "mikey"},
	{"robert", "rob", "bob", "bobby"},
	{"william", "will", "bill", "billy"},
	{"james", "jim", "jimmy", "jamie"},
	{"christopher", "chris"},
	{"daniel", "dan", "danny"},
	{"thomas", "tom", "tommy"},
	{"anthony", "tony"},
	{"joseph", "joe", "joey"},
	{"nicholas", "nick"},
	{"alexander", "alex"},
	{"matthew", "matt"},
	{"joshua", "josh"},
	{"zachary", "zach", "zack"},
	{"benjamin", "ben"},
	{"samuel", "sam", "sammy"},
	{"jacob", "jake"},
	{"andrew", "andy", "drew"},
	{"kenneth", "ken", "kenny"},
	{"steven", "stephen", "steve"},
	{"david", "dave"},
	{"cameron", "cam"},
	{"jeffrey", "jeff"},
	{"gregory", "greg"},
	{"edward", "ed", "eddie"},
	{"gabriel", "gabe"},
	{"timothy", "tim", "timmy"},
	{"jonathan", "jon", "john", "johnny"},
	{"charles", "charlie", "chuck"},
	{"richard", "rich", "rick", "ricky"},
	{"isaiah", "isiah"},
	{"devonta", "davante", "devante"},
}

var nicknameIndex = buildNicknameIndex()

func buildNicknameIndex() map[string]int {
	idx := make(map[string]int)
	for i, group := range nicknameGroups {
		for _, name := range group {
			idx[name] = i
		}
	}
	return idx
}

var nameReplacer = strings.NewReplacer(".", "", "'", "", ",", "", "-", " ")

// normalizeName lowercases a name, strips punctuation and generational
// suffixes, and collapses runs of whitespace.
func normalizeName(name string) string {
	name = model.TrimNameSuffix(strings.TrimSpace(name))
	name = strings.ToLower(nameReplacer.Replace(name))
	return strings.Join(strings.Fields(name), " ")
}

// isNameVariation reports whether two normalized names differ only by a known
// first-name variation, e.g. "pat mahomes" and "patrick mahomes".
func isNameVariation(a, b string) bool {
	aFirst, aLast := model.SplitName(a)
	bFirst, bLast := model.SplitName(b)
	if aLast == "" || aLast != bLast {
		return false
	}
	if aFirst == bFirst {
		return true
	}

	ai, aok := nicknameIndex[aFirst]
	bi, bok := nicknameIndex[bFirst]
	return aok && bok && ai == bi
}

// phoneticSimilar reports whether both the first and last names of two
// normalized names share a Soundex code.
func phoneticSimilar(a, b string) bool {
	aFirst, aLast := model.SplitName(a)
	bFirst, bLast := model.SplitName(b)
	if aFirst == "" || bFirst == "" || aLast == "" || bLast == "" {
		return false
	}
	return smetrics.Soundex(aFirst) == smetrics.Soundex(bFirst) &&
		smetrics.Soundex(aLast) == smetrics.Soundex(bLast)
}

// initials returns the first letter of each word in a normalized name.
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		b.WriteByte(word[0])
	}
	return b.String()
}
