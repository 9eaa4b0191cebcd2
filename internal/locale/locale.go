// Package locale turns the locale argument into the qualifier used in
// res/values-<qualifier> directory names.
package locale

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// androidQualifier matches values that already use Android's resource
// qualifier syntax: "de", "pt-rBR", "b+sr+Latn".
var androidQualifier = regexp.MustCompile(`^(b\+[A-Za-z0-9+]+|[a-z]{2,3}(-r[A-Z]{2}|-r[0-9]{3})?)$`)

// Qualifier returns the directory qualifier for arg. Android qualifiers are
// kept verbatim; BCP 47 tags carrying a region or script (pt-BR, sr-Latn,
// zh-Hant-TW) are rewritten to the Android form. Anything else, including
// compound qualifiers such as "de-land", is used unchanged.
func Qualifier(arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" || androidQualifier.MatchString(arg) {
		return arg
	}

	tag, err := language.Parse(arg)
	if err != nil {
		return arg
	}

	base, _ := tag.Base()
	script, scriptConf := tag.Script()
	region, regionConf := tag.Region()
	hasScript := scriptConf == language.Exact
	hasRegion := regionConf == language.Exact

	switch {
	case hasScript:
		parts := []string{"b", base.String(), script.String()}
		if hasRegion {
			parts = append(parts, region.String())
		}
		return strings.Join(parts, "+")
	case hasRegion:
		return base.String() + "-r" + region.String()
	default:
		return arg
	}
}
