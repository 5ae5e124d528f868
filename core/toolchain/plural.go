// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package toolchain

import (
	"strings"

	"golang.org/x/text/language"
)

const defaultPluralForms = "nplurals=2; plural=(n != 1);"

var (
	brazilian = language.MustParseRegion("BR")

	// pluralFormsByBase follows the Plural-Forms table shipped with msginit.
	pluralFormsByBase = map[string]string{
		"ja": "nplurals=1; plural=0;",
		"ko": "nplurals=1; plural=0;",
		"zh": "nplurals=1; plural=0;",
		"vi": "nplurals=1; plural=0;",
		"th": "nplurals=1; plural=0;",
		"id": "nplurals=1; plural=0;",
		"ms": "nplurals=1; plural=0;",
		"lo": "nplurals=1; plural=0;",
		"fr": "nplurals=2; plural=(n > 1);",
		"oc": "nplurals=2; plural=(n > 1);",
		"ln": "nplurals=2; plural=(n > 1);",
		"wa": "nplurals=2; plural=(n > 1);",
		"ru": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		"uk": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		"be": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		"sr": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		"hr": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		"bs": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		"pl": "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		"cs": "nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;",
		"sk": "nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;",
		"lt": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);",
		"lv": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);",
		"ro": "nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);",
		"sl": "nplurals=4; plural=(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3);",
		"ga": "nplurals=5; plural=(n==1 ? 0 : n==2 ? 1 : n>=3 && n<=6 ? 2 : n>=7 && n<=10 ? 3 : 4);",
		"ar": "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);",
	}
)

// PluralForms returns the Plural-Forms header value for locale, such as
// "nplurals=2; plural=(n > 1);" for "fr". Unknown languages get the
// English rule.
func PluralForms(locale string) string {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return defaultPluralForms
	}

	base, _ := tag.Base()

	if base.String() == "pt" {
		if region, conf := tag.Region(); conf == language.Exact && region == brazilian {
			return "nplurals=2; plural=(n > 1);"
		}
	}

	if forms, ok := pluralFormsByBase[base.String()]; ok {
		return forms
	}

	return defaultPluralForms
}
