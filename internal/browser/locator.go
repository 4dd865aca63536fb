package browser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// By names a locator strategy.
type By string

// Locator strategies, matching the classic WebDriver set.
const (
	ByID              By = "id"
	ByName            By = "name"
	ByClassName       By = "class name"
	ByTagName         By = "tag name"
	ByCSSSelector     By = "css selector"
	ByXPath           By = "xpath"
	ByLinkText        By = "link text"
	ByPartialLinkText By = "partial link text"
)

// ParseBy parses a strategy name. Short forms like "css" and "class" are accepted.
func ParseBy(s string) (By, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "id":
		return ByID, nil
	case "name":
		return ByName, nil
	case "class", "class name", "classname":
		return ByClassName, nil
	case "tag", "tag name", "tagname":
		return ByTagName, nil
	case "", "css", "css selector", "selector":
		return ByCSSSelector, nil
	case "xpath":
		return ByXPath, nil
	case "link", "link text":
		return ByLinkText, nil
	case "partial", "partial link text":
		return ByPartialLinkText, nil
	default:
		return "", fmt.Errorf("unknown locator strategy %q", s)
	}
}

// Locator identifies a page element.
type Locator struct {
	By    By
	Value string
}

// ID, CSS and XPath are shorthands for the common strategies.
func ID(value string) Locator    { return Locator{By: ByID, Value: value} }
func CSS(value string) Locator   { return Locator{By: ByCSSSelector, Value: value} }
func XPath(value string) Locator { return Locator{By: ByXPath, Value: value} }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%q", l.By, l.Value)
}

type selectorKind int

const (
	selectorCSS selectorKind = iota
	selectorXPath
)

// selector compiles the locator into a CSS or XPath expression.
func (l Locator) selector() (selectorKind, string, error) {
	if l.Value == "" {
		return 0, "", fmt.Errorf("empty locator value for %s", l.By)
	}
	switch l.By {
	case ByID:
		return selectorCSS, fmt.Sprintf(`[id=%s]`, cssString(l.Value)), nil
	case ByName:
		return selectorCSS, fmt.Sprintf(`[name=%s]`, cssString(l.Value)), nil
	case ByClassName:
		return selectorCSS, "." + cssIdent(l.Value), nil
	case ByTagName, ByCSSSelector:
		return selectorCSS, l.Value, nil
	case ByXPath:
		return selectorXPath, l.Value, nil
	case ByLinkText:
		return selectorXPath, fmt.Sprintf(`//a[normalize-space(.)=%s]`, xpathString(l.Value)), nil
	case ByPartialLinkText:
		return selectorXPath, fmt.Sprintf(`//a[contains(normalize-space(.), %s)]`, xpathString(l.Value)), nil
	default:
		return 0, "", fmt.Errorf("unknown locator strategy %q", l.By)
	}
}

// clickableJS returns an expression that evaluates to true when the
// element exists, has a non-empty box, is not hidden and is not disabled.
func (l Locator) clickableJS() (string, error) {
	kind, expr, err := l.selector()
	if err != nil {
		return "", err
	}
	quoted, _ := json.Marshal(expr)

	find := fmt.Sprintf("document.querySelector(%s)", quoted)
	if kind == selectorXPath {
		find = fmt.Sprintf("document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue", quoted)
	}

	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) return false;
	const r = el.getBoundingClientRect();
	const s = window.getComputedStyle(el);
	return r.width > 0 && r.height > 0 && s.visibility !== "hidden" && s.display !== "none" && !el.disabled;
})()`, find), nil
}

func cssString(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func cssIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r > 0x7f:
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

// xpathString quotes s as an XPath 1.0 literal, which has no escapes.
func xpathString(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		quoted = append(quoted, `"`+p+`"`)
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
