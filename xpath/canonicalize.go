package xpath

import (
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/pkg/errors"

	"github.com/andaru/netconfd/yangmodel"
)

// Canonicalize rewrites every prefixed QName test in expr from nsc's
// prefix spelling to the namespace's YANG-module-assigned prefix,
// returning the rewritten expression and the nsc binding those new
// prefixes. It is a pure text rewrite over the tokens of expr (in the
// same small-FSM idiom as xmlcodec.FramingScanner) rather than a walk
// of antchfx/xpath's internal AST, which the library does not expose;
// this keeps the two nsc/expression pairs evaluating to identical
// navigator positions by construction.
func Canonicalize(expr string, nsc NSC, mods *yangmodel.Collection) (string, NSC, error) {
	var out strings.Builder
	newNSC := NSC{}
	i := 0
	for i < len(expr) {
		ch := expr[i]
		if !isNameStart(ch) {
			out.WriteByte(ch)
			i++
			continue
		}
		start := i
		i++
		for i < len(expr) && isNameChar(expr[i]) {
			i++
		}
		ident := expr[start:i]

		if i >= len(expr) || expr[i] != ':' {
			out.WriteString(ident)
			continue
		}
		if i+1 < len(expr) && expr[i+1] == ':' {
			// axis specifier (e.g. child::), not a QName; copy verbatim
			out.WriteString(ident)
			out.WriteString("::")
			i += 2
			continue
		}

		prefix := ident
		i++ // consume ':'
		lstart := i
		for i < len(expr) && isNameChar(expr[i]) {
			i++
		}
		local := expr[lstart:i]

		uri, ok := nsc[prefix]
		if !ok {
			return "", nil, errors.Errorf("xpath: canonicalize: unbound prefix %q", prefix)
		}
		newPrefix := modulePrefixFor(mods, uri)
		if newPrefix == "" {
			newPrefix = prefix
		}
		newNSC[newPrefix] = uri
		out.WriteString(newPrefix)
		out.WriteByte(':')
		out.WriteString(local)
	}
	return out.String(), newNSC, nil
}

func modulePrefixFor(mods *yangmodel.Collection, uri string) string {
	if mods == nil {
		return ""
	}
	var prefix string
	_ = mods.IterLatest(func(mod *yang.Module) error {
		if mod.Namespace != nil && mod.Namespace.Name == uri && mod.Prefix != nil {
			prefix = mod.Prefix.Name
			return errors.New("stop")
		}
		return nil
	})
	return prefix
}

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameChar(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9') || b == '-' || b == '.'
}
