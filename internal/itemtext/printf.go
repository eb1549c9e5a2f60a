package itemtext

import (
	"fmt"
	"strings"
)

const printfFlags = "-+ #0"

// Sprintf renders a game string template with C printf semantics. Integer
// verbs accept any argument, strings are printed with fmt.Sprint. Missing
// arguments render as nothing.
//
// Templates also use bare positional digits such as %0 or %1. A lone digit
// with no verb after it reads as an %s verb carrying that digit as flag or
// width, the way the game client rewrites it.
func Sprintf(template string, args ...any) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(template) && template[i+1] == '%' {
			b.WriteByte('%')
			i++
			continue
		}

		j := i + 1
		for j < len(template) && strings.IndexByte(printfFlags, template[j]) >= 0 {
			j++
		}
		k := j
		for k < len(template) && (isDigit(template[k]) || template[k] == '.') {
			k++
		}
		flags, width := template[i+1:j], template[j:k]
		if isBareDigit(template[i+1:k]) && (k >= len(template) || !isVerb(template[k])) {
			if next < len(args) {
				b.WriteString(formatString(flags, width, args[next]))
			}
			next++
			i = k - 1
			continue
		}
		if k >= len(template) {
			b.WriteString(template[i:])
			break
		}

		verb := template[k]
		switch verb {
		case 'd', 'i', 'u':
			if next < len(args) {
				b.WriteString(formatInt(flags, width, args[next]))
			}
			next++
		case 's':
			if next < len(args) {
				b.WriteString(formatString(flags, width, args[next]))
			}
			next++
		default:
			b.WriteString(template[i : k+1])
		}
		i = k
	}

	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isBareDigit(spec string) bool {
	return len(spec) == 1 && isDigit(spec[0])
}

func isVerb(c byte) bool {
	return strings.IndexByte("dius", c) >= 0
}

func formatInt(flags, width string, arg any) string {
	n, ok := intArg(arg)
	if !ok {
		return formatString(flags, width, arg)
	}
	return fmt.Sprintf("%"+strings.ReplaceAll(flags, "#", "")+width+"d", n)
}

func formatString(flags, width string, arg any) string {
	if strings.Contains(flags, "-") {
		return fmt.Sprintf("%-"+width+"s", fmt.Sprint(arg))
	}
	return fmt.Sprintf("%"+width+"s", fmt.Sprint(arg))
}

func intArg(arg any) (int, bool) {
	switch v := arg.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
