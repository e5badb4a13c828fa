package tmplcore

import (
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatFloat renders a float in the shortest round-tripping decimal form,
// the Value Bridge's default canonical text (spec.md C1 "Textual form").
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// localePrinter, when non-nil, backs Config.Locale-driven numeric
// formatting (SPEC_FULL.md DOMAIN STACK: golang.org/x/text). It groups
// integers and floats the way a human reader of that locale expects
// (e.g. thousands separators), used only when a State carries one.
type localePrinter struct {
	p *message.Printer
}

func newLocalePrinter(locale string) (*localePrinter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, wrapError(UnformattableValue, err, "invalid locale "+locale)
	}
	return &localePrinter{p: message.NewPrinter(tag)}, nil
}

// text renders v using locale-aware grouping for Int/Float, falling back
// to Value.Text for every other kind.
func (lp *localePrinter) text(v Value) string {
	if lp == nil {
		return v.Text()
	}
	switch v.Kind() {
	case KindInt:
		return lp.p.Sprintf("%d", v.i)
	case KindFloat:
		return lp.p.Sprintf("%v", v.f)
	default:
		return v.Text()
	}
}

// writeValue writes v's canonical textual form to w (spec.md C6). The
// write is the only suspension point in the core evaluator (spec.md §5);
// any error it returns is classified WriteError.
func writeValue(w io.Writer, v Value, lp *localePrinter) error {
	text := lp.text(v)
	if _, err := io.WriteString(w, text); err != nil {
		return wrapError(WriteError, err, "sink write failed")
	}
	return nil
}
