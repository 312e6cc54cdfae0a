// Terminal styling for CLI output.  The escape model follows @shabbyrobe's termfmt
// (https://github.com/shabbyrobe/golib, MIT), cut down to the handful of styles this tool prints.
package termfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type Escape interface {
	Wrap(out string) string
}

func With(escs ...Escape) Style    { return (Style{}).With(escs...) }
func Bold() Style                  { return (Style{}).Bold() }
func Faint() Style                 { return (Style{}).Faint() }
func Fg(c Color) Style             { return (Style{}).Fg(c) }
func Linked(link string) Style     { return (Style{}).Linked(link) }
func Sprint(s Style, v any) string { return fmt.Sprint(s.V(v)) }

// Style is a fmt.Formatter: build one, attach a value with V and print it with any verb.
type Style struct {
	escapes []Escape
	v       any
}

var _ fmt.Formatter = Style{}

func (c Style) With(escs ...Escape) Style {
	c.escapes = append(append([]Escape(nil), c.escapes...), escs...)
	return c
}

func (c Style) Bold() Style              { return c.With(sgr(1)) }
func (c Style) Faint() Style             { return c.With(sgr(2)) }
func (c Style) Fg(col Color) Style       { return c.With(col) }
func (c Style) Linked(link string) Style { return c.With(Link{link}) }

func (c Style) V(v any) Style {
	c.v = v
	return c
}

func (c Style) Format(f fmt.State, verb rune) {
	v := printable(fmt.Sprintf(buildValueFormat(f, verb), c.v))
	if enabled {
		for i := len(c.escapes) - 1; i >= 0; i-- {
			v = c.escapes[i].Wrap(v)
		}
	}
	f.Write([]byte(v))
}

var enabled = true

// SetEnabled switches escapes on or off globally, e.g. when stdout isn't a terminal.
func SetEnabled(on bool) { enabled = on }

func buildValueFormat(f fmt.State, verb rune) string {
	s := "%"
	for _, flag := range " +-0#" {
		if f.Flag(int(flag)) {
			s += string(flag)
		}
	}
	if width, ok := f.Width(); ok {
		s += strconv.Itoa(width)
	}
	if prec, ok := f.Precision(); ok {
		s += "." + strconv.Itoa(prec)
	}
	return s + string(verb)
}

type sgr int

func (s sgr) Wrap(v string) string { return fmt.Sprintf("\x1b[%dm%s\x1b[0m", int(s), v) }

// Link is an OSC 8 hyperlink.
type Link struct {
	URL string
}

func (l Link) Wrap(out string) string {
	return "\x1b]8;;" + printable(l.URL) + "\x1b\\" + out + "\x1b]8;;\x1b\\"
}

// Color is one of the 16 basic terminal colours.
type Color uint8

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

func (c Color) Wrap(out string) string { return sgr(30 + int(c)).Wrap(out) }

func mapPrintable(r rune) rune {
	if unicode.IsGraphic(r) {
		return r
	}
	return -1
}

func printable(v string) string {
	return strings.Map(mapPrintable, v)
}
