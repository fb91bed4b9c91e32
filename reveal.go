package ssd1306fx

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/flavioheleno/ssd1306fx/image1bit"
)

// Marker is the rune that requests a confirm in the middle of dialog text. It
// is never drawn and there is no way to escape it.
const Marker = '`'

// TokenKind tells text runs from confirm requests.
type TokenKind int

const (
	TokenText    TokenKind = iota // a run of printable text
	TokenConfirm                  // a confirm marker
)

// Token is one element of tokenized dialog text.
type Token struct {
	Kind TokenKind
	Text string // empty for TokenConfirm
}

// Tokenize splits dialog text into text runs and confirm requests. Adjacent
// markers produce adjacent confirm tokens; empty text runs are not emitted.
func Tokenize(body string) []Token {
	var tokens []Token
	for {
		i := strings.IndexRune(body, Marker)
		if i < 0 {
			break
		}
		if i > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: body[:i]})
		}
		tokens = append(tokens, Token{Kind: TokenConfirm})
		body = body[i+len(string(Marker)):]
	}
	if body != "" {
		tokens = append(tokens, Token{Kind: TokenText, Text: body})
	}
	return tokens
}

// VisibleText joins the text runs of tokens, dropping confirm requests.
func VisibleText(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.Kind == TokenText {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// ConfirmPolicy selects which confirm sites also end on a timer.
type ConfirmPolicy struct {
	MidTimeout bool // confirms requested by markers
	EndTimeout bool // the confirm after the last character
	// Timeout for the timed sites. Zero or negative takes 10s.
	Timeout time.Duration
}

func (p ConfirmPolicy) request(timed bool) ConfirmRequest {
	if !timed {
		return ConfirmRequest{}
	}
	return ConfirmRequest{Timeout: p.Timeout}
}

// RevealOpts configures Stage.Reveal.
type RevealOpts struct {
	// Speed is the number of characters revealed per tick (minimum 1).
	Speed int
	// TickDelay is the hold after every tick; HeaderDelay the hold after the
	// header. Negative values take the defaults.
	TickDelay   time.Duration
	HeaderDelay time.Duration
	// OneByOne animates the body. When false the body appears in one frame.
	OneByOne bool
	Policy   ConfirmPolicy
}

// DefaultRevealOpts are the options used when Reveal is given nil.
var DefaultRevealOpts = RevealOpts{
	Speed:       1,
	TickDelay:   10 * time.Millisecond,
	HeaderDelay: 200 * time.Millisecond,
	OneByOne:    true,
	Policy:      ConfirmPolicy{Timeout: 10 * time.Second},
}

// revealUnit is one character or one confirm request.
type revealUnit struct {
	r       rune
	confirm bool
}

func revealUnits(tokens []Token) []revealUnit {
	var units []revealUnit
	for _, t := range tokens {
		if t.Kind == TokenConfirm {
			units = append(units, revealUnit{confirm: true})
			continue
		}
		for _, r := range textRunes(t.Text) {
			units = append(units, revealUnit{r: r})
		}
	}
	return units
}

// Reveal draws header at the top of the frame, then the dialog body below it,
// and waits for a confirm at every marker in body and once at the end.
//
// The cursor is left after the last character; use ClearHeader and
// ClearDialog before the next dialog. opts can be nil to use
// DefaultRevealOpts. Bytes of body that are not valid UTF-8 are drawn as
// '?', one per byte. The only error returned is ctx.Err().
func (s *Stage) Reveal(ctx context.Context, header, body string, opts *RevealOpts) error {
	if opts == nil {
		opts = &DefaultRevealOpts
	}
	o := *opts
	if o.Speed < 1 {
		o.Speed = 1
	}
	o.TickDelay = orDefault(o.TickDelay, DefaultRevealOpts.TickDelay)
	o.HeaderDelay = orDefault(o.HeaderDelay, DefaultRevealOpts.HeaderDelay)
	if o.Policy.Timeout <= 0 {
		o.Policy.Timeout = DefaultRevealOpts.Policy.Timeout
	}

	r := &reveal{s: s, o: o}
	tokens := Tokenize(body)
	s.logger.Debug("reveal", "component", "reveal", "header", header, "tokens", len(tokens), "one_by_one", o.OneByOne)

	s.fb.SetCursor(image.Pt(0, s.headerTop))
	s.fb.WriteString(header)
	if err := s.present(ctx, o.HeaderDelay); err != nil {
		return err
	}
	s.fb.SetCursor(image.Pt(0, s.dialogTop))

	if o.OneByOne {
		if err := r.animate(ctx, revealUnits(tokens)); err != nil {
			return err
		}
	} else {
		s.fb.WriteString(VisibleText(tokens))
		if err := s.present(ctx, time.Millisecond); err != nil {
			return err
		}
	}

	return s.confirm.Wait(ctx, o.Policy.request(o.Policy.EndTimeout))
}

type reveal struct {
	s *Stage
	o RevealOpts
}

// animate emits Speed units per tick while a full tick remains, then the
// rest one by one.
func (r *reveal) animate(ctx context.Context, units []revealUnit) error {
	s, speed := r.s, r.o.Speed
	n := len(units)
	i := 0
	for ; i+speed < n; i += speed {
		for _, u := range units[i : i+speed] {
			if u.confirm {
				if err := r.pause(ctx); err != nil {
					return err
				}
				continue
			}
			s.fb.WriteRune(u.r)
		}
		if err := s.present(ctx, r.o.TickDelay); err != nil {
			return err
		}
	}

	for ; i < n; i++ {
		u := units[i]
		if u.confirm {
			if err := r.pause(ctx); err != nil {
				return err
			}
			continue
		}
		s.fb.WriteRune(u.r)
		if err := s.present(ctx, r.o.TickDelay); err != nil {
			return err
		}
	}
	return nil
}

// pause shows what was written so far and waits for a mid-dialog confirm.
func (r *reveal) pause(ctx context.Context) error {
	if err := r.s.present(ctx, r.o.TickDelay); err != nil {
		return err
	}
	return r.s.confirm.Wait(ctx, r.o.Policy.request(r.o.Policy.MidTimeout))
}

// ClearHeader blanks the header band above the dialog.
func (s *Stage) ClearHeader(ctx context.Context) error {
	b := s.fb.Bounds()
	s.fb.FillRect(image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+s.dialogTop), image1bit.Off)
	return s.present(ctx, time.Millisecond)
}

// ClearDialog blanks the dialog band below the header.
func (s *Stage) ClearDialog(ctx context.Context) error {
	b := s.fb.Bounds()
	s.fb.FillRect(image.Rect(b.Min.X, b.Min.Y+s.dialogTop, b.Max.X, b.Max.Y), image1bit.Off)
	return s.present(ctx, time.Millisecond)
}
