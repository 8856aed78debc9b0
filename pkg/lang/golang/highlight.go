package golang

import (
	"go/scanner"
	"go/token"
	"go/types"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"
)

type regionType int

const (
	noRegion regionType = iota
	keywordRegion
	stringRegion
	numberRegion
	commentRegion
	builtinRegion
	errorRegion
)

// Style highlights code token by token. It never fails; malformed input is
// highlighted as far as it can be scanned.
func (l *Language) Style(code string) ([]ui.StylingRegion, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(code))
	var s scanner.Scanner
	s.Init(file, []byte(code), nil, scanner.ScanComments)

	var regions []ui.StylingRegion
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		typ := classify(tok, lit)
		if typ == noRegion {
			continue
		}
		from := file.Offset(pos)
		n := len(lit)
		if n == 0 {
			n = len(tok.String())
		}
		regions = append(regions, ui.StylingRegion{
			Ranging: diag.Ranging{From: from, To: from + n},
			Styling: stylingFor[typ],
		})
	}
	return regions, nil
}

func classify(tok token.Token, lit string) regionType {
	switch {
	case tok.IsKeyword():
		return keywordRegion
	case tok == token.STRING || tok == token.CHAR:
		return stringRegion
	case tok == token.INT || tok == token.FLOAT || tok == token.IMAG:
		return numberRegion
	case tok == token.COMMENT:
		return commentRegion
	case tok == token.IDENT && types.Universe.Lookup(lit) != nil:
		return builtinRegion
	case tok == token.ILLEGAL:
		return errorRegion
	}
	return noRegion
}
