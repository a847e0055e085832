// Package adapter contains the infrastructure adapters for smite: the
// Solidity walker, filesystem access, and the compiler/test-runner
// subprocess boundaries.
package adapter

import (
	"fmt"
	"sort"

	m "smite.dev/pkg/smite/internal/model"
)

// SolFileAdapter abstracts the Solidity-side walk that the domain layer
// relies on: it turns raw source into the per-node MutationContexts the
// mutator catalog consumes. Hiding the walk behind an interface keeps the
// pipeline testable with hand-built contexts.
type SolFileAdapter interface {
	// Contexts returns every mutation context found in source, ordered by
	// byte offset. The walk is deterministic for a fixed input.
	Contexts(path m.Path, source string) ([]m.MutationContext, error)
}

// ScannerSolFileAdapter is a lightweight scanner-based SolFileAdapter. It
// does not build a full AST: comments and string literals are masked out,
// function bodies are brace-matched, and the constructs the catalog mutates
// (casts, binary operators, increments, guard conditions) are
// pattern-matched over the masked buffer.
type ScannerSolFileAdapter struct{}

// NewScannerSolFileAdapter constructs a ScannerSolFileAdapter.
func NewScannerSolFileAdapter() *ScannerSolFileAdapter {
	return &ScannerSolFileAdapter{}
}

// Contexts implements SolFileAdapter.
func (a *ScannerSolFileAdapter) Contexts(path m.Path, source string) ([]m.MutationContext, error) {
	masked := maskNonCode(source)

	contexts := make([]m.MutationContext, 0)

	fns, err := scanFunctions(masked)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}

	for _, fn := range fns {
		info := fn.info

		contexts = append(contexts, m.MutationContext{
			Span:   fn.span,
			Source: source,
			Path:   path,
			Fn:     &info,
		})
	}

	for _, expr := range scanExpressions(masked, source) {
		info := expr.info

		contexts = append(contexts, m.MutationContext{
			Span:   expr.span,
			Source: source,
			Path:   path,
			Expr:   &info,
		})
	}

	sort.SliceStable(contexts, func(i, j int) bool {
		if contexts[i].Span.Lo != contexts[j].Span.Lo {
			return contexts[i].Span.Lo < contexts[j].Span.Lo
		}

		return contexts[i].Span.Hi < contexts[j].Span.Hi
	})

	return contexts, nil
}

// maskNonCode blanks comments and string literals (newlines preserved) so
// the scanners only ever see code tokens at their original offsets.
func maskNonCode(source string) []byte {
	masked := []byte(source)

	const (
		stateCode = iota
		stateLineComment
		stateBlockComment
		stateString
	)

	state := stateCode

	var quote byte

	i := 0
	for i < len(masked) {
		c := masked[i]

		switch state {
		case stateCode:
			switch {
			case c == '/' && i+1 < len(masked) && masked[i+1] == '/':
				masked[i], masked[i+1] = ' ', ' '
				state = stateLineComment
				i += 2
			case c == '/' && i+1 < len(masked) && masked[i+1] == '*':
				masked[i], masked[i+1] = ' ', ' '
				state = stateBlockComment
				i += 2
			case c == '"' || c == '\'':
				quote = c
				masked[i] = ' '
				state = stateString
				i++
			default:
				i++
			}

		case stateLineComment:
			if c == '\n' {
				state = stateCode
			} else {
				masked[i] = ' '
			}
			i++

		case stateBlockComment:
			if c == '*' && i+1 < len(masked) && masked[i+1] == '/' {
				masked[i], masked[i+1] = ' ', ' '
				state = stateCode
				i += 2

				continue
			}

			if c != '\n' {
				masked[i] = ' '
			}
			i++

		case stateString:
			switch {
			case c == '\\' && i+1 < len(masked):
				masked[i] = ' '
				if masked[i+1] != '\n' {
					masked[i+1] = ' '
				}
				i += 2
			case c == quote:
				masked[i] = ' '
				state = stateCode
				i++
			default:
				if c != '\n' {
					masked[i] = ' '
				}
				i++
			}
		}
	}

	return masked
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipSpaces(buf []byte, i int) int {
	for i < len(buf) && isSpace(buf[i]) {
		i++
	}

	return i
}

// prevSignificant returns the index of the last non-space byte before i, or
// -1 when there is none.
func prevSignificant(buf []byte, i int) int {
	for j := i - 1; j >= 0; j-- {
		if !isSpace(buf[j]) {
			return j
		}
	}

	return -1
}

// matchDelim returns the index of the delimiter closing buf[open], or -1.
func matchDelim(buf []byte, open int, openCh, closeCh byte) int {
	depth := 0

	for i := open; i < len(buf); i++ {
		switch buf[i] {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// trimRange narrows [lo, hi) to exclude surrounding whitespace.
func trimRange(buf []byte, lo, hi int) (int, int) {
	for lo < hi && isSpace(buf[lo]) {
		lo++
	}

	for hi > lo && isSpace(buf[hi-1]) {
		hi--
	}

	return lo, hi
}

func containsWord(buf []byte, word string) bool {
	for i := 0; i+len(word) <= len(buf); i++ {
		if string(buf[i:i+len(word)]) != word {
			continue
		}

		beforeOK := i == 0 || !isIdentChar(buf[i-1])
		afterOK := i+len(word) == len(buf) || !isIdentChar(buf[i+len(word)])

		if beforeOK && afterOK {
			return true
		}
	}

	return false
}

type fnDecl struct {
	span m.Span
	info m.FnInfo
}

// scanFunctions finds every function-like declaration with a body and
// records its span, visibility, kind and whether the body contains inline
// assembly. Bodiless declarations (interfaces, abstract signatures) are
// skipped.
func scanFunctions(masked []byte) ([]fnDecl, error) {
	var fns []fnDecl

	i := 0
	for i < len(masked) {
		if !isIdentStart(masked[i]) {
			i++

			continue
		}

		start := i
		for i < len(masked) && isIdentChar(masked[i]) {
			i++
		}

		word := string(masked[start:i])

		var kind m.FnKind

		switch word {
		case "function":
			kind = m.FnKindFunction
		case "constructor":
			kind = m.FnKindConstructor
		case "modifier":
			kind = m.FnKindModifier
		case "receive":
			kind = m.FnKindReceive
		case "fallback":
			kind = m.FnKindFallback
		default:
			continue
		}

		decl, next, err := parseFunction(masked, start, i, kind)
		if err != nil {
			return nil, err
		}

		i = next

		if decl != nil {
			fns = append(fns, *decl)
		}
	}

	return fns, nil
}

// parseFunction parses one declaration starting at the keyword. It returns
// nil (without error) for bodiless declarations, plus the offset scanning
// should resume from.
func parseFunction(masked []byte, kwStart, kwEnd int, kind m.FnKind) (*fnDecl, int, error) {
	j := kwEnd

	// Skip the function/modifier name.
	if kind == m.FnKindFunction || kind == m.FnKindModifier {
		j = skipSpaces(masked, j)
		for j < len(masked) && isIdentChar(masked[j]) {
			j++
		}
	}

	// Parameter list. Modifiers may omit it.
	j = skipSpaces(masked, j)
	if j < len(masked) && masked[j] == '(' {
		closeParen := matchDelim(masked, j, '(', ')')
		if closeParen < 0 {
			return nil, len(masked), fmt.Errorf("unbalanced parameter list at offset %d", j)
		}

		j = closeParen + 1
	}

	// Header runs until the body opens or the declaration ends.
	headerStart := j
	for j < len(masked) && masked[j] != '{' && masked[j] != ';' {
		j++
	}

	if j >= len(masked) || masked[j] == ';' {
		return nil, j + 1, nil
	}

	visibility := fnVisibility(masked[headerStart:j], kind)

	closeBrace := matchDelim(masked, j, '{', '}')
	if closeBrace < 0 {
		return nil, len(masked), fmt.Errorf("unbalanced function body at offset %d", j)
	}

	bodySpan := m.Span{Lo: uint32(j + 1), Hi: uint32(closeBrace)}

	decl := &fnDecl{
		span: m.Span{Lo: uint32(kwStart), Hi: uint32(closeBrace + 1)},
		info: m.FnInfo{
			BodySpan:    bodySpan,
			HasAssembly: containsWord(masked[bodySpan.Lo:bodySpan.Hi], "assembly"),
			Visibility:  visibility,
			Kind:        kind,
		},
	}

	return decl, j + 1, nil
}

func fnVisibility(header []byte, kind m.FnKind) m.Visibility {
	switch kind {
	case m.FnKindReceive, m.FnKindFallback:
		return m.VisibilityExternal
	case m.FnKindConstructor, m.FnKindModifier:
		return m.VisibilityInternal
	case m.FnKindFunction:
	}

	for _, v := range []m.Visibility{m.VisibilityExternal, m.VisibilityPublic, m.VisibilityInternal, m.VisibilityPrivate} {
		if containsWord(header, string(v)) {
			return v
		}
	}

	// Unannotated functions default to public in legacy sources.
	return m.VisibilityPublic
}

type exprCtx struct {
	span m.Span
	info m.ExprInfo
}

// elementaryCastType reports whether an identifier names an elementary type
// usable in an explicit conversion. The brutalizer narrows the set further;
// the walker only decides "this call is a type conversion".
func elementaryCastType(word string) bool {
	switch word {
	case "address", "bool", "string", "bytes", "uint", "int":
		return true
	}

	for _, prefix := range []string{"uint", "int", "bytes"} {
		if len(word) > len(prefix) && word[:len(prefix)] == prefix && allDigits(word[len(prefix):]) {
			return true
		}
	}

	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return len(s) > 0
}

// unaryKeywords are identifiers after which +/- is a sign, not an operator.
var unaryKeywords = map[string]bool{
	"return": true,
	"else":   true,
	"new":    true,
	"delete": true,
	"emit":   true,
}

// scanExpressions walks the masked buffer once and emits the expression
// contexts the catalog consumes: elementary-type casts, guard conditions,
// binary arithmetic/relational operators, and increments/decrements.
func scanExpressions(masked []byte, source string) []exprCtx {
	var exprs []exprCtx

	i := 0
	for i < len(masked) {
		c := masked[i]

		if isIdentStart(c) {
			start := i
			for i < len(masked) && isIdentChar(masked[i]) {
				i++
			}

			word := string(masked[start:i])

			// Version constraints in pragma statements contain relational
			// tokens that must never be mutated.
			if word == "pragma" || word == "import" {
				for i < len(masked) && masked[i] != ';' {
					i++
				}

				continue
			}

			open := skipSpaces(masked, i)
			if open >= len(masked) || masked[open] != '(' {
				continue
			}

			switch {
			case word == "if":
				if e, ok := conditionExpr(masked, source, open, false); ok {
					exprs = append(exprs, e)
				}
			case word == "require":
				if e, ok := conditionExpr(masked, source, open, true); ok {
					exprs = append(exprs, e)
				}
			case elementaryCastType(word):
				if e, ok := castExpr(masked, source, word, start, open); ok {
					exprs = append(exprs, e)
					// Resume inside the argument so nested casts are found.
				}
			}

			continue
		}

		if e, next, ok := operatorExpr(masked, source, i); ok {
			exprs = append(exprs, e)
			i = next

			continue
		} else if next > i {
			i = next

			continue
		}

		i++
	}

	return exprs
}

// conditionExpr extracts a guard condition: the full parenthesized
// expression for if(...), the first top-level argument for require(...).
func conditionExpr(masked []byte, source string, open int, firstArgOnly bool) (exprCtx, bool) {
	closeParen := matchDelim(masked, open, '(', ')')
	if closeParen < 0 {
		return exprCtx{}, false
	}

	hi := closeParen

	if firstArgOnly {
		depth := 0

		for k := open + 1; k < closeParen; k++ {
			switch masked[k] {
			case '(', '[':
				depth++
			case ')', ']':
				depth--
			case ',':
				if depth == 0 {
					hi = k
				}
			}

			if hi != closeParen {
				break
			}
		}
	}

	lo, hi := trimRange(masked, open+1, hi)
	if hi <= lo {
		return exprCtx{}, false
	}

	return exprCtx{
		span: m.Span{Lo: uint32(lo), Hi: uint32(hi)},
		info: m.ExprInfo{Kind: m.ExprCondition},
	}, true
}

// castExpr extracts a single-argument elementary type conversion call.
func castExpr(masked []byte, source string, callee string, start, open int) (exprCtx, bool) {
	closeParen := matchDelim(masked, open, '(', ')')
	if closeParen < 0 {
		return exprCtx{}, false
	}

	depth := 0

	for k := open + 1; k < closeParen; k++ {
		switch masked[k] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				// More than one argument: not a conversion.
				return exprCtx{}, false
			}
		}
	}

	argLo, argHi := trimRange(masked, open+1, closeParen)
	if argHi <= argLo {
		return exprCtx{}, false
	}

	return exprCtx{
		span: m.Span{Lo: uint32(start), Hi: uint32(closeParen + 1)},
		info: m.ExprInfo{
			Kind:    m.ExprCast,
			Callee:  callee,
			Arg:     source[argLo:argHi],
			ArgSpan: m.Span{Lo: uint32(argLo), Hi: uint32(argHi)},
		},
	}, true
}

// operatorExpr inspects the byte at i for a mutable operator. It returns the
// context (when one is emitted) and the offset scanning resumes from; next
// > i with ok == false means "recognized but not mutable, skip it".
func operatorExpr(masked []byte, source string, i int) (exprCtx, int, bool) {
	c := masked[i]

	var next byte
	if i+1 < len(masked) {
		next = masked[i+1]
	}

	binary := func(op string) (exprCtx, int, bool) {
		return exprCtx{
			span: m.Span{Lo: uint32(i), Hi: uint32(i + len(op))},
			info: m.ExprInfo{Kind: m.ExprBinary, Op: op},
		}, i + len(op), true
	}

	switch c {
	case '+', '-':
		if next == c {
			return incDecExpr(masked, source, i)
		}

		if next == '=' {
			return exprCtx{}, i + 2, false
		}

		if isUnaryPosition(masked, i) {
			return exprCtx{}, i + 1, false
		}

		return binary(string(c))

	case '*':
		if next == '*' || next == '=' {
			return exprCtx{}, i + 2, false
		}

		return binary("*")

	case '/', '%':
		if next == '=' {
			return exprCtx{}, i + 2, false
		}

		return binary(string(c))

	case '<':
		if next == '=' {
			return binary("<=")
		}

		if next == '<' {
			return exprCtx{}, i + 2, false
		}

		return binary("<")

	case '>':
		if next == '=' {
			return binary(">=")
		}

		if next == '>' {
			return exprCtx{}, i + 2, false
		}

		return binary(">")

	case '=':
		if next == '=' {
			return binary("==")
		}

		if next == '>' {
			// Mapping arrow.
			return exprCtx{}, i + 2, false
		}

		return exprCtx{}, i + 1, false

	case '!':
		if next == '=' {
			return binary("!=")
		}

		return exprCtx{}, i + 1, false

	case '&', '|':
		if next == c {
			return exprCtx{}, i + 2, false
		}

		return exprCtx{}, i + 1, false
	}

	return exprCtx{}, i, false
}

// isUnaryPosition reports whether a +/- at offset i is a sign rather than a
// binary operator.
func isUnaryPosition(masked []byte, i int) bool {
	p := prevSignificant(masked, i)
	if p < 0 {
		return true
	}

	prev := masked[p]

	if isIdentChar(prev) {
		// Look at the whole preceding identifier: "return -x" is unary.
		end := p + 1

		start := p
		for start > 0 && isIdentChar(masked[start-1]) {
			start--
		}

		return unaryKeywords[string(masked[start:end])]
	}

	// After a closing bracket the operator is binary; after anything else
	// (operators, delimiters) it is a sign.
	return prev != ')' && prev != ']'
}

// incDecExpr extracts an increment/decrement together with its operand. Only
// simple identifier operands are supported; anything more complex is skipped.
func incDecExpr(masked []byte, source string, i int) (exprCtx, int, bool) {
	op := string(masked[i : i+2])

	p := prevSignificant(masked, i)
	if p >= 0 && isIdentChar(masked[p]) {
		// Postfix: walk back over the operand identifier.
		start := p
		for start > 0 && isIdentChar(masked[start-1]) {
			start--
		}

		if start > 0 && (masked[start-1] == '.' || masked[start-1] == ']') {
			return exprCtx{}, i + 2, false
		}

		return exprCtx{
			span: m.Span{Lo: uint32(start), Hi: uint32(i + 2)},
			info: m.ExprInfo{
				Kind:    m.ExprIncDec,
				Op:      op,
				Operand: source[start : p+1],
				Postfix: true,
			},
		}, i + 2, true
	}

	// Prefix: the operand follows the operator.
	operandLo := skipSpaces(masked, i+2)

	operandHi := operandLo
	for operandHi < len(masked) && isIdentChar(masked[operandHi]) {
		operandHi++
	}

	if operandHi == operandLo {
		return exprCtx{}, i + 2, false
	}

	return exprCtx{
		span: m.Span{Lo: uint32(i), Hi: uint32(operandHi)},
		info: m.ExprInfo{
			Kind:    m.ExprIncDec,
			Op:      op,
			Operand: source[operandLo:operandHi],
			Postfix: false,
		},
	}, operandHi, true
}
