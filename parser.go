package main

const maxArgs = 255

// Parser builds the AST from a token sequence ending in EOF.
type Parser struct {
	tokens  []Token
	current int
	Errors  *ErrorCollection
}

// bailout unwinds a declaration that failed to parse. declaration recovers
// it and synchronizes.
type bailout struct{}

// NewParser creates a parser reporting into errs.
func NewParser(tokens []Token, errs *ErrorCollection) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		tokens = append(tokens, Token{Type: EOF, Literal: Nil{}})
	}
	return &Parser{tokens: tokens, Errors: errs}
}

// ParseProgram parses declarations until EOF. Declarations that fail to
// parse are reported and left out of the result.
func (p *Parser) ParseProgram() []*ASTNode {
	var statements []*ASTNode
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// ParseExpression parses a single expression. It returns nil on a syntax
// error.
func (p *Parser) ParseExpression() (expr *ASTNode) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			expr = nil
		}
	}()
	return p.expression()
}

func (p *Parser) declaration() (stmt *ASTNode) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(CLASS):
		return p.classDeclaration()
	case p.match(FUN):
		return p.function("function")
	case p.match(VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() *ASTNode {
	name := p.consume(IDENT, "expected class name")

	var superclass *ASTNode
	if p.match(LT) {
		p.consume(IDENT, "expected superclass name")
		superclass = &ASTNode{Kind: NodeVariable, Token: p.previous()}
	}

	p.consume(LBRACE, "expected '{' before class body")
	var methods []*ASTNode
	for !p.check(RBRACE) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(RBRACE, "expected '}' after class body")

	return &ASTNode{
		Kind:       NodeClass,
		Token:      name,
		Superclass: superclass,
		Children:   methods,
	}
}

// function parses a function or method after its introducing keyword.
func (p *Parser) function(kind string) *ASTNode {
	name := p.consume(IDENT, "expected "+kind+" name")
	p.consume(LPAREN, "expected '(' after "+kind+" name")

	var params []Token
	if !p.check(RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.Errors.AddAt(p.peek(), "can't have more than 255 parameters")
			}
			params = append(params, p.consume(IDENT, "expected parameter name"))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RPAREN, "expected ')' after parameters")

	p.consume(LBRACE, "expected '{' before "+kind+" body")
	body := p.block()

	return &ASTNode{
		Kind:     NodeFunction,
		Token:    name,
		Params:   params,
		Children: body,
	}
}

func (p *Parser) varDeclaration() *ASTNode {
	name := p.consume(IDENT, "expected variable name")

	var children []*ASTNode
	if p.match(ASSIGN) {
		children = append(children, p.expression())
	}

	p.consume(SEMICOLON, "expected ';' after variable declaration")
	return &ASTNode{Kind: NodeVar, Token: name, Children: children}
}

func (p *Parser) statement() *ASTNode {
	switch {
	case p.match(FOR):
		return p.forStatement()
	case p.match(IF):
		return p.ifStatement()
	case p.match(PRINT):
		value := p.expression()
		p.consume(SEMICOLON, "expected ';' after value")
		return &ASTNode{Kind: NodePrint, Children: []*ASTNode{value}}
	case p.match(RETURN):
		return p.returnStatement()
	case p.match(WHILE):
		return p.whileStatement()
	case p.match(LBRACE):
		return &ASTNode{Kind: NodeBlock, Children: p.block()}
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
//
// leaving out the parts that are absent. A missing condition is true.
func (p *Parser) forStatement() *ASTNode {
	p.consume(LPAREN, "expected '(' after 'for'")

	var initializer *ASTNode
	switch {
	case p.match(SEMICOLON):
	case p.match(VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition *ASTNode
	if !p.check(SEMICOLON) {
		condition = p.expression()
	}
	p.consume(SEMICOLON, "expected ';' after loop condition")

	var increment *ASTNode
	if !p.check(RPAREN) {
		increment = p.expression()
	}
	p.consume(RPAREN, "expected ')' after for clauses")

	body := p.statement()

	if increment != nil {
		body = &ASTNode{
			Kind: NodeBlock,
			Children: []*ASTNode{
				body,
				{Kind: NodeExpression, Children: []*ASTNode{increment}},
			},
		}
	}

	if condition == nil {
		condition = &ASTNode{Kind: NodeLiteral, Value: Bool(true)}
	}
	body = &ASTNode{Kind: NodeWhile, Children: []*ASTNode{condition, body}}

	if initializer != nil {
		body = &ASTNode{Kind: NodeBlock, Children: []*ASTNode{initializer, body}}
	}
	return body
}

func (p *Parser) ifStatement() *ASTNode {
	p.consume(LPAREN, "expected '(' after 'if'")
	condition := p.expression()
	p.consume(RPAREN, "expected ')' after if condition")

	children := []*ASTNode{condition, p.statement()}
	if p.match(ELSE) {
		children = append(children, p.statement())
	}
	return &ASTNode{Kind: NodeIf, Children: children}
}

func (p *Parser) returnStatement() *ASTNode {
	keyword := p.previous()
	var children []*ASTNode
	if !p.check(SEMICOLON) {
		children = append(children, p.expression())
	}
	p.consume(SEMICOLON, "expected ';' after return value")
	return &ASTNode{Kind: NodeReturn, Token: keyword, Children: children}
}

func (p *Parser) whileStatement() *ASTNode {
	p.consume(LPAREN, "expected '(' after 'while'")
	condition := p.expression()
	p.consume(RPAREN, "expected ')' after condition")
	body := p.statement()
	return &ASTNode{Kind: NodeWhile, Children: []*ASTNode{condition, body}}
}

func (p *Parser) expressionStatement() *ASTNode {
	expr := p.expression()
	p.consume(SEMICOLON, "expected ';' after expression")
	return &ASTNode{Kind: NodeExpression, Children: []*ASTNode{expr}}
}

// block parses statements up to and including the closing brace.
func (p *Parser) block() []*ASTNode {
	var statements []*ASTNode
	for !p.check(RBRACE) && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(RBRACE, "expected '}' after block")
	return statements
}

func (p *Parser) expression() *ASTNode {
	return p.assignment()
}

// assignment is right-associative. An invalid target is reported without
// unwinding since the parser is not confused about where it is.
func (p *Parser) assignment() *ASTNode {
	expr := p.or()

	if p.match(ASSIGN) {
		equals := p.previous()
		value := p.assignment()

		switch expr.Kind {
		case NodeVariable:
			return &ASTNode{Kind: NodeAssign, Token: expr.Token, Children: []*ASTNode{value}}
		case NodeGet:
			return &ASTNode{Kind: NodeSet, Token: expr.Token, Children: []*ASTNode{expr.Children[0], value}}
		}
		p.Errors.AddAt(equals, "invalid assignment target")
	}

	return expr
}

func (p *Parser) or() *ASTNode {
	expr := p.and()
	for p.match(OR) {
		operator := p.previous()
		right := p.and()
		expr = &ASTNode{Kind: NodeLogical, Token: operator, Children: []*ASTNode{expr, right}}
	}
	return expr
}

func (p *Parser) and() *ASTNode {
	expr := p.equality()
	for p.match(AND) {
		operator := p.previous()
		right := p.equality()
		expr = &ASTNode{Kind: NodeLogical, Token: operator, Children: []*ASTNode{expr, right}}
	}
	return expr
}

// binaryLevel parses a left-associative run of operators from types whose
// operands are parsed by next.
func (p *Parser) binaryLevel(next func() *ASTNode, types ...TokenType) *ASTNode {
	expr := next()
	for p.match(types...) {
		operator := p.previous()
		right := next()
		expr = &ASTNode{Kind: NodeBinary, Token: operator, Children: []*ASTNode{expr, right}}
	}
	return expr
}

func (p *Parser) equality() *ASTNode {
	return p.binaryLevel(p.comparison, NOT_EQ, EQ)
}

func (p *Parser) comparison() *ASTNode {
	return p.binaryLevel(p.term, GT, GE, LT, LE)
}

func (p *Parser) term() *ASTNode {
	return p.binaryLevel(p.factor, MINUS, PLUS)
}

func (p *Parser) factor() *ASTNode {
	return p.binaryLevel(p.unary, SLASH, ASTERISK)
}

func (p *Parser) unary() *ASTNode {
	if p.match(BANG, MINUS) {
		operator := p.previous()
		right := p.unary()
		return &ASTNode{Kind: NodeUnary, Token: operator, Children: []*ASTNode{right}}
	}
	return p.call()
}

// call parses a primary followed by any mix of (args) and .name suffixes.
func (p *Parser) call() *ASTNode {
	expr := p.primary()
	for {
		if p.match(LPAREN) {
			expr = p.finishCall(expr)
		} else if p.match(DOT) {
			name := p.consume(IDENT, "expected property name after '.'")
			expr = &ASTNode{Kind: NodeGet, Token: name, Children: []*ASTNode{expr}}
		} else {
			return expr
		}
	}
}

func (p *Parser) finishCall(callee *ASTNode) *ASTNode {
	children := []*ASTNode{callee}
	if !p.check(RPAREN) {
		for {
			if len(children)-1 >= maxArgs {
				p.Errors.AddAt(p.peek(), "can't have more than 255 arguments")
			}
			children = append(children, p.expression())
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren := p.consume(RPAREN, "expected ')' after arguments")
	return &ASTNode{Kind: NodeCall, Token: paren, Children: children}
}

func (p *Parser) primary() *ASTNode {
	switch {
	case p.match(FALSE, TRUE, NUMBER, STRING):
		return &ASTNode{Kind: NodeLiteral, Token: p.previous(), Value: p.previous().Literal}
	case p.match(NIL):
		return &ASTNode{Kind: NodeLiteral, Token: p.previous(), Value: Nil{}}
	case p.match(SUPER):
		keyword := p.previous()
		p.consume(DOT, "expected '.' after 'super'")
		method := p.consume(IDENT, "expected superclass method name")
		return &ASTNode{Kind: NodeSuper, Token: keyword, Name: method}
	case p.match(THIS):
		return &ASTNode{Kind: NodeThis, Token: p.previous()}
	case p.match(IDENT):
		return &ASTNode{Kind: NodeVariable, Token: p.previous()}
	case p.match(LPAREN):
		expr := p.expression()
		p.consume(RPAREN, "expected ')' after expression")
		return &ASTNode{Kind: NodeGrouping, Children: []*ASTNode{expr}}
	}
	p.fail(p.peek(), "expected expression")
	return nil
}

// synchronize discards tokens until a statement boundary: just past a ';'
// or in front of a keyword that starts a declaration or statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past the current token, which must be of type typ.
// Otherwise it reports message and unwinds the declaration.
func (p *Parser) consume(typ TokenType, message string) Token {
	if p.check(typ) {
		return p.advance()
	}
	p.fail(p.peek(), message)
	return Token{}
}

func (p *Parser) fail(tok Token, message string) {
	p.Errors.AddAt(tok, message)
	panic(bailout{})
}

func (p *Parser) check(typ TokenType) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Type == typ
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}
