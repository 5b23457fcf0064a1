package transport

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrSyntax is returned for command text that cannot be split into arguments.
var ErrSyntax = errors.New("command syntax error")

// positional lists the parameter names of arguments given without --name,
// in order.
var positional = map[string][]string{
	"cache_limit":   {"max"},
	"column_create": {"table", "name", "flags", "type", "source"},
	"column_list":   {"table"},
	"column_remove": {"table", "name"},
	"delete":        {"table", "key", "id", "filter"},
	"load":          {"values", "table", "columns", "ifexists", "input_type", "each"},
	"log_level":     {"level"},
	"log_put":       {"level", "message"},
	"register":      {"path"},
	"select":        {"table", "match_columns", "query", "filter", "scorer", "sortby", "output_columns", "offset", "limit"},
	"suggest":       {"types", "table", "column", "query", "sortby", "output_columns", "offset", "limit"},
	"table_create":  {"name", "flags", "key_type", "value_type", "default_tokenizer", "normalizer"},
	"table_remove":  {"name"},
	"truncate":      {"target_name"},
}

// Tokenize splits command text into arguments. Double quoted arguments may
// contain the escapes \", \\ and \n; single quoted arguments are literal.
func Tokenize(command string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		inTok  bool
	)

	for i := 0; i < len(command); i++ {
		c := command[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}
		case c == '"':
			inTok = true
			closed := false
			for i++; i < len(command); i++ {
				c = command[i]
				if c == '"' {
					closed = true
					break
				}
				if c == '\\' && i+1 < len(command) {
					i++
					switch command[i] {
					case 'n':
						cur.WriteByte('\n')
					default:
						cur.WriteByte(command[i])
					}
					continue
				}
				cur.WriteByte(c)
			}
			if !closed {
				return nil, fmt.Errorf("%w: unterminated double quote", ErrSyntax)
			}
		case c == '\'':
			inTok = true
			end := strings.IndexByte(command[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated single quote", ErrSyntax)
			}
			cur.WriteString(command[i+1 : i+1+end])
			i += end + 1
		default:
			inTok = true
			cur.WriteByte(c)
		}
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// ParseCommand splits command text into the command name and its named
// arguments. Dashes in argument names become underscores.
func ParseCommand(command string) (string, url.Values, error) {
	tokens, err := Tokenize(command)
	if err != nil {
		return "", nil, err
	}
	if len(tokens) == 0 {
		return "", nil, fmt.Errorf("%w: empty command", ErrSyntax)
	}

	name := tokens[0]
	args := url.Values{}
	pos := 0
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if key, ok := strings.CutPrefix(tok, "--"); ok && key != "" {
			if i+1 >= len(tokens) {
				return "", nil, fmt.Errorf("%w: %s: missing value for --%s", ErrSyntax, name, key)
			}
			args.Set(strings.ReplaceAll(key, "-", "_"), tokens[i+1])
			i++
			continue
		}

		names := positional[name]
		if pos >= len(names) {
			return "", nil, fmt.Errorf("%w: %s: unexpected argument %q", ErrSyntax, name, tok)
		}
		args.Set(names[pos], tok)
		pos++
	}
	return name, args, nil
}
