// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop

import "strings"

const (
	// LongPrefix marks an option token.
	LongPrefix = "--"
	// ShortPrefix marks a short option token.
	ShortPrefix = "-"
	// ValueSeparator splits a token into name and value.
	ValueSeparator = "="
)

// Kind classifies both tokens and the items they are matched against.
type Kind int

const (
	KindOption Kind = iota
	KindShortOption
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindOption:
		return "option"
	case KindShortOption:
		return "short option"
	case KindParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Prefix returns the prefix a token of this kind is written with.
func (k Kind) Prefix() string {
	switch k {
	case KindOption:
		return LongPrefix
	case KindShortOption:
		return ShortPrefix
	default:
		return ""
	}
}

// IsOption reports whether k is one of the prefixed kinds.
func (k Kind) IsOption() bool {
	return k == KindOption || k == KindShortOption
}

// Token is one lexical unit of the command line. Tokens form a singly linked
// chain in argument order.
type Token struct {
	Name  string
	Value *string // nil when no "=" was given
	Kind  Kind
	Pos   int // position in the chain, starting at 0

	next *Token
}

// Next returns the following token or nil at the end of the chain.
func (t *Token) Next() *Token {
	if t == nil {
		return nil
	}
	return t.next
}

// HasValue reports whether the token carried an explicit "=value".
func (t *Token) HasValue() bool {
	return t != nil && t.Value != nil
}

// String renders the token the way it could have been written.
func (t *Token) String() string {
	if t == nil {
		return ""
	}
	s := t.Kind.Prefix() + t.Name
	if t.Value != nil {
		s += ValueSeparator + *t.Value
	}
	return s
}

// Len returns the number of tokens in the chain starting at t.
func (t *Token) Len() int {
	n := 0
	for ; t != nil; t = t.next {
		n++
	}
	return n
}

// Slice returns the chain starting at t as a slice.
func (t *Token) Slice() []*Token {
	var out []*Token
	for ; t != nil; t = t.next {
		out = append(out, t)
	}
	return out
}

// Tokenize converts raw arguments into a token chain and returns its head.
// Empty arguments and arguments with an empty name are skipped.
func Tokenize(args []string) *Token {
	var head, tail *Token
	pos := 0
	push := func(name string, value *string, kind Kind) {
		if name == "" {
			return
		}
		t := &Token{Name: name, Value: value, Kind: kind, Pos: pos}
		pos++
		if tail == nil {
			head = t
		} else {
			tail.next = t
		}
		tail = t
	}
	for _, arg := range args {
		if arg == "" {
			continue
		}
		kind := KindParameter
		body := arg
		switch {
		case strings.HasPrefix(arg, LongPrefix):
			kind = KindOption
			body = arg[len(LongPrefix):]
		case strings.HasPrefix(arg, ShortPrefix):
			kind = KindShortOption
			body = arg[len(ShortPrefix):]
		}
		name, value := splitValue(body)
		if kind != KindShortOption {
			push(name, value, kind)
			continue
		}
		runes := []rune(name)
		for i, r := range runes {
			if i == len(runes)-1 {
				push(string(r), value, kind)
			} else {
				push(string(r), nil, kind)
			}
		}
	}
	return head
}

func splitValue(s string) (string, *string) {
	name, value, ok := strings.Cut(s, ValueSeparator)
	if !ok {
		return s, nil
	}
	return name, &value
}
