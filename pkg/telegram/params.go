package telegram

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Params is an ordered list of request parameters for one Bot API call.
//
// Setters append in call order and apply the API's default-suppression rules:
// a value the server treats as "not set" (empty string, non-positive integer,
// false flag) is not sent at all, so the server default applies. Values are
// strings or pre-serialized JSON; Params never interprets their semantics.
type Params struct {
	pairs []param
	err   error
}

type param struct {
	name  string
	value string
}

// NewParams returns an empty parameter list.
func NewParams() *Params { return &Params{} }

// Set appends a string parameter. Empty values are omitted.
func (p *Params) Set(name, value string) *Params {
	if value == "" {
		return p
	}
	p.pairs = append(p.pairs, param{name, value})
	return p
}

// SetInt appends an integer parameter unconditionally.
func (p *Params) SetInt(name string, value int64) *Params {
	p.pairs = append(p.pairs, param{name, strconv.FormatInt(value, 10)})
	return p
}

// SetPositive appends an integer parameter only when value > 0. Zero and
// negative values mean "not set" on the Bot API (an unset offset, a message
// that is not a reply) and are omitted.
func (p *Params) SetPositive(name string, value int64) *Params {
	if value <= 0 {
		return p
	}
	return p.SetInt(name, value)
}

// SetBool appends a boolean parameter only when value is true; false is the
// server default for every flag the API defines.
func (p *Params) SetBool(name string, value bool) *Params {
	if !value {
		return p
	}
	p.pairs = append(p.pairs, param{name, "true"})
	return p
}

// SetFloat appends a floating-point parameter unconditionally; zero is a
// valid coordinate.
func (p *Params) SetFloat(name string, value float64) *Params {
	p.pairs = append(p.pairs, param{name, strconv.FormatFloat(value, 'f', -1, 64)})
	return p
}

// SetJSON marshals value and appends it as a pre-serialized structured
// parameter (reply markup, inline results). A nil value is omitted. A marshal
// failure is recorded and surfaced by the next Invoke instead of panicking
// mid-chain.
func (p *Params) SetJSON(name string, value any) *Params {
	if value == nil {
		return p
	}
	data, err := json.Marshal(value)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("telegram: marshal parameter %s: %w", name, err)
		}
		return p
	}
	p.pairs = append(p.pairs, param{name, string(data)})
	return p
}

// Err returns the first error recorded by a setter, if any.
func (p *Params) Err() error { return p.err }

// Len reports the number of parameters set.
func (p *Params) Len() int { return len(p.pairs) }

// Has reports whether a parameter with the given name has been set.
func (p *Params) Has(name string) bool {
	for _, kv := range p.pairs {
		if kv.name == name {
			return true
		}
	}
	return false
}

// Encode renders the parameters as an application/x-www-form-urlencoded body,
// preserving insertion order.
func (p *Params) Encode() string {
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.value))
	}
	return b.String()
}
