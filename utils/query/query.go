package queryHelper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Params reads typed filter values from a request's query string.
// Empty values are treated as absent. Malformed values are collected per
// parameter and reported together through Errors.
type Params struct {
	c      *fiber.Ctx
	errors map[string]string
}

func From(c *fiber.Ctx) *Params {
	return &Params{c: c}
}

func (p *Params) raw(name string) (string, bool) {
	v := strings.TrimSpace(p.c.Query(name))
	return v, v != ""
}

func (p *Params) fail(name, message string) {
	if p.errors == nil {
		p.errors = make(map[string]string)
	}
	p.errors[name] = message
}

// Uint parses a primary-key style filter.
func (p *Params) Uint(name string) *uint {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		p.fail(name, "Select a valid choice. That choice is not one of the available choices.")
		return nil
	}
	id := uint(n)
	return &id
}

func (p *Params) Int(name string) *int {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(name, "Enter a whole number.")
		return nil
	}
	return &n
}

// Bool accepts true/false in any case as well as 1/0.
func (p *Params) Bool(name string) *bool {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	var b bool
	switch strings.ToLower(v) {
	case "true", "1":
		b = true
	case "false", "0":
		b = false
	default:
		p.fail(name, "Select a valid choice. "+v+" is not one of the available choices.")
		return nil
	}
	return &b
}

func (p *Params) String(name string) *string {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	return &v
}

// Search returns the free-text search term.
func (p *Params) Search() string {
	v, _ := p.raw("search")
	return v
}

// Ordering splits the comma separated ordering parameter.
func (p *Params) Ordering() []string {
	v, ok := p.raw("ordering")
	if !ok {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Errors returns the messages for malformed parameters, or nil.
func (p *Params) Errors() map[string]string {
	return p.errors
}
