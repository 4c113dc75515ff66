package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/yoockh/hirex/internal/utils"
)

// patch builds the $set document of a partial update from typed fields.
// Nil fields are skipped. The first invalid field sticks in err.
type patch struct {
	op  string
	set map[string]any
	err error
}

func newPatch(op string) *patch {
	return &patch{op: op, set: map[string]any{}}
}

func (p *patch) fail(key, msg string, cause error) {
	if p.err == nil {
		p.err = utils.E(utils.CodeInvalidArgument, p.op, key+" "+msg, cause)
	}
}

// text stores the trimmed value. Required fields cannot be blanked.
func (p *patch) text(key string, v *string, required bool) {
	if v == nil {
		return
	}
	s := strings.TrimSpace(*v)
	if required && s == "" {
		p.fail(key, "cannot be empty", nil)
		return
	}
	p.set[key] = s
}

func (p *patch) enum(key string, v *string, allowed []string) {
	if v == nil {
		return
	}
	if !contains(allowed, *v) {
		p.fail(key, "must be one of: "+strings.Join(allowed, ", "), nil)
		return
	}
	p.set[key] = *v
}

// date accepts RFC 3339 or a bare date. An explicit null clears the field.
func (p *patch) date(key string, raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	if string(raw) == "null" {
		p.set[key] = nil
		return
	}
	t, err := parseDeadline(raw)
	if err != nil {
		p.fail(key, "must be a date", err)
		return
	}
	p.set[key] = t
}

func setPtr[T any](p *patch, key string, v *T) {
	if v != nil {
		p.set[key] = *v
	}
}

func parseDeadline(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
