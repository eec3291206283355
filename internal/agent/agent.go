// Package agent applies scripted designer actions given as JSON, for example
// {"actions":[{"action":"generate_ship","class":"capital"},{"action":"export","path":"out/c.glb"}]}.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Handler applies one action. Payload is the action object (e.g. {"action":"export", "path":"a.stl"}).
// Returns an error to report to the user; the agent will still process remaining actions.
type Handler func(ctx context.Context, payload map[string]any) error

// Agent dispatches JSON actions to registered handlers.
type Agent struct {
	handlers map[string]Handler
	log      *zap.Logger
}

// New returns an Agent with no handlers. A nil logger discards output.
func New(log *zap.Logger) *Agent {
	if log == nil {
		log = zap.NewNop()
	}
	return &Agent{handlers: make(map[string]Handler), log: log}
}

// RegisterHandler adds a handler for the given action type (e.g. "generate_ship", "run_cmd").
func (a *Agent) RegisterHandler(actionType string, h Handler) {
	a.handlers[actionType] = h
}

// Actions returns the registered action types, sorted.
func (a *Agent) Actions() []string {
	names := make([]string, 0, len(a.handlers))
	for name := range a.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run parses script and applies each action in order. A failing action is reported in
// the summary and does not stop the rest. The returned error is for scripts that cannot
// be parsed at all, or for ctx ending before every action ran.
func (a *Agent) Run(ctx context.Context, script string) (summary string, err error) {
	actions, err := parseActions(script)
	if err != nil {
		return "", fmt.Errorf("invalid actions: %w", err)
	}
	var applied int
	var messages []string
	for i, raw := range actions {
		if err := ctx.Err(); err != nil {
			return strings.Join(messages, "; "), err
		}
		payload, ok := raw.(map[string]any)
		if !ok {
			messages = append(messages, fmt.Sprintf("action %d: invalid object", i+1))
			continue
		}
		actionType, _ := payload["action"].(string)
		if actionType == "" {
			messages = append(messages, fmt.Sprintf("action %d: missing action", i+1))
			continue
		}
		h, ok := a.handlers[actionType]
		if !ok {
			messages = append(messages, fmt.Sprintf("action %d: unknown action %q", i+1, actionType))
			continue
		}
		if err := h(ctx, payload); err != nil {
			a.log.Warn("action failed", zap.Int("index", i+1), zap.String("action", actionType), zap.Error(err))
			messages = append(messages, fmt.Sprintf("action %d (%s): %v", i+1, actionType, err))
			continue
		}
		applied++
	}
	if applied > 0 && len(messages) == 0 {
		return fmt.Sprintf("Done. Applied %d action(s).", applied), nil
	}
	if len(messages) > 0 {
		return strings.Join(messages, "; "), nil
	}
	return "No actions to apply.", nil
}

var fence = regexp.MustCompile("^```\\w*\\n?")

// parseActions extracts the action list from script. It accepts a fenced code block,
// text around the first JSON object, {"actions":[...]}, {"actions":{...}} and a bare
// single action {"action":...}.
func parseActions(script string) ([]any, error) {
	script = strings.TrimSpace(script)
	if strings.HasPrefix(script, "```") {
		script = strings.TrimSpace(strings.TrimSuffix(fence.ReplaceAllString(script, ""), "```"))
	}
	obj, err := firstObject(script)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, err
	}
	switch v := raw["actions"].(type) {
	case []any:
		return v, nil
	case map[string]any:
		return []any{v}, nil
	}
	if _, ok := raw["action"]; ok {
		return []any{raw}, nil
	}
	return nil, errors.New(`no "actions" array or "action" object`)
}

// firstObject returns the first balanced {...} in s, skipping braces inside strings.
func firstObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errors.New("no JSON object")
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errors.New("unbalanced JSON braces")
}
