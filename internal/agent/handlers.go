package agent

import (
	"context"
	"errors"
	"fmt"

	"spaceship-designer/internal/commands"
	"spaceship-designer/internal/ship"
	"spaceship-designer/internal/studio"
)

// RegisterStudioHandlers registers the designer actions against session s and, for
// run_cmd, the command registry reg.
func RegisterStudioHandlers(a *Agent, s *studio.Session, reg *commands.Registry) {
	a.RegisterHandler("generate_ship", func(_ context.Context, payload map[string]any) error {
		class, _ := payload["class"].(string)
		if class == "" {
			return errors.New("missing class")
		}
		s.Generate(class, parseBoolOpt(payload["randomize"], true))
		return nil
	})
	a.RegisterHandler("generate_custom", func(_ context.Context, payload map[string]any) error {
		n, err := parseIntOpt(payload["count"], 4)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		s.Custom(n)
		return nil
	})
	a.RegisterHandler("generate_batch", func(ctx context.Context, payload map[string]any) error {
		classes, err := parseStrings(payload["classes"])
		if err != nil {
			return fmt.Errorf("classes: %w", err)
		}
		if len(classes) == 0 {
			classes = ship.Classes()
		}
		_, err = s.Batch(ctx, classes, parseBoolOpt(payload["randomize"], true))
		return err
	})
	a.RegisterHandler("export", func(_ context.Context, payload map[string]any) error {
		path, _ := payload["path"].(string)
		format, _ := payload["format"].(string)
		_, err := s.Export(path, format)
		return err
	})
	a.RegisterHandler("bundle", func(_ context.Context, payload map[string]any) error {
		path, _ := payload["path"].(string)
		_, err := s.Bundle(path)
		return err
	})
	a.RegisterHandler("save_template", func(_ context.Context, payload map[string]any) error {
		path, _ := payload["path"].(string)
		if path == "" {
			return errors.New("missing path")
		}
		return s.SaveTemplate(path)
	})
	a.RegisterHandler("load_template", func(_ context.Context, payload map[string]any) error {
		path, _ := payload["path"].(string)
		if path == "" {
			return errors.New("missing path")
		}
		_, err := s.LoadTemplate(path)
		return err
	})
	a.RegisterHandler("run_cmd", func(_ context.Context, payload map[string]any) error {
		args, err := parseStrings(payload["args"])
		if err != nil {
			return fmt.Errorf("args: %w", err)
		}
		if len(args) == 0 {
			return errors.New("missing or empty args")
		}
		return reg.Execute(args)
	})
}

func parseBoolOpt(v any, defaultVal bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

func parseIntOpt(v any, defaultVal int) (int, error) {
	if v == nil {
		return defaultVal, nil
	}
	n, ok := v.(float64)
	if !ok || n != float64(int(n)) {
		return 0, errors.New("expected integer")
	}
	return int(n), nil
}

func parseStrings(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, errors.New("expected array of strings")
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, errors.New("expected array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}
