package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

const maxWindowMinutes = 7 * 24 * 60

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return badRequest(CodeInvalidJSON, "request body is not valid JSON: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// intParam parses an optional integer query parameter, checked against rule.
func (s *Server) intParam(r *http.Request, name string, def int, rule string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(CodeValidation, "%s must be an integer", name)
	}
	if err := s.validate.Var(n, rule); err != nil {
		return 0, badRequest(CodeValidation, "%s %s", name, ruleText(rule))
	}
	return n, nil
}

// window reads ?window in minutes.
func (s *Server) window(r *http.Request) (time.Duration, error) {
	def := int(s.cfg.DefaultWindow / time.Minute)
	n, err := s.intParam(r, "window", def, "gte=1,lte="+strconv.Itoa(maxWindowMinutes))
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Minute, nil
}

func symbolParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
}

func ruleText(rule string) string {
	parts := strings.Split(rule, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		k, v, _ := strings.Cut(p, "=")
		switch k {
		case "gte":
			out = append(out, "must be at least "+v)
		case "lte":
			out = append(out, "must be at most "+v)
		default:
			out = append(out, "must satisfy "+p)
		}
	}
	return strings.Join(out, " and ")
}
