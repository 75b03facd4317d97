package runner

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"text/template"

	"github.com/google/uuid"
)

// TemplateEngine renders request payloads. Payloads are rendered once per
// client before its connection opens, never inside the timed loop.
type TemplateEngine struct {
	fileCache map[string][]string
	mu        sync.RWMutex
	funcMap   template.FuncMap
}

// TemplateData is passed to the execution context
type TemplateData struct {
	ClientID int
	UUID     string
}

func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		fileCache: make(map[string][]string),
	}

	e.funcMap = template.FuncMap{
		"randomInt":    e.randomInt,
		"randomUUID":   e.randomUUID,
		"randomChoice": e.randomChoice,
		"randomLine":   e.randomLine,
		"repeat":       strings.Repeat,
	}

	return e
}

// Preprocess converts simple variables {{clientID}} to Go template syntax {{.ClientID}}
func (e *TemplateEngine) Preprocess(input string) string {
	s := input
	s = strings.ReplaceAll(s, "{{clientID}}", "{{.ClientID}}")
	s = strings.ReplaceAll(s, "{{uuid}}", "{{.UUID}}")
	return s
}

func (e *TemplateEngine) Parse(name, text string) (*template.Template, error) {
	return template.New(name).Funcs(e.funcMap).Parse(e.Preprocess(text))
}

func (e *TemplateEngine) Execute(t *template.Template, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPayloads renders the configured payload for every client. Payloads
// without template actions are returned verbatim.
func (e *TemplateEngine) RenderPayloads(payload string, clients int) ([][]byte, error) {
	out := make([][]byte, clients)
	if !strings.Contains(payload, "{{") {
		for i := range out {
			out[i] = []byte(payload)
		}
		return out, nil
	}

	t, err := e.Parse("payload", payload)
	if err != nil {
		return nil, fmt.Errorf("parse payload template: %w", err)
	}
	for i := range out {
		s, err := e.Execute(t, TemplateData{ClientID: i, UUID: uuid.New().String()})
		if err != nil {
			return nil, fmt.Errorf("render payload for client %d: %w", i, err)
		}
		out[i] = []byte(s)
	}
	return out, nil
}

// --- Functions ---

func (e *TemplateEngine) randomInt(min, max int) int {
	if max <= min {
		return min
	}
	return rand.Intn(max-min) + min
}

func (e *TemplateEngine) randomUUID() string {
	return uuid.New().String()
}

func (e *TemplateEngine) randomChoice(choices ...string) string {
	if len(choices) == 0 {
		return ""
	}
	return choices[rand.Intn(len(choices))]
}

func (e *TemplateEngine) randomLine(filename string) (string, error) {
	e.mu.RLock()
	lines, ok := e.fileCache[filename]
	e.mu.RUnlock()

	if !ok {
		e.mu.Lock()
		defer e.mu.Unlock()

		// Double check
		if lines, ok = e.fileCache[filename]; !ok {
			content, err := os.ReadFile(filename)
			if err != nil {
				return "", fmt.Errorf("failed to read file '%s': %w", filename, err)
			}

			scanner := bufio.NewScanner(bytes.NewReader(content))
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					lines = append(lines, line)
				}
			}
			e.fileCache[filename] = lines
		}
	}

	if len(lines) == 0 {
		return "", nil
	}
	return lines[rand.Intn(len(lines))], nil
}
