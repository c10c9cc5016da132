package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"forklift-route-agent/internal/ports"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// changeRequestDecoder turns model output into a change request.
type changeRequestDecoder struct {
	name   string
	decode func(raw string) (*domain.ChangeRequest, error)
}

// QueryInterpreter turns free text into a ChangeRequest. It never fails:
// model errors and unparsable replies fall back to a keyword scan.
type QueryInterpreter struct {
	Model    ports.LanguageModel
	decoders []changeRequestDecoder
}

func NewQueryInterpreter(model ports.LanguageModel) *QueryInterpreter {
	return &QueryInterpreter{
		Model: model,
		decoders: []changeRequestDecoder{
			{name: "strict", decode: decodeStrict},
			{name: "bracketed", decode: decodeBracketed},
		},
	}
}

// Interpret returns a valid change request for query and the name of the
// decoder that produced it.
func (q *QueryInterpreter) Interpret(ctx context.Context, query string) (*domain.ChangeRequest, string) {
	var modelErr error
	defer obs.Time(ctx, "interpreter.Interpret")(&modelErr)

	req, source, modelErr := q.interpret(ctx, query)
	req.Normalize()
	obs.InterpreterDecodes.WithLabelValues(source).Inc()

	if b, mErr := json.Marshal(req); mErr == nil {
		log.Printf("req_id=%s interpreter source=%s request=%s", obs.RequestID(ctx), source, b)
	}
	return req, source
}

// interpret also returns the model failure, if any, so the stage timing
// reflects it. The request is always usable.
func (q *QueryInterpreter) interpret(ctx context.Context, query string) (*domain.ChangeRequest, string, error) {
	if q.Model == nil {
		return keywordChangeRequest(query), "keyword", nil
	}

	raw, err := q.Model.Invoke(ctx, buildInterpretPrompt(query))
	if err != nil {
		log.Printf("req_id=%s interpreter: language model call failed: %v", obs.RequestID(ctx), err)
		return keywordChangeRequest(query), "keyword", fmt.Errorf("interpret: language model: %w", err)
	}

	var rejected []error
	for _, d := range q.decoders {
		req, err := d.decode(raw)
		if err != nil {
			log.Printf("req_id=%s interpreter: decoder=%s rejected reply: %v", obs.RequestID(ctx), d.name, err)
			rejected = append(rejected, fmt.Errorf("%s: %w", d.name, err))
			continue
		}
		return req, d.name, nil
	}

	if len(rejected) == 0 {
		return keywordChangeRequest(query), "keyword", nil
	}
	return keywordChangeRequest(query), "keyword", fmt.Errorf("interpret: %w", errors.Join(rejected...))
}

func decodeStrict(raw string) (*domain.ChangeRequest, error) {
	req := domain.DefaultChangeRequest()
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), req); err != nil {
		return nil, fmt.Errorf("decode change request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("decode change request: %w", err)
	}
	return req, nil
}

// decodeBracketed parses the span between the first '{' and the last '}'.
func decodeBracketed(raw string) (*domain.ChangeRequest, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errors.New("decode change request: no JSON object in reply")
	}
	return decodeStrict(raw[start : end+1])
}

var (
	countWord = `(\d+|one|two|three|four|five|six|seven|eight|nine|ten)`

	fleetSizePattern = regexp.MustCompile(`\b` + countWord + `\s+forklifts?\b`)
	capacityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b` + countWord + `\s+items?\b`),
		regexp.MustCompile(`\bcarry\s+` + countWord + `\b`),
		regexp.MustCompile(`\bcapacity\s+(?:of\s+|to\s+)?` + countWord + `\b`),
	}
	removeOrderPattern   = regexp.MustCompile(`\bremove\s+(?:the\s+)?order\s+(?:#|number\s+)?(\d+)\b`)
	removeOrdinalPattern = regexp.MustCompile(`\bremove\s+(?:the\s+)?(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\s+order\b`)

	numberWords = map[string]int{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
		"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	}
	ordinalWords = map[string]int{
		"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
		"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	}
)

// keywordChangeRequest scans query for explicit fleet size, capacity and
// removal phrases. Anything it does not recognize stays not needed.
func keywordChangeRequest(query string) *domain.ChangeRequest {
	req := domain.DefaultChangeRequest()
	text := strings.ToLower(query)

	if m := fleetSizePattern.FindStringSubmatch(text); m != nil {
		if n, ok := parseCount(m[1]); ok {
			req.FleetChanges.ModifyFleetSize = domain.FleetSizeChange{Needed: true, NewSize: &n}
		}
	}

	for _, p := range capacityPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if n, ok := parseCount(m[1]); ok {
			req.FleetChanges.ModifyCapacity = domain.CapacityChange{Needed: true, NewCapacity: &n}
			break
		}
	}

	var position int
	if m := removeOrderPattern.FindStringSubmatch(text); m != nil {
		position, _ = strconv.Atoi(m[1])
	} else if m := removeOrdinalPattern.FindStringSubmatch(text); m != nil {
		position = ordinalWords[m[1]]
	}
	if position > 0 {
		req.QueryType = domain.QueryRemoveOrder
		req.TransportDataChanges.RemoveOrders = domain.OrderRemoval{
			Needed:       true,
			OrderIndices: []int{position - 1},
		}
	}

	return req
}

func parseCount(s string) (int, bool) {
	if n, ok := numberWords[s]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
