package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/karupanerura/exprlang/internal/expression"
	"github.com/karupanerura/exprlang/internal/render"
	"github.com/karupanerura/exprlang/internal/types"
)

var (
	parsesPathRegexp = regexp.MustCompile(`^/v1/parses(/[^/]+)?$`)
	tokensPath       = "/v1/tokens"
)

const maxSourceBytes = 1 << 20

var errSourceTooLarge = fmt.Errorf("source exceeds %d bytes", maxSourceBytes)

const (
	stateSucceeded = "SUCCEEDED"
	stateFailed    = "FAILED"
)

type parse struct {
	seq uint64

	Name       string    `json:"name"`
	CreateTime time.Time `json:"createTime"`
	State      string    `json:"state"`
	Source     string    `json:"source"`
	SExpr      string    `json:"sexpr,omitempty"`
	Tree       any       `json:"tree,omitempty"`
	Error      any       `json:"error,omitempty"`
}

type parseRequest struct {
	Source string `json:"source"`
}

type httpHandler struct {
	seq    uint64
	parses sync.Map
	opts   render.Options
}

// NewHTTPHandler returns the parse service handler.
func NewHTTPHandler(opts render.Options) http.Handler {
	return &httpHandler{opts: opts}
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == tokensPath {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h.tokenize(w, r)
		return
	}

	m := parsesPathRegexp.FindStringSubmatch(r.URL.Path)
	if m == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if m[1] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listParses(w, r)
			return

		case http.MethodPost:
			h.createParse(w, r)
			return

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		h.getParse(w, r, strings.TrimPrefix(m[1], "/"))
		return

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
}

func (h *httpHandler) createParse(w http.ResponseWriter, r *http.Request) {
	source, err := readSource(r)
	if err != nil {
		badSource(w, err)
		return
	}

	id := uuid.New().String()
	p := &parse{
		seq:        atomic.AddUint64(&h.seq, 1),
		Name:       r.URL.Path + "/" + id,
		CreateTime: time.Now().UTC(),
		Source:     source,
	}

	program, err := expression.Parse(source)
	if err != nil {
		p.State = stateFailed
		p.Error = exceptionOf(err)
	} else {
		p.State = stateSucceeded
		p.SExpr = program.String()
		p.Tree = expression.Plain(program)
	}
	h.parses.Store(id, p)

	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}
	if err := resJSON(w, status, p, h.opts.Indent); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) tokenize(w http.ResponseWriter, r *http.Request) {
	source, err := readSource(r)
	if err != nil {
		badSource(w, err)
		return
	}

	tokens, err := expression.Tokenize(source)
	res := map[string]any{"tokens": render.TokenRecords(tokens)}
	status := http.StatusOK
	if err != nil {
		res["error"] = exceptionOf(err)
		status = http.StatusUnprocessableEntity
	}
	if err := resJSON(w, status, res, h.opts.Indent); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) listParses(w http.ResponseWriter, r *http.Request) {
	results := []*parse{}
	h.parses.Range(func(key, value any) bool {
		results = append(results, value.(*parse))
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		return results[i].seq < results[j].seq
	})

	if err := resJSON(w, http.StatusOK, map[string][]*parse{"parses": results}, h.opts.Indent); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) getParse(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.parses.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := resJSON(w, http.StatusOK, ret.(*parse), h.opts.Indent); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func badSource(w http.ResponseWriter, err error) {
	log.Printf("failed to read request body: %v", err)
	if errors.Is(err, errSourceTooLarge) {
		http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "Bad Request", http.StatusBadRequest)
}

// readSource accepts either a JSON {"source": ...} body or raw text.
// Bodies over maxSourceBytes are rejected rather than truncated.
func readSource(r *http.Request) (string, error) {
	defer r.Body.Close()

	b, err := io.ReadAll(io.LimitReader(r.Body, maxSourceBytes+1))
	if err != nil {
		return "", fmt.Errorf("io.ReadAll: %w", err)
	}
	if len(b) > maxSourceBytes {
		return "", errSourceTooLarge
	}

	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
		var req parseRequest
		if err := json.Unmarshal(b, &req); err != nil {
			return "", fmt.Errorf("json.Unmarshal: %w", err)
		}
		return req.Source, nil
	}
	return string(b), nil
}

func exceptionOf(err error) any {
	var exception types.Exception
	if errors.As(err, &exception) {
		return exception.Exception()
	}
	return map[string]any{"message": err.Error()}
}

func resJSON(w http.ResponseWriter, status int, v any, indent string) error {
	if indent == "" {
		indent = "  "
	}
	b, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
