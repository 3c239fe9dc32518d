package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/sourcegraph/conc/stream"

	"dispatch_parser/internal/config"
	"dispatch_parser/internal/dispatch"
	"dispatch_parser/internal/engine"
)

// ParseOut is one output entry of the parse command.
type ParseOut struct {
	Line   int            `json:"line"`
	Kind   string         `json:"kind"`
	Result *engine.Result `json:"result,omitempty"`
	Row    []string       `json:"row,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type Stats struct {
	Lines     int
	Text      int
	Form      int
	Skipped   int
	Emitted   int
	Matched   int
	Degraded  int
	Rejected  int
	Delegated int
}

// input is a decoded JSONL line.
type input struct {
	line   int
	kind   string
	req    *dispatch.Request
	fields *dispatch.Fields
}

func runParse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	inPath := fs.String("input", "", "Input JSONL file (default: stdin)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	includeAll := fs.Bool("all", false, "Include lines even if no field was found")
	showStats := fs.Bool("stats", false, "Print basic counters to stderr")
	workers := fs.Int("workers", runtime.NumCPU(), "Parallel parse workers (output order is preserved)")
	_ = fs.Parse(args)

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	eng, err := buildEngine(cfg, logger, nil)
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	// Form exports can carry long free-text answers; bump the buffer.
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 16*1024*1024)

	out := make([]ParseOut, 0, 1024)
	st := &Stats{}

	if *workers < 1 {
		*workers = 1
	}
	s := stream.New().WithMaxGoroutines(*workers)

	for scanner.Scan() {
		st.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		in, ok := decodeInput([]byte(line))
		if !ok {
			st.Skipped++
			continue
		}
		in.line = st.Lines
		switch in.kind {
		case "text":
			st.Text++
		default:
			st.Form++
		}

		s.Go(func() stream.Callback {
			po := parseOne(ctx, eng, in)
			// Callbacks run in submission order, so out keeps input order.
			return func() {
				matched := po.Result != nil && hasFields(po.Result.Record)
				if matched {
					st.Matched++
				}
				switch {
				case po.Error != "":
					st.Rejected++
				case po.Result.State == dispatch.StateDegraded:
					st.Degraded++
				}
				if po.Result != nil && po.Result.Strategy == "delegated" {
					st.Delegated++
				}
				if matched || po.Error != "" || *includeAll {
					out = append(out, po)
					st.Emitted++
				}
			}
		})
	}
	s.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input read error: %w", err)
	}

	var wout io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		wout = f
	}

	enc, err := marshalJSON(out, *pretty)
	if err != nil {
		return fmt.Errorf("JSON encode error: %w", err)
	}
	_, _ = wout.Write(enc)
	if wout == os.Stdout {
		_, _ = wout.Write([]byte("\n"))
	}

	if *showStats {
		fmt.Fprintf(os.Stderr,
			"stats: lines=%d parsed(text=%d form=%d) skipped=%d emitted=%d matched=%d degraded=%d rejected=%d delegated=%d\n",
			st.Lines, st.Text, st.Form, st.Skipped, st.Emitted, st.Matched, st.Degraded, st.Rejected, st.Delegated,
		)
	}
	return nil
}

func parseOne(ctx context.Context, eng *engine.Engine, in input) ParseOut {
	po := ParseOut{Line: in.line, Kind: in.kind}

	var (
		res *engine.Result
		err error
	)
	if in.fields != nil {
		res, err = eng.ParseFields(in.fields)
	} else {
		res, err = eng.ParseText(ctx, in.req)
	}

	var verr *dispatch.ValidationError
	switch {
	case errors.As(err, &verr):
		po.Error = verr.Error()
	case err != nil:
		po.Error = err.Error()
	default:
		po.Result = res
		po.Row = res.Record.Row(in.line)
	}
	return po
}

// hasFields reports whether anything beyond the contract number was found.
func hasFields(r *dispatch.Record) bool {
	c := *r
	c.ContractNo = ""
	return c != dispatch.Record{}
}

// decodeInput recognises the three line shapes described in the package doc.
func decodeInput(b []byte) (input, bool) {
	var root map[string]any
	if err := json.Unmarshal(b, &root); err != nil {
		return input{}, false
	}

	if raw, ok := root["fields"]; ok {
		data, err := json.Marshal(raw)
		if err != nil {
			return input{}, false
		}
		var f dispatch.Fields
		if err := json.Unmarshal(data, &f); err != nil {
			return input{}, false
		}
		if f.ContractNo == "" {
			f.ContractNo = contractNo(root)
		}
		return input{kind: "form", fields: &f}, true
	}

	if cols, ok := root["columns"].(map[string]any); ok {
		strs := make(map[string]string, len(cols))
		for k, v := range cols {
			if s, ok := v.(string); ok {
				strs[k] = s
			} else if v != nil {
				strs[k] = fmt.Sprint(v)
			}
		}
		f := dispatch.FieldsFromColumns(strs)
		if f.ContractNo == "" {
			f.ContractNo = contractNo(root)
		}
		return input{kind: "columns", fields: &f}, true
	}

	text := firstString(root, "text", "message", "body", "배차요청", "content")
	if strings.TrimSpace(text) == "" {
		return input{}, false
	}
	return input{kind: "text", req: &dispatch.Request{ContractNo: contractNo(root), Text: text}}, true
}

func contractNo(root map[string]any) string {
	return firstString(root, "contract_no", "contractNo", "num", "운송계약번호")
}

func firstString(root map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := root[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
