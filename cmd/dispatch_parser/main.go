// Command-line entry point for the dispatch request parser.
//
// Note about input formats
// ------------------------
// The parse command reads JSONL where each line is one of:
//  1. Free text:   {"contract_no":"C-1","text":"상차지: ..."}
//  2. Form fields: {"fields":{"contract_no":"C-1","pickup_date":{...}, ...}}
//  3. Form export: {"columns":{"운송계약번호":"C-1","상차지 주소":"...", ...}}
//
// Field names are matched loosely (contractNo, 운송계약번호, message, body...).
// Use -all to keep lines whose text yielded no fields at all.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	_ "time/tzdata" // TIMEZONE must resolve on minimal images.
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "dispatch_parser - commands:")
	fmt.Fprintln(w, "  parse   - parse a JSONL file of dispatch requests and output JSON")
	fmt.Fprintln(w, "  trace   - show which rule produced each field of one request")
	fmt.Fprintln(w, "  serve   - run the HTTP API")
	fmt.Fprintln(w, "  worker  - consume dispatch requests from NATS")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dispatch_parser parse -input requests.jsonl [-output out.json] [-pretty] [-all] [-stats] [-workers 4]")
	fmt.Fprintln(w, "  dispatch_parser trace [-input request.txt | -text \"...\"] [-contract C-1] [-pretty]")
	fmt.Fprintln(w, "  dispatch_parser serve")
	fmt.Fprintln(w, "  dispatch_parser worker")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - Configuration is read from the environment and an optional .env file.")
	fmt.Fprintln(w, "  - KEYWORDS_PATH points at a YAML keyword table; the built-in table is used otherwise.")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := strings.ToLower(os.Args[1])
	var err error
	switch cmd {
	case "parse":
		err = runParse(ctx, os.Args[2:])
	case "trace":
		err = runTrace(os.Args[2:])
	case "serve":
		err = runServe(ctx)
	case "worker":
		err = runWorker(ctx)
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func marshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
