package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"dispatch_parser/internal/config"
	"dispatch_parser/internal/dispatch"
)

func runTrace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	inPath := fs.String("input", "", "File holding one request text (default: stdin)")
	text := fs.String("text", "", "Request text (overrides -input)")
	contract := fs.String("contract", "", "Contract number")
	pretty := fs.Bool("pretty", true, "Pretty-print JSON output")
	_ = fs.Parse(args)

	body := *text
	if body == "" {
		var r io.Reader = os.Stdin
		if *inPath != "" {
			f, err := os.Open(*inPath)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			r = f
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("input read error: %w", err)
		}
		body = string(data)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg, newLogger(cfg), nil)
	if err != nil {
		return err
	}

	trace := eng.Trace(&dispatch.Request{ContractNo: *contract, Text: body})
	enc, err := marshalJSON(trace, *pretty)
	if err != nil {
		return fmt.Errorf("JSON encode error: %w", err)
	}
	_, _ = os.Stdout.Write(append(enc, '\n'))
	return nil
}
