// Command catalog filters a catalog document for one grade without running
// the server.
//
//	catalog -grade "Grade 3" < lessons.json > grade3.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		var verr *content.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				fmt.Fprintln(os.Stderr, p)
			}
		}
		slog.Error("catalog failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	var (
		grade    = fs.String("grade", "", `learner grade: 3, "Grade 3" or empty for unknown`)
		policy   = fs.String("policy", "open", "missing grade policy: open or closed")
		in       = fs.String("in", "", "read the catalog from this file instead of stdin")
		format   = fs.String("format", "json", "output format: json or xlsx")
		validate = fs.Bool("validate", false, "only validate the document")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := content.ParseMissingGradePolicy(*policy)
	if err != nil {
		return err
	}
	if *format != "json" && *format != "xlsx" {
		return fmt.Errorf("unknown format %q (want json or xlsx)", *format)
	}

	src := stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer f.Close()
		src = f
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}

	items, err := content.DecodeCatalogJSON(data)
	if err != nil {
		return err
	}
	if *validate {
		slog.Info("catalog valid", "items", len(items))
		return nil
	}

	out := content.NewFilter(p, nil).Apply(items, content.ParseGradeString(*grade))
	slog.Debug("catalog filtered", "grade", *grade, "candidates", len(items), "eligible", len(out))

	if *format == "xlsx" {
		return content.WriteXLSX(stdout, out)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
