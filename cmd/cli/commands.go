package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/grahmind/careers-waitlist/domain/dashboard"
)

// WaitlistView is what the export and stats commands read from.
type WaitlistView interface {
	EnsureLoaded(ctx context.Context) error
	ExportCSV(term string, window dashboard.Window) (string, []byte)
	Stats() dashboard.Stats
}

// runExport writes the CSV to -out, to the dated default file name, or to
// stdout when -out is "-".
func runExport(ctx context.Context, view WaitlistView, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	search := fs.String("search", "", "case-insensitive email substring")
	filter := fs.String("filter", string(dashboard.WindowAll), "all, today or week")
	out := fs.String("out", "", "output file; - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := view.EnsureLoaded(ctx); err != nil {
		return err
	}

	name, content := view.ExportCSV(*search, dashboard.ParseWindow(*filter))

	switch *out {
	case "-":
		_, err := stdout.Write(content)
		return err
	case "":
		*out = name
	}

	if err := os.WriteFile(*out, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	_, err := fmt.Fprintln(stdout, *out)
	return err
}

func runStats(ctx context.Context, view WaitlistView, stdout io.Writer) error {
	if err := view.EnsureLoaded(ctx); err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	return enc.Encode(view.Stats())
}
