// Command gassize sizes gas pipes from a YAML job, an xlsx schedule or a
// SQLite segment store, and optionally writes PDF and xlsx reports.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"Gaspipe/internal/calc/gas"
	"Gaspipe/internal/calc/premium/batch"
	"Gaspipe/internal/calc/premium/importer"
	"Gaspipe/internal/calc/report"
	"Gaspipe/internal/log"
	"Gaspipe/internal/repo"
	"Gaspipe/internal/sizing"

	"github.com/ansel1/merry"
	"gopkg.in/yaml.v3"
)

type options struct {
	job      string
	xlsx     string
	db       string
	pdf      string
	out      string
	length   float64
	mode     string
	selector string
	fuel     string
	apply    bool
	all      bool
	close    bool
	debug    bool
}

// Job is the YAML form of a sizing run. Segments are sized directly; when a
// database is given they are stored there first.
type Job struct {
	Project  string        `yaml:"project"`
	Author   string        `yaml:"author"`
	Request  gas.Request   `yaml:"request"`
	Segments []gas.Segment `yaml:"segments"`
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("gassize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.job, "job", "", "YAML job file")
	fs.StringVar(&o.xlsx, "xlsx", "", "xlsx pipe schedule (id, system_type, flow_mbh, diameter_in)")
	fs.StringVar(&o.db, "db", "", "SQLite segment store to size in place")
	fs.StringVar(&o.pdf, "pdf", "", "write a PDF report to this path")
	fs.StringVar(&o.out, "out", "", "write an xlsx report to this path")
	fs.Float64Var(&o.length, "length", 0, "developed length, ft")
	fs.StringVar(&o.mode, "mode", "low", "pressure regime: low or high")
	fs.StringVar(&o.selector, "selector", "", `regime selector, e.g. "0.5 in. w.c." or "2 psi"`)
	fs.StringVar(&o.fuel, "fuel", "natural_gas", "natural_gas or propane")
	fs.BoolVar(&o.apply, "apply", false, "write the new sizes back to the store")
	fs.BoolVar(&o.all, "all", false, "with -db and no new segments, size every gas pipe in the store")
	fs.BoolVar(&o.close, "close", true, "exit without waiting for Enter")
	fs.BoolVar(&o.debug, "debug", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.job == "" && o.xlsx == "" && o.db == "" {
		return o, merry.New("one of -job, -xlsx or -db is required")
	}
	return o, nil
}

// LoadJob reads a YAML job.
func LoadJob(r io.Reader) (Job, error) {
	var job Job
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil {
		return Job{}, merry.Prepend(err, "read job")
	}
	return job, nil
}

func requestFromFlags(o options) (gas.Request, error) {
	regime, err := gas.ParseRegime(o.mode, o.selector)
	if err != nil {
		return gas.Request{}, err
	}
	fuel, err := gas.ParseFuel(o.fuel)
	if err != nil {
		return gas.Request{}, err
	}
	req := gas.Request{
		DevelopedLengthFt: o.length,
		Regime:            regime,
		Fuel:              fuel,
		ApplyChanges:      o.apply,
		CloseAfterRun:     o.close,
	}
	return req, req.Validate()
}

func loadJobFile(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return Job{}, merry.Wrap(err)
	}
	defer f.Close()
	return LoadJob(f)
}

func loadSchedule(path string) ([]gas.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, merry.Wrap(err)
	}
	defer f.Close()
	segments, skipped, err := importer.ReadSegments(f)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		log.Warnw("schedule row skipped", "row", s.Row, "reason", s.Reason)
	}
	return segments, nil
}

func sizeStore(ctx context.Context, path string, req gas.Request, seed []gas.Segment, all bool) (batch.GasBatchResult, error) {
	db, err := repo.Open("sqlite", path)
	if err != nil {
		return batch.GasBatchResult{}, err
	}
	defer db.Close()
	store := repo.NewSQLiteSegmentDB(db)
	if err := store.Migrate(ctx); err != nil {
		return batch.GasBatchResult{}, err
	}

	var ids []int64
	for _, seg := range seed {
		id, err := store.InsertSegment(ctx, seg)
		if err != nil {
			return batch.GasBatchResult{}, err
		}
		ids = append(ids, id)
	}

	res, err := sizing.NewService(store).Run(ctx, sizing.RunInput{Request: req, SelectedIDs: ids, All: all && len(ids) == 0})
	if err != nil {
		return batch.GasBatchResult{}, err
	}
	return res.GasBatchResult, nil
}

func printResult(w io.Writer, res batch.GasBatchResult) {
	for _, r := range res.Results {
		switch r.Outcome {
		case gas.OutcomeResized:
			fmt.Fprintf(w, "%d: %.2f\" -> %.2f\" (calc %.4f\")\n", r.SegmentID, r.PreviousIn(), r.NominalIn(), r.DiameterIn)
		case gas.OutcomeUnchanged:
			fmt.Fprintf(w, "%d: %.2f\" did not need to be adjusted\n", r.SegmentID, r.NominalIn())
		case gas.OutcomeOutOfCatalogRange:
			fmt.Fprintf(w, "%d: calc %.4f\" exceeds the largest catalog size\n", r.SegmentID, r.DiameterIn)
		default:
			fmt.Fprintf(w, "%d: skipped: %s\n", r.SegmentID, r.Notes)
		}
	}
	for _, id := range res.Skipped {
		fmt.Fprintf(w, "%d: not a gas pipe, skipped\n", id)
	}
	fmt.Fprintf(w, "Changed size for %d elements\n", res.Changed)
}

func writeReports(o options, meta report.Meta, res batch.GasBatchResult) error {
	if o.pdf != "" {
		f, err := os.Create(o.pdf)
		if err != nil {
			return merry.Wrap(err)
		}
		err = report.WritePDF(f, meta, res)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			return merry.Wrap(err)
		}
		err = report.WriteXLSX(f, res)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if err := log.Init(o.debug); err != nil {
		return err
	}
	defer log.Sync()

	var (
		job  Job
		meta report.Meta
	)
	if o.job != "" {
		if job, err = loadJobFile(o.job); err != nil {
			return err
		}
		meta.Project, meta.Author = job.Project, job.Author
	} else {
		if job.Request, err = requestFromFlags(o); err != nil {
			return err
		}
	}
	if o.xlsx != "" {
		segments, err := loadSchedule(o.xlsx)
		if err != nil {
			return err
		}
		job.Segments = append(job.Segments, segments...)
	}

	var res batch.GasBatchResult
	if o.db != "" {
		res, err = sizeStore(ctx, o.db, job.Request, job.Segments, o.all)
	} else {
		res, err = batch.CalculateGas(batch.GasBatchInput{Request: job.Request, Segments: job.Segments})
	}
	if err != nil {
		return err
	}

	printResult(stdout, res)
	if err := writeReports(o, meta, res); err != nil {
		return err
	}
	if !job.Request.CloseAfterRun {
		fmt.Fprint(stdout, "Press Enter to exit")
		bufio.NewReader(stdin).ReadString('\n')
	}
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "gassize:", err)
		os.Exit(1)
	}
}
