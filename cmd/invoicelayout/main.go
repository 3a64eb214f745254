// Command invoicelayout scans spreadsheet invoice templates and renders
// paginated invoices from them.
//
// Usage:
//
//	invoicelayout scan -xlsx template.xlsx [-sheet Invoice] -o template.json
//	invoicelayout paginate -config invoice.yaml -invoices invoices.json
//	invoicelayout render -config invoice.yaml -invoices invoices.json [-format pdf|html] [-out dir]
//	invoicelayout send -config invoice.yaml -invoices invoices.json
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aerissecure/invoicelayout"
	"github.com/aerissecure/invoicelayout/delivery"
	"github.com/aerissecure/invoicelayout/layout"
	"github.com/aerissecure/invoicelayout/render"
	"github.com/aerissecure/invoicelayout/scheme"
)

const usage = `usage: invoicelayout <command> [flags]

commands:
  scan      scan an exported template workbook into a scheme snapshot
  paginate  print page breakpoints for invoices as JSON
  render    render invoices to PDF or HTML files
  send      render invoices to PDF and email them
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "scan":
		err = runScan(args)
	case "paginate":
		err = runPaginate(args)
	case "render":
		err = runRender(args)
	case "send":
		err = runSend(args)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Str("run", uuid.NewString()[:8]).
		Logger()
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	xlsxPath := fs.String("xlsx", "", "exported template workbook")
	sheet := fs.String("sheet", "", "sheet name (default: first sheet)")
	out := fs.String("o", "template.json", "snapshot output path")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	if *xlsxPath == "" {
		return errors.New("scan: -xlsx is required")
	}
	log := newLogger(*verbose)
	s, err := scheme.ScanXLSXFile(*xlsxPath, scheme.ScanOptions{Sheet: *sheet, Logger: log})
	if err != nil {
		return err
	}
	if err := scheme.SaveSnapshot(*out, s); err != nil {
		return err
	}
	log.Info().Str("snapshot", *out).Stringer("scheme", s).Msg("wrote snapshot")
	return nil
}

// session is the state shared by the commands that work on invoices.
type session struct {
	cfg      *invoicelayout.Config
	log      zerolog.Logger
	composer *invoicelayout.Composer
	invoices []invoicelayout.Invoice
}

func openSession(configPath, invoicesPath string, verbose bool) (*session, error) {
	if configPath == "" || invoicesPath == "" {
		return nil, errors.New("-config and -invoices are required")
	}
	log := newLogger(verbose)
	cfg, err := invoicelayout.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	s, err := invoicelayout.LoadTemplate(cfg.Template, log)
	if err != nil {
		return nil, err
	}
	comp, err := invoicelayout.NewComposer(cfg, s)
	if err != nil {
		return nil, err
	}
	invs, err := invoicelayout.LoadInvoices(invoicesPath)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range invs {
		if invs[i].IssuedAt.IsZero() {
			invs[i].IssuedAt = now
		}
		if invs[i].Number == "" {
			invs[i].Number = invoicelayout.NewNumber(invs[i].IssuedAt)
			log.Info().Str("number", invs[i].Number).Str("client", invs[i].Client.Name).Msg("assigned invoice number")
		}
	}
	return &session{cfg: cfg, log: log, composer: comp, invoices: invs}, nil
}

func runPaginate(args []string) error {
	fs := flag.NewFlagSet("paginate", flag.ExitOnError)
	configPath := fs.String("config", "", "configuration file")
	invoicesPath := fs.String("invoices", "", "invoices JSON file")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	sess, err := openSession(*configPath, *invoicesPath, *verbose)
	if err != nil {
		return err
	}

	type result struct {
		Number     string            `json:"number"`
		Pagination layout.Pagination `json:"pagination"`
	}
	calc := sess.composer.Calculator()
	results := make([]result, len(sess.invoices))
	for i, inv := range sess.invoices {
		p := calc.Paginate(inv.Items)
		for _, b := range p.Breakpoints {
			sess.log.Debug().Str("number", inv.Number).Msg(b.String())
		}
		results[i] = result{Number: inv.Number, Pagination: p}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// renderAll renders every invoice concurrently. Outputs are indexed like
// sess.invoices.
func renderAll(ctx context.Context, sess *session, r *render.Renderer, format string) ([][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	outputs := make([][]byte, len(sess.invoices))
	for i, inv := range sess.invoices {
		i, inv := i, inv
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := sess.composer.Compose(inv)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			switch format {
			case "pdf":
				err = r.PDF(&buf, doc)
			case "html":
				err = r.HTML(&buf, doc)
			default:
				err = fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return fmt.Errorf("invoice %s: %w", inv.Number, err)
			}
			sess.log.Info().
				Str("number", inv.Number).
				Int("items", len(inv.Items)).
				Int("pages", doc.Pagination.PageCount()).
				Stringer("spacing", doc.Pagination.Spacing).
				Msg("rendered invoice")
			outputs[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// fileName turns an invoice number into a safe file name.
func fileName(number, ext string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '-'
		}
		return r
	}, number)
	return safe + "." + ext
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.String("config", "", "configuration file")
	invoicesPath := fs.String("invoices", "", "invoices JSON file")
	format := fs.String("format", "pdf", "output format: pdf or html")
	outDir := fs.String("out", ".", "output directory")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	sess, err := openSession(*configPath, *invoicesPath, *verbose)
	if err != nil {
		return err
	}
	outputs, err := renderAll(context.Background(), sess, render.New(render.WithLogger(sess.log)), *format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for i, inv := range sess.invoices {
		path := filepath.Join(*outDir, fileName(inv.Number, *format))
		if err := os.WriteFile(path, outputs[i], 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		sess.log.Info().Str("file", path).Msg("wrote invoice")
	}
	return nil
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	configPath := fs.String("config", "", "configuration file")
	invoicesPath := fs.String("invoices", "", "invoices JSON file")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	sess, err := openSession(*configPath, *invoicesPath, *verbose)
	if err != nil {
		return err
	}
	outputs, err := renderAll(context.Background(), sess, render.New(render.WithLogger(sess.log)), "pdf")
	if err != nil {
		return err
	}

	var letter *delivery.Letter
	if sess.cfg.Email.Letter != "" {
		if letter, err = delivery.LoadLetter(sess.cfg.Email.Letter); err != nil {
			return err
		}
	}

	mailer := delivery.NewMailer(sess.cfg.SMTP, sess.cfg.Email.From)
	for i, inv := range sess.invoices {
		to := sess.cfg.Email.To
		if to == "" {
			to = inv.Client.Email
		}
		body := fmt.Sprintf("Please find invoice %s attached.<br>", inv.Number)
		if letter != nil {
			body = letter.HTML(sess.composer.Values(inv))
		}
		att := delivery.Attachment{Filename: fileName(inv.Number, "pdf"), Data: outputs[i]}
		if err := mailer.Send(to, "Invoice "+inv.Number, body, att); err != nil {
			return fmt.Errorf("invoice %s: failed to send email: %w", inv.Number, err)
		}
		sess.log.Info().Str("number", inv.Number).Str("to", to).Msg("sent invoice")
	}
	return nil
}
