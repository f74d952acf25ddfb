// Command grantha is the CLI for the Grantha text-publishing pipeline.
// It validates proofing pages, segments raw transcriptions, and
// publishes proofed pages as TEI documents.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sahitya-io/grantha/core/proof"
	"github.com/sahitya-io/grantha/core/publish"
	"github.com/sahitya-io/grantha/core/segment"
	"github.com/sahitya-io/grantha/internal/config"
	"github.com/sahitya-io/grantha/internal/logging"
	"github.com/sahitya-io/grantha/internal/storage"
)

const version = "0.1.0"

// CLI defines the command-line interface for grantha.
var CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Validate ValidateCmd `cmd:"" help:"Validate proofing page XML files"`
	Segment  SegmentCmd  `cmd:"" help:"Segment raw page text into proofing XML"`
	Publish  PublishCmd  `cmd:"" help:"Publish proofed pages into the text store"`
	Preview  PreviewCmd  `cmd:"" help:"Show what a publish run would change"`
	Export   ExportCmd   `cmd:"" help:"Export a publish run as TEI or plain text"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// ValidateCmd checks page files against the proofing schema.
type ValidateCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Page XML files to validate"`
}

func (c *ValidateCmd) Run() error {
	bad := 0
	for _, path := range c.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		results := proof.Validate(string(data))
		logging.ValidationIssues(pageIDFromName(path), len(results), "file", path)
		for _, r := range results {
			fmt.Printf("%s: %s\n", path, r.Message)
		}
		if len(results) > 0 {
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", bad, len(c.Files))
	}
	return nil
}

// SegmentCmd turns unstructured page text into best-guess proofing XML.
type SegmentCmd struct {
	File   string `arg:"" type:"existingfile" help:"Plain text file to segment"`
	PageID int    `name:"page-id" help:"Page identifier for the output document"`

	Regroup bool `help:"Use the line-run grouping pass instead of blank-line splitting"`
	Stage   bool `help:"Wrap parenthesized spans in stage marks (with --regroup)"`
	Speaker bool `help:"Wrap leading dash-separated names in speaker marks (with --regroup)"`
	Chaya   bool `help:"Wrap bracketed spans in chaya marks (with --regroup)"`
}

func (c *SegmentCmd) Run() error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	var page *proof.Page
	if c.Regroup {
		page = &proof.Page{
			ID: c.PageID,
			Blocks: segment.Regroup(string(data), segment.Options{
				MatchStage:   c.Stage,
				MatchSpeaker: c.Speaker,
				MatchChaya:   c.Chaya,
			}),
		}
	} else {
		page = segment.Page(string(data), c.PageID)
	}
	fmt.Println(page.XML())
	return nil
}

// PublishCmd assembles pages into a text and applies it to the store.
type PublishCmd struct {
	Config string `name:"config" short:"c" required:"" type:"existingfile" help:"Project config (TOML)"`
	Text   string `name:"text" required:"" help:"Publish target slug from the config"`
	Pages  string `name:"pages" required:"" type:"existingdir" help:"Directory of page XML files"`
	DB     string `name:"db" required:"" help:"SQLite database path"`
}

func (c *PublishCmd) Run() error {
	target, doc, err := assembleTarget(c.Config, c.Text, c.Pages)
	if err != nil {
		return err
	}

	store, err := storage.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	text, err := store.UpsertText(ctx, target.Slug, target.Title, target.Author)
	if err != nil {
		return err
	}
	stats, err := store.ApplyDocument(ctx, text.ID, doc)
	if err != nil {
		return err
	}
	logging.StorageApply(target.Slug, stats.Inserted, stats.Updated, stats.Deleted, stats.Unchanged)
	fmt.Printf("published %s: %d inserted, %d updated, %d deleted, %d unchanged\n",
		target.Slug, stats.Inserted, stats.Updated, stats.Deleted, stats.Unchanged)
	return nil
}

// PreviewCmd reports the block-level changes a publish run would make.
type PreviewCmd struct {
	Config string `name:"config" short:"c" required:"" type:"existingfile" help:"Project config (TOML)"`
	Text   string `name:"text" required:"" help:"Publish target slug from the config"`
	Pages  string `name:"pages" required:"" type:"existingdir" help:"Directory of page XML files"`
	DB     string `name:"db" required:"" help:"SQLite database path"`
	HTML   bool   `help:"Print full ins/del diff markup instead of a summary"`
}

func (c *PreviewCmd) Run() error {
	target, doc, err := assembleTarget(c.Config, c.Text, c.Pages)
	if err != nil {
		return err
	}

	store, err := storage.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var oldXMLs []string
	if text, err := store.TextBySlug(ctx, target.Slug); err == nil {
		blocks, err := store.Blocks(ctx, text.ID)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			oldXMLs = append(oldXMLs, b.XML)
		}
	}

	diffs := publish.Preview(oldXMLs, doc)
	if len(diffs) == 0 {
		fmt.Println("no changes")
		return nil
	}
	counts := map[publish.DiffKind]int{}
	for _, d := range diffs {
		counts[d.Kind]++
		if c.HTML {
			fmt.Printf("[%s] %s\n", d.Kind, d.HTML)
		}
	}
	fmt.Printf("%d added, %d changed, %d removed\n",
		counts[publish.DiffAdded], counts[publish.DiffChanged], counts[publish.DiffRemoved])
	return nil
}

// ExportCmd writes a publish run to a file without touching the store.
type ExportCmd struct {
	Config string `name:"config" short:"c" required:"" type:"existingfile" help:"Project config (TOML)"`
	Text   string `name:"text" required:"" help:"Publish target slug from the config"`
	Pages  string `name:"pages" required:"" type:"existingdir" help:"Directory of page XML files"`
	Format string `default:"tei" enum:"tei,text" help:"Output format"`
	Out    string `name:"out" short:"o" required:"" help:"Output path"`
	XZ     bool   `name:"xz" help:"Compress the output with xz"`
}

func (c *ExportCmd) Run() error {
	target, doc, err := assembleTarget(c.Config, c.Text, c.Pages)
	if err != nil {
		return err
	}

	meta := publish.Meta{Title: target.Title, Author: target.Author, FromProofing: true}
	var out string
	switch c.Format {
	case "tei":
		out, err = doc.TEI(meta)
	case "text":
		out, err = doc.PlainText(meta, time.Now())
	}
	if err != nil {
		return err
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	defer f.Close()
	if c.XZ {
		err = publish.WriteXZ(f, []byte(out))
	} else {
		_, err = f.WriteString(out)
	}
	if err != nil {
		return err
	}
	logging.ExportWritten(c.Out, c.Format, len(out))
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("grantha version %s (sqlite driver: %s)\n", version, storage.DriverType())
	return nil
}

// assembleTarget loads the config, validates and parses every page in
// the directory, and runs a full assembly for the named target.
func assembleTarget(configPath, slug, pagesDir string) (*config.PublishTarget, *publish.Document, error) {
	project, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	target, err := project.Target(slug)
	if err != nil {
		return nil, nil, err
	}
	f, err := target.Filter()
	if err != nil {
		return nil, nil, err
	}

	pages, err := loadPages(pagesDir)
	if err != nil {
		return nil, nil, err
	}

	doc, err := publish.Assemble(pages, publish.Options{Title: target.Title, Target: f})
	if err != nil {
		return nil, nil, err
	}
	blocks := 0
	for _, s := range doc.Sections {
		blocks += len(s.Blocks)
	}
	logging.PublishRun(target.Slug, len(doc.Sections), blocks)
	return target, doc, nil
}

var digitsRE = regexp.MustCompile(`\d+`)

// pageIDFromName extracts a page number from a filename ("page_043.xml"
// -> 43), falling back to zero.
func pageIDFromName(path string) int {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if m := digitsRE.FindString(name); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 0
}

// loadPages reads a directory of page XML files in name order. Each
// file must be schema-clean; any violation aborts the run.
func loadPages(dir string) ([]publish.PageInput, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".xml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var pages []publish.PageInput
	for i, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if results := proof.Validate(string(data)); len(results) > 0 {
			logging.ValidationIssues(pageIDFromName(path), len(results), "file", path)
			return nil, fmt.Errorf("%s: %w", path, proof.AsError(results))
		}
		id := pageIDFromName(path)
		if id == 0 {
			id = i + 1
		}
		page, err := proof.ParsePage(string(data), id)
		if err != nil {
			return nil, err
		}
		pages = append(pages, publish.PageInput{Page: page, ImageNumber: i + 1})
	}
	return pages, nil
}

func logLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("grantha"),
		kong.Description("Grantha - collaborative proofing and TEI publishing pipeline"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(logLevel(CLI.LogLevel), format)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
