package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/subcommands"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
	"github.com/vbonduro/folio/internal/mediastore"
	"github.com/vbonduro/folio/internal/syncstore"
)

type lsCmd struct {
	app *App
}

func (*lsCmd) Name() string     { return "ls" }
func (*lsCmd) Synopsis() string { return "list portfolios" }
func (*lsCmd) Usage() string {
	return `ls:
  List every portfolio with its section and item counts.
`
}
func (*lsCmd) SetFlags(*flag.FlagSet) {}

func (c *lsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.open(ctx, true)
	if err != nil {
		return c.app.fail(err)
	}
	defer c.app.closeSession(s)

	if err := writePortfolios(c.app.Out, s.store.State().Portfolios); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

type showCmd struct {
	app *App
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show a portfolio grouped by section" }
func (*showCmd) Usage() string {
	return `show <portfolio-id>:
  Print the portfolio's items grouped by section, unsorted items last.
`
}
func (*showCmd) SetFlags(*flag.FlagSet) {}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, err := c.app.open(ctx, true)
	if err != nil {
		return c.app.fail(err)
	}
	defer c.app.closeSession(s)

	if !s.store.SelectPortfolio(f.Arg(0)) {
		return c.app.fail(fmt.Errorf("portfolio %s not found", f.Arg(0)))
	}
	if err := writePortfolio(c.app.Out, s.store.Current()); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

type createCmd struct {
	app         *App
	description string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a portfolio" }
func (*createCmd) Usage() string {
	return `create [-d description] <title>:
  Create a portfolio and print its id.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.description, "d", "", "portfolio description")
}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, err := c.app.open(ctx, false)
	if err != nil {
		return c.app.fail(err)
	}
	defer c.app.closeSession(s)

	p, err := s.store.CreatePortfolio(ctx, gateway.PortfolioInput{Title: f.Arg(0), Description: c.description})
	if err != nil {
		return c.app.fail(err)
	}
	_, _ = fmt.Fprintln(c.app.Out, p.ID)
	return subcommands.ExitSuccess
}

type sectionCmd struct {
	app         *App
	portfolio   string
	description string
	order       int
}

func (*sectionCmd) Name() string     { return "section" }
func (*sectionCmd) Synopsis() string { return "add a section to a portfolio" }
func (*sectionCmd) Usage() string {
	return `section -p <portfolio-id> [-order n] [-d description] <title>:
  Create a section and print its id.
`
}

func (c *sectionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio id")
	f.StringVar(&c.description, "d", "", "section description")
	f.IntVar(&c.order, "order", 0, "display order of the section")
}

func (c *sectionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, err := c.app.openPortfolio(ctx, c.portfolio)
	if err != nil {
		return c.app.fail(err)
	}
	defer c.app.closeSession(s)

	sec, err := s.store.CreateSection(ctx, gateway.SectionInput{Title: f.Arg(0), Description: c.description, Order: c.order})
	if err != nil {
		return c.app.fail(err)
	}
	_, _ = fmt.Fprintln(c.app.Out, sec.ID)
	return subcommands.ExitSuccess
}

type uploadCmd struct {
	app         *App
	portfolio   string
	section     string
	mediaType   string
	title       string
	description string
}

func (*uploadCmd) Name() string     { return "upload" }
func (*uploadCmd) Synopsis() string { return "upload a file as a new item" }
func (*uploadCmd) Usage() string {
	return `upload -p <portfolio-id> [-section id] [-type image|video] [-title t] [-d description] <file>:
  Upload the file and append it to the section, or to the unsorted group.
  The title defaults to the file name without its extension.
`
}

func (c *uploadCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio id")
	f.StringVar(&c.section, "section", "", "section id")
	f.StringVar(&c.mediaType, "type", string(domain.MediaImage), "media type: image or video")
	f.StringVar(&c.title, "title", "", "item title")
	f.StringVar(&c.description, "d", "", "item description")
}

func (c *uploadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return c.app.fail(fmt.Errorf("failed to read %s: %w", path, err))
	}

	s, err := c.app.openPortfolio(ctx, c.portfolio)
	if err != nil {
		return c.app.fail(err)
	}
	defer c.app.closeSession(s)

	name := filepath.Base(path)
	it, err := s.store.UploadItem(ctx, gateway.Upload{
		Name:        name,
		ContentType: mediastore.MIMEForName(name),
		Data:        data,
	}, syncstore.ItemDraft{
		Type:        domain.MediaType(c.mediaType),
		Title:       c.title,
		Description: c.description,
		SectionID:   c.section,
	})
	if err != nil {
		return c.app.fail(err)
	}
	_, _ = fmt.Fprintln(c.app.Out, it.ID)
	return subcommands.ExitSuccess
}

type moveCmd struct {
	app       *App
	portfolio string
}

func (*moveCmd) Name() string     { return "move" }
func (*moveCmd) Synopsis() string { return "move an item to a section and position" }
func (*moveCmd) Usage() string {
	return `move -p <portfolio-id> <item-id> <section-id|-> <order>:
  Reassign the item. Use - as the section to make the item unsorted.
`
}

func (c *moveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio id")
}

func (c *moveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	order, err := strconv.Atoi(f.Arg(2))
	if err != nil {
		_, _ = fmt.Fprintf(c.app.Err, "invalid order %q\n", f.Arg(2))
		return subcommands.ExitUsageError
	}
	section := f.Arg(1)
	if section == "-" {
		section = ""
	}

	s, err := c.app.openPortfolio(ctx, c.portfolio)
	if err != nil {
		return c.app.fail(err)
	}
	defer c.app.closeSession(s)

	if err := s.store.MoveItem(ctx, f.Arg(0), section, order); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

type rmCmd struct {
	app       *App
	portfolio string
	section   string
	item      string
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove a portfolio, section or item" }
func (*rmCmd) Usage() string {
	return `rm -p <portfolio-id> [-section id | -item id]:
  Without -section or -item the whole portfolio is removed. Items of a
  removed section become unsorted.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio id")
	f.StringVar(&c.section, "section", "", "section id to remove")
	f.StringVar(&c.item, "item", "", "item id to remove")
}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.section != "" && c.item != "" {
		_, _ = fmt.Fprintln(c.app.Err, "-section and -item are mutually exclusive")
		return subcommands.ExitUsageError
	}
	if c.portfolio == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	var (
		s   *session
		err error
	)
	if c.section == "" && c.item == "" {
		s, err = c.app.open(ctx, false)
	} else {
		s, err = c.app.openPortfolio(ctx, c.portfolio)
	}
	if err != nil {
		return c.app.fail(err)
	}
	defer c.app.closeSession(s)

	switch {
	case c.section != "":
		err = s.store.RemoveSection(ctx, c.section)
	case c.item != "":
		err = s.store.RemoveItem(ctx, c.item)
	default:
		err = s.store.RemovePortfolio(ctx, c.portfolio)
	}
	if err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}
