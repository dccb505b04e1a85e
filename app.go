package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

type App struct {
	cfg     Config
	logger  *slog.Logger
	backend Backend
	sched   Scheduler
	in      *bufio.Reader
	out     io.Writer
	menu    menuFunc

	repoOnce sync.Once
	repo     *Repo
	repoErr  error
}

func NewApp(cfg Config, backend Backend, in io.Reader, out io.Writer, logger *slog.Logger) *App {
	return &App{
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		sched:   realScheduler{},
		in:      bufio.NewReader(in),
		out:     out,
		menu:    displayMenu,
	}
}

func (a *App) Close() error {
	if a.repo != nil {
		return a.repo.Close()
	}
	return nil
}

// opens the journal database on first use
func (a *App) openRepo() (*Repo, error) {
	a.repoOnce.Do(func() {
		a.repo, a.repoErr = NewRepo(a.cfg.DBPath)
	})
	return a.repo, a.repoErr
}

// a broken journal is logged and skipped, it never blocks a confirmation
func (a *App) journal() Journal {
	if a.cfg.DisableJournal {
		return nopJournal{}
	}
	repo, err := a.openRepo()
	if err != nil {
		a.logger.Error("journal unavailable", "path", a.cfg.DBPath, "error", err)
		return nopJournal{}
	}
	return repo
}

func (a *App) newController(view View, prompter Prompter) *Controller {
	return NewController(a.backend, view, prompter,
		WithLogger(a.logger),
		WithScheduler(a.sched),
		WithJournal(a.journal()),
		WithDelays(a.cfg.SettleDelay(), a.cfg.VerifyDelay()),
		WithNoticeTTL(a.cfg.NoticeTTL()),
	)
}

// turns a failed fetch into an error carrying the notice the operator saw
func fetchErr(c *Controller, outcome FetchOutcome) error {
	switch outcome {
	case FetchBlocked, FetchFailed, FetchRejected:
		if n, ok := c.Notices().Current(); ok {
			return errors.New(n.Text)
		}
		return fmt.Errorf("search %s", outcome)
	default:
		return nil
	}
}

func (a *App) Search(ctx context.Context, raw string) error {
	c := a.newController(NewTerminalView(a.out), menuPrompter{menu: a.menu})
	outcome := c.OnSearch(ctx, c.OnInput(raw))
	return fetchErr(c, outcome)
}

type ConfirmOptions struct {
	Rows []int
	All  bool
	Yes  bool
}

func (a *App) Confirm(ctx context.Context, raw string, opts ConfirmOptions) error {
	if !opts.All && len(opts.Rows) == 0 {
		return errors.New("pass --rows or --all")
	}

	var prompter Prompter = menuPrompter{menu: a.menu}
	if opts.Yes {
		prompter = autoPrompter{}
	}
	c := a.newController(NewTerminalView(a.out), prompter)

	outcome := c.OnSearch(ctx, c.OnInput(raw))
	if err := fetchErr(c, outcome); err != nil {
		return err
	}
	if outcome != FetchFound {
		return nil
	}

	if opts.All {
		c.OnToggleAll()
	} else if err := selectRows(c, opts.Rows); err != nil {
		return err
	}

	switch c.OnConfirm(ctx) {
	case ConfirmDeclined:
		fmt.Fprintln(a.out, "Nothing was sent.")
		return nil
	case ConfirmFailed:
		if n, ok := c.Notices().Current(); ok {
			return errors.New(n.Text)
		}
		return errors.New("confirmation failed")
	case ConfirmNothingSelected:
		return ErrNothingSelected
	}

	// stay around for the reconciling fetch
	c.Wait()
	return nil
}

// checks the rendered rows whose row reference is in refs
func selectRows(c *Controller, refs []int) error {
	s := c.Snapshot()

	want := make(map[RowRef]bool, len(refs))
	for _, r := range refs {
		want[RowRef(r)] = true
	}

	for i, r := range s.Session.Records {
		if want[r.Row] {
			if err := c.OnToggleRow(i); err != nil {
				return err
			}
			delete(want, r.Row)
		}
	}

	if len(want) > 0 {
		var missing []string
		for _, r := range refs {
			if want[RowRef(r)] {
				missing = append(missing, fmt.Sprint(r))
			}
		}
		return fmt.Errorf("row(s) %s are not pending for %s", strings.Join(missing, ", "), s.Session.Identity)
	}
	return nil
}

func (a *App) Export(ctx context.Context, raw, path string) error {
	c := a.newController(NewTerminalView(io.Discard), menuPrompter{menu: a.menu})

	outcome := c.OnSearch(ctx, c.OnInput(raw))
	if err := fetchErr(c, outcome); err != nil {
		return err
	}

	s := c.Snapshot()
	if err := ExportWorkbook(path, s.Session); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported %d pending record(s) to %s\n", len(s.Session.Records), path)
	return nil
}

func (a *App) ShowJournal(ctx context.Context, raw string, limit int) error {
	identity := ""
	if strings.TrimSpace(raw) != "" {
		id, err := ParseIdentity(NormalizeIdentity(raw))
		if err != nil {
			return err
		}
		identity = id.String()
	}

	repo, err := a.openRepo()
	if err != nil {
		return err
	}

	entries, err := repo.ListDispatches(ctx, identity, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No confirmations journaled yet.")
		return nil
	}

	headers := []string{"Sent", "Identity", "Rows", "Dispatch", "Verified", "Still pending"}
	var rows [][]string
	for _, e := range entries {
		dispatch := "sent"
		if e.Dispatch.Error != "" {
			dispatch = "failed: " + e.Dispatch.Error
		}
		verified, pending := "-", "-"
		if v := e.Verification; v != nil {
			verified = v.VerifiedAt.Local().Format("2/1/2006 15:04:05") + " (" + v.Outcome + ")"
			pending = joinRows(v.StillPending)
		}
		rows = append(rows, []string{
			e.Dispatch.DispatchedAt.Local().Format("2/1/2006 15:04:05"),
			e.Dispatch.Identity.String(),
			joinRows(e.Dispatch.Rows),
			dispatch,
			verified,
			pending,
		})
	}

	PrintTable(a.out, headers, rows, nil)
	return nil
}

func joinRows(rows []RowRef) string {
	if len(rows) == 0 {
		return "none"
	}
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprint(int(r))
	}
	return strings.Join(parts, ",")
}

func (a *App) Watch(ctx context.Context, raw, spec string) error {
	id, err := ParseIdentity(NormalizeIdentity(raw))
	if err != nil {
		return err
	}
	if spec == "" {
		spec = a.cfg.WatchSchedule
	}

	fmt.Fprintf(a.out, "Watching %s (%s), Ctrl+C to stop\n", id, spec)
	return NewWatcher(a.backend, id, a.out, a.logger, a.sched).Run(ctx, spec)
}

// RunSession drives the controller from interactive menus until the
// operator quits.
func (a *App) RunSession(ctx context.Context) error {
	c := a.newController(NewTerminalView(a.out), menuPrompter{menu: a.menu})
	defer c.Wait()

	for ctx.Err() == nil {
		switch chooseAction(a.menu, c.Snapshot()) {
		case menuSearch:
			raw := readLine(a.in, a.out, "Identity code: ")
			c.OnSearch(ctx, c.OnInput(raw))
		case menuToggleRow:
			if i := chooseRow(a.menu, c.Snapshot()); i >= 0 {
				if err := c.OnToggleRow(i); err != nil {
					c.Notices().Warning(err.Error())
				}
			}
		case menuToggleAll:
			c.OnToggleAll()
		case menuConfirm:
			c.OnConfirm(ctx)
		case menuClear:
			c.OnClear()
		default:
			return nil
		}
	}

	return nil
}
