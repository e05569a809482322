// Package pipeline provides the high-level orchestration for one harvest
// run: login, the jurisdiction iteration loop, and finalization.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/laredo-harvester/internal/aggregate"
	"github.com/jonathan/laredo-harvester/internal/browser"
	"github.com/jonathan/laredo-harvester/internal/detail"
	"github.com/jonathan/laredo-harvester/internal/output"
	"github.com/jonathan/laredo-harvester/internal/runlog"
	"github.com/jonathan/laredo-harvester/internal/search"
	"github.com/jonathan/laredo-harvester/internal/session"
	"github.com/jonathan/laredo-harvester/internal/types"
)

// Options holds configuration for running the pipeline.
type Options struct {
	Username string
	Password string

	OutDir      string
	Headless    bool
	WaitSeconds int
	MaxParties  int
	DayOffset   int

	RescrapeIndices []int
	Counties        []string
	HardTimeout     time.Duration

	FlowLogPath  string
	ErrorLogPath string
}

// deps bundles the per-run collaborators so the jurisdiction stage reads as
// one function.
type deps struct {
	sess        *browser.Session
	controller  *session.Controller
	driver      *search.Driver
	interceptor *search.Interceptor
	enricher    *detail.Client
	writer      *output.Writer
	runCtx      *runlog.RunContext
	errors      *runlog.ErrorSink
	opts        Options
}

// Run executes one harvest end to end. The run always attempts to finalize
// the event log; output records are flushed for everything collected before a
// stop or failure. Login failure is the one fatal path: it aborts after
// flushing the event log alone.
func Run(ctx context.Context, opts Options) error {
	runCtx := runlog.New()
	errSink := runlog.NewErrorSink(opts.ErrorLogPath)
	defer func() {
		if err := runCtx.Finalize(opts.FlowLogPath); err != nil {
			slog.ErrorContext(ctx, "failed to flush flow log", "err", err)
		}
	}()

	writer, err := output.NewWriter(opts.OutDir)
	if err != nil {
		return err
	}

	sess, cancel, err := browser.New(ctx, browser.Options{Headless: opts.Headless})
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	defer cancel()

	wait := browser.RetryPolicy{
		MaxAttempts:       browser.DefaultAttempts,
		PerAttemptTimeout: time.Duration(opts.WaitSeconds) * time.Second,
	}

	d := deps{
		sess:        sess,
		controller:  session.NewController(sess, wait),
		driver:      search.NewDriver(sess, wait),
		interceptor: search.NewInterceptor(sess),
		enricher:    detail.NewClient(strings.TrimSuffix(session.BaseURL, "/")),
		writer:      writer,
		runCtx:      runCtx,
		errors:      errSink,
		opts:        opts,
	}

	slog.InfoContext(ctx, "starting run", "run_id", runCtx.RunID)

	if err := d.controller.Login(sess.Ctx, opts.Username, opts.Password); err != nil {
		runCtx.SetLoginStatus("failed")
		errSink.Append(err.Error())
		return err
	}
	runCtx.SetLoginStatus("success")

	jurisdictions, err := d.controller.Jurisdictions(sess.Ctx)
	if err != nil {
		errSink.Append(err.Error())
		return fmt.Errorf("failed to enumerate jurisdictions: %w", err)
	}
	slog.InfoContext(ctx, "enumerated jurisdictions", "count", len(jurisdictions))

	iterate(ctx, d, jurisdictions)

	if combined := runCtx.Combined(); len(combined) > 0 {
		if path, err := d.writer.WriteRecords("all_counties", combined); err != nil {
			slog.ErrorContext(ctx, "failed to write combined output", "err", err)
			errSink.Append(err.Error())
		} else {
			slog.InfoContext(ctx, "wrote combined output", "path", path, "records", len(combined))
		}
	}

	if err := d.controller.Logout(sess.Ctx); err != nil {
		slog.WarnContext(ctx, "logout failed", "err", err)
		runCtx.SetLogoutStatus("failed")
	} else {
		runCtx.SetLogoutStatus("success")
	}

	fmt.Println(runCtx.Summary())
	slog.InfoContext(ctx, "run complete", "elapsed", runCtx.Elapsed().Round(time.Second))
	return nil
}

// iterate walks the jurisdiction list. One jurisdiction's failure never
// aborts the run; the hard timeout is sampled only at loop boundaries, never
// pre-empting in-flight work.
func iterate(ctx context.Context, d deps, jurisdictions []types.Jurisdiction) {
	planner := newVisitPlanner(d.opts.RescrapeIndices)
	allow := newAllowList(d.opts.Counties)

	var budget time.Time
	if d.opts.HardTimeout > 0 {
		budget = time.Now().Add(d.opts.HardTimeout)
	}

	idx := 0
	for idx < len(jurisdictions) {
		if !budget.IsZero() && time.Now().After(budget) {
			slog.WarnContext(ctx, "hard timeout exceeded, stopping iteration", "index", idx)
			return
		}
		if ctx.Err() != nil {
			return
		}

		j := jurisdictions[idx]
		if !allow.Allows(j) {
			slog.DebugContext(ctx, "jurisdiction not on allow-list, skipping", "name", j.Name)
			idx++
			continue
		}

		secondPass := planner.SecondPass(idx)
		slog.InfoContext(ctx, "scraping jurisdiction",
			"name", j.Name, "index", idx, "second_pass", secondPass)

		if err := harvestJurisdiction(ctx, d, j, secondPass); err != nil {
			slog.ErrorContext(ctx, "jurisdiction failed", "name", j.Name, "err", err)
			d.runCtx.Jurisdiction(j.Name).Error = err.Error()
			d.errors.Append(fmt.Sprintf("%s: %v", j.Name, err))
			idx++
			continue
		}

		if planner.Visited(idx) {
			slog.InfoContext(ctx, "repeating jurisdiction for second pass", "name", j.Name)
			continue
		}
		idx++
	}
}

// harvestJurisdiction runs one full pass: connect, search, capture, enrich,
// aggregate, persist, disconnect.
func harvestJurisdiction(ctx context.Context, d deps, j types.Jurisdiction, secondPass bool) error {
	ev := d.runCtx.Jurisdiction(j.Name)

	if err := d.controller.Connect(d.sess.Ctx, j); err != nil {
		ev.Connected = "failed"
		return err
	}
	ev.Connected = "success"
	defer func() {
		d.controller.Disconnect(d.sess.Ctx)
		ev.Disconnected = "success"
	}()

	d.controller.DismissPopup(d.sess.Ctx)

	// Scope the traffic log to this search.
	d.sess.Capture.Reset()

	if err := d.driver.SubmitSearch(d.sess.Ctx, j, secondPass, d.opts.DayOffset); err != nil {
		return fmt.Errorf("search submission failed: %w", err)
	}

	pollWindow := time.Duration(d.opts.WaitSeconds) * time.Second
	capture := d.interceptor.CaptureAfterSearch(d.sess.Ctx, pollWindow)
	slog.InfoContext(ctx, "captured search results",
		"name", j.Name, "documents", len(capture.Documents), "credential", capture.AuthToken != "")

	records := aggregate.CleanResults(j.Slug, capture.Documents)
	if len(records) == 0 {
		ev.DataJSON = "empty"
		return nil
	}

	aggregate.ApplyDateFallback(records, d.driver.ReadVisibleDates(d.sess.Ctx))

	groups := aggregate.GroupByDocNumber(records)
	idMap := aggregate.IDMap(capture.Documents)

	// One enrichment fetch per unique document number per pass.
	details := make(map[string]types.DetailSupplement, len(groups))
	for _, g := range groups {
		details[g.DocNumber] = d.enricher.FetchDetail(ctx, capture.AuthToken, idMap[g.DocNumber])
	}

	combined := aggregate.Combine(groups, details, d.opts.MaxParties)

	stem := j.Slug
	if secondPass {
		stem += "_resolution"
	}
	path, err := d.writer.WriteRecords(stem, combined)
	if err != nil {
		ev.DataJSON = "failed"
		return err
	}
	ev.DataJSON = "saved"
	ev.Records += len(combined)
	d.runCtx.AddRecords(combined)
	slog.InfoContext(ctx, "persisted jurisdiction output", "path", path, "records", len(combined))
	return nil
}
