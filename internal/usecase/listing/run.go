package listing

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// UnitState is the lifecycle position of one (product, marketplace) unit.
type UnitState string

const (
	StatePending    UnitState = "PENDING"
	StateConverting UnitState = "CONVERTING"
	StateCalling    UnitState = "CALLING"
	StateSkipped    UnitState = "SKIPPED"
	StateSuccess    UnitState = "SUCCESS"
	StateFailed     UnitState = "FAILED"
)

type unit struct {
	product       domain.Product
	marketplaceID string
	targetProfit  float64
}

// expand flattens jobs into units. Repeated marketplace ids within one job
// collapse into a single unit.
func (uc *DefaultListingUsecase) expand(jobs []domain.ListingJob) []unit {
	var units []unit
	for _, job := range jobs {
		r := job.ProfitFraction(uc.opts.DefaultTargetProfit)
		seen := make(map[string]struct{}, len(job.TargetMarketplaceIDs))
		for _, id := range job.TargetMarketplaceIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			units = append(units, unit{product: job.Product, marketplaceID: id, targetProfit: r})
		}
	}
	return units
}

func (uc *DefaultListingUsecase) RunBatch(ctx context.Context, jobs []domain.ListingJob) []domain.ExecutionResult {
	units := uc.expand(jobs)
	md := uc.MasterData.Snapshot()
	started := time.Now()

	uc.Logger.Info("listing batch started", "units", len(units), "workers", uc.opts.Workers)

	var limiter *rate.Limiter
	if uc.opts.CallInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(uc.opts.CallInterval), 1)
	}

	var (
		mu      sync.Mutex
		results = make([]domain.ExecutionResult, 0, len(units))
	)
	record := func(res domain.ExecutionResult) {
		uc.Metrics.RecordUnit(res.MarketplaceID, res.Status, res.Reason)
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(uc.opts.Workers)
	for _, u := range units {
		if ctx.Err() != nil {
			record(canceled(u, ctx.Err()))
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				record(canceled(u, ctx.Err()))
				return nil
			}
			record(uc.processUnit(ctx, md, limiter, u))
			return nil
		})
	}
	_ = g.Wait()

	summary := domain.Summarize(results)
	uc.Logger.Info("listing batch finished",
		"total", summary.Total,
		"success", summary.Success,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", time.Since(started),
	)
	return results
}

// processUnit drives one unit to a terminal state. Panics are contained here
// and reported as FAILED.
func (uc *DefaultListingUsecase) processUnit(ctx context.Context, md domain.MasterDataProvider, limiter *rate.Limiter, u unit) (res domain.ExecutionResult) {
	res = domain.ExecutionResult{ProductID: u.product.ID, MarketplaceID: u.marketplaceID}
	log := uc.Logger.With("product_id", u.product.ID, "marketplace_id", u.marketplaceID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("listing unit panicked", "panic", rec, "stack", string(debug.Stack()))
			res.Status = domain.StatusFailed
			res.Reason = domain.ReasonUnexpectedDefect
			res.Message = fmt.Sprintf("%v: %v", domain.ErrUnexpectedDefect, rec)
			res.SubmissionReference = ""
		}
		log.Info("listing unit finished", "status", res.Status, "reason", res.Reason)
	}()

	log.Debug("listing unit state", "state", StateConverting)
	conv := uc.Convert(md, u.product, u.marketplaceID, u.targetProfit)
	res.Currency = conv.Currency
	res.LocalPrice = conv.LocalPrice
	res.Warnings = conv.Warnings
	if !conv.Infeasible {
		profit := conv.GrossProfitHome
		res.GrossProfitHome = &profit
	}

	switch {
	case conv.Infeasible:
		return skipped(res, domain.ReasonPricingInfeasible, strings.Join(conv.Errors, "; "))
	case len(conv.Errors) > 0:
		return skipped(res, domain.ReasonMappingIncomplete,
			fmt.Sprintf("%v: %s", domain.ErrMappingIncomplete, strings.Join(conv.Errors, "; ")))
	case conv.GrossProfitHome < 0:
		return skipped(res, domain.ReasonNegativeMargin,
			fmt.Sprintf("%v: gross profit %.2f %s at %.2f %s", domain.ErrNegativeMargin,
				conv.GrossProfitHome, uc.opts.HomeCurrency, conv.LocalPrice, conv.Currency))
	}

	log.Debug("listing unit state", "state", StateCalling)
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			res.Status = domain.StatusFailed
			res.Reason = domain.ReasonBatchCanceled
			res.Message = fmt.Sprintf("%v before submission: %v", domain.ErrBatchCanceled, err)
			return res
		}
	}

	ref, err := uc.submit(ctx, u.marketplaceID, conv.Payload)
	if err != nil {
		res.Status = domain.StatusFailed
		res.Reason = domain.ReasonFor(err)
		res.Message = err.Error()
		return res
	}

	uc.Metrics.RecordGrossProfit(u.marketplaceID, conv.GrossProfitHome)
	res.Status = domain.StatusSuccess
	res.SubmissionReference = ref
	res.Message = fmt.Sprintf("listed at %.2f %s, gross profit %.2f %s",
		conv.LocalPrice, conv.Currency, conv.GrossProfitHome, uc.opts.HomeCurrency)
	return res
}

type submitOutcome struct {
	ref string
	err error
}

// submit makes the single external call under its own timeout. The call is
// detached from batch cancellation; a client that ignores its context is
// abandoned once the timeout fires.
func (uc *DefaultListingUsecase) submit(ctx context.Context, marketplaceID string, payload domain.Payload) (string, error) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.CallTimeout)
	defer cancel()

	started := time.Now()
	done := make(chan submitOutcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- submitOutcome{err: fmt.Errorf("%w: marketplace client panicked: %v", domain.ErrUnexpectedDefect, rec)}
			}
		}()
		ref, err := uc.Client.SubmitListing(callCtx, marketplaceID, payload)
		done <- submitOutcome{ref: ref, err: err}
	}()

	var out submitOutcome
	select {
	case out = <-done:
	case <-callCtx.Done():
		out = submitOutcome{err: callCtx.Err()}
	}

	outcome := "success"
	switch {
	case out.err == nil:
	case errors.Is(out.err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		outcome = "timeout"
		out.err = fmt.Errorf("%w after %s", domain.ErrAPICallTimeout, uc.opts.CallTimeout)
	case errors.Is(out.err, domain.ErrUnexpectedDefect):
		outcome = "defect"
	default:
		outcome = "error"
		out.err = fmt.Errorf("%w: %w", domain.ErrAPICallFailed, out.err)
	}
	uc.Metrics.RecordSubmission(marketplaceID, outcome, time.Since(started).Seconds())

	return out.ref, out.err
}

func skipped(res domain.ExecutionResult, reason domain.Reason, msg string) domain.ExecutionResult {
	res.Status = domain.StatusSkipped
	res.Reason = reason
	res.Message = msg
	return res
}

func canceled(u unit, cause error) domain.ExecutionResult {
	return domain.ExecutionResult{
		ProductID:     u.product.ID,
		MarketplaceID: u.marketplaceID,
		Status:        domain.StatusFailed,
		Reason:        domain.ReasonBatchCanceled,
		Message:       fmt.Sprintf("%v: unit not started: %v", domain.ErrBatchCanceled, cause),
	}
}
