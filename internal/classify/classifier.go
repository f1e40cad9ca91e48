package classify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/starchart-tools/wayfarer/internal/catalog"
	"github.com/starchart-tools/wayfarer/internal/model"
	"github.com/starchart-tools/wayfarer/internal/store"
)

// Classification is the disposition of one extracted discovery.
type Classification string

const (
	// New means nothing local or remote knows this location yet.
	New Classification = "new"
	// AlreadyUploaded means this machine submitted the location
	// before and nothing changed since.
	AlreadyUploaded Classification = "already_uploaded"
	// AlreadyKnown means another traveler cataloged the location and
	// our copy adds nothing.
	AlreadyKnown Classification = "already_known"
	// Edit means the location is cataloged but our copy differs, so
	// it should be resubmitted referencing the existing entry.
	Edit Classification = "edit"
)

// Decision pairs a discovery with its classification.
type Decision struct {
	// Record is the system-level discovery that was classified.
	Record *model.DiscoveryRecord

	// AddressCode is the record's portal code.
	AddressCode string

	// Class is the disposition.
	Class Classification

	// EditID is the existing catalog entry id when Class is Edit.
	EditID string
}

// checkWorkers bounds concurrent remote duplicate checks.
const checkWorkers = 4

// Classifier decides dispositions against the local upload history and
// the remote catalog.
type Classifier struct {
	store  *store.Store
	sink   catalog.Sink
	logger *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithLogger sets the classifier's logger.
func WithLogger(logger *slog.Logger) ClassifierOption {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClassifier creates a Classifier reading local history from st and
// checking the remote catalog through sink.
func NewClassifier(st *store.Store, sink catalog.Sink, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		store:  st,
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify decides the disposition of a single discovery identified by
// its address code, galaxy name, and game mode.
func (c *Classifier) Classify(ctx context.Context, rec *model.DiscoveryRecord, code string, mode model.Mode) (*Decision, error) {
	decision := &Decision{Record: rec, AddressCode: code}

	local, err := c.store.GetUpload(ctx, code, rec.Galaxy, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to check upload history: %w", err)
	}
	if local != nil {
		if local.Name != rec.Name {
			decision.Class = Edit
			decision.EditID = local.SubmissionID
			c.logger.DebugContext(ctx, "renamed since last upload",
				slog.String("code", code),
				slog.String("was", local.Name),
				slog.String("now", rec.Name))
			return decision, nil
		}
		decision.Class = AlreadyUploaded
		return decision, nil
	}

	match, err := c.sink.DuplicateCheck(ctx, code, rec.Galaxy, mode)
	if err != nil {
		if catalog.IsTransient(err) {
			return nil, err
		}
		// A rejected check concerns only this record; the rest of the
		// batch must still classify. Submit it as new and let the
		// submission outcome decide: the catalog's conflict handling
		// converges a duplicate either way.
		c.logger.WarnContext(ctx, "duplicate check rejected, submitting as new",
			slog.String("code", code),
			slog.String("galaxy", rec.Galaxy),
			slog.Any("error", err))
		decision.Class = New
		return decision, nil
	}
	if !match.Exists {
		decision.Class = New
		return decision, nil
	}

	if c.differs(rec, match) {
		decision.Class = Edit
		decision.EditID = match.ID
		return decision, nil
	}
	decision.Class = AlreadyKnown
	decision.EditID = match.ID
	return decision, nil
}

// ClassifyOffline decides a disposition from local history alone, for
// when the catalog is unreachable. A location with no local history is
// treated as new; the submission path will queue it.
func (c *Classifier) ClassifyOffline(ctx context.Context, rec *model.DiscoveryRecord, code string, mode model.Mode) (*Decision, error) {
	decision := &Decision{Record: rec, AddressCode: code}

	local, err := c.store.GetUpload(ctx, code, rec.Galaxy, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to check upload history: %w", err)
	}
	switch {
	case local == nil:
		decision.Class = New
	case local.Name != rec.Name:
		decision.Class = Edit
		decision.EditID = local.SubmissionID
	default:
		decision.Class = AlreadyUploaded
	}
	return decision, nil
}

// ClassifyAll decides dispositions for a batch of discoveries. Remote
// checks run concurrently; the first error cancels the batch. The
// returned slice preserves input order.
func (c *Classifier) ClassifyAll(ctx context.Context, recs []*model.DiscoveryRecord, codes []string, mode model.Mode) ([]*Decision, error) {
	if len(recs) != len(codes) {
		return nil, fmt.Errorf("record/code length mismatch: %d != %d", len(recs), len(codes))
	}

	decisions := make([]*Decision, len(recs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(checkWorkers)

	for i := range recs {
		g.Go(func() error {
			d, err := c.Classify(ctx, recs[i], codes[i], mode)
			if err != nil {
				return err
			}
			decisions[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return decisions, nil
}

// differs reports whether our copy of the discovery adds anything the
// catalog entry lacks: a different system name, or a named body the
// entry does not list.
func (c *Classifier) differs(rec *model.DiscoveryRecord, match *catalog.RemoteMatch) bool {
	if match.Name != "" && match.Name != rec.Name {
		return true
	}
	for i := range rec.Children {
		if !slices.Contains(match.Planets, rec.Children[i].Name) {
			return true
		}
	}
	return false
}
