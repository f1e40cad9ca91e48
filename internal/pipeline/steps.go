package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starchart-tools/wayfarer/internal/catalog"
	"github.com/starchart-tools/wayfarer/internal/classify"
	"github.com/starchart-tools/wayfarer/internal/extract"
	"github.com/starchart-tools/wayfarer/internal/keymap"
	"github.com/starchart-tools/wayfarer/internal/model"
	"github.com/starchart-tools/wayfarer/internal/portal"
	"github.com/starchart-tools/wayfarer/internal/queue"
	"github.com/starchart-tools/wayfarer/internal/savefile"
	"github.com/starchart-tools/wayfarer/internal/store"
)

// lastFingerprintKey is the settings key remembering the digest of the
// last fully processed save.
const lastFingerprintKey = "last_save_fingerprint"

// Deps bundles everything the standard run steps need.
type Deps struct {
	Store      *store.Store
	Table      *keymap.Table
	Extractor  *extract.Extractor
	Classifier *classify.Classifier
	Sink       catalog.Sink
	Queue      *queue.Manager
	Logger     *slog.Logger

	// Force processes the save even when its content is unchanged.
	Force bool

	// MinRadius is the void-region floor for address validation; zero
	// means the codec default.
	MinRadius float64
}

// Steps returns the standard run pipeline in execution order. The
// classify and submit steps share the classification results through a
// state struct private to the run.
func Steps(d Deps) []Step {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	shared := &runState{}
	return []Step{
		&DecodeStep{store: d.Store, force: d.Force, logger: d.Logger},
		&DeobfuscateStep{table: d.Table, store: d.Store, logger: d.Logger},
		&ExtractStep{extractor: d.Extractor},
		&ResolveStep{minRadius: d.MinRadius, logger: d.Logger},
		&ClassifyStep{classifier: d.Classifier, state: shared, logger: d.Logger},
		&SubmitStep{store: d.Store, sink: d.Sink, queue: d.Queue, state: shared, logger: d.Logger},
	}
}

// runState carries classification results from the classify step to the
// submit step within one run.
type runState struct {
	decisions []*classify.Decision

	// offline is set when a duplicate check already failed transiently,
	// so the submit step queues instead of attempting delivery.
	offline bool
}

// DecodeStep reads the save file, skips the run when its content is
// unchanged, and decodes the container into the document tree.
type DecodeStep struct {
	store  *store.Store
	force  bool
	logger *slog.Logger
}

// Name returns the step's name.
func (s *DecodeStep) Name() string { return "decode" }

// Do implements Step.
func (s *DecodeStep) Do(ctx context.Context, report *model.RunReport) error {
	data, err := os.ReadFile(report.SavePath)
	if err != nil {
		return fmt.Errorf("failed to read save file: %w", err)
	}

	report.Fingerprint = savefile.Fingerprint(data)
	last, err := s.store.Setting(ctx, lastFingerprintKey)
	if err != nil {
		return err
	}
	if last == report.Fingerprint && !s.force {
		s.logger.InfoContext(ctx, "save content unchanged, skipping run",
			slog.String("save", report.SavePath))
		report.Skipped = true
		return nil
	}

	root, err := savefile.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode save file: %w", err)
	}
	report.Document = root
	return nil
}

// DeobfuscateStep rewrites the document's obfuscated keys to canonical
// names and persists any keys the table does not know.
type DeobfuscateStep struct {
	table  *keymap.Table
	store  *store.Store
	logger *slog.Logger
}

// Name returns the step's name.
func (s *DeobfuscateStep) Name() string { return "deobfuscate" }

// Do implements Step.
func (s *DeobfuscateStep) Do(ctx context.Context, report *model.RunReport) error {
	root, observations := s.table.Apply(report.Document)
	report.Document = root
	report.TableVersion = s.table.Version()
	report.UnknownKeys = len(observations)

	if len(observations) == 0 {
		return nil
	}

	unknown := make([]model.UnknownKey, 0, len(observations))
	for _, obs := range observations {
		unknown = append(unknown, model.UnknownKey{
			Key:       obs.Key,
			FirstSeen: obs.SeenAt,
			Context:   obs.Path,
		})
	}
	if err := s.store.RecordUnknownKeys(ctx, unknown); err != nil {
		return err
	}
	s.logger.WarnContext(ctx, "unknown save keys observed",
		slog.Int("count", len(observations)),
		slog.String("first", observations[0].Key))
	return nil
}

// ExtractStep pulls discovery records out of the document tree.
type ExtractStep struct {
	extractor *extract.Extractor
}

// Name returns the step's name.
func (s *ExtractStep) Name() string { return "extract" }

// Do implements Step.
func (s *ExtractStep) Do(_ context.Context, report *model.RunReport) error {
	version, mode := extract.Meta(report.Document)
	report.SaveVersion = version
	report.Mode = mode

	result := s.extractor.Extract(report.Document)
	report.Records = result.Records
	report.Extracted = result.Extracted
	report.Dropped = result.Dropped
	return nil
}

// ResolveStep encodes each top-level record's address into its code.
// Records whose addresses cannot be encoded are rejected with their
// whole subtree; the run continues with the rest.
type ResolveStep struct {
	minRadius float64
	logger    *slog.Logger
}

// Name returns the step's name.
func (s *ResolveStep) Name() string { return "resolve" }

// Do implements Step.
func (s *ResolveStep) Do(ctx context.Context, report *model.RunReport) error {
	var opts []portal.Option
	if s.minRadius > 0 {
		opts = append(opts, portal.WithMinRadius(s.minRadius))
	}

	kept := report.Records[:0]
	for i := range report.Records {
		rec := &report.Records[i]
		code, err := portal.Encode(rec.Address, opts...)
		if err != nil {
			report.Rejected += rec.Total()
			s.logger.WarnContext(ctx, "rejecting record with invalid address",
				slog.String("name", rec.Name),
				slog.Any("error", err))
			continue
		}
		rec.AddressCode = code.String()
		kept = append(kept, *rec)
	}
	report.Records = kept
	return nil
}

// ClassifyStep decides a disposition for every resolved record. When
// the catalog is unreachable it falls back to local history alone and
// flags the run offline so the submit step queues instead of sending.
type ClassifyStep struct {
	classifier *classify.Classifier
	state      *runState
	logger     *slog.Logger
}

// Name returns the step's name.
func (s *ClassifyStep) Name() string { return "classify" }

// Do implements Step.
func (s *ClassifyStep) Do(ctx context.Context, report *model.RunReport) error {
	recs := make([]*model.DiscoveryRecord, len(report.Records))
	codes := make([]string, len(report.Records))
	for i := range report.Records {
		recs[i] = &report.Records[i]
		codes[i] = report.Records[i].AddressCode
	}

	decisions, err := s.classifier.ClassifyAll(ctx, recs, codes, report.Mode)
	if err == nil {
		s.state.decisions = decisions
		return nil
	}
	if !catalog.IsTransient(err) {
		return err
	}

	s.logger.WarnContext(ctx, "catalog unreachable, classifying from local history",
		slog.Any("error", err))
	s.state.offline = true
	s.state.decisions = s.state.decisions[:0]
	for i := range recs {
		d, err := s.classifier.ClassifyOffline(ctx, recs[i], codes[i], report.Mode)
		if err != nil {
			return err
		}
		s.state.decisions = append(s.state.decisions, d)
	}
	return nil
}

// SubmitStep delivers productive submissions and accounts for the rest.
// The first transient delivery failure switches the run to queueing:
// one unreachable catalog means further attempts would fail too.
type SubmitStep struct {
	store  *store.Store
	sink   catalog.Sink
	queue  *queue.Manager
	state  *runState
	logger *slog.Logger
}

// Name returns the step's name.
func (s *SubmitStep) Name() string { return "submit" }

// Do implements Step.
func (s *SubmitStep) Do(ctx context.Context, report *model.RunReport) error {
	for _, decision := range s.state.decisions {
		switch decision.Class {
		case classify.AlreadyUploaded:
			report.Duplicates++

		case classify.AlreadyKnown:
			report.Duplicates++
			// Remember the remote entry locally so the next run
			// resolves this location without a network round trip.
			if err := s.rememberRemote(ctx, decision, report.Mode); err != nil {
				return err
			}

		case classify.New, classify.Edit:
			if decision.Class == classify.Edit {
				report.Edits++
			}
			if err := s.submit(ctx, decision, report); err != nil {
				return err
			}
		}
	}
	return nil
}

// submit attempts one delivery, or queues it when the run is offline.
func (s *SubmitStep) submit(ctx context.Context, decision *classify.Decision, report *model.RunReport) error {
	if s.state.offline {
		return s.enqueue(ctx, decision, report)
	}

	payload := catalog.NewPayload(decision.Record, decision.AddressCode, report.Mode, decision.EditID)
	result, err := s.sink.Submit(ctx, payload)
	switch {
	case err == nil:
		report.Submitted++
		return s.store.RecordUpload(ctx, &model.UploadRecord{
			AddressCode:  decision.AddressCode,
			Galaxy:       decision.Record.Galaxy,
			Mode:         report.Mode,
			Name:         decision.Record.Name,
			SubmissionID: result.ID,
			Status:       model.ParseUploadStatus(result.Status),
			IsEdit:       decision.Class == classify.Edit,
		})

	case catalog.IsTransient(err):
		s.state.offline = true
		s.logger.WarnContext(ctx, "catalog unreachable, queueing remaining submissions",
			slog.Any("error", err))
		return s.enqueue(ctx, decision, report)

	default:
		if existingID, ok := catalog.AsConflict(err); ok {
			report.Duplicates++
			decision.EditID = existingID
			return s.rememberRemote(ctx, decision, report.Mode)
		}
		report.Failed++
		s.logger.WarnContext(ctx, "submission rejected",
			slog.String("name", decision.Record.Name),
			slog.String("code", decision.AddressCode),
			slog.Any("error", err))
		return nil
	}
}

func (s *SubmitStep) enqueue(ctx context.Context, decision *classify.Decision, report *model.RunReport) error {
	if _, err := s.queue.Enqueue(ctx, decision.Record, decision.AddressCode, report.Mode, decision.EditID); err != nil {
		return err
	}
	report.Queued++
	return nil
}

// rememberRemote records a remotely cataloged location in the local
// upload history.
func (s *SubmitStep) rememberRemote(ctx context.Context, decision *classify.Decision, mode model.Mode) error {
	return s.store.RecordUpload(ctx, &model.UploadRecord{
		AddressCode:  decision.AddressCode,
		Galaxy:       decision.Record.Galaxy,
		Mode:         mode,
		Name:         decision.Record.Name,
		SubmissionID: decision.EditID,
		Status:       model.StatusApproved,
	})
}
