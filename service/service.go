// Package service runs the exam mixing pipeline: it loads a source document
// once and produces a shuffled exam, an answer guide and export records for
// every version code, then writes the cross-version answer workbook.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs/url"
	"github.com/viant/easymix/assembly"
	"github.com/viant/easymix/cache"
	"github.com/viant/easymix/docx"
	"github.com/viant/easymix/document"
	"github.com/viant/easymix/export"
	"github.com/viant/easymix/guide"
	"github.com/viant/easymix/keystore"
	"github.com/viant/easymix/question"
	"github.com/viant/easymix/shuffle"
	"github.com/viant/easymix/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoQuestions is returned when the source holds no recognizable question.
var ErrNoQuestions = question.ErrNoQuestions

// Artifact names under the output location.
const (
	GuideDir     = "DapAn"
	WorkbookName = "DapAn.xlsx"
)

// ExamName returns the exam file name of a version.
func ExamName(code string) string { return "De_" + code + ".docx" }

// GuideName returns the guide file path of a version, relative to the output location.
func GuideName(code string) string { return GuideDir + "/DapAn_" + code + ".docx" }

// Pipeline stages of a version.
const (
	StageInit     = "init"
	StageShuffle  = "shuffle"
	StageExam     = "exam"
	StageGuide    = "guide"
	StagePersist  = "persist"
	StageDone     = "done"
	StageArchive  = "archive"
	StageWorkbook = "workbook"
)

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithStore sets the document store.
func WithStore(store *store.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithKeystore enables archiving answer records of every run.
func WithKeystore(keys *keystore.Store) Option {
	return func(s *Service) { s.keys = keys }
}

// Service mixes exam versions.
type Service struct {
	config *Config
	store  *store.Store
	keys   *keystore.Store
	logger *zap.Logger
}

// New creates a service for a config that passed Init.
func New(config *Config, options ...Option) *Service {
	s := &Service{config: config}
	for _, option := range options {
		option(s)
	}
	if s.store == nil {
		s.store = store.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// VersionResult is the outcome of one version.
type VersionResult struct {
	Code        string
	Stage       string // last stage reached; StageDone on success
	Exam        string // exam URL
	Guide       string // guide URL
	Diagnostics []question.Diagnostic
	Err         error
}

// MixResult is the outcome of a mix run.
type MixResult struct {
	RunID       string
	Fingerprint uint64 // highwayhash of the source bytes
	Versions    []*VersionResult
	Rows        []export.Row
	Workbook    string
	Diagnostics []question.Diagnostic // document level findings
}

// Failed returns the versions that did not complete.
func (r *MixResult) Failed() []*VersionResult {
	var result []*VersionResult
	for _, version := range r.Versions {
		if version.Err != nil {
			result = append(result, version)
		}
	}
	return result
}

// Partial reports whether some, but not all, versions failed.
func (r *MixResult) Partial() bool {
	failed := len(r.Failed())
	return failed > 0 && failed < len(r.Versions)
}

type inputs struct {
	source     *question.Source
	examTitle  *document.Document
	guideTitle *document.Document
	salt       uint64
}

// Mix produces every configured version. A failing version is reported in its
// VersionResult and never stops the others. The returned error is set when the
// source cannot be used, when every version failed, or when the workbook or
// the answer archive cannot be written.
func (s *Service) Mix(ctx context.Context) (*MixResult, error) {
	started := time.Now()
	result := &MixResult{RunID: keystore.NewRunID()}
	log := s.logger.With(zap.String("run", result.RunID))
	codes := s.config.Codes()
	log.Info("mix started", zap.String("source", s.config.Source), zap.Strings("versions", codes), zap.Uint64("seed", s.config.Seed))

	data, err := s.store.Load(ctx, s.config.Source)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}
	if result.Fingerprint, err = cache.Hash(data); err != nil {
		return nil, err
	}
	doc, err := docx.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode source %s: %w", s.config.Source, err)
	}
	source, err := question.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("parse source %s: %w", s.config.Source, err)
	}
	result.Diagnostics = source.Diagnostics
	in := &inputs{source: source, salt: s.config.Seed}
	if in.examTitle, err = s.template(ctx, s.config.ExamTemplate); err != nil {
		return nil, err
	}
	if in.guideTitle, err = s.template(ctx, s.config.GuideTemplate); err != nil {
		return nil, err
	}

	collector := export.NewCollector()
	result.Versions = make([]*VersionResult, len(codes))
	group := errgroup.Group{}
	group.SetLimit(max(1, s.config.Concurrency))
	for i, code := range codes {
		group.Go(func() error {
			version := s.version(ctx, log, in, code, collector)
			result.Versions[i] = version
			return nil
		})
	}
	_ = group.Wait()

	var done []string
	for _, version := range result.Versions {
		if version.Err == nil {
			done = append(done, version.Code)
		}
	}
	if len(done) == 0 {
		return result, fmt.Errorf("all %d versions failed: %w", len(codes), result.Versions[0].Err)
	}
	records := collector.Records(done)
	result.Rows = export.Rows(records)
	workbook, err := export.Workbook(result.Rows)
	if err != nil {
		return result, fmt.Errorf("%s: %w", StageWorkbook, err)
	}
	result.Workbook = url.Join(s.config.Output, WorkbookName)
	if err := s.store.Upload(ctx, result.Workbook, workbook); err != nil {
		return result, fmt.Errorf("%s: %w", StageWorkbook, err)
	}
	if s.keys != nil {
		if err := s.keys.Save(ctx, result.RunID, records); err != nil {
			return result, fmt.Errorf("%s: %w", StageArchive, err)
		}
	}
	log.Info("mix finished",
		zap.Int("versions", len(done)),
		zap.Int("failed", len(codes)-len(done)),
		zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

func (s *Service) version(ctx context.Context, log *zap.Logger, in *inputs, code string, collector *export.Collector) (version *VersionResult) {
	version = &VersionResult{Code: code, Stage: StageInit}
	log = log.With(zap.String("version", code))
	fail := func(err error) *VersionResult {
		version.Err = fmt.Errorf("version %s: %s: %w", code, version.Stage, err)
		log.Error("version failed", zap.String("stage", version.Stage), zap.Error(err))
		return version
	}
	defer func() {
		if r := recover(); r != nil {
			version = fail(fmt.Errorf("panic: %v", r))
		}
	}()
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	version.Stage = StageShuffle
	shuffler := shuffle.New(code != RootVersion, cache.Seed(in.salt, code))
	sections := assembly.Sections(in.source.Questions, shuffler)
	log.Debug("shuffled", zap.String("stage", version.Stage), zap.Int("sections", len(sections)))

	version.Stage = StageExam
	exam, diagnostics := assembly.Exam(in.source, sections, &assembly.Options{Code: code, Info: s.config.Info, Title: in.examTitle})
	version.Diagnostics = append(version.Diagnostics, diagnostics...)

	version.Stage = StageGuide
	answers, diagnostics := guide.Build(in.source, sections, &guide.Options{Code: code, Info: s.config.Info, Template: in.guideTitle})
	version.Diagnostics = append(version.Diagnostics, diagnostics...)

	version.Stage = StagePersist
	version.Exam = url.Join(s.config.Output, ExamName(code))
	if err := s.store.Save(ctx, exam, version.Exam); err != nil {
		return fail(err)
	}
	version.Guide = url.Join(s.config.Output, GuideName(code))
	if err := s.store.Save(ctx, answers, version.Guide); err != nil {
		return fail(err)
	}
	collector.Add(code, export.Exports(code, sections)...)

	version.Stage = StageDone
	for _, diagnostic := range version.Diagnostics {
		log.Warn("diagnostic", zap.String("stage", StageDone), zap.String("code", diagnostic.Code), zap.String("detail", diagnostic.String()))
	}
	log.Info("version done", zap.String("stage", version.Stage), zap.String("exam", version.Exam))
	return version
}

func (s *Service) template(ctx context.Context, URL string) (*document.Document, error) {
	if URL == "" {
		return nil, nil
	}
	doc, err := s.store.Open(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	return doc, nil
}

// Keys returns the archived answer records of a run, or the list of runs when runID is empty.
func (s *Service) Keys(ctx context.Context, runID string) ([]export.QuestionExport, []keystore.Run, error) {
	if s.keys == nil {
		return nil, nil, errors.New("keystore not configured")
	}
	if runID == "" {
		runs, err := s.keys.Runs(ctx)
		return nil, runs, err
	}
	records, err := s.keys.Load(ctx, runID)
	return records, nil, err
}

// OpenKeystore connects to the configured answer archive; it returns nil when none is configured.
func OpenKeystore(ctx context.Context, config KeystoreConfig) (*keystore.Store, error) {
	if config.DSN == "" {
		return nil, nil
	}
	return keystore.Open(ctx, config.Driver, config.DSN)
}
