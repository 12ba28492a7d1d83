// Package upload validates files locally and drives single, batch and PDF
// uploads through the API layer with per-invocation state tracking.
package upload

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/fitadmin/internal/apierr"
	"github.com/studiowebux/fitadmin/internal/config"
	"github.com/studiowebux/fitadmin/internal/notify"
	"github.com/studiowebux/fitadmin/internal/types"
)

// Uploader is the transport the orchestrator drives
type Uploader interface {
	UploadImage(ctx context.Context, file types.UploadFile) (string, error)
	ConvertPdf(ctx context.Context, file types.UploadFile) (types.PdfConversion, error)
}

// Options configure validation limits and notification behavior
type Options struct {
	MinWidth      int
	MinHeight     int
	MaxImageBytes int64
	MaxPdfBytes   int64
	ShowToast     bool
	// MaxConcurrent bounds parallel decodes and uploads in a batch, 0 = unbounded
	MaxConcurrent int
	// Decoder reads image dimensions, defaults to ImageDecoder
	Decoder DimensionDecoder
	// OnState observes every state change
	OnState func(op string, s State)
}

// OptionsFrom maps runtime options to orchestrator options
func OptionsFrom(o config.Options) Options {
	return Options{
		MinWidth:      o.MinWidth,
		MinHeight:     o.MinHeight,
		MaxImageBytes: o.MaxImageBytes,
		MaxPdfBytes:   o.MaxPdfBytes,
		ShowToast:     o.ShowToast,
		MaxConcurrent: o.MaxConcurrentUploads,
	}
}

// DefaultOptions returns the built-in limits
func DefaultOptions() Options {
	return OptionsFrom(config.Default())
}

// Orchestrator runs upload invocations. It holds no per-invocation state and
// is safe for concurrent use.
type Orchestrator struct {
	uploader Uploader
	notifier notify.Notifier
	decoder  DimensionDecoder
	opts     Options
	log      zerolog.Logger
}

// New creates an orchestrator
func New(uploader Uploader, notifier notify.Notifier, opts Options, log zerolog.Logger) *Orchestrator {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	decoder := opts.Decoder
	if decoder == nil {
		decoder = ImageDecoder
	}
	return &Orchestrator{
		uploader: uploader,
		notifier: notify.Toggle{Enabled: opts.ShowToast, Next: notifier},
		decoder:  decoder,
		opts:     opts,
		log:      log.With().Str("component", "upload").Logger(),
	}
}

// BatchError is returned when at least one file of a batch failed to
// upload. It unwraps to the first failure in input order.
type BatchError struct {
	Result *types.UploadBatchResult
	Err    error
}

func (e *BatchError) Error() string {
	return e.Err.Error()
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// UploadImage validates one image and uploads it, returning the
// server-assigned filename.
func (o *Orchestrator) UploadImage(ctx context.Context, file types.UploadFile) (string, error) {
	r := newRun("upload_image", o.opts.OnState, o.log)
	r.to(StateValidating)

	if err := o.checkImageFile(file, false); err != nil {
		return "", o.rejectValidation(r, err)
	}
	if err := o.checkDimensions(file, false); err != nil {
		return "", o.rejectValidation(r, err)
	}

	r.to(StateUploading)
	name, err := o.uploader.UploadImage(ctx, file)
	if err != nil {
		return "", o.rejectUpload(r, "Upload failed", err)
	}

	r.to(StateSucceeded)
	o.log.Info().Str("file", file.Name).Str("filename", name).Msg("Image uploaded")
	notify.Success(o.notifier, "Image uploaded successfully")
	return name, nil
}

// UploadImages validates and uploads a batch. Validation runs in phases:
// type and size for every file, then dimensions for every file, then the
// uploads. A failure in one phase stops the later phases. Within a phase
// every file settles before the outcome is decided. Filenames are returned
// in input order.
func (o *Orchestrator) UploadImages(ctx context.Context, files []types.UploadFile) ([]string, error) {
	r := newRun("upload_images", o.opts.OnState, o.log)
	r.to(StateValidating)

	for _, f := range files {
		if err := o.checkImageFile(f, true); err != nil {
			return nil, o.rejectValidation(r, err)
		}
	}

	dimErrs := make([]error, len(files))
	o.each(files, func(i int, f types.UploadFile) {
		dimErrs[i] = o.checkDimensions(f, true)
	})
	for _, err := range dimErrs {
		if err != nil {
			return nil, o.rejectValidation(r, err)
		}
	}

	r.to(StateUploading)
	result := &types.UploadBatchResult{Outcomes: make([]types.UploadOutcome, len(files))}
	o.each(files, func(i int, f types.UploadFile) {
		name, err := o.uploader.UploadImage(ctx, f)
		result.Outcomes[i] = types.UploadOutcome{Index: i, File: f.Name, Filename: name, Error: err}
	})

	if err := result.FirstError(); err != nil {
		o.log.Warn().
			Int("failed", len(result.Failed())).
			Int("total", len(files)).
			Msg("Batch upload failed")
		return nil, o.rejectUpload(r, "Upload failed", &BatchError{Result: result, Err: err})
	}

	names := result.Filenames()
	r.to(StateSucceeded)
	o.log.Info().Int("count", len(names)).Msg("Images uploaded")
	if len(files) > 0 {
		notify.Success(o.notifier, fmt.Sprintf("%d images uploaded successfully", len(names)))
	}
	return names, nil
}

// ConvertPdf validates a PDF and submits it for conversion to page images
func (o *Orchestrator) ConvertPdf(ctx context.Context, file types.UploadFile) (types.PdfConversion, error) {
	r := newRun("convert_pdf", o.opts.OnState, o.log)
	r.to(StateValidating)

	if err := o.checkPdfFile(file); err != nil {
		return types.PdfConversion{}, o.rejectValidation(r, err)
	}

	r.to(StateUploading)
	conv, err := o.uploader.ConvertPdf(ctx, file)
	if err != nil {
		return types.PdfConversion{}, o.rejectUpload(r, "Conversion failed", err)
	}

	r.to(StateSucceeded)
	o.log.Info().Str("file", file.Name).Int("pages", conv.TotalPages).Msg("PDF converted")
	notify.Success(o.notifier, fmt.Sprintf("PDF converted: %d pages", conv.TotalPages))
	return conv, nil
}

// each runs fn for every file and waits for all of them. Results go into
// caller-owned slots indexed by position, so completion order is irrelevant.
func (o *Orchestrator) each(files []types.UploadFile, fn func(i int, f types.UploadFile)) {
	var g errgroup.Group
	if o.opts.MaxConcurrent > 0 {
		g.SetLimit(o.opts.MaxConcurrent)
	}
	for i, f := range files {
		g.Go(func() error {
			fn(i, f)
			return nil
		})
	}
	_ = g.Wait()
}

func (o *Orchestrator) rejectValidation(r *run, err error) error {
	r.to(StateFailed)
	o.log.Warn().Str("op", r.op).Err(err).Msg("Upload validation failed")
	if o.opts.ShowToast {
		notify.Error(o.notifier, err.Error())
		apierr.MarkSurfaced(err)
	}
	return err
}

// rejectUpload surfaces a transport failure unless the API layer already did
func (o *Orchestrator) rejectUpload(r *run, prefix string, err error) error {
	r.to(StateFailed)
	o.log.Error().Str("op", r.op).Err(err).Msg("Upload failed")
	if o.opts.ShowToast && !apierr.Surfaced(err) {
		notify.Error(o.notifier, prefix+": "+err.Error())
	}
	return err
}
