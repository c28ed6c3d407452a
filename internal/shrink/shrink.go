// Package shrink re-encodes an image so that its encoded size fits a byte
// budget.
//
// A call runs three stages in order: the source is normalized to opaque
// truecolor, its resolution is capped, and the encoder is invoked at
// decreasing quality levels until the output fits. If no quality fits, the
// image is downsampled once more to a smaller cap and encoded a final time at
// the minimum quality. Resolution never increases during a call.
//
// A Shrinker holds no mutable state and may be shared between goroutines as
// long as its Encoder is safe for concurrent use.
package shrink

import (
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
)

// Encoder encodes an image at a quality level (1-100).
type Encoder interface {
	Encode(img image.Image, quality int) ([]byte, error)
}

var errEmptyOutput = errors.New("encoder returned no data")

// Attempt describes one encode performed during a search.
type Attempt struct {
	Quality  int
	Size     int
	Width    int
	Height   int
	Fallback bool // attempt made at the secondary resolution cap
}

// Result is a successful encoding that fits the budget.
type Result struct {
	Data     []byte
	Quality  int
	Width    int
	Height   int
	Mode     ColorMode // color mode of the source before normalization
	Resized  bool      // output resolution is below the source resolution
	Fallback bool      // produced by the secondary resize attempt
	Attempts int

	// Transparent is set when the source had at least one non-opaque pixel.
	Transparent bool
}

// Size returns the encoded length in bytes.
func (r *Result) Size() int { return len(r.Data) }

// Shrinker runs the size-constrained search with a fixed encoder and options.
type Shrinker struct {
	enc  Encoder
	opts Options
}

// New returns a Shrinker. Zero-valued option fields are not filled in; start
// from DefaultOptions.
func New(enc Encoder, opts Options) (*Shrinker, error) {
	if enc == nil {
		return nil, fmt.Errorf("%w: nil encoder", ErrInvalidOptions)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Shrinker{enc: enc, opts: opts}, nil
}

// Options returns the options the Shrinker was built with.
func (s *Shrinker) Options() Options { return s.opts }

// Compress normalizes img and returns an encoding no larger than budget
// bytes. It fails with a *SizeError when the search is exhausted, or with the
// encoder's error as soon as an encode fails. img is not modified.
func (s *Shrinker) Compress(img image.Image, budget int) (*Result, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}
	mode := DetectMode(img)
	res, err := s.Fit(NormalizeMode(img, mode), budget)
	if err != nil {
		return nil, err
	}
	res.Mode = mode
	res.Transparent = mode.HasAlpha() && HasTransparency(img)
	return res, nil
}

// Fit runs the search on an image that is already opaque truecolor.
func (s *Shrinker) Fit(canonical *image.NRGBA, budget int) (*Result, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}
	srcW, srcH := canonical.Bounds().Dx(), canonical.Bounds().Dy()
	run := search{budget: budget, onAttempt: s.opts.OnAttempt}

	cur := CapResolution(canonical, s.opts.MaxDimension)
	if cur != canonical {
		log.Info().
			Int("from_w", srcW).Int("from_h", srcH).
			Int("to_w", cur.Bounds().Dx()).Int("to_h", cur.Bounds().Dy()).
			Msg("resized to resolution cap")
	}

	for q := s.opts.InitialQuality; q >= s.opts.MinQuality; q = s.opts.Schedule.Next(q) {
		data, err := run.encode(s.enc, cur, q, false)
		if err != nil {
			return nil, err
		}
		if len(data) <= budget {
			return run.result(data, q, cur, srcW, srcH, false), nil
		}
	}

	if longestSide(cur) <= s.opts.SecondaryMaxDimension {
		return nil, run.failure()
	}

	small := CapResolution(canonical, s.opts.SecondaryMaxDimension)
	log.Info().
		Int("to_w", small.Bounds().Dx()).Int("to_h", small.Bounds().Dy()).
		Msg("quality exhausted, resized to secondary cap")

	data, err := run.encode(s.enc, small, s.opts.MinQuality, true)
	if err != nil {
		return nil, err
	}
	if len(data) <= budget {
		return run.result(data, s.opts.MinQuality, small, srcW, srcH, true), nil
	}
	return nil, run.failure()
}

// search tracks the attempts of one call.
type search struct {
	budget    int
	onAttempt func(Attempt)
	attempts  int
	smallest  int
	last      int
}

func (r *search) encode(enc Encoder, img *image.NRGBA, quality int, fallback bool) ([]byte, error) {
	data, err := enc.Encode(img, quality)
	if err == nil && len(data) == 0 {
		err = errEmptyOutput
	}
	if err != nil {
		return nil, fmt.Errorf("encode at quality %d: %w", quality, err)
	}

	n := len(data)
	r.attempts++
	r.last = n
	if r.attempts == 1 || n < r.smallest {
		r.smallest = n
	}

	b := img.Bounds()
	log.Debug().
		Int("quality", quality).Int("size", n).Int("budget", r.budget).
		Bool("fallback", fallback).
		Msg("encode attempt")
	if r.onAttempt != nil {
		r.onAttempt(Attempt{
			Quality:  quality,
			Size:     n,
			Width:    b.Dx(),
			Height:   b.Dy(),
			Fallback: fallback,
		})
	}
	return data, nil
}

func (r *search) result(data []byte, quality int, img *image.NRGBA, srcW, srcH int, fallback bool) *Result {
	b := img.Bounds()
	return &Result{
		Data:     data,
		Quality:  quality,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Resized:  b.Dx() != srcW || b.Dy() != srcH,
		Fallback: fallback,
		Attempts: r.attempts,
	}
}

func (r *search) failure() *SizeError {
	return &SizeError{
		Budget:   r.budget,
		Smallest: r.smallest,
		Last:     r.last,
		Attempts: r.attempts,
	}
}
